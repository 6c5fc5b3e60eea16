package sim

import (
	"testing"

	"github.com/murmursim/murmur/geom"
)

func agentsEqual(t *testing.T, got, want []Agent, label string) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("%s: population %d, want %d", label, len(got), len(want))
	}
	for i := range got {
		g, w := &got[i], &want[i]
		if g.ID != w.ID || g.Pos != w.Pos || g.Vel != w.Vel || g.Acc != w.Acc ||
			g.NeighborCount != w.NeighborCount {
			t.Fatalf("%s: agent %d differs:\n got  %+v\n want %+v", label, i, *g, *w)
		}
		if g.Trail.Len() != w.Trail.Len() {
			t.Fatalf("%s: agent %d trail len %d, want %d", label, i, g.Trail.Len(), w.Trail.Len())
		}
		for j := 0; j < g.Trail.Len(); j++ {
			if g.Trail.At(j) != w.Trail.At(j) {
				t.Fatalf("%s: agent %d trail point %d: %v, want %v",
					label, i, j, g.Trail.At(j), w.Trail.At(j))
			}
		}
	}
}

func TestSpeedNeverExceedsMax(t *testing.T) {
	p := DefaultParams()
	s := New(800, 600, p, 42, 150)

	for tick := 0; tick < 200; tick++ {
		s.StepInPlace()
		for i, a := range s.Agents() {
			if sp := a.Vel.Len(); sp > p.MaxSpeed+boundaryEps {
				t.Fatalf("tick %d agent %d: speed %v exceeds max %v", tick, i, sp, p.MaxSpeed)
			}
		}
	}
}

func TestAgentsStayInsideDomain(t *testing.T) {
	const w, h = 600, 400
	for m := BoundaryPlane; m < numBoundaryModes; m++ {
		t.Run(m.String(), func(t *testing.T) {
			p := DefaultParams()
			p.Boundary = m
			s := New(w, h, p, uint64(m)+100, 120)

			for tick := 0; tick < 150; tick++ {
				s.StepInPlace()
				for i, a := range s.Agents() {
					if a.Pos.X < 0 || a.Pos.X > w || a.Pos.Y < 0 || a.Pos.Y > h {
						t.Fatalf("tick %d agent %d escaped: %v", tick, i, a.Pos)
					}
				}
			}
		})
	}
}

func TestIDsUniqueAcrossResizes(t *testing.T) {
	s := New(500, 500, DefaultParams(), 7, 30)
	s.StepInPlace()
	s.SetPopulation(10)
	s.StepInPlace()
	s.SetPopulation(50)
	s.StepInPlace()
	s.SetPopulation(20)
	s.SetPopulation(80)

	seen := make(map[uint32]bool)
	for _, a := range s.Agents() {
		if seen[a.ID] {
			t.Fatalf("duplicate agent ID %d", a.ID)
		}
		seen[a.ID] = true
	}
}

// Growing the population must not disturb existing agents: their state at
// the moment of growth is exactly what it was before.
func TestGrowthPreservesExistingAgents(t *testing.T) {
	s := New(500, 500, DefaultParams(), 13, 10)
	for i := 0; i < 20; i++ {
		s.StepInPlace()
	}

	before := s.clone()
	s.SetPopulation(20)
	if len(s.Agents()) != 20 {
		t.Fatalf("population = %d, want 20", len(s.Agents()))
	}
	agentsEqual(t, s.Agents()[:10], before.Agents(), "first 10 after growth")

	for _, a := range s.Agents()[10:] {
		if a.ID < 10 {
			t.Fatalf("new agent reuses ID %d", a.ID)
		}
	}
}

func TestShrinkTruncatesFromEnd(t *testing.T) {
	s := New(500, 500, DefaultParams(), 17, 30)
	s.StepInPlace()

	before := s.clone()
	s.SetPopulation(12)
	agentsEqual(t, s.Agents(), before.Agents()[:12], "survivors after shrink")
}

// Changing TrailLength takes effect lazily: after the next tick every trail
// has the new capacity and kept its most recent points.
func TestTrailResizeViaParams(t *testing.T) {
	p := DefaultParams()
	p.TrailLength = 30
	s := New(500, 500, p, 23, 20)
	for i := 0; i < 40; i++ {
		s.StepInPlace()
	}

	// Remember the tail of each trail before the resize.
	type tail struct{ pts [4]TrailPoint }
	tails := make([]tail, len(s.Agents()))
	for i, a := range s.Agents() {
		for j := 0; j < 4; j++ {
			tails[i].pts[j] = a.Trail.At(a.Trail.Len() - 4 + j)
		}
	}

	np := p
	np.TrailLength = 5
	s.SetParams(np)
	s.StepInPlace()

	for i, a := range s.Agents() {
		if a.Trail.Cap() != 5 || a.Trail.Len() != 5 {
			t.Fatalf("agent %d trail cap/len = %d/%d, want 5/5", i, a.Trail.Cap(), a.Trail.Len())
		}
		// The 4 newest pre-resize points survive, followed by the new
		// tick's point.
		for j := 0; j < 4; j++ {
			if a.Trail.At(j) != tails[i].pts[j] {
				t.Fatalf("agent %d trail point %d lost in resize", i, j)
			}
		}
	}
}

// The functional step and the in-place step must produce bit-identical
// results, and stepping a copy must never mutate the original.
func TestStepMatchesStepInPlace(t *testing.T) {
	p := DefaultParams()
	a := New(700, 500, p, 99, 80)
	b := New(700, 500, p, 99, 80)
	agentsEqual(t, a.Agents(), b.Agents(), "initial state")

	cur := a.clone()
	for i := 0; i < 30; i++ {
		a.StepInPlace()
		cur = cur.Step()
	}
	agentsEqual(t, cur.Agents(), a.Agents(), "functional vs in-place")

	frozen := b.clone()
	_ = b.Step()
	agentsEqual(t, b.Agents(), frozen.Agents(), "original after functional step")
	if b.Tick() != frozen.Tick() {
		t.Fatalf("functional step advanced the original's tick to %d", b.Tick())
	}
}

func TestStepParallelMatchesSerial(t *testing.T) {
	p := DefaultParams()
	serial := New(900, 700, p, 321, 200)
	parallel := New(900, 700, p, 321, 200)

	pool := NewPool()
	defer pool.Stop()

	for i := 0; i < 40; i++ {
		serial.StepInPlace()
		parallel.StepParallel(pool)
	}
	agentsEqual(t, parallel.Agents(), serial.Agents(), "parallel vs serial")
	if parallel.SeamEvents() != serial.SeamEvents() {
		t.Fatalf("seam events %d, want %d", parallel.SeamEvents(), serial.SeamEvents())
	}
}

func TestPauseStopsStepping(t *testing.T) {
	s := New(400, 400, DefaultParams(), 5, 20)
	s.SetRunning(false)
	before := s.clone()
	s.StepInPlace()
	agentsEqual(t, s.Agents(), before.Agents(), "paused step")
	if s.Tick() != 0 {
		t.Fatalf("tick advanced while paused: %d", s.Tick())
	}
}

func TestSeamEventsCount(t *testing.T) {
	p := DefaultParams()
	p.Boundary = BoundaryTorus
	p.NoiseStrength = 0

	s := newTestSim(100, 100, p, []Agent{
		{ID: 0, Pos: geom.Vec2{X: 99, Y: 50}, Vel: geom.Vec2{X: 3, Y: 0}},
	})
	s.StepInPlace()
	if s.SeamEvents() != 1 {
		t.Fatalf("seam events = %d, want 1", s.SeamEvents())
	}
	a := s.Agents()[0]
	last := a.Trail.At(a.Trail.Len() - 1)
	if !last.Break {
		t.Fatal("seam crossing must tag the trail point with Break")
	}
}

func TestCursorLifecycle(t *testing.T) {
	p := DefaultParams()
	p.AttractionMode = AttractPull
	p.NoiseStrength = 0
	p.EdgeMargin = 0

	s := newTestSim(500, 500, p, []Agent{
		{ID: 0, Pos: geom.Vec2{X: 100, Y: 250}},
	})

	s.SetCursor(geom.Vec2{X: 400, Y: 250}, false)
	s.StepInPlace()
	if v := s.Agents()[0].Vel.X; v <= 0 {
		t.Fatalf("agent must accelerate toward the cursor, Vel.X = %v", v)
	}

	// Clearing the cursor removes the force entirely.
	s.ClearCursor()
	vel := s.Agents()[0].Vel
	s.StepInPlace()
	if s.Agents()[0].Vel != vel {
		t.Fatalf("velocity changed without any active force: %v -> %v", vel, s.Agents()[0].Vel)
	}
}
