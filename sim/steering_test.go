package sim

import (
	"slices"
	"testing"

	"github.com/murmursim/murmur/geom"
)

// newTestSim builds a simulation with explicit agent state instead of the
// random spawn path.
func newTestSim(w, h float32, p Params, agents []Agent) *Simulation {
	s := New(w, h, p, 1, 0)
	for i := range agents {
		if agents[i].Trail.Cap() == 0 {
			agents[i].Trail = NewTrail(p.TrailLength)
		}
	}
	s.agents = agents
	s.nextID = uint32(len(agents))
	return s
}

// Two agents inside each other's perception radius with only separation
// enabled must accelerate directly away from each other.
func TestSeparationPushesApart(t *testing.T) {
	p := DefaultParams()
	p.Alignment = 0
	p.Cohesion = 0
	p.Separation = 1
	p.NoiseStrength = 0
	p.EdgeMargin = 0

	s := newTestSim(500, 500, p, []Agent{
		{ID: 0, Pos: geom.Vec2{X: 240, Y: 250}},
		{ID: 1, Pos: geom.Vec2{X: 260, Y: 250}},
	})
	s.grid.Rebuild(s.agents, p.PerceptionRadius, 500, 500)

	cand := s.grid.QueryInto(nil, 240, 250, p.PerceptionRadius)
	out := s.computeSteering(0, cand, geom.Vec2{})
	if out.neighbors != 1 {
		t.Fatalf("neighbors = %d, want 1", out.neighbors)
	}
	if out.acc.X >= 0 {
		t.Fatalf("left agent must be pushed further left, acc = %v", out.acc)
	}
	// Separation alone changes velocity by at most MaxForce * Separation
	// in one tick.
	if bound := p.MaxForce * p.Separation; out.acc.Len() > bound+boundaryEps {
		t.Fatalf("separation acc %v exceeds bound %v", out.acc.Len(), bound)
	}

	cand = s.grid.QueryInto(cand[:0], 260, 250, p.PerceptionRadius)
	out = s.computeSteering(1, cand, geom.Vec2{})
	if out.acc.X <= 0 {
		t.Fatalf("right agent must be pushed further right, acc = %v", out.acc)
	}
	if bound := p.MaxForce * p.Separation; out.acc.Len() > bound+boundaryEps {
		t.Fatalf("separation acc %v exceeds bound %v", out.acc.Len(), bound)
	}
}

// With no neighbors, no noise, no cursor, and no edge margin, steering is
// exactly zero, so an isolated agent travels in a straight line.
func TestZeroNeighborsZeroForce(t *testing.T) {
	p := DefaultParams()
	p.NoiseStrength = 0
	p.EdgeMargin = 0

	s := newTestSim(1000, 1000, p, []Agent{
		{ID: 0, Pos: geom.Vec2{X: 500, Y: 500}, Vel: geom.Vec2{X: 1, Y: 0}},
	})
	s.grid.Rebuild(s.agents, p.PerceptionRadius, 1000, 1000)

	cand := s.grid.QueryInto(nil, 500, 500, p.PerceptionRadius)
	out := s.computeSteering(0, cand, geom.Vec2{})
	if out.acc != (geom.Vec2{}) {
		t.Fatalf("isolated agent acc = %v, want zero", out.acc)
	}
	if out.neighbors != 0 {
		t.Fatalf("neighbors = %d, want 0", out.neighbors)
	}

	for i := 0; i < 50; i++ {
		s.StepInPlace()
	}
	a := s.Agents()[0]
	if !approx(a.Pos.X, 550) || !approx(a.Pos.Y, 500) {
		t.Fatalf("after 50 ticks: pos = %v, want (550, 500)", a.Pos)
	}
	if a.Vel != (geom.Vec2{X: 1, Y: 0}) {
		t.Fatalf("velocity drifted: %v", a.Vel)
	}
}

// The candidate superset from the grid must produce the same steering as a
// brute-force all-pairs candidate list; the exact distance filter inside
// makes the over-returned candidates irrelevant. Float accumulation is
// order-sensitive, so the grid candidates are sorted into index order to
// compare against the index-ordered all-pairs list bit for bit.
func TestSteeringInvariantToCandidateSuperset(t *testing.T) {
	p := DefaultParams()
	p.NoiseStrength = 0

	agents := randomAgents(60, 400, 400, 9)
	s := newTestSim(400, 400, p, agents)
	s.grid.Rebuild(s.agents, p.PerceptionRadius, 400, 400)

	all := make([]int32, len(agents))
	for i := range all {
		all[i] = int32(i)
	}

	var cand []int32
	for i := range agents {
		cand = s.grid.QueryInto(cand[:0], agents[i].Pos.X, agents[i].Pos.Y, p.PerceptionRadius)
		slices.Sort(cand)
		fromGrid := s.computeSteering(i, cand, geom.Vec2{})
		fromAll := s.computeSteering(i, all, geom.Vec2{})
		if fromGrid != fromAll {
			t.Fatalf("agent %d: grid candidates gave %+v, all-pairs gave %+v", i, fromGrid, fromAll)
		}
	}
}

func TestCursorForceDirectionAndBoost(t *testing.T) {
	p := DefaultParams()
	p.AttractionMode = AttractPull

	a := Agent{Pos: geom.Vec2{X: 100, Y: 200}}
	cur := &Cursor{Pos: geom.Vec2{X: 300, Y: 200}}

	pull := cursorForce(&a, 0, &p, cur)
	if pull.X <= 0 {
		t.Fatalf("pull force must point toward the cursor, got %v", pull)
	}

	p.AttractionMode = AttractPush
	push := cursorForce(&a, 0, &p, cur)
	if push.X >= 0 {
		t.Fatalf("push force must point away from the cursor, got %v", push)
	}

	p.AttractionMode = AttractPull
	cur.Boost = true
	boosted := cursorForce(&a, 0, &p, cur)
	want := pull.Scale(p.AttractBoost)
	if !approx(boosted.X, want.X) || !approx(boosted.Y, want.Y) {
		t.Fatalf("boosted force = %v, want %v", boosted, want)
	}
}

// Crowd damping shrinks the cursor force as the local neighbor count grows.
func TestCursorForceCrowdDamping(t *testing.T) {
	p := DefaultParams()
	p.AttractionMode = AttractPull

	a := Agent{Pos: geom.Vec2{X: 100, Y: 200}}
	cur := &Cursor{Pos: geom.Vec2{X: 400, Y: 200}}

	lone := cursorForce(&a, 0, &p, cur).Len()
	crowded := cursorForce(&a, 12, &p, cur).Len()
	if crowded >= lone {
		t.Fatalf("crowded force %v not smaller than lone force %v", crowded, lone)
	}
}

// The cursor steering itself is capped below a full behavior's force so it
// biases the flock rather than overriding it.
func TestCursorForceCap(t *testing.T) {
	p := DefaultParams()
	p.AttractionMode = AttractPull
	p.Attraction = 1

	// An agent at rest right next to the cursor maximizes falloff.
	a := Agent{Pos: geom.Vec2{X: 100, Y: 100}}
	cur := &Cursor{Pos: geom.Vec2{X: 101, Y: 100}}

	f := cursorForce(&a, 0, &p, cur).Len()
	if f > cursorForceCapFrac*p.MaxForce+boundaryEps {
		t.Fatalf("cursor force %v exceeds cap %v", f, cursorForceCapFrac*p.MaxForce)
	}
}

func TestEdgeForceOnlyOnBouncingAxes(t *testing.T) {
	p := DefaultParams()
	p.EdgeMargin = 40

	a := Agent{Pos: geom.Vec2{X: 10, Y: 10}}

	p.Boundary = BoundaryPlane
	f := edgeForce(&a, &p, 500, 500)
	if f.X <= 0 || f.Y <= 0 {
		t.Fatalf("plane: corner agent must be pushed inward on both axes, got %v", f)
	}

	p.Boundary = BoundaryCylinderX
	f = edgeForce(&a, &p, 500, 500)
	if f.X != 0 {
		t.Fatalf("cylinderX: glued X axis must have no edge force, got %v", f)
	}
	if f.Y <= 0 {
		t.Fatalf("cylinderX: bouncing Y axis must push inward, got %v", f)
	}

	p.Boundary = BoundaryTorus
	f = edgeForce(&a, &p, 500, 500)
	if f != (geom.Vec2{}) {
		t.Fatalf("torus: fully glued domain must have no edge force, got %v", f)
	}
}
