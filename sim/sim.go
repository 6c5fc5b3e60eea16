package sim

import (
	"math"
	"math/rand/v2"

	"github.com/murmursim/murmur/geom"
)

// Cursor is the pointer state agents react to when attraction is enabled.
// Boost marks an active drag as opposed to a passive hover.
type Cursor struct {
	Pos   geom.Vec2
	Boost bool
}

// Simulation owns the full flock state. It is single-threaded: one Step
// call per host tick, no internal goroutines (StepParallel fans the
// read-only steering pass out over a Pool but synchronizes before
// returning). All mutation happens between ticks.
type Simulation struct {
	w, h    float32
	params  Params
	agents  []Agent
	grid    *Grid
	src     *rand.PCG
	rng     *rand.Rand
	nextID  uint32
	cursor  *Cursor
	running bool
	tick    uint64

	// Cumulative boundary event count (wraps and bounces), for telemetry.
	seamEvents uint64

	// Per-tick scratch, reused across ticks.
	outs  []steerOutput
	noise []geom.Vec2
	cand  []int32
}

// New creates a simulation with n randomly placed agents. Degenerate world
// dimensions are clamped so grid construction never divides by zero.
func New(w, h float32, p Params, seed uint64, n int) *Simulation {
	if w < 1 {
		w = 1
	}
	if h < 1 {
		h = 1
	}
	p.sanitize()

	src := rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)
	s := &Simulation{
		w:       w,
		h:       h,
		params:  p,
		grid:    NewGrid(),
		src:     src,
		rng:     rand.New(src),
		running: true,
	}
	s.SetPopulation(n)
	return s
}

// Agents returns the live agent slice. Callers must treat it as read-only
// and must not retain it across ticks in in-place mode.
func (s *Simulation) Agents() []Agent { return s.agents }

// Params returns the current parameters.
func (s *Simulation) Params() Params { return s.params }

// World returns the domain dimensions.
func (s *Simulation) World() (w, h float32) { return s.w, s.h }

// Tick returns the number of completed steps.
func (s *Simulation) Tick() uint64 { return s.tick }

// SeamEvents returns the cumulative wrap/bounce event count.
func (s *Simulation) SeamEvents() uint64 { return s.seamEvents }

// Running reports whether Step advances the simulation.
func (s *Simulation) Running() bool { return s.running }

// SetRunning pauses or resumes stepping.
func (s *Simulation) SetRunning(run bool) { s.running = run }

// SetParams replaces the parameter set. Trail buffers are resized lazily on
// the next tick; everything else takes effect immediately.
func (s *Simulation) SetParams(p Params) {
	p.sanitize()
	s.params = p
}

// SetWorldSize changes the domain. Agents outside the new bounds are pulled
// back in by the boundary handler on the next tick.
func (s *Simulation) SetWorldSize(w, h float32) {
	if w < 1 {
		w = 1
	}
	if h < 1 {
		h = 1
	}
	s.w = w
	s.h = h
}

// SetCursor places the cursor in world coordinates.
func (s *Simulation) SetCursor(pos geom.Vec2, boost bool) {
	if s.cursor == nil {
		s.cursor = &Cursor{}
	}
	s.cursor.Pos = pos
	s.cursor.Boost = boost
}

// ClearCursor removes cursor influence entirely.
func (s *Simulation) ClearCursor() { s.cursor = nil }

// SetPopulation grows or shrinks the flock to n agents. New agents get
// fresh IDs (never reused while their predecessors live) and random state;
// shrinking truncates from the end. Negative n is treated as zero.
func (s *Simulation) SetPopulation(n int) {
	if n < 0 {
		n = 0
	}
	if n <= len(s.agents) {
		s.agents = s.agents[:n]
		return
	}
	for len(s.agents) < n {
		s.agents = append(s.agents, newAgent(s.nextID, s.w, s.h, &s.params, s.rng))
		s.nextID++
	}
}

// StepInPlace advances the simulation one tick, mutating state in place.
// This is the allocation-free path for tight render loops.
func (s *Simulation) StepInPlace() {
	if !s.running {
		return
	}
	s.stepSerial()
}

// Step advances a deep copy of the simulation one tick and returns it,
// leaving the receiver untouched. The copy's RNG continues the receiver's
// stream, so Step and StepInPlace produce identical physics from identical
// starting states.
func (s *Simulation) Step() *Simulation {
	next := s.clone()
	next.StepInPlace()
	return next
}

// clone deep-copies the simulation, including trail buffers and RNG state.
func (s *Simulation) clone() *Simulation {
	agents := make([]Agent, len(s.agents))
	copy(agents, s.agents)
	for i := range agents {
		agents[i].Trail = agents[i].Trail.clone()
	}

	src := &rand.PCG{}
	state, err := s.src.MarshalBinary()
	if err == nil {
		// UnmarshalBinary only fails on a corrupt payload, which a
		// fresh MarshalBinary cannot produce.
		_ = src.UnmarshalBinary(state)
	}

	next := &Simulation{
		w:          s.w,
		h:          s.h,
		params:     s.params,
		agents:     agents,
		grid:       NewGrid(),
		src:        src,
		rng:        rand.New(src),
		nextID:     s.nextID,
		running:    s.running,
		tick:       s.tick,
		seamEvents: s.seamEvents,
	}
	if s.cursor != nil {
		c := *s.cursor
		next.cursor = &c
	}
	return next
}

// stepSerial is the reference stepping path: rebuild the grid from the
// pre-tick snapshot, compute every agent's steering from that snapshot,
// then integrate. The two phases guarantee agent N's update never affects
// agent M's neighbor computation within the same tick.
func (s *Simulation) stepSerial() {
	p := &s.params
	s.grid.Rebuild(s.agents, p.PerceptionRadius, s.w, s.h)
	s.ensureScratch()
	s.drawNoise()

	for i := range s.agents {
		s.cand = s.grid.QueryInto(s.cand[:0], s.agents[i].Pos.X, s.agents[i].Pos.Y, p.PerceptionRadius)
		s.outs[i] = s.computeSteering(i, s.cand, s.noise[i])
	}

	s.integrate()
	s.tick++
}

// ensureScratch sizes the per-tick buffers to the population.
func (s *Simulation) ensureScratch() {
	n := len(s.agents)
	if cap(s.outs) < n {
		s.outs = make([]steerOutput, n)
		s.noise = make([]geom.Vec2, n)
	}
	s.outs = s.outs[:n]
	s.noise = s.noise[:n]
}

// drawNoise pre-draws one noise direction per agent in index order. Doing
// this up front keeps the RNG stream identical between the serial and
// parallel stepping paths: exactly one draw per agent whenever noise is
// enabled, none when it is not.
func (s *Simulation) drawNoise() {
	if s.params.NoiseStrength == 0 {
		for i := range s.noise {
			s.noise[i] = geom.Vec2{}
		}
		return
	}
	for i := range s.noise {
		s.noise[i] = geom.FromAngle(float32(s.rng.Float64() * 2 * math.Pi))
	}
}

// integrate applies the computed accelerations: velocity update with speed
// clamp, position update, boundary handling, trail append.
func (s *Simulation) integrate() {
	p := &s.params
	for i := range s.agents {
		a := &s.agents[i]
		out := s.outs[i]

		a.Acc = out.acc
		a.NeighborCount = out.neighbors
		a.Vel.AddInPlace(out.acc)
		a.Vel.LimitInPlace(p.MaxSpeed)
		a.Pos.AddInPlace(a.Vel)

		crossed := applyBoundary(a, s.w, s.h, p.Boundary)
		if crossed {
			s.seamEvents++
		}

		if a.Trail.Cap() != p.TrailLength {
			a.Trail.Resize(p.TrailLength)
		}
		a.Trail.Push(TrailPoint{X: a.Pos.X, Y: a.Pos.Y, Break: crossed})
	}
}
