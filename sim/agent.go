package sim

import (
	"math/rand/v2"

	"github.com/murmursim/murmur/geom"
)

// Agent is a single boid.
type Agent struct {
	// ID is stable for the agent's lifetime and never reused while the
	// agent is alive.
	ID uint32

	Pos geom.Vec2
	Vel geom.Vec2
	// Acc is transient: overwritten every tick, kept for inspection.
	Acc geom.Vec2

	Trail Trail

	// NeighborCount is the neighbor total from the last steering pass.
	// It is a rendering hint (colorization) and may be one frame stale.
	NeighborCount int
}

// newAgent spawns an agent with a random position inside the world and a
// random velocity at half max speed.
func newAgent(id uint32, w, h float32, p *Params, rng *rand.Rand) Agent {
	vel := geom.FromAngle(float32(rng.Float64() * 2 * 3.14159265)).Scale(p.MaxSpeed * 0.5)
	a := Agent{
		ID:    id,
		Pos:   geom.Vec2{X: float32(rng.Float64()) * w, Y: float32(rng.Float64()) * h},
		Vel:   vel,
		Trail: NewTrail(p.TrailLength),
	}
	return a
}

// TrailPoint is one entry of an agent's position history. Break marks the
// first point after a boundary seam crossing: renderers must not draw a
// segment from the previous point into this one. A tagged flag is used
// instead of an in-band NaN sentinel so accidental arithmetic on trail
// points cannot silently poison later values.
type TrailPoint struct {
	X, Y  float32
	Break bool
}

// Trail is a fixed-capacity ring buffer of recent positions.
type Trail struct {
	pts   []TrailPoint
	head  int // next write slot
	count int
}

// NewTrail creates a trail with the given capacity (minimum 2).
func NewTrail(capacity int) Trail {
	if capacity < 2 {
		capacity = 2
	}
	return Trail{pts: make([]TrailPoint, capacity)}
}

// Cap returns the trail capacity.
func (t *Trail) Cap() int { return len(t.pts) }

// Len returns the number of stored points.
func (t *Trail) Len() int { return t.count }

// Push appends a point, evicting the oldest when full.
func (t *Trail) Push(p TrailPoint) {
	t.pts[t.head] = p
	t.head = (t.head + 1) % len(t.pts)
	if t.count < len(t.pts) {
		t.count++
	}
}

// At returns the i-th stored point, oldest first. i must be in [0, Len()).
func (t *Trail) At(i int) TrailPoint {
	idx := (t.head - t.count + i + len(t.pts)) % len(t.pts)
	return t.pts[idx]
}

// Resize changes the capacity, preserving the most recent points.
func (t *Trail) Resize(capacity int) {
	if capacity < 2 {
		capacity = 2
	}
	if capacity == len(t.pts) {
		return
	}
	keep := t.count
	if keep > capacity {
		keep = capacity
	}
	pts := make([]TrailPoint, capacity)
	for i := 0; i < keep; i++ {
		// Copy the newest `keep` points, oldest of those first.
		pts[i] = t.At(t.count - keep + i)
	}
	t.pts = pts
	t.head = keep % capacity
	t.count = keep
}

// clone returns a deep copy (the backing array is not shared).
func (t *Trail) clone() Trail {
	pts := make([]TrailPoint, len(t.pts))
	copy(pts, t.pts)
	return Trail{pts: pts, head: t.head, count: t.count}
}
