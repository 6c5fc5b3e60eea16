// Package sim implements the flocking simulation core: spatial hashing,
// steering forces, boundary topologies, and the per-tick driver.
// It has no rendering or I/O dependencies; front-ends consume the agent
// slice and drive ticks at their own cadence.
package sim

import "fmt"

// BoundaryMode selects how agents behave at the edges of the world.
// Each mode combines an X-axis and a Y-axis behavior: "bounce" reflects the
// velocity component and keeps the agent inside, "glue" wraps the agent to
// the opposite edge. Glued axes may additionally mirror the orthogonal
// coordinate on crossing, which produces the non-orientable surfaces.
type BoundaryMode uint8

const (
	BoundaryPlane BoundaryMode = iota
	BoundaryCylinderX
	BoundaryCylinderY
	BoundaryTorus
	BoundaryMobiusX
	BoundaryMobiusY
	BoundaryKleinX
	BoundaryKleinY
	BoundaryProjective

	numBoundaryModes
)

var boundaryNames = [numBoundaryModes]string{
	"plane", "cylinderX", "cylinderY", "torus",
	"mobiusX", "mobiusY", "kleinX", "kleinY", "projectivePlane",
}

func (m BoundaryMode) String() string {
	if m < numBoundaryModes {
		return boundaryNames[m]
	}
	return fmt.Sprintf("BoundaryMode(%d)", uint8(m))
}

// Next cycles to the following boundary mode, wrapping around.
func (m BoundaryMode) Next() BoundaryMode {
	return (m + 1) % numBoundaryModes
}

// ParseBoundaryMode parses a mode name as used in config files.
func ParseBoundaryMode(s string) (BoundaryMode, error) {
	for i, name := range boundaryNames {
		if s == name {
			return BoundaryMode(i), nil
		}
	}
	return BoundaryPlane, fmt.Errorf("unknown boundary mode %q", s)
}

// AttractMode selects how agents react to the cursor.
type AttractMode uint8

const (
	AttractOff AttractMode = iota
	AttractPull
	AttractPush
)

func (m AttractMode) String() string {
	switch m {
	case AttractPull:
		return "attract"
	case AttractPush:
		return "repel"
	default:
		return "off"
	}
}

// Next cycles off -> attract -> repel -> off.
func (m AttractMode) Next() AttractMode {
	return (m + 1) % 3
}

// Params holds every tunable of the simulation. It is a plain value object:
// replace it wholesale between ticks via Simulation.SetParams.
type Params struct {
	// Flocking force weights.
	Alignment  float32
	Cohesion   float32
	Separation float32

	// PerceptionRadius is the neighborhood distance; it also sizes the
	// spatial grid cells.
	PerceptionRadius float32

	MaxSpeed float32
	// MaxForce caps each behavior's steering contribution.
	MaxForce float32

	// NoiseStrength scales the random-walk jitter (noise force magnitude
	// is MaxForce * NoiseStrength).
	NoiseStrength float32

	// TrailLength is the per-agent trail capacity (minimum 2).
	TrailLength int

	// EdgeMargin is the distance from a bouncing edge at which agents
	// start steering back toward the interior.
	EdgeMargin float32

	Boundary BoundaryMode

	// Cursor interaction.
	Attraction     float32
	AttractionMode AttractMode
	// AttractBoost multiplies the cursor force while the pointer is
	// actively dragging rather than hovering.
	AttractBoost float32

	// Visual-only fields. The simulation carries them for front-ends but
	// never reads them.
	BoidSize         float32
	ColorSensitivity float32
}

// DefaultParams returns parameters that produce a stable mid-density flock.
func DefaultParams() Params {
	return Params{
		Alignment:        1.0,
		Cohesion:         0.9,
		Separation:       1.2,
		PerceptionRadius: 50,
		MaxSpeed:         4,
		MaxForce:         0.2,
		NoiseStrength:    0.05,
		TrailLength:      30,
		EdgeMargin:       40,
		Boundary:         BoundaryTorus,
		Attraction:       1.0,
		AttractionMode:   AttractOff,
		AttractBoost:     10,
		BoidSize:         4,
		ColorSensitivity: 0.15,
	}
}

// sanitize clamps parameters that would otherwise break invariants.
func (p *Params) sanitize() {
	if p.TrailLength < 2 {
		p.TrailLength = 2
	}
	if p.PerceptionRadius < 1 {
		p.PerceptionRadius = 1
	}
	if p.MaxSpeed < 0 {
		p.MaxSpeed = 0
	}
	if p.MaxForce < 0 {
		p.MaxForce = 0
	}
	if p.Boundary >= numBoundaryModes {
		p.Boundary = BoundaryPlane
	}
}
