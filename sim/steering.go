package sim

import (
	"math"

	"github.com/murmursim/murmur/geom"
)

// Cursor falloff and damping constants. Falloff halves the pull every 250
// world units; damping keeps attraction from overpowering separation inside
// dense clusters; the force cap sits below MaxForce so the cursor nudges
// the flock rather than steering it outright.
const (
	cursorFalloffDist  = 250
	cursorCrowdDamp    = 6
	cursorForceCapFrac = 0.6
)

// steerOutput is the per-agent result of the steering pass.
type steerOutput struct {
	acc       geom.Vec2
	neighbors int
}

// computeSteering runs the single-pass neighbor scan for agent i and
// returns the tick's acceleration. candidates comes from the spatial grid
// and is a superset of the true neighborhood; exact distance is re-checked
// here. noise is this agent's pre-drawn noise direction (zero when noise is
// disabled). This reads only pre-tick state; s.agents is never written.
func (s *Simulation) computeSteering(i int, candidates []int32, noise geom.Vec2) steerOutput {
	p := &s.params
	a := &s.agents[i]

	var sumVel, sumPos, sep geom.Vec2
	neighbors := 0
	prSq := p.PerceptionRadius * p.PerceptionRadius

	// One pass accumulates all three behaviors; separate passes triple
	// the scan cost at large populations.
	for _, ci := range candidates {
		j := int(ci)
		if j == i {
			continue
		}
		o := &s.agents[j]
		dx := a.Pos.X - o.Pos.X
		dy := a.Pos.Y - o.Pos.Y
		dSq := dx*dx + dy*dy
		if dSq >= prSq {
			continue
		}

		sumVel.AddInPlace(o.Vel)
		sumPos.AddInPlace(o.Pos)

		// Separation is inverse-distance weighted so the closest
		// neighbors dominate.
		d := float32(math.Sqrt(float64(dSq)))
		if d > geom.Epsilon {
			sep.X += dx / d
			sep.Y += dy / d
		}
		neighbors++
	}

	var acc geom.Vec2
	if neighbors > 0 {
		// Steer toward the current speed clamped into
		// [0.25*max, max] instead of max speed itself: the flock keeps
		// natural speed variation instead of converging to uniform
		// full throttle.
		n := float32(neighbors)
		target := geom.Clamp(a.Vel.Len(), 0.25*p.MaxSpeed, p.MaxSpeed)

		align := steerToward(sumVel.Scale(1/n), a.Vel, target, p.MaxForce)
		cohere := steerToward(sumPos.Scale(1/n).Sub(a.Pos), a.Vel, target, p.MaxForce)
		separate := steerToward(sep, a.Vel, target, p.MaxForce)

		acc.AddInPlace(align.Scale(p.Alignment))
		acc.AddInPlace(cohere.Scale(p.Cohesion))
		acc.AddInPlace(separate.Scale(p.Separation))
	}

	if s.cursor != nil && p.AttractionMode != AttractOff && p.Attraction != 0 {
		acc.AddInPlace(cursorForce(a, neighbors, p, s.cursor))
	}

	if p.NoiseStrength != 0 {
		acc.AddInPlace(noise.Scale(p.MaxForce * p.NoiseStrength))
	}

	if p.EdgeMargin > 0 {
		acc.AddInPlace(edgeForce(a, p, s.w, s.h))
	}

	return steerOutput{acc: acc, neighbors: neighbors}
}

// steerToward converts a desired direction into a capped steering force:
// desired velocity at the target speed, minus the current velocity, limited
// to maxForce. A degenerate direction yields zero force.
func steerToward(dir geom.Vec2, vel geom.Vec2, targetSpeed, maxForce float32) geom.Vec2 {
	desired := dir.WithMag(targetSpeed)
	if desired == (geom.Vec2{}) {
		return geom.Vec2{}
	}
	return desired.Sub(vel).Limited(maxForce)
}

// cursorForce pulls (or pushes) the agent relative to the cursor, with
// distance falloff and crowd damping.
func cursorForce(a *Agent, neighbors int, p *Params, cur *Cursor) geom.Vec2 {
	dir := cur.Pos.Sub(a.Pos)
	d := dir.Len()
	if d < geom.Epsilon {
		return geom.Vec2{}
	}
	if p.AttractionMode == AttractPush {
		dir = dir.Scale(-1)
	}

	steer := steerToward(dir, a.Vel, p.MaxSpeed, cursorForceCapFrac*p.MaxForce)

	falloff := 1 / (1 + d/cursorFalloffDist)
	damp := 1 / (1 + float32(neighbors)/cursorCrowdDamp)
	scale := p.Attraction * falloff * damp
	if cur.Boost {
		scale *= p.AttractBoost
	}
	return steer.Scale(scale)
}

// edgeForce steers agents back toward the interior when they come within
// EdgeMargin of an edge that bounces rather than glues. Glued edges need no
// avoidance: agents pass straight through the seam.
func edgeForce(a *Agent, p *Params, w, h float32) geom.Vec2 {
	r := p.Boundary.rule()
	var f geom.Vec2
	if !r.glueX {
		if a.Pos.X < p.EdgeMargin {
			f.X += p.MaxForce
		} else if a.Pos.X > w-p.EdgeMargin {
			f.X -= p.MaxForce
		}
	}
	if !r.glueY {
		if a.Pos.Y < p.EdgeMargin {
			f.Y += p.MaxForce
		} else if a.Pos.Y > h-p.EdgeMargin {
			f.Y -= p.MaxForce
		}
	}
	return f
}
