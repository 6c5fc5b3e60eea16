package sim

// axisRule describes one boundary mode as two independent axis behaviors.
// glueX/glueY wrap the agent to the opposite edge; a false value bounces.
// flipOnX mirrors the Y coordinate (and negates Vel.Y) when the agent
// crosses the X seam; flipOnY mirrors X likewise. The flips are what turn a
// torus into a Klein bottle or projective plane.
type axisRule struct {
	glueX, glueY     bool
	flipOnX, flipOnY bool
}

var boundaryRules = [numBoundaryModes]axisRule{
	BoundaryPlane:      {},
	BoundaryCylinderX:  {glueX: true},
	BoundaryCylinderY:  {glueY: true},
	BoundaryTorus:      {glueX: true, glueY: true},
	BoundaryMobiusX:    {glueX: true, flipOnX: true},
	BoundaryMobiusY:    {glueY: true, flipOnY: true},
	BoundaryKleinX:     {glueX: true, glueY: true, flipOnY: true},
	BoundaryKleinY:     {glueX: true, glueY: true, flipOnX: true},
	BoundaryProjective: {glueX: true, glueY: true, flipOnX: true, flipOnY: true},
}

// rule returns the axis behaviors for a mode.
func (m BoundaryMode) rule() axisRule {
	if m < numBoundaryModes {
		return boundaryRules[m]
	}
	return boundaryRules[BoundaryPlane]
}

// Glued reports which axes wrap rather than bounce. Front-ends use this to
// decide seam-aware rendering and camera wrapping.
func (m BoundaryMode) Glued() (x, y bool) {
	r := m.rule()
	return r.glueX, r.glueY
}

// applyBoundary keeps the agent inside [0,w] x [0,h] according to the
// boundary mode, mutating position and velocity in place. It reports
// whether a wrap or bounce happened, in which case the caller writes a
// break into the trail so no segment is drawn across the seam.
func applyBoundary(a *Agent, w, h float32, mode BoundaryMode) bool {
	r := mode.rule()
	crossed := false

	if r.glueX {
		for a.Pos.X < 0 {
			a.Pos.X += w
			if r.flipOnX {
				a.Pos.Y = h - a.Pos.Y
				a.Vel.Y = -a.Vel.Y
			}
			crossed = true
		}
		for a.Pos.X > w {
			a.Pos.X -= w
			if r.flipOnX {
				a.Pos.Y = h - a.Pos.Y
				a.Vel.Y = -a.Vel.Y
			}
			crossed = true
		}
	} else {
		if a.Pos.X < 0 {
			a.Pos.X = -a.Pos.X
			a.Vel.X = -a.Vel.X
			crossed = true
		} else if a.Pos.X > w {
			a.Pos.X = 2*w - a.Pos.X
			a.Vel.X = -a.Vel.X
			crossed = true
		}
	}

	if r.glueY {
		for a.Pos.Y < 0 {
			a.Pos.Y += h
			if r.flipOnY {
				a.Pos.X = w - a.Pos.X
				a.Vel.X = -a.Vel.X
			}
			crossed = true
		}
		for a.Pos.Y > h {
			a.Pos.Y -= h
			if r.flipOnY {
				a.Pos.X = w - a.Pos.X
				a.Vel.X = -a.Vel.X
			}
			crossed = true
		}
	} else {
		if a.Pos.Y < 0 {
			a.Pos.Y = -a.Pos.Y
			a.Vel.Y = -a.Vel.Y
			crossed = true
		} else if a.Pos.Y > h {
			a.Pos.Y = 2*h - a.Pos.Y
			a.Vel.Y = -a.Vel.Y
			crossed = true
		}
	}

	// A flip on one axis can push the other coordinate out of range
	// (e.g. a corner crossing on the projective plane). Clamp as a last
	// resort so positions always land inside the domain.
	if a.Pos.X < 0 {
		a.Pos.X = 0
	} else if a.Pos.X > w {
		a.Pos.X = w
	}
	if a.Pos.Y < 0 {
		a.Pos.Y = 0
	} else if a.Pos.Y > h {
		a.Pos.Y = h
	}

	return crossed
}
