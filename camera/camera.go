// Package camera provides a 2D camera system for viewport control.
package camera

import "math"

// Camera controls the viewport into the simulation world.
// Supports pan and zoom. Axes marked as wrapping (glued boundary modes)
// use shortest-path deltas and draw ghost copies across the seam; bouncing
// axes clamp the camera inside the world instead.
type Camera struct {
	// Position is the camera center in world coordinates
	X, Y float32

	// Zoom level (1.0 = 1:1, 2.0 = 2x magnification)
	Zoom float32

	// Viewport dimensions (screen size)
	ViewportW, ViewportH float32

	// World dimensions
	WorldW, WorldH float32

	// Per-axis wrapping, driven by the active boundary mode.
	WrapX, WrapY bool

	// Zoom constraints
	MinZoom, MaxZoom float32
}

// New creates a camera centered on the world with 1:1 zoom.
func New(viewportW, viewportH, worldW, worldH float32) *Camera {
	// Compute minimum zoom so the viewport never exceeds world bounds:
	// at zoom Z the visible world area is (viewportW/Z, viewportH/Z).
	minZoom := viewportW / worldW
	if z := viewportH / worldH; z > minZoom {
		minZoom = z
	}

	return &Camera{
		X:         worldW / 2,
		Y:         worldH / 2,
		Zoom:      1.0,
		ViewportW: viewportW,
		ViewportH: viewportH,
		WorldW:    worldW,
		WorldH:    worldH,
		WrapX:     true,
		WrapY:     true,
		MinZoom:   minZoom,
		MaxZoom:   4.0,
	}
}

// SetWrap updates which axes wrap. Call this when the boundary mode
// changes so seam rendering matches the topology.
func (c *Camera) SetWrap(wrapX, wrapY bool) {
	c.WrapX = wrapX
	c.WrapY = wrapY
}

// delta returns the signed distance from the camera center to a world
// coordinate along one axis, shortest-path when the axis wraps.
func (c *Camera) delta(to, from, size float32, wrap bool) float32 {
	d := to - from
	if !wrap {
		return d
	}
	if d > size/2 {
		d -= size
	} else if d < -size/2 {
		d += size
	}
	return d
}

// WorldToScreen converts world coordinates to screen coordinates.
func (c *Camera) WorldToScreen(wx, wy float32) (sx, sy float32) {
	dx := c.delta(wx, c.X, c.WorldW, c.WrapX)
	dy := c.delta(wy, c.Y, c.WorldH, c.WrapY)

	sx = c.ViewportW/2 + dx*c.Zoom
	sy = c.ViewportH/2 + dy*c.Zoom
	return sx, sy
}

// ScreenToWorld converts screen coordinates to world coordinates.
func (c *Camera) ScreenToWorld(sx, sy float32) (wx, wy float32) {
	dx := (sx - c.ViewportW/2) / c.Zoom
	dy := (sy - c.ViewportH/2) / c.Zoom

	wx = c.wrapOrClampX(c.X + dx)
	wy = c.wrapOrClampY(c.Y + dy)
	return wx, wy
}

// IsVisible returns true if a circle at (wx, wy) with given radius
// could be visible on screen (conservative check for culling).
func (c *Camera) IsVisible(wx, wy, radius float32) bool {
	dx := c.delta(wx, c.X, c.WorldW, c.WrapX)
	dy := c.delta(wy, c.Y, c.WorldH, c.WrapY)

	halfW := c.ViewportW/(2*c.Zoom) + radius
	halfH := c.ViewportH/(2*c.Zoom) + radius

	return absf(dx) <= halfW && absf(dy) <= halfH
}

// GhostPositions returns additional screen positions for agents near world
// seams so they appear on both sides while wrapping. Only wrapping axes
// produce ghosts; up to 3 extra positions for a corner crossing.
func (c *Camera) GhostPositions(wx, wy, radius float32) []struct{ X, Y float32 } {
	var ghosts []struct{ X, Y float32 }

	halfW := c.ViewportW / (2 * c.Zoom)
	halfH := c.ViewportH / (2 * c.Zoom)

	dx := c.delta(wx, c.X, c.WorldW, c.WrapX)
	dy := c.delta(wy, c.Y, c.WorldH, c.WrapY)

	needsHorizontalGhost := false
	var hGhostX float32
	if c.WrapX {
		if dx > halfW-radius && dx < halfW+radius {
			// Near right edge of view - ghost on left
			needsHorizontalGhost = true
			hGhostX = c.ViewportW/2 + (dx-c.WorldW)*c.Zoom
		} else if dx < -halfW+radius && dx > -halfW-radius {
			// Near left edge of view - ghost on right
			needsHorizontalGhost = true
			hGhostX = c.ViewportW/2 + (dx+c.WorldW)*c.Zoom
		}
	}

	needsVerticalGhost := false
	var vGhostY float32
	if c.WrapY {
		if dy > halfH-radius && dy < halfH+radius {
			needsVerticalGhost = true
			vGhostY = c.ViewportH/2 + (dy-c.WorldH)*c.Zoom
		} else if dy < -halfH+radius && dy > -halfH-radius {
			needsVerticalGhost = true
			vGhostY = c.ViewportH/2 + (dy+c.WorldH)*c.Zoom
		}
	}

	sx := c.ViewportW/2 + dx*c.Zoom
	sy := c.ViewportH/2 + dy*c.Zoom

	if needsHorizontalGhost {
		ghosts = append(ghosts, struct{ X, Y float32 }{hGhostX, sy})
	}
	if needsVerticalGhost {
		ghosts = append(ghosts, struct{ X, Y float32 }{sx, vGhostY})
	}
	if needsHorizontalGhost && needsVerticalGhost {
		ghosts = append(ghosts, struct{ X, Y float32 }{hGhostX, vGhostY})
	}

	return ghosts
}

// Resize updates viewport dimensions and recalculates zoom constraints.
func (c *Camera) Resize(viewportW, viewportH float32) {
	if viewportW == c.ViewportW && viewportH == c.ViewportH {
		return
	}
	c.ViewportW = viewportW
	c.ViewportH = viewportH
	c.MinZoom = viewportW / c.WorldW
	if z := viewportH / c.WorldH; z > c.MinZoom {
		c.MinZoom = z
	}
	if c.Zoom < c.MinZoom {
		c.Zoom = c.MinZoom
	}
}

// Pan moves the camera by the given delta in screen pixels.
func (c *Camera) Pan(dx, dy float32) {
	c.X = c.wrapOrClampX(c.X + dx/c.Zoom)
	c.Y = c.wrapOrClampY(c.Y + dy/c.Zoom)
}

func (c *Camera) wrapOrClampX(x float32) float32 {
	if c.WrapX {
		return mod(x, c.WorldW)
	}
	return clamp(x, 0, c.WorldW)
}

func (c *Camera) wrapOrClampY(y float32) float32 {
	if c.WrapY {
		return mod(y, c.WorldH)
	}
	return clamp(y, 0, c.WorldH)
}

// SetZoom sets the zoom level, clamped to min/max.
func (c *Camera) SetZoom(zoom float32) {
	c.Zoom = clamp(zoom, c.MinZoom, c.MaxZoom)
}

// ZoomBy multiplies the current zoom by the given factor.
func (c *Camera) ZoomBy(factor float32) {
	c.SetZoom(c.Zoom * factor)
}

// Reset returns the camera to the default position and zoom.
func (c *Camera) Reset() {
	c.X = c.WorldW / 2
	c.Y = c.WorldH / 2
	c.Zoom = 1.0
}

// VisibleWorldBounds returns the world-coordinate bounds of the visible area.
// Returns (minX, minY, maxX, maxY) in world coordinates.
// Note: on wrapping axes, min may be < 0 or max > size when the view
// straddles the seam.
func (c *Camera) VisibleWorldBounds() (minX, minY, maxX, maxY float32) {
	halfW := c.ViewportW / (2 * c.Zoom)
	halfH := c.ViewportH / (2 * c.Zoom)

	minX = c.X - halfW
	maxX = c.X + halfW
	minY = c.Y - halfH
	maxY = c.Y + halfH
	return
}

// mod computes the positive modulo (Go's % can return negative).
func mod(x, m float32) float32 {
	r := float32(math.Mod(float64(x), float64(m)))
	if r < 0 {
		r += m
	}
	return r
}

// absf returns the absolute value of a float32.
func absf(x float32) float32 {
	if x < 0 {
		return -x
	}
	return x
}

// clamp restricts a value to a range.
func clamp(x, min, max float32) float32 {
	if x < min {
		return min
	}
	if x > max {
		return max
	}
	return x
}
