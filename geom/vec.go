// Package geom provides the small amount of 2D vector math the simulation
// needs. Vectors use float32 to match the rest of the pipeline.
package geom

import "math"

// Epsilon is the magnitude below which a vector is treated as zero.
// Normalizing a degenerate vector returns the zero vector instead of NaN.
const Epsilon = 1e-4

// Vec2 is a 2D vector or point.
type Vec2 struct {
	X, Y float32
}

// Add returns v + o.
func (v Vec2) Add(o Vec2) Vec2 {
	return Vec2{v.X + o.X, v.Y + o.Y}
}

// Sub returns v - o.
func (v Vec2) Sub(o Vec2) Vec2 {
	return Vec2{v.X - o.X, v.Y - o.Y}
}

// Scale returns v scaled by s.
func (v Vec2) Scale(s float32) Vec2 {
	return Vec2{v.X * s, v.Y * s}
}

// Dot returns the dot product of v and o.
func (v Vec2) Dot(o Vec2) float32 {
	return v.X*o.X + v.Y*o.Y
}

// LenSq returns the squared magnitude. Use for comparisons to avoid sqrt.
func (v Vec2) LenSq() float32 {
	return v.X*v.X + v.Y*v.Y
}

// Len returns the magnitude.
func (v Vec2) Len() float32 {
	return float32(math.Sqrt(float64(v.X*v.X + v.Y*v.Y)))
}

// Normalized returns a unit vector in the direction of v,
// or the zero vector when v is degenerate.
func (v Vec2) Normalized() Vec2 {
	l := v.Len()
	if l < Epsilon {
		return Vec2{}
	}
	return Vec2{v.X / l, v.Y / l}
}

// WithMag returns v rescaled to magnitude m (zero vector stays zero).
func (v Vec2) WithMag(m float32) Vec2 {
	return v.Normalized().Scale(m)
}

// Limited returns v clamped to magnitude max.
func (v Vec2) Limited(max float32) Vec2 {
	sq := v.LenSq()
	if sq <= max*max {
		return v
	}
	return v.WithMag(max)
}

// AddInPlace adds o into v without allocating.
func (v *Vec2) AddInPlace(o Vec2) {
	v.X += o.X
	v.Y += o.Y
}

// ScaleInPlace scales v by s without allocating.
func (v *Vec2) ScaleInPlace(s float32) {
	v.X *= s
	v.Y *= s
}

// LimitInPlace clamps v to magnitude max without allocating.
func (v *Vec2) LimitInPlace(max float32) {
	sq := v.LenSq()
	if sq <= max*max || sq == 0 {
		return
	}
	s := max / float32(math.Sqrt(float64(sq)))
	v.X *= s
	v.Y *= s
}

// FromAngle returns a unit vector at the given angle in radians.
func FromAngle(theta float32) Vec2 {
	return Vec2{
		X: float32(math.Cos(float64(theta))),
		Y: float32(math.Sin(float64(theta))),
	}
}

// Clamp limits x to [lo, hi].
func Clamp(x, lo, hi float32) float32 {
	if x < lo {
		return lo
	}
	if x > hi {
		return hi
	}
	return x
}
