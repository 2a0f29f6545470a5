package geom

import "math"

// Vec3 is a point or direction in world or camera space.
// Y grows upward; the camera looks down +Z after the view transform.
type Vec3 struct {
	X, Y, Z float64
}

// Add returns v + o.
func (v Vec3) Add(o Vec3) Vec3 {
	return Vec3{X: v.X + o.X, Y: v.Y + o.Y, Z: v.Z + o.Z}
}

// RotateY rotates v about the vertical axis by a radians.
func (v Vec3) RotateY(a float64) Vec3 {
	ca, sa := math.Cos(a), math.Sin(a)
	return Vec3{
		X: v.X*ca + v.Z*sa,
		Y: v.Y,
		Z: -v.X*sa + v.Z*ca,
	}
}

// RotateX rotates v about the horizontal axis by a radians.
func (v Vec3) RotateX(a float64) Vec3 {
	ca, sa := math.Cos(a), math.Sin(a)
	return Vec3{
		X: v.X,
		Y: v.Y*ca - v.Z*sa,
		Z: v.Y*sa + v.Z*ca,
	}
}

// Len returns the Euclidean length of v.
func (v Vec3) Len() float64 {
	return math.Sqrt(v.X*v.X + v.Y*v.Y + v.Z*v.Z)
}

// Size is a viewport size in pixels.
type Size struct {
	W, H float64
}

// Half returns the viewport centre.
func (s Size) Half() (float64, float64) {
	return s.W * 0.5, s.H * 0.5
}

// Empty reports whether the viewport has no drawable area.
func (s Size) Empty() bool {
	return s.W <= 0 || s.H <= 0
}
