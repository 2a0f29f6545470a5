package camera

import (
	"fmt"
	"math"

	"github.com/matzehuels/fsnav/pkg/geom"
)

// Camera bounds and defaults.
const (
	PitchMin = -1.2
	PitchMax = 1.2
	DistMin  = 2.2
	DistMax  = 18.0

	// NearPlane is the smallest camera-space depth that is still projected.
	NearPlane = 0.08

	DefaultYaw   = 0.6
	DefaultPitch = 0.18
	DefaultDist  = 7.2
	DefaultFOV   = 1.05
)

// Camera is an orbit camera looking at the origin. Angles are in radians.
type Camera struct {
	Yaw   float64 `json:"yaw" toml:"yaw" mapstructure:"yaw"`
	Pitch float64 `json:"pitch" toml:"pitch" mapstructure:"pitch"`
	Dist  float64 `json:"dist" toml:"dist" mapstructure:"dist"`
	FOV   float64 `json:"fov" toml:"fov" mapstructure:"fov"`
}

// Default returns the camera the navigator starts with.
func Default() Camera {
	return Camera{Yaw: DefaultYaw, Pitch: DefaultPitch, Dist: DefaultDist, FOV: DefaultFOV}
}

// WithDefaults fills what a partially set camera leaves at zero. An all-zero
// camera becomes Default; otherwise a zero FOV or Dist takes the default
// value, since neither can project anything at zero.
func (c Camera) WithDefaults() Camera {
	if c == (Camera{}) {
		return Default()
	}
	if c.FOV == 0 {
		c.FOV = DefaultFOV
	}
	if c.Dist == 0 {
		c.Dist = DefaultDist
	}
	return c
}

// Clamped returns c with Pitch and Dist forced into their ranges.
func (c Camera) Clamped() Camera {
	c.Pitch = geom.Clamp(c.Pitch, PitchMin, PitchMax)
	c.Dist = geom.Clamp(c.Dist, DistMin, DistMax)
	return c
}

// Orbit rotates the camera by pixel deltas from a pointer drag.
func (c Camera) Orbit(dx, dy float64) Camera {
	c.Yaw += dx * YawPerPixel
	c.Pitch += dy * PitchPerPixel
	return c.Clamped()
}

// Zoom moves the camera along the view axis. Positive delta moves away.
func (c Camera) Zoom(delta float64) Camera {
	c.Dist += delta
	return c.Clamped()
}

// String implements fmt.Stringer.
func (c Camera) String() string {
	return fmt.Sprintf("yaw=%.3f pitch=%.3f dist=%.2f fov=%.3f", c.Yaw, c.Pitch, c.Dist, c.FOV)
}

// ToCameraSpace applies the view transform to a world-space point.
func (c Camera) ToCameraSpace(p geom.Vec3) geom.Vec3 {
	q := p.RotateY(c.Yaw).RotateX(c.Pitch)
	q.Z += c.Dist
	return q
}

// Projection is a point in screen space plus its camera-space depth.
type Projection struct {
	X, Y float64
	Z    float64
}

// Project maps a world-space point to screen coordinates.
// ok is false when the point is on or behind the near plane.
func Project(p geom.Vec3, c Camera, size geom.Size) (Projection, bool) {
	q := c.ToCameraSpace(p)
	if q.Z <= NearPlane {
		return Projection{}, false
	}
	hw, hh := size.Half()
	s := hw / math.Tan(c.FOV*0.5)
	return Projection{
		X: q.X*s/q.Z + hw,
		Y: -q.Y*s/q.Z + hh,
		Z: q.Z,
	}, true
}
