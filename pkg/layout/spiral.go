package layout

import (
	"math"

	"github.com/matzehuels/fsnav/pkg/geom"
)

const (
	// DefaultRadius is the rim radius of the spiral in world units.
	DefaultRadius = 3.5

	// DefaultAngleStep is the angle between successive entries. It is not
	// 2π/n, so later loops of the spiral do not land on earlier ones.
	DefaultAngleStep = 0.72

	// DefaultZStep is how far each entry recedes from the one before it.
	DefaultZStep = 0.25

	// DefaultMinFraction is the share of Radius used for the first entry.
	DefaultMinFraction = 0.35
)

// Options controls the shape of the spiral.
type Options struct {
	Radius      float64 `json:"radius" toml:"radius" mapstructure:"radius"`
	AngleStep   float64 `json:"angle_step" toml:"angle_step" mapstructure:"angle_step"`
	ZStep       float64 `json:"z_step" toml:"z_step" mapstructure:"z_step"`
	MinFraction float64 `json:"min_fraction" toml:"min_fraction" mapstructure:"min_fraction"`
}

// Default returns the options the navigator uses unless configured otherwise.
func Default() Options {
	return Options{
		Radius:      DefaultRadius,
		AngleStep:   DefaultAngleStep,
		ZStep:       DefaultZStep,
		MinFraction: DefaultMinFraction,
	}
}

// WithDefaults fills zero fields from Default.
func (o Options) WithDefaults() Options {
	d := Default()
	if o.Radius == 0 {
		o.Radius = d.Radius
	}
	if o.AngleStep == 0 {
		o.AngleStep = d.AngleStep
	}
	if o.ZStep == 0 {
		o.ZStep = d.ZStep
	}
	if o.MinFraction == 0 {
		o.MinFraction = d.MinFraction
	}
	return o
}

// Spiral returns n positions on an outward spiral. n <= 0 yields nil.
//
// Entry i sits at angle i*AngleStep with radius growing linearly from
// MinFraction*Radius (i = 0) to Radius (i = n-1), and at z = -i*ZStep.
func Spiral(n int, o Options) []geom.Vec3 {
	if n <= 0 {
		return nil
	}
	// n == 1 keeps the denominator at 1 and the single entry at the minimum radius.
	denom := float64(max(1, n-1))
	grow := 1 - o.MinFraction

	pts := make([]geom.Vec3, n)
	for i := range n {
		a := float64(i) * o.AngleStep
		r := o.Radius * (o.MinFraction + grow*float64(i)/denom)
		pts[i] = geom.Vec3{
			X: math.Cos(a) * r,
			Y: math.Sin(a) * r,
			Z: float64(-i) * o.ZStep,
		}
	}
	return pts
}
