package camera

// Interaction scaling.
const (
	YawPerPixel   = 0.008
	PitchPerPixel = 0.006

	// ScrollStep is the distance change per wheel notch.
	ScrollStep = 0.5

	// KeyZoomStep is the distance change per zoom key press.
	KeyZoomStep = 0.4
)

// Event is a camera interaction. Implementations are Drag, Scroll and Zoom.
type Event interface {
	apply(Camera) Camera
}

// Drag is a pointer drag in pixels.
type Drag struct {
	DX, DY float64
}

func (e Drag) apply(c Camera) Camera { return c.Orbit(e.DX, e.DY) }

// Scroll is a mouse wheel movement in notches. Positive Y zooms in.
type Scroll struct {
	Y float64
}

func (e Scroll) apply(c Camera) Camera { return c.Zoom(-ScrollStep * e.Y) }

// Zoom is a direct distance change, as produced by the +/- keys.
type Zoom struct {
	Delta float64
}

func (e Zoom) apply(c Camera) Camera { return c.Zoom(e.Delta) }

// ZoomIn and ZoomOut are the key bindings' events.
var (
	ZoomIn  = Zoom{Delta: -KeyZoomStep}
	ZoomOut = Zoom{Delta: KeyZoomStep}
)

// Apply derives the camera that results from ev. A nil event returns c
// clamped.
func Apply(c Camera, ev Event) Camera {
	if ev == nil {
		return c.Clamped()
	}
	return ev.apply(c)
}
