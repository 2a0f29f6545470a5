package scene

import (
	"context"

	"github.com/matzehuels/fsnav/pkg/camera"
	"github.com/matzehuels/fsnav/pkg/geom"
)

// Event is an input the navigator reacts to.
type Event interface {
	isEvent()
}

// CameraMoved wraps a camera interaction (drag, scroll, zoom key).
type CameraMoved struct{ camera.Event }

// PointerMoved is a pointer motion without buttons held.
type PointerMoved struct{ X, Y float64 }

// Clicked is a completed click at (X, Y). The node under it is opened.
type Clicked struct{ X, Y float64 }

// OpenHovered opens the hovered node (the Enter key).
type OpenHovered struct{}

// GoUp navigates to the parent directory (the Backspace key).
type GoUp struct{}

// Resized reports a new viewport size.
type Resized struct{ Size geom.Size }

// Refreshed asks for the current directory to be listed again, e.g. after a
// change notification.
type Refreshed struct{}

func (CameraMoved) isEvent()  {}
func (PointerMoved) isEvent() {}
func (Clicked) isEvent()      {}
func (OpenHovered) isEvent()  {}
func (GoUp) isEvent()         {}
func (Resized) isEvent()      {}
func (Refreshed) isEvent()    {}

// OpenRequest asks the caller to open a file with the system handler.
// The scene never opens anything itself.
type OpenRequest struct {
	Path string
}

// Handle applies ev and returns the next view. A non-nil OpenRequest is
// returned when a file (not a directory) was opened.
func (v View) Handle(ctx context.Context, ev Event) (View, *OpenRequest) {
	switch e := ev.(type) {
	case CameraMoved:
		return v.WithCamera(camera.Apply(v.Camera, e.Event)), nil
	case PointerMoved:
		return v.Hover(e.X, e.Y), nil
	case Clicked:
		p, ok := HitTest(v.Points, e.X, e.Y)
		if !ok {
			return v, nil
		}
		v.Hovered, v.HasHover = p, true
		return v.open(ctx, p.Node)
	case OpenHovered:
		if !v.HasHover {
			return v, nil
		}
		return v.open(ctx, v.Hovered.Node)
	case GoUp:
		return v.GoUp(ctx), nil
	case Resized:
		return v.Resize(e.Size), nil
	case Refreshed:
		return v.Refresh(ctx), nil
	}
	return v, nil
}

func (v View) open(ctx context.Context, n Node) (View, *OpenRequest) {
	if n.IsDir() {
		return v.Navigate(ctx, n.Path), nil
	}
	return v, &OpenRequest{Path: n.Path}
}
