package render

import (
	"github.com/matzehuels/fsnav/pkg/camera"
	"github.com/matzehuels/fsnav/pkg/geom"
	"github.com/matzehuels/fsnav/pkg/scene"
)

// DefaultGridStep is the spacing of the background grid in pixels.
const DefaultGridStep = 60

// Frame is one paintable view.
type Frame struct {
	Size   geom.Size
	Camera camera.Camera
	Dir    string

	// Points are painted in order; the last one is on top.
	Points []scene.ScreenPoint

	// Hovered is the path of the hovered node, or "".
	Hovered string

	HUD  string
	Hint string
}

// FromView captures the current state of v.
func FromView(v scene.View) Frame {
	f := Frame{
		Size:   v.Size,
		Camera: v.Camera,
		Dir:    v.Dir,
		Points: v.Points,
		HUD:    v.HUD(),
		Hint:   v.Hint(),
	}
	if v.HasHover {
		f.Hovered = v.Hovered.Node.Path
	}
	return f
}

// isHovered reports whether p is the hovered point of f.
func (f Frame) isHovered(p scene.ScreenPoint) bool {
	return f.Hovered != "" && p.Node.Path == f.Hovered
}
