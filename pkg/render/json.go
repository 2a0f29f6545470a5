package render

import (
	"encoding/json"

	"github.com/matzehuels/fsnav/pkg/camera"
)

type jsonOutput struct {
	Width   float64       `json:"width"`
	Height  float64       `json:"height"`
	Dir     string        `json:"dir"`
	Camera  camera.Camera `json:"camera"`
	HUD     string        `json:"hud,omitempty"`
	Hint    string        `json:"hint,omitempty"`
	Hovered string        `json:"hovered,omitempty"`
	Points  []jsonPoint   `json:"points"`
}

type jsonPoint struct {
	X     float64 `json:"x"`
	Y     float64 `json:"y"`
	Z     float64 `json:"z"`
	R     float64 `json:"r"`
	Path  string  `json:"path"`
	Name  string  `json:"name"`
	Kind  string  `json:"kind"`
	Color string  `json:"color"`
}

// RenderJSON renders f as indented JSON. Points keep their paint order.
func RenderJSON(f Frame) ([]byte, error) {
	pal := DefaultPalette()
	out := jsonOutput{
		Width:   f.Size.W,
		Height:  f.Size.H,
		Dir:     f.Dir,
		Camera:  f.Camera,
		HUD:     f.HUD,
		Hint:    f.Hint,
		Hovered: f.Hovered,
		Points:  make([]jsonPoint, len(f.Points)),
	}
	for i, p := range f.Points {
		out.Points[i] = jsonPoint{
			X: p.X, Y: p.Y, Z: p.Z, R: p.R,
			Path:  p.Node.Path,
			Name:  p.Node.Name,
			Kind:  p.Node.Kind.String(),
			Color: Hex(pal.Fill(p.Node)),
		}
	}
	return json.MarshalIndent(out, "", "  ")
}
