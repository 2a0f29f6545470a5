package render

import (
	"bytes"
	"fmt"
	"math"

	"github.com/disintegration/imaging"
	"github.com/fogleman/gg"
)

// PNGOption configures PNG rendering.
type PNGOption func(*pngRenderer)

type pngRenderer struct {
	palette  Palette
	gridStep int
	scale    float64
	hud      bool
}

// WithPNGPalette overrides the colours.
func WithPNGPalette(p Palette) PNGOption { return func(r *pngRenderer) { r.palette = p } }

// WithPNGGridStep sets the grid spacing; 0 disables the grid.
func WithPNGGridStep(step int) PNGOption { return func(r *pngRenderer) { r.gridStep = step } }

// WithScale sets the output scale factor (default 1). The frame is drawn at
// its own size and then resampled.
func WithScale(s float64) PNGOption { return func(r *pngRenderer) { r.scale = s } }

// WithPNGHUD draws the status line and hover hint.
func WithPNGHUD() PNGOption { return func(r *pngRenderer) { r.hud = true } }

// RenderPNG rasterises f.
func RenderPNG(f Frame, opts ...PNGOption) ([]byte, error) {
	r := pngRenderer{palette: DefaultPalette(), gridStep: DefaultGridStep, scale: 1}
	for _, opt := range opts {
		opt(&r)
	}
	w, h := int(math.Round(f.Size.W)), int(math.Round(f.Size.H))
	if w <= 0 || h <= 0 {
		return nil, fmt.Errorf("render png: empty viewport %dx%d", w, h)
	}
	if r.scale <= 0 {
		return nil, fmt.Errorf("render png: invalid scale %g", r.scale)
	}

	dc := gg.NewContext(w, h)
	dc.SetColor(r.palette.Background)
	dc.Clear()

	if r.gridStep > 0 {
		dc.SetColor(r.palette.Grid)
		dc.SetLineWidth(1)
		for x := 0; x <= w; x += r.gridStep {
			dc.DrawLine(float64(x)+0.5, 0, float64(x)+0.5, float64(h))
		}
		for y := 0; y <= h; y += r.gridStep {
			dc.DrawLine(0, float64(y)+0.5, float64(w), float64(y)+0.5)
		}
		dc.Stroke()
	}

	for _, p := range f.Points {
		dc.DrawCircle(p.X, p.Y, p.R)
		dc.SetColor(r.palette.Fill(p.Node))
		dc.FillPreserve()
		stroke, width := r.palette.Outline(f.isHovered(p))
		dc.SetColor(stroke)
		dc.SetLineWidth(width)
		dc.Stroke()
	}

	if r.hud {
		dc.SetColor(r.palette.Text)
		dc.DrawString(f.HUD, 12, 18)
		if f.Hint != "" {
			dc.SetColor(r.palette.Warn)
			dc.DrawString(f.Hint, 12, 44)
		}
	}

	img := dc.Image()
	if r.scale != 1 {
		sw := int(math.Round(float64(w) * r.scale))
		sh := int(math.Round(float64(h) * r.scale))
		img = imaging.Resize(img, max(sw, 1), max(sh, 1), imaging.Lanczos)
	}

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.PNG); err != nil {
		return nil, fmt.Errorf("encode png: %w", err)
	}
	return buf.Bytes(), nil
}
