package render

import (
	"bytes"
	"encoding/xml"
	"fmt"
)

// SVGOption configures SVG rendering.
type SVGOption func(*svgRenderer)

type svgRenderer struct {
	palette  Palette
	gridStep int
	labels   bool
	hud      bool
}

// WithPalette overrides the colours.
func WithPalette(p Palette) SVGOption { return func(r *svgRenderer) { r.palette = p } }

// WithGridStep sets the grid spacing; 0 disables the grid.
func WithGridStep(step int) SVGOption { return func(r *svgRenderer) { r.gridStep = step } }

// WithLabels draws each node's name under its circle.
func WithLabels() SVGOption { return func(r *svgRenderer) { r.labels = true } }

// WithHUD draws the status line and hover hint.
func WithHUD() SVGOption { return func(r *svgRenderer) { r.hud = true } }

func newSVGRenderer(opts ...SVGOption) svgRenderer {
	r := svgRenderer{palette: DefaultPalette(), gridStep: DefaultGridStep}
	for _, opt := range opts {
		opt(&r)
	}
	return r
}

// RenderSVG renders f as a standalone SVG document.
func RenderSVG(f Frame, opts ...SVGOption) []byte {
	r := newSVGRenderer(opts...)
	w, h := f.Size.W, f.Size.H

	var buf bytes.Buffer
	fmt.Fprintf(&buf, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.0f %.0f" width="%.0f" height="%.0f">`+"\n",
		w, h, w, h)
	fmt.Fprintf(&buf, `  <rect width="100%%" height="100%%" fill="%s"/>`+"\n", Hex(r.palette.Background))

	if r.gridStep > 0 {
		renderGrid(&buf, &r, w, h)
	}
	for _, p := range f.Points {
		stroke, width := r.palette.Outline(f.isHovered(p))
		fmt.Fprintf(&buf, `  <circle class="node %s" cx="%.2f" cy="%.2f" r="%.2f" fill="%s" stroke="%s" stroke-width="%.0f"><title>%s</title></circle>`+"\n",
			p.Node.Kind, p.X, p.Y, p.R, Hex(r.palette.Fill(p.Node)), Hex(stroke), width, escape(p.Node.Path))
		if r.labels {
			fmt.Fprintf(&buf, `  <text x="%.2f" y="%.2f" fill="%s" font-family="monospace" font-size="11" text-anchor="middle">%s</text>`+"\n",
				p.X, p.Y+p.R+12, Hex(r.palette.TextDim), escape(p.Node.Name))
		}
	}
	if r.hud {
		renderHUD(&buf, &r, f)
	}

	buf.WriteString("</svg>\n")
	return buf.Bytes()
}

func renderGrid(buf *bytes.Buffer, r *svgRenderer, w, h float64) {
	fmt.Fprintf(buf, `  <g stroke="%s" stroke-opacity="%.2f" stroke-width="1">`+"\n", Hex(r.palette.Grid), opacity(r.palette.Grid))
	step := float64(r.gridStep)
	for x := 0.0; x <= w; x += step {
		fmt.Fprintf(buf, `    <line x1="%.0f" y1="0" x2="%.0f" y2="%.0f"/>`+"\n", x, x, h)
	}
	for y := 0.0; y <= h; y += step {
		fmt.Fprintf(buf, `    <line x1="0" y1="%.0f" x2="%.0f" y2="%.0f"/>`+"\n", y, w, y)
	}
	buf.WriteString("  </g>\n")
}

func renderHUD(buf *bytes.Buffer, r *svgRenderer, f Frame) {
	fmt.Fprintf(buf, `  <text class="hud" x="12" y="18" fill="%s" font-family="monospace" font-size="13">%s</text>`+"\n",
		Hex(r.palette.Text), escape(f.HUD))
	if f.Hint != "" {
		fmt.Fprintf(buf, `  <text class="hint" x="12" y="44" fill="%s" font-family="monospace" font-size="13">%s</text>`+"\n",
			Hex(r.palette.Warn), escape(f.Hint))
	}
}

func escape(s string) string {
	var buf bytes.Buffer
	_ = xml.EscapeText(&buf, []byte(s))
	return buf.String()
}
