package render

import (
	"fmt"
	"image/color"
	"unicode/utf16"

	"github.com/matzehuels/fsnav/pkg/scene"
)

// Palette is the set of colours a frame is painted with.
type Palette struct {
	Background color.RGBA
	Grid       color.RGBA
	Text       color.RGBA
	TextDim    color.RGBA
	Warn       color.RGBA
	Directory  color.RGBA
	Wire       color.RGBA
	Files      []color.RGBA
}

// DefaultPalette returns the FSN colour scheme.
func DefaultPalette() Palette {
	return Palette{
		Background: color.RGBA{0, 0, 0, 255},
		Grid:       color.RGBA{0, 179, 179, 204},
		Text:       color.RGBA{119, 225, 255, 255},
		TextDim:    color.RGBA{123, 193, 167, 255},
		Warn:       color.RGBA{255, 239, 91, 255},
		Directory:  color.RGBA{242, 38, 38, 255},
		Wire:       color.RGBA{123, 193, 167, 255},
		Files: []color.RGBA{
			{19, 123, 177, 255},
			{255, 132, 0, 255},
			{255, 252, 0, 255},
			{32, 160, 152, 255},
			{0, 71, 255, 255},
			{168, 0, 255, 255},
			{154, 38, 103, 255},
		},
	}
}

// Fill returns the fill colour for n.
func (p Palette) Fill(n scene.Node) color.RGBA {
	if n.IsDir() || len(p.Files) == 0 {
		return p.Directory
	}
	return p.Files[FileColorIndex(n.Name, len(p.Files))]
}

// Outline returns the outline colour and stroke width of a node.
func (p Palette) Outline(hovered bool) (color.RGBA, float64) {
	if hovered {
		return p.Text, 2
	}
	return p.TextDim, 1
}

// NameHash is the 32-bit string hash h = 31*h + c over the UTF-16 code units
// of s, with wrapping arithmetic.
func NameHash(s string) int32 {
	var h int32
	for _, c := range utf16.Encode([]rune(s)) {
		h = 31*h + int32(c)
	}
	return h
}

// FileColorIndex maps a file name to one of n palette slots.
func FileColorIndex(name string, n int) int {
	if n <= 0 {
		return 0
	}
	i := int(NameHash(name) % int32(n))
	if i < 0 {
		i = -i
	}
	return i
}

// Hex formats c as #rrggbb.
func Hex(c color.RGBA) string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

// opacity returns the alpha channel of c in [0, 1].
func opacity(c color.RGBA) float64 {
	return float64(c.A) / 255
}
