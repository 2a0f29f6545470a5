package render

import (
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/matzehuels/fsnav/pkg/scene"
)

func TestNameHash(t *testing.T) {
	tests := []struct {
		in   string
		want int32
	}{
		{"", 0},
		{"a", 97},
		{"hello", 99162322},
		{"data.json", -408915796},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, NameHash(tt.in), tt.in)
	}
}

func TestFileColorIndex(t *testing.T) {
	tests := []struct {
		in   string
		want int
	}{
		{"hello", 0},
		{"notes.md", 2},
		{"data.json", 2},
		{"a", 6},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, FileColorIndex(tt.in, 7), tt.in)
	}
	assert.Equal(t, 0, FileColorIndex("x", 0))
}

func TestPaletteFill(t *testing.T) {
	p := DefaultPalette()
	assert.Equal(t, p.Directory, p.Fill(scene.Node{Name: "a", Kind: scene.Directory}))
	assert.Equal(t, p.Files[6], p.Fill(scene.Node{Name: "a", Kind: scene.File}))

	p.Files = nil
	assert.Equal(t, p.Directory, p.Fill(scene.Node{Name: "a"}))
}

func TestPaletteOutline(t *testing.T) {
	p := DefaultPalette()
	c, w := p.Outline(true)
	assert.Equal(t, p.Text, c)
	assert.Equal(t, 2.0, w)
	c, w = p.Outline(false)
	assert.Equal(t, p.TextDim, c)
	assert.Equal(t, 1.0, w)
}

func TestHex(t *testing.T) {
	assert.Equal(t, "#000000", Hex(color.RGBA{A: 255}))
	assert.Equal(t, "#f22626", Hex(DefaultPalette().Directory))
}
