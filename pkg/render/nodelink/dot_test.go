package nodelink

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matzehuels/fsnav/pkg/geom"
	"github.com/matzehuels/fsnav/pkg/scene"
)

func testNodes() []scene.Node {
	return []scene.Node{
		{Path: "/home/user/Documents", Name: "Documents", Kind: scene.Directory, Parent: "/home/user", Pos: geom.Vec3{X: 1.5}},
		{Path: "/home/user/notes.md", Name: "notes.md", Kind: scene.File, Parent: "/home/user"},
		{Path: "/home/user/orphan", Name: "orphan", Kind: scene.File},
	}
}

func TestToDOT(t *testing.T) {
	dot := ToDOT("/home/user", testNodes(), Options{})

	assert.True(t, strings.HasPrefix(dot, "digraph G {\n"))
	assert.True(t, strings.HasSuffix(dot, "}\n"))
	assert.Contains(t, dot, `"/home/user" [label="/home/user", shape=box`)
	assert.Contains(t, dot, `"/home/user" -> "/home/user/Documents";`)
	assert.Contains(t, dot, `"/home/user" -> "/home/user/notes.md";`)
	assert.Contains(t, dot, `"/home/user" -> "/home/user/orphan";`, "empty parent wires to dir")
	assert.Contains(t, dot, `"/home/user/Documents" [label="Documents", fillcolor="#f22626", shape=box];`)
	assert.Contains(t, dot, `"/home/user/notes.md" [label="notes.md", fillcolor="#fffc00", shape=ellipse];`)
	assert.Equal(t, 1, strings.Count(dot, `"/home/user" [`), "parent declared once")
}

func TestToDOTDetailed(t *testing.T) {
	dot := ToDOT("/home/user", testNodes(), Options{Detailed: true})
	assert.Contains(t, dot, `label="Documents\ndir (1.50, 0.00, 0.00)"`)
}

func TestToDOTEmpty(t *testing.T) {
	dot := ToDOT("", nil, Options{})
	assert.NotContains(t, dot, "->")
}

func TestRenderSVG(t *testing.T) {
	svg, err := RenderSVG(context.Background(), ToDOT("/home/user", testNodes(), Options{}))
	require.NoError(t, err)
	s := string(svg)
	assert.Contains(t, s, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 `)
	assert.Contains(t, s, "notes.md")
}

func TestNormalizeViewBox(t *testing.T) {
	in := []byte(`<svg width="10pt" height="20pt" viewBox="0.00 0.00 10.00 20.00" xmlns="http://www.w3.org/2000/svg"><g/></svg>`)
	out := string(normalizeViewBox(in))
	assert.Equal(t, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 10.00 20.00" width="10" height="20"><g/></svg>`, out)

	assert.Equal(t, "<svg>", string(normalizeViewBox([]byte("<svg>"))))
}
