package nodelink

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/fsnav/pkg/render"
	"github.com/matzehuels/fsnav/pkg/scene"
)

// Options configures node-link diagram rendering.
type Options struct {
	// Detailed includes the kind and spiral position in node labels.
	// When false, only the name is shown.
	Detailed bool
}

// ToDOT converts a listing of dir to Graphviz DOT format. Every node is wired
// to its Parent (or to dir when Parent is empty). Parents that are not
// themselves in nodes are added as plain directory nodes.
func ToDOT(dir string, nodes []scene.Node, opts Options) string {
	pal := render.DefaultPalette()

	var buf bytes.Buffer
	buf.WriteString("digraph G {\n")
	buf.WriteString("  rankdir=LR;\n")
	fmt.Fprintf(&buf, "  bgcolor=%q;\n", render.Hex(pal.Background))
	fmt.Fprintf(&buf, "  node [style=filled, fontname=\"monospace\", fontcolor=%q, color=%q];\n",
		render.Hex(pal.Background), render.Hex(pal.TextDim))
	fmt.Fprintf(&buf, "  edge [color=%q];\n", render.Hex(pal.Wire))
	buf.WriteString("\n")

	seen := make(map[string]bool, len(nodes)+1)
	for _, n := range nodes {
		seen[n.Path] = true
	}
	declareDir := func(p string) {
		if p == "" || seen[p] {
			return
		}
		seen[p] = true
		fmt.Fprintf(&buf, "  %q [label=%q, shape=box, fillcolor=%q];\n", p, p, render.Hex(pal.Directory))
	}
	declareDir(dir)
	for _, n := range nodes {
		declareDir(n.Parent)
	}

	for _, n := range nodes {
		fmt.Fprintf(&buf, "  %q [%s];\n", n.Path, strings.Join(fmtAttrs(n, fmtLabel(n, opts.Detailed), pal), ", "))
	}

	buf.WriteString("\n")
	for _, n := range nodes {
		parent := n.Parent
		if parent == "" {
			parent = dir
		}
		if parent == "" || parent == n.Path {
			continue
		}
		fmt.Fprintf(&buf, "  %q -> %q;\n", parent, n.Path)
	}

	buf.WriteString("}\n")
	return buf.String()
}

func fmtLabel(n scene.Node, detailed bool) string {
	if !detailed {
		return n.Name
	}
	return fmt.Sprintf("%s\n%s (%.2f, %.2f, %.2f)", n.Name, n.Kind, n.Pos.X, n.Pos.Y, n.Pos.Z)
}

func fmtAttrs(n scene.Node, label string, pal render.Palette) []string {
	attrs := []string{fmt.Sprintf("label=%q", label), fmt.Sprintf("fillcolor=%q", render.Hex(pal.Fill(n)))}
	if n.IsDir() {
		attrs = append(attrs, "shape=box")
	} else {
		attrs = append(attrs, "shape=ellipse")
	}
	return attrs
}

// RenderSVG renders a DOT graph to SVG using Graphviz.
func RenderSVG(ctx context.Context, dot string) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return normalizeViewBox(buf.Bytes()), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

// normalizeViewBox replaces Graphviz's pt-sized root element with one sized
// in pixels from its viewBox.
func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}

	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}

	root := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`,
		w, h, w, h)

	return svgTagRe.ReplaceAll(svg, []byte(root))
}
