// Package nodelink renders a directory listing as a node-link diagram.
//
// # Overview
//
// The navigator's 3D view shows where entries sit; this package shows how
// they hang together. Each listed node is wired to its parent directory, and
// the result is laid out by Graphviz.
//
// # Usage
//
//	dot := nodelink.ToDOT(view.Dir, view.Nodes, nodelink.Options{})
//	svg, err := nodelink.RenderSVG(ctx, dot)
//
// # Options
//
// The [Options] struct controls diagram generation:
//
//   - Detailed: When true, node labels include the kind and spiral position
//
// # DOT Format
//
// The [ToDOT] function produces Graphviz DOT source that can be:
//
//   - Rendered directly via [RenderSVG]
//   - Saved and processed with external Graphviz tools
//
// Directories are drawn as red boxes and files as ellipses filled with their
// palette colour, on the navigator's black background.
//
// # Dependencies
//
// This package uses [github.com/goccy/go-graphviz] for in-process SVG
// rendering.
package nodelink
