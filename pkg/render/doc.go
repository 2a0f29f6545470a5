// Package render draws navigator frames.
//
// # Overview
//
// A [Frame] is everything needed to paint one view: the viewport, the
// projected points in paint order, the hovered node and the HUD text. Frames
// are built from a [scene.View] with [FromView] or directly from computed
// points.
//
// Three sinks are provided:
//
//   - [RenderSVG]: vector output written by hand to a bytes.Buffer
//   - [RenderPNG]: raster output drawn with gg and scaled with imaging
//   - [RenderJSON]: the frame as data, for clients that draw themselves
//
// All sinks paint back to front: points are drawn in slice order, so the last
// point ends up on top. That is the order [scene.Compute] returns.
//
// # Palette
//
// [Palette] holds the FSN colours: black background, cyan grid, red
// directory pedestals and seven file colours picked by a hash of the file
// name, so the same name always gets the same colour.
//
// # Node-Link Diagrams
//
// The [nodelink] subpackage renders the parent/child wiring of a listing as a
// Graphviz diagram.
//
// [nodelink]: github.com/matzehuels/fsnav/pkg/render/nodelink
package render
