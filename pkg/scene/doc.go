// Package scene turns a directory listing into something a painter can draw.
//
// # Types
//
//   - [Entry]: one item of a directory listing, as produced by a [Lister]
//   - [Node]: an entry placed in 3D space by the spiral layout
//   - [ScreenPoint]: a node projected through the camera for one frame
//   - [View]: the navigator's whole state (directory, nodes, camera, hover)
//
// # Frame pipeline
//
//	nodes := scene.BuildNodes(entries, limit, layout.Default())
//	pts := scene.Compute(nodes, cam, geom.Size{W: 1100, H: 720})
//	if p, ok := scene.HitTest(pts, mx, my); ok {
//	    fmt.Println(p.Node.Path)
//	}
//
// [Compute] drops nodes behind the near plane and returns the rest sorted
// back to front, ready for painting. [HitTest] scans points in the order it
// is given; pass [FrontToBack] of the same slice to prefer the nearest node
// when circles overlap.
//
// # Concurrency
//
// Everything here is a pure function over values. A [View] is replaced, not
// mutated: every method returns a new View.
package scene
