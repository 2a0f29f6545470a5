// Package layout places directory entries in 3D space.
//
// The only layout fsnav ships is a spiral: successive entries wind outward
// from the centre while stepping away from the camera, so the first entry of
// a listing sits near the middle of the city and the last sits on the rim,
// furthest back.
//
//	positions := layout.Spiral(len(entries), layout.Default())
//
// Layouts are deterministic: the same count and options always produce the
// same positions.
package layout
