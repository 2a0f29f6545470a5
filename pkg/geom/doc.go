// Package geom provides the small amount of vector math fsnav needs.
//
// There is deliberately no matrix type. A view transform in fsnav is two
// rotations and a translation, so points are rotated directly:
//
//	p := geom.Vec3{X: 1, Y: 0, Z: 0}
//	p = p.RotateY(yaw).RotateX(pitch)
//
// All types are plain values and every method returns a new value, which
// makes them safe to share between goroutines.
package geom
