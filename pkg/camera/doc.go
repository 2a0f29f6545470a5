// Package camera implements the orbit camera and pinhole projection used to
// turn world-space node positions into screen coordinates.
//
// # Pipeline
//
// [Project] applies, in order:
//
//  1. rotation about the vertical axis by Yaw
//  2. rotation about the horizontal axis by Pitch
//  3. translation along the view axis by Dist
//  4. near-plane rejection (z <= [NearPlane] is not visible)
//  5. perspective divide with scale = (W/2) / tan(FOV/2)
//
// Screen y is flipped so that it grows downward.
//
// # Interaction
//
// A [Camera] is an immutable value. Interaction produces a new value with
// Pitch and Dist clamped to their ranges:
//
//	cam = cam.Orbit(dx, dy)
//	cam = cam.Zoom(-0.4)
//	cam = camera.Apply(cam, camera.Scroll{Y: 1})
package camera
