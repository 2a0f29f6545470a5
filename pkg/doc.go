// Package pkg holds the fsnav libraries.
//
// # Overview
//
// fsnav shows a directory as a 3D spiral of circles, in the manner of the
// SGI File System Navigator. Entries are placed on the spiral, seen through
// an orbiting camera, projected to the screen and painted back to front so
// nearer circles cover farther ones.
//
// # Architecture
//
//	Lister (disk, in-memory demo)
//	         ↓
//	    [scene] entries → nodes on the [layout] spiral
//	         ↓
//	    [camera] view transform + perspective projection
//	         ↓
//	    [scene] depth sort + hit test
//	         ↓
//	    [render] SVG / PNG / JSON, [render/nodelink] DOT / graph
//
// [pipeline] runs these stages with caching ([cache]) and hooks
// ([observability]); [session] keeps interactive state between requests;
// [publish] uploads rendered artifacts to S3-compatible storage.
//
// # Main Packages
//
//   - [geom]: vectors, rotations and clamping
//   - [layout]: the spiral placement
//   - [camera]: orbit camera, projection and camera input events
//   - [scene]: nodes, screen points, the navigator View and its events
//   - [pathfmt]: path shortening for the HUD
//   - [fsys]: listers over go-billy filesystems, the demo tree and a watcher
//   - [render]: frames, palette and the SVG, PNG and JSON renderers
//   - [pipeline]: list → scene → render with cache and validation
//   - [cache]: file, Redis and null caches plus key derivation
//   - [errors]: coded errors and input validation
//   - [buildinfo]: version information
package pkg
