// Package backend defines the rendering backend abstraction and the
// registry through which concrete backends are selected.
//
// Three backend tiers exist, probed in preference order:
//
//	WebGPU  — compute-capable GPU rendering (backend/webgpu)
//	WebGL2  — mid-tier GPU rendering in browsers (backend/webgl)
//	Canvas2D — universal software fallback (backend/canvas)
//
// Backends register themselves from init() functions; importing a backend
// package makes it a selection candidate. CreateOptimal probes the tiers in
// order and returns the first one whose initialization succeeds. Canvas2D
// initialization is defined to never fail, so a program that imports
// backend/canvas always obtains a backend.
package backend
