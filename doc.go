// Package vizr is the rendering core of a charting library.
//
// It selects the best available execution backend (WebGPU, WebGL2, or a
// universal software canvas), compiles and caches one render pipeline per
// chart type, recycles GPU buffers through a pooled allocator, and drives
// render parameters from a frame-budget feedback loop so interactive charts
// degrade gracefully instead of dropping frames.
//
// The root package holds the chart specification input types and the shared
// logger. The render package exposes the top-level Renderer:
//
//	r, err := render.New(ctx)
//	if err != nil {
//	    // no visualization possible on this device
//	}
//	defer r.Close()
//
//	stats, err := r.Render(spec)
//
// Backends register themselves on import:
//
//	import (
//	    _ "github.com/vizgo/vizr/backend/canvas" // universal fallback
//	    _ "github.com/vizgo/vizr/backend/webgpu" // GPU acceleration
//	)
package vizr
