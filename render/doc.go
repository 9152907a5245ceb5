// Package render orchestrates adaptive chart rendering.
//
// A Renderer owns one probed backend, a pipeline cache keyed by chart type,
// a pooled buffer allocator, a frame timer, and an adaptive quality
// manager. Each Render call runs the full frame loop: derive the adaptive
// render config, classify the chart, fetch or build its pipeline, check
// buffers out of the pool, execute the backend draw, and feed the measured
// frame time back into the quality controller.
//
// Renderers are single-owner: render calls must be issued strictly
// sequentially by one goroutine. Charts that render concurrently must each
// own an independent Renderer (and therefore independent pool and pipeline
// cache); pools are bound to the backend they were built from and must
// never be shared across backends.
package render
