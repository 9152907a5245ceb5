package backend

import "errors"

// Backend-tier and registry errors. Probe failures are wrapped with the
// sentinel of the tier that failed so callers can log which tier was lost
// with errors.Is.
var (
	// ErrWebGPU tags WebGPU adapter or device failures.
	ErrWebGPU = errors.New("backend: webgpu unavailable")

	// ErrWebGL tags WebGL2 context-creation failures.
	ErrWebGL = errors.New("backend: webgl2 unavailable")

	// ErrCanvas tags canvas context failures. Canvas2D initialization is
	// defined to never fail; this sentinel exists so the tier taxonomy is
	// complete and misuse (double Close, draw after Close) is taggable.
	ErrCanvas = errors.New("backend: canvas2d error")

	// ErrNoBackend is returned when no registered backend initializes.
	// With backend/canvas imported this cannot happen.
	ErrNoBackend = errors.New("backend: no backend available")

	// ErrNotInitialized is returned when operations run before Init.
	ErrNotInitialized = errors.New("backend: not initialized")

	// ErrBuffersUnsupported is returned when buffer operations target a
	// backend without buffer support (Canvas2D). This is a configuration
	// error, fatal at construction, never a per-frame condition.
	ErrBuffersUnsupported = errors.New("backend: buffers not supported")

	// ErrPipelineCompile tags shader compilation or binding failures for a
	// chart type. Recoverable: the renderer falls back to the point
	// pipeline for that type.
	ErrPipelineCompile = errors.New("backend: pipeline compilation failed")
)
