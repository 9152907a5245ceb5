package backend

import (
	"context"
	"fmt"

	"github.com/gogpu/gpucontext"

	"github.com/vizgo/vizr"
)

// DeviceHandle provides shared GPU device access from a host application.
//
// Hosts that already own a GPU device (a windowing framework, a larger
// gogpu-based application) implement DeviceHandle and pass it to the WebGPU
// backend, which then reuses the shared device instead of creating its own.
//
// DeviceHandle is an alias for gpucontext.DeviceProvider so vizr composes
// with the gpucontext ecosystem without an adapter layer.
type DeviceHandle = gpucontext.DeviceProvider

// BufferUsage describes what a pooled buffer is bound as during a draw.
type BufferUsage uint8

const (
	// BufferUsageVertex marks a vertex attribute buffer.
	BufferUsageVertex BufferUsage = iota

	// BufferUsageIndex marks an index buffer.
	BufferUsageIndex

	// BufferUsageUniform marks a uniform/constant buffer.
	BufferUsageUniform
)

// String returns the usage name.
func (u BufferUsage) String() string {
	switch u {
	case BufferUsageVertex:
		return "vertex"
	case BufferUsageIndex:
		return "index"
	case BufferUsageUniform:
		return "uniform"
	default:
		return fmt.Sprintf("unknown(%d)", uint8(u))
	}
}

// BufferSpec identifies a buffer by purpose and exact size. It is the
// equality key of the buffer pool's free lists: a request for a slightly
// different size always misses the pool and allocates fresh. Exact-match
// keying trades memory efficiency for O(1) lookup and avoids internal
// fragmentation bookkeeping.
type BufferSpec struct {
	// Label is the debug purpose of the buffer (e.g. "line-vertices").
	Label string

	// Size is the buffer size in bytes.
	Size uint64

	// Usage is how the buffer is bound.
	Usage BufferUsage
}

// String returns a compact description of the spec.
func (s BufferSpec) String() string {
	return fmt.Sprintf("%s/%s/%dB", s.Label, s.Usage, s.Size)
}

// Buffer is a backend-owned memory buffer checked out of the pool for
// exactly one frame.
type Buffer interface {
	// Spec returns the spec the buffer was created for.
	Spec() BufferSpec

	// Upload copies data into the buffer, starting at offset zero.
	// Data beyond the buffer size is truncated.
	Upload(data []byte) error

	// Destroy releases the underlying memory. Called by the pool when a
	// returned buffer is rejected for being over budget, and on pool close.
	Destroy()
}

// Pipeline is a compiled, backend-bound drawing program for one chart type.
// Pipelines are created lazily by the renderer's cache and live as long as
// the renderer.
type Pipeline interface {
	// ChartType returns the chart type the pipeline draws.
	ChartType() vizr.ChartType

	// Compiled reports whether shader compilation and binding succeeded.
	Compiled() bool

	// Destroy releases compiled shader and pipeline state.
	Destroy()
}

// TextureFilter selects the sampling filter for textured marks.
type TextureFilter uint8

const (
	// FilterNearest samples the nearest texel. Cheapest.
	FilterNearest TextureFilter = iota

	// FilterLinear bilinearly interpolates texels.
	FilterLinear
)

// String returns the filter name.
func (f TextureFilter) String() string {
	if f == FilterLinear {
		return "linear"
	}
	return "nearest"
}

// RenderConfig is the concrete set of tunables a draw executes with.
// It is derived from the adaptive quality scalar each frame; see the
// render package's AdaptiveQualityManager.
type RenderConfig struct {
	// Quality is the scalar the config was derived from, in [0,1].
	Quality float64

	// PointScale multiplies mark point sizes. Scales linearly with quality.
	PointScale float64

	// Antialias enables edge anti-aliasing.
	Antialias bool

	// MSAASamples is the multisample count (1 = off).
	MSAASamples int

	// LODBias coarsens geometry level-of-detail as quality falls.
	// Zero at full quality, growing to 2 at quality zero.
	LODBias float64

	// Filter is the texture sampling filter.
	Filter TextureFilter
}

// DrawInput carries everything a backend needs to execute one frame.
type DrawInput struct {
	// Pipeline is the compiled pipeline for the chart's type.
	Pipeline Pipeline

	// Vertex, Index, and Uniform are the frame's pooled buffers.
	// All three are nil on backends without buffer support.
	Vertex, Index, Uniform Buffer

	// Spec is the chart being drawn.
	Spec *vizr.ChartSpec

	// Config holds the frame's adaptive render parameters.
	Config RenderConfig
}

// DrawInfo reports what a draw actually submitted.
type DrawInfo struct {
	// Triangles is the number of triangles rendered.
	Triangles int

	// DrawCalls is the number of draw (or blit) calls issued.
	DrawCalls int
}

// PerformanceProfile is the static capability and throughput description of
// a backend tier. It is derived purely from the backend variant and never
// changes after selection, so it is recomputed on demand rather than cached.
type PerformanceProfile struct {
	// MaxPoints is the largest point count the tier renders interactively.
	MaxPoints uint32

	// TargetFPS is the frame rate the tier is expected to sustain.
	TargetFPS uint32

	// MemoryEfficiency rates how efficiently the tier uses memory, in (0,1].
	MemoryEfficiency float32

	// ComputeShaders reports compute shader availability.
	ComputeShaders bool
}

// RenderBackend is the execution context a Renderer draws through.
//
// Exactly one backend is active per Renderer, selected once at construction
// by CreateOptimal; backends are never hot-swapped. Implementations are not
// required to be safe for concurrent use: one rendering goroutine owns one
// backend.
type RenderBackend interface {
	// Name returns the backend identifier (e.g. "webgpu", "canvas2d").
	Name() string

	// Init acquires the execution context. Capability negotiation with the
	// host environment may be slow, so Init honors ctx cancellation.
	// Init must be called before any other operation.
	Init(ctx context.Context) error

	// Close releases the execution context and all backend resources.
	Close()

	// Profile returns the tier's performance characteristics.
	// Total over all backends: there is no error path.
	Profile() PerformanceProfile

	// SupportsBuffers reports whether the backend has pooled memory
	// buffers. Canvas2D does not; constructing a buffer pool over it is a
	// configuration error.
	SupportsBuffers() bool

	// CreateBuffer allocates a new buffer. Allocation failure is
	// unrecoverable mid-frame (GPU OOM cannot be retried) and is treated
	// as fatal by the buffer pool.
	CreateBuffer(spec BufferSpec) (Buffer, error)

	// CompilePipeline compiles and binds the drawing program for a chart
	// type. Called at most once per type per renderer session by the
	// pipeline cache.
	CompilePipeline(t vizr.ChartType) (Pipeline, error)

	// Draw executes one frame synchronously and reports what was
	// submitted. Draw must not suspend: suspension mid-frame would corrupt
	// frame-timing measurements.
	Draw(in DrawInput) (DrawInfo, error)
}
