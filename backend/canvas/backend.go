// Package canvas provides the universal software rendering backend.
//
// The canvas backend rasterizes marks on the CPU into an RGBA pixmap using
// golang.org/x/image/vector. It is the last tier in backend probing and its
// initialization never fails, so importing this package guarantees that
// backend selection succeeds on any device.
//
// Canvas2D has no GPU-resident buffers: SupportsBuffers reports false and
// the renderer skips the buffer pool entirely on this tier.
package canvas

import (
	"context"
	"fmt"
	"image"

	"github.com/disintegration/imaging"

	"github.com/vizgo/vizr"
	"github.com/vizgo/vizr/backend"
)

func init() {
	backend.Register(backend.BackendCanvas, func() backend.RenderBackend {
		return New()
	})
}

// Backend is the CPU canvas backend. It owns an offscreen RGBA surface
// sized lazily to the chart being drawn.
//
// Backend is not safe for concurrent use; one rendering goroutine owns it.
type Backend struct {
	surface     *image.RGBA
	initialized bool
}

var _ backend.RenderBackend = (*Backend)(nil)

// New creates a new, uninitialized canvas backend.
func New() *Backend {
	return &Backend{}
}

// Name returns the backend identifier.
func (b *Backend) Name() string { return backend.BackendCanvas }

// Init acquires the canvas context. It never fails: the software canvas is
// the universal baseline every environment can provide.
func (b *Backend) Init(_ context.Context) error {
	b.initialized = true
	vizr.Logger().Debug("canvas backend initialized")
	return nil
}

// Close releases the surface.
func (b *Backend) Close() {
	b.surface = nil
	b.initialized = false
}

// Profile returns the canvas tier characteristics: small interactive point
// budgets, a relaxed frame-rate target, and no compute shaders.
func (b *Backend) Profile() backend.PerformanceProfile {
	return backend.PerformanceProfile{
		MaxPoints:        10_000,
		TargetFPS:        30,
		MemoryEfficiency: 0.5,
		ComputeShaders:   false,
	}
}

// SupportsBuffers reports false: the canvas tier draws straight from the
// chart spec and has no pooled memory buffers.
func (b *Backend) SupportsBuffers() bool { return false }

// CreateBuffer always fails on the canvas tier.
func (b *Backend) CreateBuffer(spec backend.BufferSpec) (backend.Buffer, error) {
	return nil, fmt.Errorf("%w: canvas2d has no GPU buffers (requested %s)",
		backend.ErrBuffersUnsupported, spec)
}

// pipeline is the canvas drawing program for one chart type. There is no
// shader to compile; the pipeline only records which mark rasterizer to use.
type pipeline struct {
	chartType vizr.ChartType
}

func (p *pipeline) ChartType() vizr.ChartType { return p.chartType }
func (p *pipeline) Compiled() bool            { return true }
func (p *pipeline) Destroy()                  {}

// CompilePipeline returns the canvas drawing program for a chart type.
// Canvas pipelines have no shader stage and never fail to build.
func (b *Backend) CompilePipeline(t vizr.ChartType) (backend.Pipeline, error) {
	if !b.initialized {
		return nil, backend.ErrNotInitialized
	}
	return &pipeline{chartType: t}, nil
}

// Draw rasterizes the chart into the offscreen surface.
//
// At low quality the frame is rasterized at half resolution and upscaled,
// trading sharpness for fill-rate; the upscale filter follows the config's
// texture filter.
func (b *Backend) Draw(in backend.DrawInput) (backend.DrawInfo, error) {
	if !b.initialized {
		return backend.DrawInfo{}, backend.ErrNotInitialized
	}
	if in.Spec == nil || in.Pipeline == nil {
		return backend.DrawInfo{}, fmt.Errorf("%w: nil spec or pipeline", backend.ErrCanvas)
	}

	w, h := in.Spec.Width, in.Spec.Height
	if w <= 0 || h <= 0 {
		w, h = defaultWidth, defaultHeight
	}

	// Reduced-resolution rendering below half quality.
	scale := 1.0
	if in.Config.Quality < 0.5 {
		scale = 0.5
	}
	rw := int(float64(w) * scale)
	rh := int(float64(h) * scale)
	if rw < 1 {
		rw = 1
	}
	if rh < 1 {
		rh = 1
	}

	frame := image.NewRGBA(image.Rect(0, 0, rw, rh))
	info := rasterize(frame, in.Pipeline.ChartType(), in.Spec, in.Config)

	if scale != 1.0 {
		filter := imaging.NearestNeighbor
		if in.Config.Filter == backend.FilterLinear {
			filter = imaging.Linear
		}
		up := imaging.Resize(frame, w, h, filter)
		b.surface = image.NewRGBA(up.Bounds())
		copy(b.surface.Pix, up.Pix)
		info.DrawCalls++ // the upscale blit
	} else {
		b.surface = frame
	}

	return info, nil
}

// Surface returns the most recently drawn frame, or nil before the first
// draw. The returned image is owned by the backend and valid until the next
// Draw call.
func (b *Backend) Surface() *image.RGBA {
	return b.surface
}

// Fallback surface dimensions when the spec does not carry any.
const (
	defaultWidth  = 640
	defaultHeight = 480
)
