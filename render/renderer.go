package render

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/vizgo/vizr"
	"github.com/vizgo/vizr/backend"
)

// deviceSetter is implemented by the WebGPU backend to render onto an
// externally owned device.
type deviceSetter interface {
	SetDeviceProvider(p backend.DeviceHandle) error
}

// Renderer is the adaptive rendering pipeline: one backend, its pipeline
// cache, a buffer pool on tiers that support one, and the frame-time
// quality loop. Create with New, drive with Render, release with Close.
//
// A Renderer is owned by a single goroutine; Render calls never overlap.
type Renderer struct {
	backend   backend.RenderBackend
	pool      *BufferPool // nil on the Canvas2D tier
	pipelines *pipelineCache
	timer     *FrameTimer
	quality   *AdaptiveQualityManager

	lastStats RenderStats
	closed    bool
}

// New builds a renderer. Without WithBackend the tiers are probed in
// capability order and the best one that initializes wins; Canvas2D is
// the total fallback, so probing only fails when no tier is registered.
func New(ctx context.Context, opts ...Option) (*Renderer, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	b, err := selectBackend(ctx, o)
	if err != nil {
		return nil, err
	}

	var pool *BufferPool
	if b.SupportsBuffers() {
		pool, err = NewBufferPool(b, o.poolBudget)
		if err != nil {
			b.Close()
			return nil, err
		}
	}

	timer := NewFrameTimer(o.frameWindow)
	return &Renderer{
		backend:   b,
		pool:      pool,
		pipelines: newPipelineCache(b, vizr.Logger()),
		timer:     timer,
		quality:   NewAdaptiveQualityManager(timer, o.target, o.floor),
	}, nil
}

func selectBackend(ctx context.Context, o options) (backend.RenderBackend, error) {
	if o.backend != nil {
		if o.provider != nil {
			if ds, ok := o.backend.(deviceSetter); ok {
				if err := ds.SetDeviceProvider(o.provider); err != nil {
					return nil, err
				}
			}
		}
		if err := o.backend.Init(ctx); err != nil {
			return nil, fmt.Errorf("init %s: %w", o.backend.Name(), err)
		}
		return o.backend, nil
	}

	// An external device binds to the WebGPU tier specifically; if that
	// tier cannot come up the provider is ignored and probing proceeds.
	if o.provider != nil {
		if b := backend.Get(backend.BackendWebGPU); b != nil {
			if ds, ok := b.(deviceSetter); ok {
				if err := ds.SetDeviceProvider(o.provider); err == nil {
					if err := b.Init(ctx); err == nil {
						return b, nil
					}
				}
			}
			vizr.Logger().Warn("external device unusable, probing tiers", "backend", backend.BackendWebGPU)
		}
	}
	return backend.CreateOptimal(ctx)
}

// Render draws one chart and feeds the measured frame time back into the
// quality controller. Per-frame failures (pipeline compile, buffer
// allocation, draw) degrade the frame instead of killing the renderer:
// the frame's stats come back marked Degraded and the error describes
// what was skipped.
func (r *Renderer) Render(spec *vizr.ChartSpec) (RenderStats, error) {
	if r.closed {
		return RenderStats{}, errors.New("render: renderer closed")
	}

	start := time.Now()
	cfg := r.quality.Config()
	chartType := vizr.Classify(spec)

	info, renderErr := r.renderFrame(chartType, spec, cfg)

	elapsed := time.Since(start)
	r.quality.UpdateFrameStats(elapsed)

	stats := RenderStats{
		FrameTime:         elapsed,
		TrianglesRendered: info.Triangles,
		DrawCalls:         info.DrawCalls,
		Quality:           cfg.Quality,
		GPUUtilization:    utilization(elapsed, r.quality.Target()),
		CacheHitRate:      r.pipelines.hitRate(),
		Degraded:          renderErr != nil || r.pipelines.isDegraded(chartType),
	}
	if r.pool != nil {
		stats.MemoryUsed = r.pool.AllocatedSize()
	}
	r.lastStats = stats

	if renderErr != nil {
		vizr.Logger().Warn("frame degraded", "chart", chartType.String(),
			"backend", r.backend.Name(), "error", renderErr)
		return stats, fmt.Errorf("render %s frame: %w", chartType, renderErr)
	}
	return stats, nil
}

func (r *Renderer) renderFrame(t vizr.ChartType, spec *vizr.ChartSpec, cfg backend.RenderConfig) (backend.DrawInfo, error) {
	pipe, err := r.pipelines.getOrCreate(t)
	if err != nil {
		return backend.DrawInfo{}, err
	}

	in := backend.DrawInput{Pipeline: pipe, Spec: spec, Config: cfg}
	if r.pool != nil {
		bufs, err := r.pool.GetBuffersForSpec(t, spec)
		if err != nil {
			return backend.DrawInfo{}, err
		}
		defer bufs.Release()
		in.Vertex, in.Index, in.Uniform = bufs.Vertex, bufs.Index, bufs.Uniform
	}
	return r.backend.Draw(in)
}

// Backend exposes the selected backend, mainly for capability checks.
func (r *Renderer) Backend() backend.RenderBackend { return r.backend }

// Profile reports the selected tier's performance characteristics.
func (r *Renderer) Profile() backend.PerformanceProfile { return r.backend.Profile() }

// FrameTimer exposes the shared frame sample window.
func (r *Renderer) FrameTimer() *FrameTimer { return r.timer }

// Quality reports the current adaptive quality scalar.
func (r *Renderer) Quality() float64 { return r.quality.Quality() }

// LastStats returns the stats of the most recent frame.
func (r *Renderer) LastStats() RenderStats { return r.lastStats }

// PoolStats snapshots the buffer pool counters. The zero value comes
// back on tiers without a pool.
func (r *Renderer) PoolStats() PoolStats {
	if r.pool == nil {
		return PoolStats{}
	}
	return r.pool.Stats()
}

// SuggestOptimizations inspects recent frames and returns human-readable
// tuning advice. Advisory only: nothing here changes renderer state.
func (r *Renderer) SuggestOptimizations() []string {
	var out []string
	avg := r.timer.AverageFrameTime()
	target := r.quality.Target()
	profile := r.backend.Profile()

	if r.timer.SampleCount() > 0 && avg > 2*target {
		out = append(out, fmt.Sprintf("average frame time %v is more than twice the %v target; reduce chart complexity or lower the target FPS", avg, target))
	}
	if suggested := r.timer.SuggestQuality(); r.timer.SampleCount() > 0 && suggested < r.quality.Quality() {
		out = append(out, fmt.Sprintf("frame history supports quality %.1f at best while the controller sits at %.2f; expect further step-downs unless load drops", suggested, r.quality.Quality()))
	}
	if r.quality.Quality() < 0.5 {
		out = append(out, "quality has degraded below 0.5; consider pre-aggregating data before rendering")
	}
	if uint32(r.lastStats.TrianglesRendered) > profile.MaxPoints {
		out = append(out, fmt.Sprintf("geometry exceeds the %s tier's interactive budget (%d points); sample or bin the data", r.backend.Name(), profile.MaxPoints))
	}
	if r.pool != nil {
		if s := r.pool.Stats(); s.Allocated > s.Budget {
			out = append(out, fmt.Sprintf("buffer pool is over budget (%d/%d bytes); raise WithPoolBudget or render fewer concurrent charts", s.Allocated, s.Budget))
		}
	}
	return out
}

// Close releases pipelines, pooled buffers, and the backend context.
// Safe to call more than once.
func (r *Renderer) Close() {
	if r.closed {
		return
	}
	r.closed = true
	r.pipelines.destroy()
	if r.pool != nil {
		r.pool.Close()
	}
	r.backend.Close()
}
