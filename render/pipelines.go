package render

import (
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/vizgo/vizr"
	"github.com/vizgo/vizr/backend"
)

// pipelineCache lazily compiles and retains one backend pipeline per
// chart type. Compilation happens at most once per type; concurrent
// lookups after a miss serialize on the write lock and re-check before
// compiling.
//
// A type whose shader fails to compile falls back to the point pipeline
// and is remembered as degraded so the failure is paid once, not per
// frame.
type pipelineCache struct {
	backend backend.RenderBackend
	log     *slog.Logger

	mu        sync.RWMutex
	pipelines map[vizr.ChartType]backend.Pipeline
	degraded  map[vizr.ChartType]bool

	hits   atomic.Uint64
	misses atomic.Uint64
}

func newPipelineCache(b backend.RenderBackend, log *slog.Logger) *pipelineCache {
	return &pipelineCache{
		backend:   b,
		log:       log,
		pipelines: make(map[vizr.ChartType]backend.Pipeline),
		degraded:  make(map[vizr.ChartType]bool),
	}
}

// getOrCreate returns the pipeline for a chart type, compiling it on
// first use. The error is non-nil only when both the requested pipeline
// and the point fallback fail to compile.
func (c *pipelineCache) getOrCreate(t vizr.ChartType) (backend.Pipeline, error) {
	c.mu.RLock()
	p, ok := c.pipelines[t]
	c.mu.RUnlock()
	if ok {
		c.hits.Add(1)
		return p, nil
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if p, ok := c.pipelines[t]; ok {
		c.hits.Add(1)
		return p, nil
	}
	c.misses.Add(1)

	p, err := c.backend.CompilePipeline(t)
	if err == nil {
		c.pipelines[t] = p
		return p, nil
	}
	c.log.Warn("pipeline compile failed, using point fallback",
		"chart", t.String(), "backend", c.backend.Name(), "error", err)

	fallback, ok := c.pipelines[vizr.ChartPoint]
	if !ok {
		fallback, err = c.backend.CompilePipeline(vizr.ChartPoint)
		if err != nil {
			return nil, fmt.Errorf("compile %s and point fallback: %w", t, err)
		}
		c.pipelines[vizr.ChartPoint] = fallback
	}
	c.pipelines[t] = fallback
	c.degraded[t] = true
	return fallback, nil
}

// isDegraded reports whether a chart type is being served by the point
// fallback instead of its own pipeline.
func (c *pipelineCache) isDegraded(t vizr.ChartType) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.degraded[t]
}

// hitRate is the fraction of lookups served without compiling.
func (c *pipelineCache) hitRate() float64 {
	hits := c.hits.Load()
	total := hits + c.misses.Load()
	if total == 0 {
		return 0
	}
	return float64(hits) / float64(total)
}

// size reports how many chart types currently resolve to a pipeline.
func (c *pipelineCache) size() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.pipelines)
}

// destroy releases every compiled pipeline. Fallback aliasing means one
// pipeline may appear under several types; each is destroyed once.
func (c *pipelineCache) destroy() {
	c.mu.Lock()
	defer c.mu.Unlock()
	seen := make(map[backend.Pipeline]bool, len(c.pipelines))
	for _, p := range c.pipelines {
		if seen[p] {
			continue
		}
		seen[p] = true
		p.Destroy()
	}
	c.pipelines = make(map[vizr.ChartType]backend.Pipeline)
	c.degraded = make(map[vizr.ChartType]bool)
}
