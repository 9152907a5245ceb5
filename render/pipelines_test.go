package render

import (
	"testing"

	"github.com/vizgo/vizr"
)

func TestPipelineCacheCompilesOnce(t *testing.T) {
	fb := newFakeBackend()
	cache := newPipelineCache(fb, vizr.Logger())

	first, err := cache.getOrCreate(vizr.ChartLine)
	if err != nil {
		t.Fatal(err)
	}
	second, err := cache.getOrCreate(vizr.ChartLine)
	if err != nil {
		t.Fatal(err)
	}
	if first != second {
		t.Error("repeat lookup returned a different pipeline")
	}
	if fb.compiles != 1 {
		t.Errorf("compiles = %d, want 1", fb.compiles)
	}
	if first.ChartType() != vizr.ChartLine {
		t.Errorf("pipeline chart type = %v", first.ChartType())
	}
}

func TestPipelineCacheHitRate(t *testing.T) {
	fb := newFakeBackend()
	cache := newPipelineCache(fb, vizr.Logger())

	cache.getOrCreate(vizr.ChartBar) // miss
	cache.getOrCreate(vizr.ChartBar) // hit
	cache.getOrCreate(vizr.ChartBar) // hit
	cache.getOrCreate(vizr.ChartArea) // miss

	if got := cache.hitRate(); got != 0.5 {
		t.Errorf("hitRate = %v, want 0.5", got)
	}
	if cache.size() != 2 {
		t.Errorf("size = %d, want 2", cache.size())
	}
}

func TestPipelineCachePointFallback(t *testing.T) {
	fb := newFakeBackend()
	fb.compileFail[vizr.ChartText] = true
	cache := newPipelineCache(fb, vizr.Logger())

	p, err := cache.getOrCreate(vizr.ChartText)
	if err != nil {
		t.Fatal(err)
	}
	if p.ChartType() != vizr.ChartPoint {
		t.Errorf("fallback chart type = %v, want point", p.ChartType())
	}
	if !cache.isDegraded(vizr.ChartText) {
		t.Error("text type not marked degraded")
	}
	if cache.isDegraded(vizr.ChartPoint) {
		t.Error("point type wrongly marked degraded")
	}

	// The failure is cached: the next lookup does not recompile.
	compiles := fb.compiles
	if _, err := cache.getOrCreate(vizr.ChartText); err != nil {
		t.Fatal(err)
	}
	if fb.compiles != compiles {
		t.Errorf("compiles grew from %d to %d on cached fallback", compiles, fb.compiles)
	}
}

func TestPipelineCacheTotalFailure(t *testing.T) {
	fb := newFakeBackend()
	fb.compileFail[vizr.ChartText] = true
	fb.compileFail[vizr.ChartPoint] = true
	cache := newPipelineCache(fb, vizr.Logger())

	if _, err := cache.getOrCreate(vizr.ChartText); err == nil {
		t.Fatal("expected error when fallback also fails")
	}
}

func TestPipelineCacheDestroyDedupes(t *testing.T) {
	fb := newFakeBackend()
	fb.compileFail[vizr.ChartText] = true
	cache := newPipelineCache(fb, vizr.Logger())

	p, err := cache.getOrCreate(vizr.ChartText) // point fallback, aliased under two keys
	if err != nil {
		t.Fatal(err)
	}
	cache.getOrCreate(vizr.ChartBar)
	cache.destroy()

	if fp := p.(*fakePipeline); fp.destroyed != 1 {
		t.Errorf("aliased pipeline destroyed %d times, want 1", fp.destroyed)
	}
	if cache.size() != 0 {
		t.Errorf("size after destroy = %d", cache.size())
	}
}
