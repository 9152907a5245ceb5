package canvas

import (
	"context"
	"errors"
	"testing"

	"github.com/vizgo/vizr"
	"github.com/vizgo/vizr/backend"
)

func newInitialized(t *testing.T) *Backend {
	t.Helper()
	b := New()
	if err := b.Init(context.Background()); err != nil {
		t.Fatalf("canvas Init failed: %v", err)
	}
	t.Cleanup(b.Close)
	return b
}

func barSpec(n int) *vizr.ChartSpec {
	data := make([]vizr.Datum, n)
	for i := range data {
		data[i] = vizr.Datum{X: float64(i) / float64(n), Y: 0.7}
	}
	return &vizr.ChartSpec{
		Mark:   vizr.Mark{Kind: vizr.MarkBar},
		Data:   data,
		Width:  200,
		Height: 100,
	}
}

func TestCanvasRegistersItself(t *testing.T) {
	if !backend.IsRegistered(backend.BackendCanvas) {
		t.Fatal("canvas did not register on import")
	}
	if b := backend.Get(backend.BackendCanvas); b == nil {
		t.Fatal("registry factory returned nil")
	}
}

func TestCanvasInitNeverFails(t *testing.T) {
	b := New()
	if err := b.Init(context.Background()); err != nil {
		t.Fatalf("Init = %v, want nil", err)
	}
}

func TestCanvasHasNoBuffers(t *testing.T) {
	b := newInitialized(t)
	if b.SupportsBuffers() {
		t.Error("SupportsBuffers = true")
	}
	spec := backend.BufferSpec{Label: "v", Size: 64, Usage: backend.BufferUsageVertex}
	if _, err := b.CreateBuffer(spec); !errors.Is(err, backend.ErrBuffersUnsupported) {
		t.Errorf("CreateBuffer err = %v, want ErrBuffersUnsupported", err)
	}
}

func TestCanvasCompilePipeline(t *testing.T) {
	b := newInitialized(t)
	for _, ct := range vizr.ChartTypes() {
		p, err := b.CompilePipeline(ct)
		if err != nil {
			t.Fatalf("CompilePipeline(%v) = %v", ct, err)
		}
		if !p.Compiled() || p.ChartType() != ct {
			t.Errorf("pipeline for %v: compiled=%v type=%v", ct, p.Compiled(), p.ChartType())
		}
	}
}

func TestCanvasRequiresInit(t *testing.T) {
	b := New()
	if _, err := b.CompilePipeline(vizr.ChartPoint); !errors.Is(err, backend.ErrNotInitialized) {
		t.Errorf("CompilePipeline before Init = %v", err)
	}
	if _, err := b.Draw(backend.DrawInput{}); !errors.Is(err, backend.ErrNotInitialized) {
		t.Errorf("Draw before Init = %v", err)
	}
}

func TestCanvasDraw(t *testing.T) {
	b := newInitialized(t)
	p, err := b.CompilePipeline(vizr.ChartBar)
	if err != nil {
		t.Fatal(err)
	}

	spec := barSpec(10)
	info, err := b.Draw(backend.DrawInput{
		Pipeline: p,
		Spec:     spec,
		Config:   backend.RenderConfig{Quality: 1.0, PointScale: 1.0},
	})
	if err != nil {
		t.Fatal(err)
	}
	if info.Triangles != 20 {
		t.Errorf("triangles = %d, want 20 (two per bar)", info.Triangles)
	}

	surface := b.Surface()
	if surface == nil {
		t.Fatal("Surface() = nil after draw")
	}
	bounds := surface.Bounds()
	if bounds.Dx() != 200 || bounds.Dy() != 100 {
		t.Errorf("surface bounds = %v, want 200x100", bounds)
	}

	// Something must have been painted.
	painted := false
	for i := 3; i < len(surface.Pix); i += 4 {
		if surface.Pix[i] != 0 {
			painted = true
			break
		}
	}
	if !painted {
		t.Error("surface is fully transparent after drawing bars")
	}
}

func TestCanvasLowQualityUpscales(t *testing.T) {
	b := newInitialized(t)
	p, _ := b.CompilePipeline(vizr.ChartBar)

	spec := barSpec(4)
	full, err := b.Draw(backend.DrawInput{
		Pipeline: p, Spec: spec,
		Config: backend.RenderConfig{Quality: 1.0, PointScale: 1.0},
	})
	if err != nil {
		t.Fatal(err)
	}
	low, err := b.Draw(backend.DrawInput{
		Pipeline: p, Spec: spec,
		Config: backend.RenderConfig{Quality: 0.3, PointScale: 0.3, Filter: backend.FilterNearest},
	})
	if err != nil {
		t.Fatal(err)
	}

	// The low-quality frame still covers the full surface size.
	bounds := b.Surface().Bounds()
	if bounds.Dx() != 200 || bounds.Dy() != 100 {
		t.Errorf("upscaled bounds = %v, want 200x100", bounds)
	}
	if low.DrawCalls != full.DrawCalls+1 {
		t.Errorf("low-quality draw calls = %d, want %d (+1 upscale blit)", low.DrawCalls, full.DrawCalls+1)
	}
}

func TestCanvasDefaultSurfaceSize(t *testing.T) {
	b := newInitialized(t)
	p, _ := b.CompilePipeline(vizr.ChartPoint)

	spec := &vizr.ChartSpec{
		Mark: vizr.Mark{Kind: vizr.MarkPoint},
		Data: []vizr.Datum{{X: 0.5, Y: 0.5, Size: 1}},
	}
	if _, err := b.Draw(backend.DrawInput{Pipeline: p, Spec: spec, Config: backend.RenderConfig{Quality: 1, PointScale: 1}}); err != nil {
		t.Fatal(err)
	}
	bounds := b.Surface().Bounds()
	if bounds.Dx() != defaultWidth || bounds.Dy() != defaultHeight {
		t.Errorf("bounds = %v, want default %dx%d", bounds, defaultWidth, defaultHeight)
	}
}
