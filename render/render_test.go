package render

import (
	"context"
	"errors"
	"time"

	"github.com/vizgo/vizr"
	"github.com/vizgo/vizr/backend"
)

// fakeBackend is a fully scriptable backend for exercising the pool,
// pipeline cache, and renderer without a GPU.
type fakeBackend struct {
	name        string
	buffers     bool
	initErr     error
	createErr   error
	drawErr     error
	drawDelay   time.Duration
	compileFail map[vizr.ChartType]bool

	compiles  int
	creates   int
	draws     int
	destroyed int
	closed    bool
}

func newFakeBackend() *fakeBackend {
	return &fakeBackend{
		name:        "fake",
		buffers:     true,
		compileFail: make(map[vizr.ChartType]bool),
	}
}

func (f *fakeBackend) Name() string               { return f.name }
func (f *fakeBackend) Init(context.Context) error { return f.initErr }
func (f *fakeBackend) Close()                     { f.closed = true }
func (f *fakeBackend) SupportsBuffers() bool      { return f.buffers }

func (f *fakeBackend) Profile() backend.PerformanceProfile {
	return backend.PerformanceProfile{MaxPoints: 1000, TargetFPS: 60, MemoryEfficiency: 0.9}
}

func (f *fakeBackend) CreateBuffer(spec backend.BufferSpec) (backend.Buffer, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	f.creates++
	return &fakeBuffer{spec: spec, owner: f}, nil
}

func (f *fakeBackend) CompilePipeline(t vizr.ChartType) (backend.Pipeline, error) {
	f.compiles++
	if f.compileFail[t] {
		return nil, errors.New("shader rejected")
	}
	return &fakePipeline{chartType: t}, nil
}

func (f *fakeBackend) Draw(in backend.DrawInput) (backend.DrawInfo, error) {
	if f.drawDelay > 0 {
		time.Sleep(f.drawDelay)
	}
	if f.drawErr != nil {
		return backend.DrawInfo{}, f.drawErr
	}
	f.draws++
	return backend.DrawInfo{Triangles: in.Spec.DataLen() * 2, DrawCalls: 1}, nil
}

type fakeBuffer struct {
	spec      backend.BufferSpec
	owner     *fakeBackend
	destroyed bool
}

func (b *fakeBuffer) Spec() backend.BufferSpec { return b.spec }
func (b *fakeBuffer) Upload([]byte) error      { return nil }
func (b *fakeBuffer) Destroy() {
	if !b.destroyed {
		b.destroyed = true
		b.owner.destroyed++
	}
}

type fakePipeline struct {
	chartType vizr.ChartType
	destroyed int
}

func (p *fakePipeline) ChartType() vizr.ChartType { return p.chartType }
func (p *fakePipeline) Compiled() bool            { return true }
func (p *fakePipeline) Destroy()                  { p.destroyed++ }

func pointSpec(n int) *vizr.ChartSpec {
	data := make([]vizr.Datum, n)
	for i := range data {
		data[i] = vizr.Datum{X: float64(i) / float64(n), Y: 0.5, Size: 1}
	}
	return &vizr.ChartSpec{
		Mark:   vizr.Mark{Kind: vizr.MarkPoint},
		Data:   data,
		Width:  640,
		Height: 480,
	}
}
