package backend

import (
	"context"
	"errors"
	"slices"
	"testing"

	"github.com/vizgo/vizr"
)

// stubBackend is a minimal scriptable backend for registry and probe tests.
type stubBackend struct {
	name    string
	initErr error
	inited  bool
	closed  bool
	profile PerformanceProfile
}

func (s *stubBackend) Name() string { return s.name }
func (s *stubBackend) Init(ctx context.Context) error {
	if s.initErr != nil {
		return s.initErr
	}
	s.inited = true
	return nil
}
func (s *stubBackend) Close()                      { s.closed = true }
func (s *stubBackend) Profile() PerformanceProfile { return s.profile }
func (s *stubBackend) SupportsBuffers() bool       { return false }
func (s *stubBackend) CreateBuffer(spec BufferSpec) (Buffer, error) {
	return nil, ErrBuffersUnsupported
}
func (s *stubBackend) CompilePipeline(t vizr.ChartType) (Pipeline, error) {
	return nil, ErrPipelineCompile
}
func (s *stubBackend) Draw(in DrawInput) (DrawInfo, error) { return DrawInfo{}, nil }

func TestRegisterGet(t *testing.T) {
	Register("test-tier", func() RenderBackend { return &stubBackend{name: "test-tier"} })
	defer Unregister("test-tier")

	if !IsRegistered("test-tier") {
		t.Fatal("backend not registered")
	}
	if !slices.Contains(Available(), "test-tier") {
		t.Errorf("Available() = %v, missing test-tier", Available())
	}

	b := Get("test-tier")
	if b == nil {
		t.Fatal("Get returned nil for registered backend")
	}
	if b.Name() != "test-tier" {
		t.Errorf("Name = %q", b.Name())
	}

	// Each Get produces a fresh instance.
	if Get("test-tier") == b {
		t.Error("Get returned the same instance twice")
	}
}

func TestGetUnknown(t *testing.T) {
	if b := Get("missing"); b != nil {
		t.Errorf("Get(missing) = %v, want nil", b)
	}
	if IsRegistered("missing") {
		t.Error("IsRegistered(missing) = true")
	}
}

func TestRegisterReplaces(t *testing.T) {
	Register("dup", func() RenderBackend { return &stubBackend{name: "first"} })
	Register("dup", func() RenderBackend { return &stubBackend{name: "second"} })
	defer Unregister("dup")

	if got := Get("dup").Name(); got != "second" {
		t.Errorf("Name = %q, want replacement", got)
	}
}

func TestUnregister(t *testing.T) {
	Register("gone", func() RenderBackend { return &stubBackend{name: "gone"} })
	Unregister("gone")
	if IsRegistered("gone") {
		t.Error("backend still registered after Unregister")
	}
}

func TestTierErrors(t *testing.T) {
	tests := []struct {
		name string
		want error
	}{
		{BackendWebGPU, ErrWebGPU},
		{BackendWebGL2, ErrWebGL},
		{BackendCanvas, ErrCanvas},
		{"mystery", ErrNoBackend},
	}
	for _, tt := range tests {
		if got := tierErr(tt.name); !errors.Is(got, tt.want) {
			t.Errorf("tierErr(%q) = %v, want %v", tt.name, got, tt.want)
		}
	}
}
