package backend

import (
	"context"
	"errors"
	"testing"
)

// install registers a factory under a tier name for the duration of a test.
func install(t *testing.T, name string, factory Factory) {
	t.Helper()
	Register(name, factory)
	t.Cleanup(func() { Unregister(name) })
}

func TestCreateOptimalPrefersFirstTier(t *testing.T) {
	install(t, BackendWebGPU, func() RenderBackend { return &stubBackend{name: BackendWebGPU} })
	install(t, BackendCanvas, func() RenderBackend { return &stubBackend{name: BackendCanvas} })

	b, err := CreateOptimal(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if b.Name() != BackendWebGPU {
		t.Errorf("selected %q, want %q", b.Name(), BackendWebGPU)
	}
}

func TestCreateOptimalFallsThroughFailedTiers(t *testing.T) {
	install(t, BackendWebGPU, func() RenderBackend {
		return &stubBackend{name: BackendWebGPU, initErr: errors.New("no adapter")}
	})
	install(t, BackendWebGL2, func() RenderBackend {
		return &stubBackend{name: BackendWebGL2, initErr: errors.New("no context")}
	})
	install(t, BackendCanvas, func() RenderBackend { return &stubBackend{name: BackendCanvas} })

	b, err := CreateOptimal(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if b.Name() != BackendCanvas {
		t.Errorf("selected %q, want fallback to %q", b.Name(), BackendCanvas)
	}
}

func TestCreateOptimalSkipsStubFactories(t *testing.T) {
	// Platform stubs register a factory that produces nil.
	install(t, BackendWebGL2, func() RenderBackend { return nil })
	install(t, BackendCanvas, func() RenderBackend { return &stubBackend{name: BackendCanvas} })

	b, err := CreateOptimal(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if b.Name() != BackendCanvas {
		t.Errorf("selected %q, want %q", b.Name(), BackendCanvas)
	}
}

func TestCreateOptimalAllTiersFail(t *testing.T) {
	install(t, BackendWebGPU, func() RenderBackend {
		return &stubBackend{name: BackendWebGPU, initErr: errors.New("no adapter")}
	})

	_, err := CreateOptimal(context.Background())
	if !errors.Is(err, ErrNoBackend) {
		t.Fatalf("err = %v, want ErrNoBackend", err)
	}
	if !errors.Is(err, ErrWebGPU) {
		t.Errorf("err = %v, want wrapped ErrWebGPU", err)
	}
}

func TestCreateOptimalNothingRegistered(t *testing.T) {
	if _, err := CreateOptimal(context.Background()); !errors.Is(err, ErrNoBackend) {
		t.Fatalf("err = %v, want ErrNoBackend", err)
	}
}

func TestCreateOptimalHonorsContext(t *testing.T) {
	install(t, BackendCanvas, func() RenderBackend { return &stubBackend{name: BackendCanvas} })

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := CreateOptimal(ctx); !errors.Is(err, context.Canceled) {
		t.Fatalf("err = %v, want context.Canceled", err)
	}
}
