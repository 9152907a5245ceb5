package backend

import (
	"context"
	"errors"
	"fmt"

	"github.com/vizgo/vizr"
)

// tierErr maps a backend name to the sentinel error of its tier.
func tierErr(name string) error {
	switch name {
	case BackendWebGPU:
		return ErrWebGPU
	case BackendWebGL2:
		return ErrWebGL
	case BackendCanvas:
		return ErrCanvas
	default:
		return ErrNoBackend
	}
}

// CreateOptimal selects and initializes the best available backend.
//
// Tiers are probed in preference order (WebGPU, then WebGL2, then Canvas2D).
// A tier whose probe or initialization fails is logged at Warn with its
// tier-specific error and the next tier is tried. The returned backend is
// initialized and ready to draw.
//
// Probing may negotiate capabilities with a host environment and can be
// slow; bound it with a caller-imposed ctx deadline. Once a Renderer holds
// the returned backend the selection is fixed for the Renderer's lifetime.
//
// When every probe fails the errors of all tiers are joined. With the
// canvas backend imported this cannot happen: Canvas2D construction is
// defined to never fail.
func CreateOptimal(ctx context.Context) (RenderBackend, error) {
	log := vizr.Logger()

	var probeErrs []error
	for _, name := range probeOrder {
		if err := ctx.Err(); err != nil {
			probeErrs = append(probeErrs, err)
			break
		}

		b := Get(name)
		if b == nil {
			// Not registered (package not imported) or a stub factory:
			// not an error, just not a candidate.
			continue
		}

		if err := b.Init(ctx); err != nil {
			wrapped := fmt.Errorf("%w: %w", tierErr(name), err)
			log.Warn("backend probe failed", "backend", name, "err", wrapped)
			probeErrs = append(probeErrs, wrapped)
			continue
		}

		log.Info("backend selected",
			"backend", name,
			"compute", b.Profile().ComputeShaders,
			"maxPoints", b.Profile().MaxPoints)
		return b, nil
	}

	if len(probeErrs) == 0 {
		return nil, ErrNoBackend
	}
	return nil, fmt.Errorf("%w: %w", ErrNoBackend, errors.Join(probeErrs...))
}
