package webgl

import "github.com/vizgo/vizr/backend"

// TierProfile is the static capability description of the WebGL2 tier:
// mid-tier point budgets, 60fps target, no compute shaders. It lives
// outside the wasm build so cross-tier comparisons see it on any platform.
func TierProfile() backend.PerformanceProfile {
	return backend.PerformanceProfile{
		MaxPoints:        250_000,
		TargetFPS:        60,
		MemoryEfficiency: 0.7,
		ComputeShaders:   false,
	}
}
