//go:build !(js && wasm)

package webgl

import "github.com/vizgo/vizr/backend"

// init registers a nil-returning factory off-wasm. Backend probing treats a
// nil instance as "not a candidate", so native builds fall through to the
// next tier without a probe error.
func init() {
	backend.Register(backend.BackendWebGL2, func() backend.RenderBackend {
		return nil
	})
}
