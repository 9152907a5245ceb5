// Package webgl provides the mid-tier WebGL2 rendering backend.
//
// The backend acquires a WebGL2 context through syscall/js and is only
// functional under GOOS=js GOARCH=wasm. On every other platform the package
// registers a stub factory so that backend probing skips the tier
// gracefully while the import stays unconditional:
//
//	import _ "github.com/vizgo/vizr/backend/webgl"
package webgl

import "errors"

// Package errors for the webgl backend.
var (
	// ErrNoContext is returned when the host refuses a WebGL2 context.
	ErrNoContext = errors.New("webgl: webgl2 context not available")

	// ErrShaderCompile is returned when GLSL compilation or linking fails.
	ErrShaderCompile = errors.New("webgl: shader compilation failed")
)
