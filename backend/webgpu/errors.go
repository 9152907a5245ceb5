// Package webgpu provides the compute-capable GPU backend using gogpu/wgpu.
//
// The backend owns a wgpu/hal instance, adapter, device, and queue, or
// borrows a shared device from a host application via a
// gpucontext.DeviceProvider. Shaders are WGSL sources compiled to SPIR-V
// with gogpu/naga at pipeline-construction time.
//
// Import this package to make WebGPU a selection candidate:
//
//	import _ "github.com/vizgo/vizr/backend/webgpu"
package webgpu

import "errors"

// Package errors for the webgpu backend.
var (
	// ErrNoAdapter is returned when no GPU adapter is found.
	ErrNoAdapter = errors.New("webgpu: no GPU adapters found")

	// ErrNoHALBackend is returned when no wgpu HAL backend is compiled in.
	ErrNoHALBackend = errors.New("webgpu: no HAL backend available")

	// ErrDeviceOpen is returned when opening the logical device fails.
	ErrDeviceOpen = errors.New("webgpu: device creation failed")

	// ErrShaderCompile is returned when WGSL compilation fails.
	ErrShaderCompile = errors.New("webgpu: shader compilation failed")

	// ErrBadProvider is returned when a shared-device provider does not
	// expose usable HAL handles.
	ErrBadProvider = errors.New("webgpu: device provider does not expose HAL types")
)
