package render

import (
	"time"

	"github.com/vizgo/vizr/backend"
)

type options struct {
	backend     backend.RenderBackend
	provider    backend.DeviceHandle
	target      time.Duration
	poolBudget  uint64
	floor       float64
	frameWindow int
}

func defaultOptions() options {
	return options{
		target:      DefaultTargetFrameTime,
		poolBudget:  DefaultPoolBudget,
		floor:       DefaultQualityFloor,
		frameWindow: DefaultFrameWindow,
	}
}

// Option configures a Renderer.
type Option func(*options)

// WithBackend skips tier probing and uses an already constructed
// backend. The renderer initializes and owns it.
func WithBackend(b backend.RenderBackend) Option {
	return func(o *options) { o.backend = b }
}

// WithDeviceProvider renders onto an externally owned GPU device
// instead of creating one. Only the WebGPU tier honors it; shared
// devices are not destroyed on Close.
func WithDeviceProvider(p backend.DeviceHandle) Option {
	return func(o *options) { o.provider = p }
}

// WithTargetFPS sets the frame budget the quality controller steers
// toward. Non-positive values keep the 60fps default.
func WithTargetFPS(fps int) Option {
	return func(o *options) {
		if fps > 0 {
			o.target = time.Second / time.Duration(fps)
		}
	}
}

// WithPoolBudget sets the buffer pool's soft memory cap in bytes.
func WithPoolBudget(bytes uint64) Option {
	return func(o *options) { o.poolBudget = bytes }
}

// WithQualityFloor sets the lowest quality adaptive degradation may
// reach. Values outside (0, 1] keep the default.
func WithQualityFloor(floor float64) Option {
	return func(o *options) { o.floor = floor }
}

// WithFrameWindow sets how many frame samples feed the rolling average.
func WithFrameWindow(n int) Option {
	return func(o *options) { o.frameWindow = n }
}
