package render

import (
	"time"

	"github.com/vizgo/vizr/backend"
)

const (
	// DefaultQualityFloor is the lowest quality the manager will degrade to.
	DefaultQualityFloor = 0.3

	qualityStepDown = 0.1
	qualityStepUp   = 0.05
)

// AdaptiveQualityManager holds the quality scalar that the frame loop
// degrades under load and recovers when headroom returns. It shares the
// renderer's FrameTimer rather than keeping its own sample window.
//
// Degradation is asymmetric: the scalar drops by 0.1 when the average
// frame time exceeds 120% of the target and climbs by 0.05 when it is
// under 80%, so recovery is half the speed of degradation. Inside the
// band the scalar holds steady.
type AdaptiveQualityManager struct {
	timer   *FrameTimer
	target  time.Duration
	quality float64
	floor   float64
}

// NewAdaptiveQualityManager wires a manager to an existing timer.
// The scalar starts at full quality. A non-positive target falls back
// to DefaultTargetFrameTime; the floor is clamped into (0, 1].
func NewAdaptiveQualityManager(timer *FrameTimer, target time.Duration, floor float64) *AdaptiveQualityManager {
	if target <= 0 {
		target = DefaultTargetFrameTime
	}
	if floor <= 0 || floor > 1 {
		floor = DefaultQualityFloor
	}
	return &AdaptiveQualityManager{
		timer:   timer,
		target:  target,
		quality: 1.0,
		floor:   floor,
	}
}

// UpdateFrameStats records one frame duration and adjusts the quality
// scalar from the new rolling average.
func (m *AdaptiveQualityManager) UpdateFrameStats(d time.Duration) {
	m.timer.RecordFrame(d)
	avg := float64(m.timer.AverageFrameTime())
	target := float64(m.target)
	switch {
	case avg > target*1.2:
		m.quality -= qualityStepDown
		if m.quality < m.floor {
			m.quality = m.floor
		}
	case avg < target*0.8:
		m.quality += qualityStepUp
		if m.quality > 1.0 {
			m.quality = 1.0
		}
	}
}

// Quality reports the current scalar, always within [floor, 1].
func (m *AdaptiveQualityManager) Quality() float64 { return m.quality }

// Target reports the frame-time budget the manager steers toward.
func (m *AdaptiveQualityManager) Target() time.Duration { return m.target }

// Config derives the render configuration for the current quality.
func (m *AdaptiveQualityManager) Config() backend.RenderConfig {
	return ConfigForQuality(m.quality)
}

// ConfigForQuality maps a quality scalar to concrete render settings.
// Antialiasing holds above 0.7, MSAA above 0.8, texture filtering drops
// to nearest at 0.6 and below, LOD bias rises linearly as quality falls,
// and point scale follows the scalar directly.
func ConfigForQuality(q float64) backend.RenderConfig {
	cfg := backend.RenderConfig{
		Quality:     q,
		PointScale:  q,
		Antialias:   q > 0.7,
		MSAASamples: 1,
		LODBias:     (1 - q) * 2,
		Filter:      backend.FilterNearest,
	}
	if q > 0.8 {
		cfg.MSAASamples = 4
	}
	if q > 0.6 {
		cfg.Filter = backend.FilterLinear
	}
	return cfg
}
