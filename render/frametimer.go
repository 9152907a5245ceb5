package render

import "time"

const (
	// DefaultFrameWindow is how many frame samples the timer keeps.
	DefaultFrameWindow = 60

	// DefaultTargetFrameTime is the assumed per-frame budget (~60fps).
	DefaultTargetFrameTime = 16 * time.Millisecond
)

// FrameTimer tracks recent frame durations in a fixed-capacity ring.
// Once the window fills, the oldest sample falls off. Not safe for
// concurrent use; it belongs to a single Renderer.
type FrameTimer struct {
	samples []time.Duration
	head    int
	count   int
}

// NewFrameTimer returns a timer keeping at most window samples.
// A window of zero or less falls back to DefaultFrameWindow.
func NewFrameTimer(window int) *FrameTimer {
	if window <= 0 {
		window = DefaultFrameWindow
	}
	return &FrameTimer{samples: make([]time.Duration, window)}
}

// RecordFrame appends one frame duration, evicting the oldest sample
// when the window is full.
func (t *FrameTimer) RecordFrame(d time.Duration) {
	t.samples[t.head] = d
	t.head = (t.head + 1) % len(t.samples)
	if t.count < len(t.samples) {
		t.count++
	}
}

// SampleCount reports how many samples the window currently holds.
func (t *FrameTimer) SampleCount() int { return t.count }

// AverageFrameTime is the mean of the recorded samples. With no samples
// yet it reports DefaultTargetFrameTime so early quality decisions start
// from the nominal budget rather than zero.
func (t *FrameTimer) AverageFrameTime() time.Duration {
	if t.count == 0 {
		return DefaultTargetFrameTime
	}
	var sum time.Duration
	for i := 0; i < t.count; i++ {
		sum += t.samples[i]
	}
	return sum / time.Duration(t.count)
}

// FPS converts the average frame time to frames per second.
func (t *FrameTimer) FPS() float64 {
	avg := t.AverageFrameTime()
	if avg <= 0 {
		return 0
	}
	return float64(time.Second) / float64(avg)
}

// SuggestQuality maps the average frame time to a coarse quality level.
// It is advisory only; the adaptive manager's scalar is the state that
// actually drives render configs.
func (t *FrameTimer) SuggestQuality() float64 {
	avg := t.AverageFrameTime()
	switch {
	case avg < 8*time.Millisecond:
		return 1.0
	case avg < 24*time.Millisecond:
		return 0.8
	case avg < 32*time.Millisecond:
		return 0.5
	default:
		return 0.3
	}
}
