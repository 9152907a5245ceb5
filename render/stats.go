package render

import (
	"fmt"
	"time"
)

// RenderStats describes one completed frame.
type RenderStats struct {
	// FrameTime is the wall time the frame took end to end.
	FrameTime time.Duration

	// TrianglesRendered counts primitives submitted to the backend.
	TrianglesRendered int

	// DrawCalls counts backend draw submissions.
	DrawCalls int

	// MemoryUsed is the buffer pool's allocated size after the frame.
	MemoryUsed uint64

	// Quality is the adaptive quality scalar the frame ran at.
	Quality float64

	// GPUUtilization approximates load as frame time over target,
	// clamped to [0, 1].
	GPUUtilization float64

	// CacheHitRate is the pipeline cache hit fraction so far.
	CacheHitRate float64

	// Degraded marks a frame whose draw failed or fell back; its
	// geometry counts are zero or partial.
	Degraded bool
}

func (s RenderStats) String() string {
	return fmt.Sprintf("frame %v: %d tris, %d draws, q=%.2f, gpu=%.0f%%, cache=%.0f%%, mem=%d",
		s.FrameTime, s.TrianglesRendered, s.DrawCalls, s.Quality,
		s.GPUUtilization*100, s.CacheHitRate*100, s.MemoryUsed)
}

// utilization clamps frameTime/target into [0, 1].
func utilization(frame, target time.Duration) float64 {
	if target <= 0 {
		return 0
	}
	u := float64(frame) / float64(target)
	if u < 0 {
		return 0
	}
	if u > 1 {
		return 1
	}
	return u
}
