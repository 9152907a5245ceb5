package render

import (
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/vizgo/vizr"
	"github.com/vizgo/vizr/backend"
)

// DefaultPoolBudget is the soft cap on pooled GPU memory.
const DefaultPoolBudget = 64 << 20

// BufferPool recycles GPU buffers by exact spec. Buffers checked back in
// go onto a per-spec FIFO free list and are handed out again for the next
// identical request; a request with no idle match allocates fresh from
// the backend.
//
// The budget is soft and enforced only when a buffer is returned: if the
// pool's total allocation already exceeds the budget, the returned buffer
// is destroyed instead of retained. Live checked-out buffers are never
// reclaimed, so allocation may overshoot the budget while a frame holds
// many buffers at once.
type BufferPool struct {
	backend backend.RenderBackend
	budget  uint64

	allocated atomic.Uint64
	reuses    atomic.Uint64
	allocs    atomic.Uint64
	drops     atomic.Uint64

	mu        sync.Mutex
	available map[backend.BufferSpec][]backend.Buffer
	closed    bool
}

// NewBufferPool builds a pool over a backend with addressable buffers.
// Backends without buffer support (the Canvas2D tier) are rejected.
// A non-positive budget falls back to DefaultPoolBudget.
func NewBufferPool(b backend.RenderBackend, budget uint64) (*BufferPool, error) {
	if !b.SupportsBuffers() {
		return nil, fmt.Errorf("buffer pool over %s: %w", b.Name(), backend.ErrBuffersUnsupported)
	}
	if budget == 0 {
		budget = DefaultPoolBudget
	}
	return &BufferPool{
		backend:   b,
		budget:    budget,
		available: make(map[backend.BufferSpec][]backend.Buffer),
	}, nil
}

// GetBuffer checks out a buffer matching spec exactly, reusing the oldest
// idle one when available and allocating otherwise. Allocation errors are
// fatal for the backend (device memory exhaustion is not recoverable at
// this layer); callers degrade the frame rather than retry.
func (p *BufferPool) GetBuffer(spec backend.BufferSpec) (backend.Buffer, error) {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return nil, fmt.Errorf("buffer pool: get %s: pool closed", spec)
	}
	if free := p.available[spec]; len(free) > 0 {
		buf := free[0]
		p.available[spec] = free[1:]
		p.mu.Unlock()
		p.reuses.Add(1)
		return buf, nil
	}
	p.mu.Unlock()

	buf, err := p.backend.CreateBuffer(spec)
	if err != nil {
		return nil, fmt.Errorf("buffer pool: allocate %s: %w", spec, err)
	}
	p.allocated.Add(spec.Size)
	p.allocs.Add(1)
	return buf, nil
}

// ReturnBuffer checks a buffer back in. While the pool is under budget
// the buffer joins the tail of its spec's free list; at or over budget
// it is destroyed and its size leaves the pool's accounting.
func (p *BufferPool) ReturnBuffer(buf backend.Buffer) {
	if buf == nil {
		return
	}
	spec := buf.Spec()

	p.mu.Lock()
	if !p.closed && p.allocated.Load() < p.budget {
		p.available[spec] = append(p.available[spec], buf)
		p.mu.Unlock()
		return
	}
	p.mu.Unlock()

	buf.Destroy()
	p.allocated.Add(^(spec.Size - 1))
	p.drops.Add(1)
}

// AllocatedSize reports the total bytes of pool-owned buffers, both
// checked out and idle.
func (p *BufferPool) AllocatedSize() uint64 { return p.allocated.Load() }

// Budget reports the pool's soft memory cap.
func (p *BufferPool) Budget() uint64 { return p.budget }

// FreeCount reports how many idle buffers exist for an exact spec.
func (p *BufferPool) FreeCount(spec backend.BufferSpec) int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.available[spec])
}

// Warmup pre-allocates one idle buffer per spec so the first frames pay
// no allocation cost. Specs that already have an idle buffer are skipped.
func (p *BufferPool) Warmup(specs []backend.BufferSpec) error {
	for _, spec := range specs {
		if p.FreeCount(spec) > 0 {
			continue
		}
		buf, err := p.GetBuffer(spec)
		if err != nil {
			return err
		}
		p.ReturnBuffer(buf)
	}
	return nil
}

// Stats snapshots the pool counters.
func (p *BufferPool) Stats() PoolStats {
	p.mu.Lock()
	idle := 0
	for _, free := range p.available {
		idle += len(free)
	}
	p.mu.Unlock()
	return PoolStats{
		Allocated: p.allocated.Load(),
		Budget:    p.budget,
		Idle:      idle,
		Reuses:    p.reuses.Load(),
		Allocs:    p.allocs.Load(),
		Drops:     p.drops.Load(),
	}
}

// Close destroys every idle buffer and rejects further checkouts.
// Buffers still checked out are the caller's to destroy.
func (p *BufferPool) Close() {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return
	}
	p.closed = true
	freed := p.available
	p.available = nil
	p.mu.Unlock()

	for _, free := range freed {
		for _, buf := range free {
			size := buf.Spec().Size
			buf.Destroy()
			p.allocated.Add(^(size - 1))
		}
	}
}

// PoolStats is a point-in-time view of BufferPool activity.
type PoolStats struct {
	Allocated uint64
	Budget    uint64
	Idle      int
	Reuses    uint64
	Allocs    uint64
	Drops     uint64
}

func (s PoolStats) String() string {
	return fmt.Sprintf("pool: %d/%d bytes, %d idle, %d reused, %d allocated, %d dropped",
		s.Allocated, s.Budget, s.Idle, s.Reuses, s.Allocs, s.Drops)
}

// RenderBuffers is the per-frame checkout of the three streams a draw
// needs. Release returns them to the pool; it is safe to call once.
type RenderBuffers struct {
	Vertex  backend.Buffer
	Index   backend.Buffer
	Uniform backend.Buffer

	pool *BufferPool
}

// Release checks all three buffers back into the pool. Further use of
// the buffers after release is a caller bug.
func (rb *RenderBuffers) Release() {
	if rb == nil || rb.pool == nil {
		return
	}
	rb.pool.ReturnBuffer(rb.Vertex)
	rb.pool.ReturnBuffer(rb.Index)
	rb.pool.ReturnBuffer(rb.Uniform)
	rb.Vertex, rb.Index, rb.Uniform = nil, nil, nil
	rb.pool = nil
}

// GetBuffersForSpec sizes and checks out vertex, index, and uniform
// buffers for one chart. Buffers already checked out are returned to
// the pool if a later allocation fails.
func (p *BufferPool) GetBuffersForSpec(t vizr.ChartType, spec *vizr.ChartSpec) (*RenderBuffers, error) {
	sizes := bufferSizesFor(t, spec)

	vertex, err := p.GetBuffer(backend.BufferSpec{
		Label: t.String() + "-vertices",
		Size:  sizes.vertex,
		Usage: backend.BufferUsageVertex,
	})
	if err != nil {
		return nil, err
	}
	index, err := p.GetBuffer(backend.BufferSpec{
		Label: t.String() + "-indices",
		Size:  sizes.index,
		Usage: backend.BufferUsageIndex,
	})
	if err != nil {
		p.ReturnBuffer(vertex)
		return nil, err
	}
	uniform, err := p.GetBuffer(backend.BufferSpec{
		Label: t.String() + "-uniforms",
		Size:  sizes.uniform,
		Usage: backend.BufferUsageUniform,
	})
	if err != nil {
		p.ReturnBuffer(vertex)
		p.ReturnBuffer(index)
		return nil, err
	}
	return &RenderBuffers{Vertex: vertex, Index: index, Uniform: uniform, pool: p}, nil
}
