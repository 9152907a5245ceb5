package render

import (
	"errors"
	"testing"

	"github.com/vizgo/vizr"
	"github.com/vizgo/vizr/backend"
)

func vertexSpec(label string, size uint64) backend.BufferSpec {
	return backend.BufferSpec{Label: label, Size: size, Usage: backend.BufferUsageVertex}
}

func TestBufferPoolRejectsBufferlessBackend(t *testing.T) {
	fb := newFakeBackend()
	fb.buffers = false
	if _, err := NewBufferPool(fb, 1000); !errors.Is(err, backend.ErrBuffersUnsupported) {
		t.Fatalf("err = %v, want ErrBuffersUnsupported", err)
	}
}

func TestBufferPoolAccounting(t *testing.T) {
	fb := newFakeBackend()
	pool, err := NewBufferPool(fb, 1000)
	if err != nil {
		t.Fatal(err)
	}

	var bufs []backend.Buffer
	for i := 0; i < 3; i++ {
		buf, err := pool.GetBuffer(vertexSpec("v", 100))
		if err != nil {
			t.Fatal(err)
		}
		bufs = append(bufs, buf)
	}
	if got := pool.AllocatedSize(); got != 300 {
		t.Errorf("AllocatedSize = %d, want 300", got)
	}
	if fb.creates != 3 {
		t.Errorf("backend creates = %d, want 3", fb.creates)
	}

	// Under budget: returns retain allocation and grow the free list.
	for _, buf := range bufs {
		pool.ReturnBuffer(buf)
	}
	if got := pool.AllocatedSize(); got != 300 {
		t.Errorf("AllocatedSize after return = %d, want 300", got)
	}
	if got := pool.FreeCount(vertexSpec("v", 100)); got != 3 {
		t.Errorf("FreeCount = %d, want 3", got)
	}
}

func TestBufferPoolReusesFIFO(t *testing.T) {
	fb := newFakeBackend()
	pool, _ := NewBufferPool(fb, 1000)
	spec := vertexSpec("v", 64)

	first, _ := pool.GetBuffer(spec)
	second, _ := pool.GetBuffer(spec)
	pool.ReturnBuffer(first)
	pool.ReturnBuffer(second)

	got, _ := pool.GetBuffer(spec)
	if got != first {
		t.Errorf("pool did not hand out the oldest idle buffer first")
	}
	if fb.creates != 2 {
		t.Errorf("creates = %d, want 2 (reuse expected)", fb.creates)
	}
	if s := pool.Stats(); s.Reuses != 1 {
		t.Errorf("Reuses = %d, want 1", s.Reuses)
	}
}

func TestBufferPoolExactKeyNoCrossReuse(t *testing.T) {
	fb := newFakeBackend()
	pool, _ := NewBufferPool(fb, 10_000)

	buf, _ := pool.GetBuffer(vertexSpec("v", 64))
	pool.ReturnBuffer(buf)

	// Same size, different label: no match.
	if _, err := pool.GetBuffer(vertexSpec("w", 64)); err != nil {
		t.Fatal(err)
	}
	if fb.creates != 2 {
		t.Errorf("creates = %d, want 2 (different labels must not share)", fb.creates)
	}

	// Same label, different usage: no match either.
	if _, err := pool.GetBuffer(backend.BufferSpec{Label: "v", Size: 64, Usage: backend.BufferUsageIndex}); err != nil {
		t.Fatal(err)
	}
	if fb.creates != 3 {
		t.Errorf("creates = %d, want 3", fb.creates)
	}
}

func TestBufferPoolOverBudgetDropsOnReturn(t *testing.T) {
	fb := newFakeBackend()
	pool, _ := NewBufferPool(fb, 150)

	// Checkout is never blocked by the budget.
	a, _ := pool.GetBuffer(vertexSpec("v", 100))
	b, _ := pool.GetBuffer(vertexSpec("v", 100))
	if got := pool.AllocatedSize(); got != 200 {
		t.Fatalf("AllocatedSize = %d, want 200 (soft budget)", got)
	}

	// Over budget at return time: the buffer is destroyed, not pooled,
	// and its size leaves the accounting.
	pool.ReturnBuffer(a)
	if fb.destroyed != 1 {
		t.Errorf("destroyed = %d, want 1", fb.destroyed)
	}
	if got := pool.AllocatedSize(); got != 100 {
		t.Errorf("AllocatedSize after drop = %d, want 100", got)
	}

	// Back under budget: the next return is retained.
	pool.ReturnBuffer(b)
	if fb.destroyed != 1 {
		t.Errorf("destroyed = %d, want 1 (second return should pool)", fb.destroyed)
	}
	if got := pool.FreeCount(vertexSpec("v", 100)); got != 1 {
		t.Errorf("FreeCount = %d, want 1", got)
	}
	if s := pool.Stats(); s.Drops != 1 {
		t.Errorf("Drops = %d, want 1", s.Drops)
	}
}

func TestBufferPoolDropsAtExactBudget(t *testing.T) {
	fb := newFakeBackend()
	pool, _ := NewBufferPool(fb, 64)

	buf, err := pool.GetBuffer(vertexSpec("v", 64))
	if err != nil {
		t.Fatal(err)
	}

	// Pooling happens only while allocation is strictly below budget.
	pool.ReturnBuffer(buf)
	if fb.destroyed != 1 {
		t.Errorf("destroyed = %d, want 1 (return at exact budget should drop)", fb.destroyed)
	}
	if got := pool.AllocatedSize(); got != 0 {
		t.Errorf("AllocatedSize = %d, want 0", got)
	}
	if s := pool.Stats(); s.Drops != 1 {
		t.Errorf("Drops = %d, want 1", s.Drops)
	}
}

func TestBufferPoolWarmup(t *testing.T) {
	fb := newFakeBackend()
	pool, _ := NewBufferPool(fb, 10_000)

	specs := []backend.BufferSpec{
		vertexSpec("a", 64),
		vertexSpec("b", 128),
		vertexSpec("a", 64), // duplicate, skipped
	}
	if err := pool.Warmup(specs); err != nil {
		t.Fatal(err)
	}
	if fb.creates != 2 {
		t.Errorf("creates = %d, want 2", fb.creates)
	}
	if got := pool.FreeCount(vertexSpec("a", 64)); got != 1 {
		t.Errorf("FreeCount(a) = %d, want 1", got)
	}

	// Warmed-up buffers serve the first checkout without allocating.
	if _, err := pool.GetBuffer(vertexSpec("b", 128)); err != nil {
		t.Fatal(err)
	}
	if fb.creates != 2 {
		t.Errorf("creates after warm checkout = %d, want 2", fb.creates)
	}
}

func TestBufferPoolAllocationFailure(t *testing.T) {
	fb := newFakeBackend()
	fb.createErr = errors.New("device lost")
	pool, _ := NewBufferPool(fb, 1000)

	if _, err := pool.GetBuffer(vertexSpec("v", 64)); err == nil {
		t.Fatal("expected allocation error")
	}
	if got := pool.AllocatedSize(); got != 0 {
		t.Errorf("AllocatedSize after failure = %d, want 0", got)
	}
}

func TestBufferPoolClose(t *testing.T) {
	fb := newFakeBackend()
	pool, _ := NewBufferPool(fb, 10_000)

	buf, _ := pool.GetBuffer(vertexSpec("v", 64))
	pool.ReturnBuffer(buf)
	pool.Close()

	if fb.destroyed != 1 {
		t.Errorf("destroyed = %d, want 1", fb.destroyed)
	}
	if got := pool.AllocatedSize(); got != 0 {
		t.Errorf("AllocatedSize after close = %d, want 0", got)
	}
	if _, err := pool.GetBuffer(vertexSpec("v", 64)); err == nil {
		t.Error("expected checkout failure after close")
	}
	pool.Close() // idempotent
}

func TestGetBuffersForSpec(t *testing.T) {
	fb := newFakeBackend()
	pool, _ := NewBufferPool(fb, 1<<20)

	spec := pointSpec(100)
	bufs, err := pool.GetBuffersForSpec(vizr.ChartPoint, spec)
	if err != nil {
		t.Fatal(err)
	}
	if bufs.Vertex.Spec().Usage != backend.BufferUsageVertex {
		t.Errorf("vertex usage = %v", bufs.Vertex.Spec().Usage)
	}
	if bufs.Vertex.Spec().Size != 100*vertexStride {
		t.Errorf("vertex size = %d, want %d", bufs.Vertex.Spec().Size, 100*vertexStride)
	}
	if bufs.Uniform.Spec().Size != uniformSize {
		t.Errorf("uniform size = %d, want %d", bufs.Uniform.Spec().Size, uniformSize)
	}

	vspec := bufs.Vertex.Spec()
	bufs.Release()
	bufs.Release() // second release is a no-op
	if fb.destroyed != 0 {
		t.Errorf("destroyed = %d, want 0", fb.destroyed)
	}
	if got := pool.FreeCount(vspec); got != 1 {
		t.Errorf("vertex FreeCount = %d, want 1", got)
	}
	if vspec.Label != "point-vertices" {
		t.Errorf("vertex label = %q", vspec.Label)
	}
}
