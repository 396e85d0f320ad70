package pool

import (
	"errors"
	"sync"
	"testing"
	"unsafe"

	"github.com/stretchr/testify/require"

	"github.com/joshuapare/segpool/sysalloc"
)

// ============================================================================
// Test Helpers
// ============================================================================

// newCountingPool creates a pool backed by a counting Go-heap allocator.
func newCountingPool(t testing.TB, segmentSize, growth int) (*Pool, *sysalloc.Counting) {
	t.Helper()
	sys := sysalloc.NewCounting(sysalloc.NewHeap())
	p := New(segmentSize, &Config{DefaultGrowth: growth, Allocator: sys})
	t.Cleanup(func() {
		require.NoError(t, p.Close())
	})
	return p, sys
}

// pageBytes is the size of a page holding n segments of p.
func pageBytes(p *Pool, n int) int64 {
	return int64(wordSize + n*p.GetSegmentSize())
}

const wordSize = int(unsafe.Sizeof(uintptr(0)))

// fill writes b over the whole segment.
func fill(p *Pool, seg unsafe.Pointer, b byte) {
	buf := p.Segment(seg)
	for i := range buf {
		buf[i] = b
	}
}

// requireFilled asserts every byte of the segment equals b.
func requireFilled(t testing.TB, p *Pool, seg unsafe.Pointer, b byte) {
	t.Helper()
	for i, got := range p.Segment(seg) {
		require.Equal(t, b, got, "segment %p corrupted at byte %d", seg, i)
	}
}

var errRelease = errors.New("test: release refused")

// stubbornAllocator allocates from the heap but refuses every Free.
type stubbornAllocator struct {
	heap *sysalloc.Heap

	mu    sync.Mutex
	frees int
}

func newStubbornAllocator() *stubbornAllocator {
	return &stubbornAllocator{heap: sysalloc.NewHeap()}
}

func (s *stubbornAllocator) Alloc(n int) (unsafe.Pointer, error) {
	return s.heap.Alloc(n)
}

func (s *stubbornAllocator) Free(unsafe.Pointer) error {
	s.mu.Lock()
	s.frees++
	s.mu.Unlock()
	return errRelease
}
