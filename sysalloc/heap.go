package sysalloc

import (
	"fmt"
	"sync"
	"unsafe"

	"github.com/joshuapare/segpool/internal/sizes"
)

// Heap hands out blocks carved from Go byte slices.
//
// Each block stays referenced from the blocks map until Free, so the garbage
// collector never reclaims memory a pool still links through. Because Go's
// collector does not move heap objects, block addresses are stable.
type Heap struct {
	mu     sync.Mutex
	blocks map[unsafe.Pointer][]byte
	bytes  int
}

// NewHeap creates an empty Heap allocator.
func NewHeap() *Heap {
	return &Heap{blocks: make(map[unsafe.Pointer][]byte)}
}

// Alloc returns n bytes (rounded up to a whole number of words) from the Go heap.
func (h *Heap) Alloc(n int) (p unsafe.Pointer, err error) {
	if n <= 0 {
		return nil, fmt.Errorf("%w: %d", ErrBadSize, n)
	}

	// make panics with a runtime error for lengths the runtime can never
	// satisfy; report that as an ordinary allocation failure.
	defer func() {
		if r := recover(); r != nil {
			p = nil
			err = fmt.Errorf("%w: heap block of %d bytes: %v", ErrOutOfMemory, n, r)
		}
	}()

	// Word-multiple lengths keep the runtime from packing the block into a
	// tiny-allocator slot with sub-word alignment.
	buf := make([]byte, sizes.AlignWord(n))
	p = unsafe.Pointer(unsafe.SliceData(buf))

	h.mu.Lock()
	h.blocks[p] = buf
	h.bytes += len(buf)
	h.mu.Unlock()
	return p, nil
}

// Free drops the allocator's reference to the block at p.
func (h *Heap) Free(p unsafe.Pointer) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	buf, ok := h.blocks[p]
	if !ok {
		return fmt.Errorf("%w: %p", ErrUnknownBlock, p)
	}
	delete(h.blocks, p)
	h.bytes -= len(buf)
	return nil
}

// Blocks returns the number of live blocks.
func (h *Heap) Blocks() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.blocks)
}

// Bytes returns the number of bytes held by live blocks.
func (h *Heap) Bytes() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.bytes
}

// Compile-time interface check
var _ Allocator = (*Heap)(nil)
