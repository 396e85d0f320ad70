package sysalloc

import "unsafe"

// Allocator is a source of raw memory blocks.
//
// Implementations:
//   - Heap: Go-heap backed blocks
//   - Mmap: anonymous memory mappings
//   - Limit: byte-budget wrapper
//   - Counting: instrumentation wrapper
type Allocator interface {
	// Alloc returns a pointer to n contiguous bytes aligned to at least one
	// machine word. The contents are unspecified. On failure it returns nil
	// and an error matching ErrOutOfMemory or ErrBadSize.
	Alloc(n int) (unsafe.Pointer, error)

	// Free releases a block previously returned by Alloc on the same
	// allocator. Freeing an unknown pointer returns ErrUnknownBlock.
	Free(p unsafe.Pointer) error
}

// Default returns the allocator pools use when none is configured.
func Default() Allocator {
	return NewHeap()
}
