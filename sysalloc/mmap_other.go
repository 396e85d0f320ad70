//go:build !linux && !darwin && !freebsd

package sysalloc

import "unsafe"

// Mmap falls back to Go-heap blocks on platforms without anonymous mmap support.
type Mmap struct {
	heap *Heap
}

// NewMmap creates a Heap-backed stand-in for the mmap allocator.
func NewMmap() *Mmap {
	return &Mmap{heap: NewHeap()}
}

// Alloc returns n bytes from the Go heap.
func (m *Mmap) Alloc(n int) (unsafe.Pointer, error) { return m.heap.Alloc(n) }

// Free releases the block at p.
func (m *Mmap) Free(p unsafe.Pointer) error { return m.heap.Free(p) }

// Blocks returns the number of live blocks.
func (m *Mmap) Blocks() int { return m.heap.Blocks() }

// Bytes returns the number of bytes held by live blocks.
func (m *Mmap) Bytes() int { return m.heap.Bytes() }

// OffHeap reports whether blocks live outside the Go heap.
func (m *Mmap) OffHeap() bool { return false }

// Compile-time interface check
var _ Allocator = (*Mmap)(nil)
