//go:build linux || darwin || freebsd

package sysalloc

import (
	"fmt"
	"sync"
	"unsafe"

	"golang.org/x/sys/unix"
)

// Mmap hands out anonymous private mappings. Mappings are page-aligned and
// zero-filled by the kernel; Free unmaps them.
//
// Every block costs at least one OS page, so Mmap suits pools whose pages
// are large (many segments per growth).
type Mmap struct {
	mu     sync.Mutex
	blocks map[unsafe.Pointer][]byte
	bytes  int
}

// NewMmap creates an empty Mmap allocator.
func NewMmap() *Mmap {
	return &Mmap{blocks: make(map[unsafe.Pointer][]byte)}
}

// Alloc maps n bytes of anonymous memory.
func (m *Mmap) Alloc(n int) (unsafe.Pointer, error) {
	if n <= 0 {
		return nil, fmt.Errorf("%w: %d", ErrBadSize, n)
	}
	data, err := unix.Mmap(-1, 0, n, unix.PROT_READ|unix.PROT_WRITE, unix.MAP_ANON|unix.MAP_PRIVATE)
	if err != nil {
		return nil, fmt.Errorf("%w: mmap %d bytes: %w", ErrOutOfMemory, n, err)
	}
	p := unsafe.Pointer(unsafe.SliceData(data))

	m.mu.Lock()
	m.blocks[p] = data
	m.bytes += len(data)
	m.mu.Unlock()
	return p, nil
}

// Free unmaps the block at p.
func (m *Mmap) Free(p unsafe.Pointer) error {
	m.mu.Lock()
	data, ok := m.blocks[p]
	if ok {
		delete(m.blocks, p)
		m.bytes -= len(data)
	}
	m.mu.Unlock()
	if !ok {
		return fmt.Errorf("%w: %p", ErrUnknownBlock, p)
	}
	if err := unix.Munmap(data); err != nil {
		return fmt.Errorf("sysalloc: munmap %d bytes: %w", len(data), err)
	}
	return nil
}

// Blocks returns the number of live mappings.
func (m *Mmap) Blocks() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.blocks)
}

// Bytes returns the number of bytes held by live mappings.
func (m *Mmap) Bytes() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.bytes
}

// OffHeap reports whether blocks live outside the Go heap.
func (m *Mmap) OffHeap() bool { return true }

// Compile-time interface check
var _ Allocator = (*Mmap)(nil)
