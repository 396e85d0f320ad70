package sysalloc

import (
	"sync"
	"unsafe"
)

// Counts is a snapshot of a Counting allocator's activity.
type Counts struct {
	Allocs        int   // successful Alloc calls
	AllocFailures int   // Alloc calls that returned an error
	Frees         int   // successful Free calls
	FreeFailures  int   // Free calls that returned an error
	LiveBlocks    int   // blocks allocated and not yet freed
	LiveBytes     int64 // bytes held by live blocks (as requested)
	PeakBytes     int64 // high-water mark of LiveBytes
}

// Counting records every call made to an underlying Allocator.
type Counting struct {
	next Allocator

	mu     sync.Mutex
	counts Counts
	sizes  map[unsafe.Pointer]int
}

// NewCounting wraps next.
func NewCounting(next Allocator) *Counting {
	return &Counting{
		next:  next,
		sizes: make(map[unsafe.Pointer]int),
	}
}

// Alloc forwards to the wrapped allocator and records the outcome.
func (c *Counting) Alloc(n int) (unsafe.Pointer, error) {
	p, err := c.next.Alloc(n)

	c.mu.Lock()
	defer c.mu.Unlock()
	if err != nil {
		c.counts.AllocFailures++
		return nil, err
	}
	c.counts.Allocs++
	c.counts.LiveBlocks++
	c.counts.LiveBytes += int64(n)
	if c.counts.LiveBytes > c.counts.PeakBytes {
		c.counts.PeakBytes = c.counts.LiveBytes
	}
	c.sizes[p] = n
	return p, nil
}

// Free forwards to the wrapped allocator and records the outcome.
func (c *Counting) Free(p unsafe.Pointer) error {
	err := c.next.Free(p)

	c.mu.Lock()
	defer c.mu.Unlock()
	if err != nil {
		c.counts.FreeFailures++
		return err
	}
	c.counts.Frees++
	if n, ok := c.sizes[p]; ok {
		delete(c.sizes, p)
		c.counts.LiveBlocks--
		c.counts.LiveBytes -= int64(n)
	}
	return nil
}

// Counts returns a snapshot of the recorded activity.
func (c *Counting) Counts() Counts {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.counts
}

// Compile-time interface check
var _ Allocator = (*Counting)(nil)
