// Package sysalloc provides the raw memory sources a pool draws its pages from.
//
// # Overview
//
// A pool never talks to the Go runtime or the operating system directly. It
// consumes exactly two operations, expressed by the Allocator interface:
//
//   - Alloc(n): obtain n contiguous, word-aligned bytes, or an error
//   - Free(p): release a block previously returned by Alloc
//
// # Implementations
//
// Heap: blocks are Go byte slices kept reachable until Free.
//
// Mmap: blocks are anonymous private mappings (Linux, macOS, FreeBSD). The
// memory lives outside the Go heap and is returned to the kernel on Free.
// Elsewhere Mmap falls back to Heap.
//
// Limit: caps the total number of live bytes obtained from another Allocator.
//
// Counting: records calls, failures and live bytes of another Allocator.
//
// # Memory Contents
//
// The garbage collector does not scan memory handed out by these allocators
// for pointers. Callers must not store the only reference to a Go heap object
// inside such a block.
//
// # Thread Safety
//
// All allocators in this package are safe for concurrent use, so one allocator
// can back several pools owned by different goroutines.
package sysalloc
