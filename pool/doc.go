// Package pool provides a fixed-size segment allocator with O(1) allocation and
// deallocation.
//
// # Overview
//
// A Pool hands out equally sized segments of raw memory. Instead of asking the
// system allocator for every segment, it requests large pages holding many
// segments at once and recycles freed segments through an intrusive free list.
// This suits callers that repeatedly create and discard objects of one size,
// such as node-based containers and object recyclers.
//
// # Layout
//
// Every page obtained from the system allocator starts with one machine word
// linking it to the previously obtained page. The rest of the page is carved
// into segments:
//
//	page:  [ prev page | seg 0 | seg 1 | ... | seg n-1 ]
//
// While a segment is free, its first word links it to the next free segment.
// Once handed to a caller, the whole segment belongs to the caller. The pool
// keeps no other bookkeeping: a segment is "in use" exactly when it is not on
// the free list.
//
// # Usage Example
//
//	p := pool.New(48, nil) // 48-byte segments, 64 segments per growth
//	defer p.Close()
//
//	seg := p.Allocate()
//	if seg == nil {
//	    return errors.New("out of memory")
//	}
//	buf := p.Segment(seg) // 48-byte view
//	copy(buf, payload)
//
//	p.Deallocate(seg)
//
// # Growth Order
//
// Grow threads the segments of a new page onto the free list in ascending
// address order, so the highest-address segment of the newest page is handed
// out first and consecutive allocations from a fresh page descend by one
// segment size. A deallocated segment is always the next one allocated.
//
// # Caller Contract
//
// Deallocate must only receive pointers returned by Allocate on the same pool,
// each at most once, and no segment may be used after Close. These rules are
// not checked: violating them silently corrupts the free list. Building with
// the segpooldebug tag enables a checker that panics on foreign pointers and
// double frees at the cost of per-segment bookkeeping.
//
// # Memory and the Garbage Collector
//
// Pool memory is never scanned by the garbage collector. Segments must not hold
// the only reference to a Go heap object. Typed enforces this for typed use by
// rejecting element types that contain pointers.
//
// # Thread Safety
//
// Pool instances are not thread-safe. Callers must synchronize access
// externally. A Pool must not be copied; use Transplant to move ownership.
//
// # Related Packages
//
//   - github.com/joshuapare/segpool/sysalloc: system allocators backing pages
//   - github.com/joshuapare/segpool/metrics: Prometheus export of pool statistics
package pool
