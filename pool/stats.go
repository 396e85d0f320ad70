package pool

// counters holds the running totals behind Stats.
type counters struct {
	pages         int
	segments      int
	free          int
	reservedBytes int64

	allocCalls    uint64
	allocFailures uint64
	freeCalls     uint64
	growCalls     uint64
	growFailures  uint64
}

// Stats is a snapshot of a pool's configuration, capacity and activity.
type Stats struct {
	SegmentSize int // effective segment size in bytes
	GrowthSize  int // segments per automatic growth

	Pages         int   // pages currently owned
	Segments      int   // segments provisioned across all pages
	Free          int   // segments on the free list
	InUse         int   // segments handed out and not returned
	ReservedBytes int64 // bytes obtained from the system allocator

	AllocCalls    uint64 // Allocate calls
	AllocFailures uint64 // Allocate calls that returned nil
	FreeCalls     uint64 // Deallocate calls (nil excluded)
	GrowCalls     uint64 // growth attempts, automatic or explicit
	GrowFailures  uint64 // growth attempts that failed
}

// Stats returns a snapshot of the pool's counters.
func (p *Pool) Stats() Stats {
	return Stats{
		SegmentSize:   p.segmentSize,
		GrowthSize:    p.defaultGrowthSize,
		Pages:         p.stats.pages,
		Segments:      p.stats.segments,
		Free:          p.stats.free,
		InUse:         p.stats.segments - p.stats.free,
		ReservedBytes: p.stats.reservedBytes,
		AllocCalls:    p.stats.allocCalls,
		AllocFailures: p.stats.allocFailures,
		FreeCalls:     p.stats.freeCalls,
		GrowCalls:     p.stats.growCalls,
		GrowFailures:  p.stats.growFailures,
	}
}
