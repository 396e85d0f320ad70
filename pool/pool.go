package pool

import (
	"errors"
	"fmt"
	"log/slog"
	"unsafe"

	"github.com/joshuapare/segpool/internal/sizes"
	"github.com/joshuapare/segpool/sysalloc"
)

// noCopy lets `go vet` (copylocks) flag accidental Pool copies. A copied Pool
// would share page and segment addresses with the original.
type noCopy struct{}

func (*noCopy) Lock()   {}
func (*noCopy) Unlock() {}

// Pool is a fixed-size segment allocator.
//
// The zero value is not usable; construct pools with New.
type Pool struct {
	_ noCopy

	// check is zero-sized unless built with the segpooldebug tag.
	check checker

	// lastAllocPage heads the page chain (newest page first).
	lastAllocPage unsafe.Pointer

	// frontSegment heads the free-segment list.
	frontSegment unsafe.Pointer

	segmentSize       int
	defaultGrowthSize int

	sys sysalloc.Allocator
	log *slog.Logger

	stats counters
}

// New creates a pool of segmentSize-byte segments. No memory is obtained until
// the first allocation or explicit Grow.
//
// segmentSize is raised to at least one machine word, so a free segment can
// always hold its link, and rounded up to a whole number of words, so every
// link is pointer-aligned. A nil cfg selects DefaultConfig.
func New(segmentSize int, cfg *Config) *Pool {
	if cfg == nil {
		cfg = &DefaultConfig
	}
	return &Pool{
		segmentSize:       sizes.AlignWord(segmentSize),
		defaultGrowthSize: cfg.growth(),
		sys:               cfg.allocator(),
		log:               cfg.logger(),
	}
}

// Allocate returns an uninitialized segment of GetSegmentSize() bytes, growing
// the pool by GrowthSize() segments when no free segment is left. It returns
// nil when growth fails; the caller must check.
func (p *Pool) Allocate() unsafe.Pointer {
	seg, _ := p.AllocateErr()
	return seg
}

// AllocateErr is Allocate, reporting why growth failed.
func (p *Pool) AllocateErr() (unsafe.Pointer, error) {
	p.stats.allocCalls++

	if p.frontSegment == nil {
		if err := p.Grow(p.defaultGrowthSize); err != nil {
			p.stats.allocFailures++
			return nil, err
		}
	}

	seg := p.frontSegment
	p.frontSegment = loadLink(seg)
	p.stats.free--

	p.check.allocated(seg)
	return seg, nil
}

// Deallocate returns seg to the free list, where it becomes the next segment
// handed out. seg must have been returned by Allocate on this pool and not
// deallocated since. Deallocating nil is a no-op.
func (p *Pool) Deallocate(seg unsafe.Pointer) {
	if seg == nil {
		return
	}
	p.check.released(seg, p.segmentSize)

	storeLink(seg, p.frontSegment)
	p.frontSegment = seg

	p.stats.freeCalls++
	p.stats.free++
}

// Grow obtains one page of segmentCount segments from the system allocator and
// adds all of them to the free list.
//
// On failure the pool is left exactly as it was: the returned error wraps
// ErrBadCount, ErrTooLarge or ErrGrowFail (together with the allocator's error).
func (p *Pool) Grow(segmentCount int) error {
	if segmentCount < 1 {
		return fmt.Errorf("%w: %d", ErrBadCount, segmentCount)
	}

	p.stats.growCalls++

	pageSize, err := sizes.PageSize(segmentCount, p.segmentSize)
	if err != nil {
		p.stats.growFailures++
		return fmt.Errorf("%w: %w", ErrTooLarge, err)
	}

	page, err := p.sys.Alloc(pageSize)
	if err != nil {
		p.stats.growFailures++
		p.log.Warn("pool growth failed",
			"segment_size", p.segmentSize,
			"segments", segmentCount,
			"page_bytes", pageSize,
			"error", err)
		return fmt.Errorf("%w: %d segments (%d bytes): %w", ErrGrowFail, segmentCount, pageSize, err)
	}

	storeLink(page, p.lastAllocPage)
	p.lastAllocPage = page

	// Ascending order: the last segment of the page ends up at the front.
	for i := range segmentCount {
		seg := unsafe.Add(page, sizes.Word+i*p.segmentSize)
		storeLink(seg, p.frontSegment)
		p.frontSegment = seg
	}

	p.stats.pages++
	p.stats.segments += segmentCount
	p.stats.free += segmentCount
	p.stats.reservedBytes += int64(pageSize)

	p.check.grew(page, pageSize)

	p.log.Debug("pool grew",
		"segment_size", p.segmentSize,
		"segments", segmentCount,
		"page_bytes", pageSize,
		"pages", p.stats.pages)
	return nil
}

// GetSegmentSize returns the effective segment size in bytes.
func (p *Pool) GetSegmentSize() int {
	return p.segmentSize
}

// GrowthSize returns the number of segments each automatic growth adds.
func (p *Pool) GrowthSize() int {
	return p.defaultGrowthSize
}

// IsEmpty reports whether the free list is exhausted, i.e. whether the next
// Allocate will grow the pool.
func (p *Pool) IsEmpty() bool {
	return p.frontSegment == nil
}

// Segment returns a GetSegmentSize()-byte view of seg, or nil for a nil seg.
// The view is valid until seg is deallocated or the pool is closed.
func (p *Pool) Segment(seg unsafe.Pointer) []byte {
	if seg == nil {
		return nil
	}
	return unsafe.Slice((*byte)(seg), p.segmentSize)
}

// Close releases every page back to the system allocator, newest first, and
// leaves the pool empty. Segments still held by callers become invalid.
//
// Every page is released even if some releases fail; the failures are joined
// into the returned error. Closing an empty pool does nothing.
func (p *Pool) Close() error {
	var errs []error
	released := 0
	for p.lastAllocPage != nil {
		page := p.lastAllocPage
		// Read the link before the page goes away.
		p.lastAllocPage = loadLink(page)
		if err := p.sys.Free(page); err != nil {
			errs = append(errs, fmt.Errorf("pool: release page %p: %w", page, err))
			continue
		}
		released++
	}

	if p.stats.pages > 0 {
		p.log.Debug("pool closed",
			"segment_size", p.segmentSize,
			"pages", p.stats.pages,
			"released", released,
			"in_use", p.stats.segments-p.stats.free)
	}

	p.frontSegment = nil
	p.stats.pages = 0
	p.stats.segments = 0
	p.stats.free = 0
	p.stats.reservedBytes = 0
	p.check.reset()

	return errors.Join(errs...)
}

// Transplant moves ownership of every page and free segment into a new Pool
// with the same configuration and statistics. The receiver is left empty, as
// if freshly constructed, and may be reused or closed at no cost.
//
// Segments allocated before the transplant must be deallocated to the new pool.
func (p *Pool) Transplant() *Pool {
	dst := &Pool{
		check:             p.check.transplant(),
		lastAllocPage:     p.lastAllocPage,
		frontSegment:      p.frontSegment,
		segmentSize:       p.segmentSize,
		defaultGrowthSize: p.defaultGrowthSize,
		sys:               p.sys,
		log:               p.log,
		stats:             p.stats,
	}

	p.lastAllocPage = nil
	p.frontSegment = nil
	p.stats = counters{}
	return dst
}
