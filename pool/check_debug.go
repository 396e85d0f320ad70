//go:build segpooldebug

package pool

import (
	"fmt"
	"unsafe"

	"github.com/joshuapare/segpool/internal/sizes"
)

// debugChecks reports whether the segpooldebug checker is compiled in.
const debugChecks = true

// pageRange is the segment area of one page: [start, end).
type pageRange struct {
	start uintptr
	end   uintptr
}

// checker tracks owned pages and handed-out segments so that Deallocate can
// reject foreign pointers and double frees. Lookups walk the page list, which
// is acceptable for a debug build.
type checker struct {
	pages []pageRange
	inUse map[unsafe.Pointer]struct{}
}

func (c *checker) grew(page unsafe.Pointer, pageSize int) {
	base := uintptr(page)
	c.pages = append(c.pages, pageRange{
		start: base + uintptr(sizes.Word),
		end:   base + uintptr(pageSize),
	})
}

func (c *checker) allocated(seg unsafe.Pointer) {
	if c.inUse == nil {
		c.inUse = make(map[unsafe.Pointer]struct{})
	}
	c.inUse[seg] = struct{}{}
}

func (c *checker) released(seg unsafe.Pointer, segmentSize int) {
	addr := uintptr(seg)
	owned := false
	for _, r := range c.pages {
		if addr >= r.start && addr < r.end {
			if (addr-r.start)%uintptr(segmentSize) != 0 {
				panic(fmt.Errorf("%w: %p is inside a segment", ErrForeignPointer, seg))
			}
			owned = true
			break
		}
	}
	if !owned {
		panic(fmt.Errorf("%w: %p", ErrForeignPointer, seg))
	}
	if _, ok := c.inUse[seg]; !ok {
		panic(fmt.Errorf("%w: %p", ErrDoubleFree, seg))
	}
	delete(c.inUse, seg)
}

func (c *checker) reset() {
	c.pages = nil
	c.inUse = nil
}

func (c *checker) transplant() checker {
	moved := *c
	c.reset()
	return moved
}

func (c *checker) live() int {
	return len(c.inUse)
}
