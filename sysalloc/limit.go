package sysalloc

import (
	"fmt"
	"sync"
	"unsafe"
)

// Limit caps the number of live bytes obtained from an underlying Allocator.
// Requests that would push the total above the budget fail with ErrBudget
// without reaching the underlying allocator.
type Limit struct {
	next Allocator

	mu     sync.Mutex
	budget int
	used   int
	sizes  map[unsafe.Pointer]int
}

// NewLimit wraps next with a budget of budget bytes. A negative budget is
// treated as zero, which refuses every request.
func NewLimit(next Allocator, budget int) *Limit {
	if budget < 0 {
		budget = 0
	}
	return &Limit{
		next:   next,
		budget: budget,
		sizes:  make(map[unsafe.Pointer]int),
	}
}

// Alloc forwards the request when it fits in the remaining budget.
func (l *Limit) Alloc(n int) (unsafe.Pointer, error) {
	if n <= 0 {
		return nil, fmt.Errorf("%w: %d", ErrBadSize, n)
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	if n > l.budget-l.used {
		return nil, fmt.Errorf("%w: want %d bytes, %d of %d in use", ErrBudget, n, l.used, l.budget)
	}
	p, err := l.next.Alloc(n)
	if err != nil {
		return nil, err
	}
	l.sizes[p] = n
	l.used += n
	return p, nil
}

// Free releases p and returns its bytes to the budget.
func (l *Limit) Free(p unsafe.Pointer) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	n, ok := l.sizes[p]
	if !ok {
		return fmt.Errorf("%w: %p", ErrUnknownBlock, p)
	}
	if err := l.next.Free(p); err != nil {
		return err
	}
	delete(l.sizes, p)
	l.used -= n
	return nil
}

// SetBudget changes the budget. Blocks already handed out are unaffected, even
// when they now exceed the new budget.
func (l *Limit) SetBudget(budget int) {
	if budget < 0 {
		budget = 0
	}
	l.mu.Lock()
	l.budget = budget
	l.mu.Unlock()
}

// Used returns the number of live bytes charged against the budget.
func (l *Limit) Used() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.used
}

// Remaining returns the unused part of the budget.
func (l *Limit) Remaining() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.used >= l.budget {
		return 0
	}
	return l.budget - l.used
}

// Compile-time interface check
var _ Allocator = (*Limit)(nil)
