package pool

import "errors"

var (
	// ErrGrowFail indicates that the system allocator could not supply a new page.
	ErrGrowFail = errors.New("pool: grow failed")

	// ErrBadCount indicates a growth request for fewer than one segment.
	ErrBadCount = errors.New("pool: segment count must be at least 1")

	// ErrTooLarge indicates that a page for the requested growth cannot be sized
	// without integer overflow.
	ErrTooLarge = errors.New("pool: page size overflows")

	// ErrPointerType indicates a Typed element type containing Go pointers.
	ErrPointerType = errors.New("pool: element type contains pointers")

	// ErrAlignment indicates a Typed element type needing more than word alignment.
	ErrAlignment = errors.New("pool: element type alignment exceeds word size")

	// ErrForeignPointer is raised by the segpooldebug checker when Deallocate
	// receives a pointer that is not the start of a segment owned by the pool.
	ErrForeignPointer = errors.New("pool: pointer not owned by pool")

	// ErrDoubleFree is raised by the segpooldebug checker when a segment is
	// deallocated while already free.
	ErrDoubleFree = errors.New("pool: segment already free")
)
