package sysalloc

import (
	"errors"
	"fmt"
)

var (
	// ErrOutOfMemory indicates that a block could not be obtained. Every
	// allocation failure returned by this package matches it with errors.Is.
	ErrOutOfMemory = errors.New("sysalloc: out of memory")

	// ErrBudget indicates that a Limit allocator refused a request that would
	// exceed its byte budget.
	ErrBudget = fmt.Errorf("%w: budget exhausted", ErrOutOfMemory)

	// ErrBadSize indicates a non-positive allocation size.
	ErrBadSize = errors.New("sysalloc: size must be positive")

	// ErrUnknownBlock indicates Free was called with a pointer this allocator
	// does not own (never allocated, or already freed).
	ErrUnknownBlock = errors.New("sysalloc: unknown block")
)
