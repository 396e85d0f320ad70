//go:build !segpooldebug

package pool

import "unsafe"

// debugChecks reports whether the segpooldebug checker is compiled in.
const debugChecks = false

// checker is the no-op stand-in for the segpooldebug ownership checker.
type checker struct{}

func (checker) grew(unsafe.Pointer, int)     {}
func (checker) allocated(unsafe.Pointer)     {}
func (checker) released(unsafe.Pointer, int) {}
func (checker) reset()                       {}
func (checker) transplant() checker          { return checker{} }
func (checker) live() int                    { return -1 }
