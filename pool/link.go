package pool

import "unsafe"

// Pages and free segments store their list link in their first word. These two
// functions are the only places pool memory is read or written as a link.

// loadLink returns the link stored at the start of block.
func loadLink(block unsafe.Pointer) unsafe.Pointer {
	return *(*unsafe.Pointer)(block)
}

// storeLink writes next into the first word of block.
//
// The word is written as an integer, not as a pointer, so no GC write barrier
// runs: the bytes being overwritten may be arbitrary caller data.
func storeLink(block, next unsafe.Pointer) {
	*(*uintptr)(block) = uintptr(next)
}
