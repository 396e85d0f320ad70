// Package sizes contains overflow-checked size arithmetic used when laying out pool pages.
package sizes

import (
	"fmt"
	"math"
	"unsafe"
)

// Word is the size in bytes of one machine pointer. Every link stored inside
// pool memory occupies exactly one word.
const Word = int(unsafe.Sizeof(uintptr(0)))

// AddOverflowSafe adds a and b, returning ok = false when the result would overflow int.
func AddOverflowSafe(a, b int) (int, bool) {
	switch {
	case b > 0 && a > math.MaxInt-b:
		return 0, false
	case b < 0 && a < math.MinInt-b:
		return 0, false
	default:
		return a + b, true
	}
}

// MulOverflowSafe multiplies two non-negative ints, returning ok = false on overflow
// or when either operand is negative.
func MulOverflowSafe(a, b int) (int, bool) {
	if a < 0 || b < 0 {
		return 0, false
	}
	if a == 0 || b == 0 {
		return 0, true
	}
	if a > math.MaxInt/b {
		return 0, false
	}
	return a * b, true
}

// AlignWord rounds n up to the next multiple of Word. Values below one word
// become exactly one word.
//
// Example (64-bit):
//
//	AlignWord(0)  = 8
//	AlignWord(4)  = 8
//	AlignWord(8)  = 8
//	AlignWord(12) = 16
func AlignWord(n int) int {
	if n < Word {
		return Word
	}
	if n > math.MaxInt-(Word-1) {
		// Largest word multiple that fits.
		return math.MaxInt &^ (Word - 1)
	}
	return (n + Word - 1) &^ (Word - 1)
}

// PageSize returns the byte size of a page holding count segments of segSize
// bytes behind a one-word page link: Word + count*segSize.
func PageSize(count, segSize int) (int, error) {
	if count < 0 {
		return 0, fmt.Errorf("negative segment count: %d", count)
	}
	if segSize < 0 {
		return 0, fmt.Errorf("negative segment size: %d", segSize)
	}
	body, ok := MulOverflowSafe(count, segSize)
	if !ok {
		return 0, fmt.Errorf("overflow: count=%d * segSize=%d", count, segSize)
	}
	total, ok := AddOverflowSafe(Word, body)
	if !ok {
		return 0, fmt.Errorf("overflow: word=%d + body=%d", Word, body)
	}
	return total, nil
}
