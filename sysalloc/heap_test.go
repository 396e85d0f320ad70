package sysalloc

import (
	"math"
	"testing"
	"unsafe"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joshuapare/segpool/internal/sizes"
)

func TestHeap_AllocFree(t *testing.T) {
	h := NewHeap()

	p, err := h.Alloc(100)
	require.NoError(t, err)
	require.NotNil(t, p)
	require.Zero(t, uintptr(p)%uintptr(sizes.Word), "block must be word-aligned")

	// The whole requested range must be writable.
	b := unsafe.Slice((*byte)(p), 100)
	for i := range b {
		b[i] = byte(i)
	}
	require.Equal(t, byte(99), b[99])

	assert.Equal(t, 1, h.Blocks())
	assert.Equal(t, sizes.AlignWord(100), h.Bytes())

	require.NoError(t, h.Free(p))
	assert.Equal(t, 0, h.Blocks())
	assert.Equal(t, 0, h.Bytes())
}

func TestHeap_SmallBlocksAreWordAligned(t *testing.T) {
	h := NewHeap()
	for n := 1; n <= 3*sizes.Word; n++ {
		p, err := h.Alloc(n)
		require.NoError(t, err)
		require.Zero(t, uintptr(p)%uintptr(sizes.Word), "Alloc(%d) misaligned", n)
	}
}

func TestHeap_BadSize(t *testing.T) {
	h := NewHeap()
	for _, n := range []int{0, -1} {
		p, err := h.Alloc(n)
		require.ErrorIs(t, err, ErrBadSize)
		require.Nil(t, p)
	}
}

func TestHeap_ImpossibleSizeIsOutOfMemory(t *testing.T) {
	h := NewHeap()
	p, err := h.Alloc(math.MaxInt - sizes.Word)
	require.ErrorIs(t, err, ErrOutOfMemory)
	require.Nil(t, p)
	require.Equal(t, 0, h.Blocks())
}

func TestHeap_FreeUnknown(t *testing.T) {
	h := NewHeap()
	var x uint64
	require.ErrorIs(t, h.Free(unsafe.Pointer(&x)), ErrUnknownBlock)

	p, err := h.Alloc(16)
	require.NoError(t, err)
	require.NoError(t, h.Free(p))
	require.ErrorIs(t, h.Free(p), ErrUnknownBlock, "double free must be reported")
}

func TestDefault_IsHeap(t *testing.T) {
	_, ok := Default().(*Heap)
	require.True(t, ok)
}
