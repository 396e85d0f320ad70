package sizes

import (
	"math"
	"testing"
)

func TestAddOverflowSafe(t *testing.T) {
	if sum, ok := AddOverflowSafe(10, 5); !ok || sum != 15 {
		t.Fatalf("AddOverflowSafe(10,5)=%d,%v want 15,true", sum, ok)
	}
	if _, ok := AddOverflowSafe(math.MaxInt, 1); ok {
		t.Fatalf("expected overflow when adding to MaxInt")
	}
	if _, ok := AddOverflowSafe(math.MinInt, -1); ok {
		t.Fatalf("expected underflow when subtracting from MinInt")
	}
}

func TestMulOverflowSafe(t *testing.T) {
	if got, ok := MulOverflowSafe(64, 24); !ok || got != 1536 {
		t.Fatalf("MulOverflowSafe(64,24)=%d,%v want 1536,true", got, ok)
	}
	if got, ok := MulOverflowSafe(0, math.MaxInt); !ok || got != 0 {
		t.Fatalf("MulOverflowSafe(0,MaxInt)=%d,%v want 0,true", got, ok)
	}
	if _, ok := MulOverflowSafe(math.MaxInt/2+1, 2); ok {
		t.Fatalf("expected overflow for MaxInt/2+1 * 2")
	}
	if _, ok := MulOverflowSafe(-1, 8); ok {
		t.Fatalf("negative operands must be rejected")
	}
}

func TestAlignWord(t *testing.T) {
	cases := []struct {
		in, want int
	}{
		{-3, Word},
		{0, Word},
		{1, Word},
		{Word, Word},
		{Word + 1, 2 * Word},
		{3*Word - 1, 3 * Word},
	}
	for _, c := range cases {
		if got := AlignWord(c.in); got != c.want {
			t.Errorf("AlignWord(%d)=%d want %d", c.in, got, c.want)
		}
	}
	if got := AlignWord(math.MaxInt); got%Word != 0 || got <= 0 {
		t.Errorf("AlignWord(MaxInt)=%d should stay a positive word multiple", got)
	}
}

func TestPageSize(t *testing.T) {
	got, err := PageSize(64, 32)
	if err != nil {
		t.Fatalf("PageSize: %v", err)
	}
	if want := Word + 64*32; got != want {
		t.Fatalf("PageSize(64,32)=%d want %d", got, want)
	}
	if _, err := PageSize(math.MaxInt/8+1, 8); err == nil {
		t.Fatalf("expected overflow error")
	}
	if _, err := PageSize(-1, 8); err == nil {
		t.Fatalf("expected error for negative count")
	}
	if _, err := PageSize(1, -8); err == nil {
		t.Fatalf("expected error for negative segment size")
	}
}
