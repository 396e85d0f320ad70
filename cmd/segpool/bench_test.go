package main

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joshuapare/segpool/internal/sizes"
	"github.com/joshuapare/segpool/metrics"
)

func TestBenchCommand_JSON(t *testing.T) {
	for _, alloc := range []string{"heap", "mmap"} {
		t.Run(alloc, func(t *testing.T) {
			stdout, _, err := runCLI(t, "bench", "--json",
				"--allocator", alloc,
				"--segment-size", "16", "--growth", "10",
				"--count", "100", "--rounds", "3")
			require.NoError(t, err)

			res := decodeJSON[benchResult](t, stdout)
			assert.Equal(t, alloc, res.Allocator)
			assert.Equal(t, 16, res.SegmentSize)
			assert.Equal(t, 10, res.Growth)
			assert.EqualValues(t, 300, res.Allocations)
			assert.Zero(t, res.Failures)

			// Later rounds reuse the segments of the first one.
			assert.Equal(t, 10, res.Pages)
			assert.Equal(t, 100, res.Segments)
			assert.EqualValues(t, 10*(sizes.Word+10*16), res.Reserved)

			// Close hands every page back exactly once.
			assert.Equal(t, 10, res.SystemAllocs)
			assert.Equal(t, 10, res.SystemFrees)
			assert.EqualValues(t, res.Reserved, res.PeakBytes)
		})
	}
}

func TestBenchCommand_LimitReportsFailures(t *testing.T) {
	page := sizes.Word + 10*16
	stdout, _, err := runCLI(t, "bench", "--json",
		"--segment-size", "16", "--growth", "10",
		"--count", "100", "--rounds", "3",
		"--limit", fmt.Sprint(2*page))
	require.NoError(t, err)

	res := decodeJSON[benchResult](t, stdout)
	assert.EqualValues(t, 2*page, res.Limit)
	assert.Equal(t, 2, res.Pages)
	assert.EqualValues(t, 3*20, res.Allocations)
	assert.EqualValues(t, 3, res.Failures)
	assert.Equal(t, 2, res.SystemFrees)
}

func TestBenchCommand_Text(t *testing.T) {
	stdout, _, err := runCLI(t, "bench",
		"--segment-size", "8", "--growth", "500",
		"--count", "1000", "--rounds", "2",
		"--limit", "1MiB")
	require.NoError(t, err)

	assert.Contains(t, stdout, "Bench Results:")
	assert.Contains(t, stdout, "(limit 1.0 MiB)")
	assert.Contains(t, stdout, "2 rounds x 1,000 segments")
	assert.Contains(t, stdout, "Allocations:    2,000")
	assert.Contains(t, stdout, "System calls:   2 allocs, 2 frees")
	assert.NotContains(t, stdout, "Failures:")
}

func TestBenchCommand_Metrics(t *testing.T) {
	stdout, _, err := runCLI(t, "bench", "--metrics",
		"--segment-size", "16", "--growth", "10",
		"--count", "100", "--rounds", "3")
	require.NoError(t, err)

	assert.Contains(t, stdout, "# TYPE segpool_pages gauge")
	assert.Contains(t, stdout, `segpool_pages{pool="bench"} 10`)
	assert.Contains(t, stdout, `segpool_free_segments{pool="bench"} 100`)
	assert.Contains(t, stdout, `segpool_in_use_segments{pool="bench"} 0`)
	assert.Contains(t, stdout, `segpool_alloc_total{pool="bench"} 300`)
	assert.Contains(t, stdout, `segpool_grow_total{pool="bench"} 10`)
}

func TestBenchCommand_VerboseLogsGrowth(t *testing.T) {
	stdout, stderr, err := runCLI(t, "bench", "--verbose",
		"--segment-size", "16", "--growth", "10",
		"--count", "20", "--rounds", "2")
	require.NoError(t, err)

	assert.Contains(t, stdout, "round 1: 20 segments, 2 pages")
	assert.Contains(t, stderr, "pool grew")
	assert.Contains(t, stderr, "pool closed")
}

func TestBenchCommand_Errors(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		wantErr string
	}{
		{"zero count", []string{"--count", "0"}, "--count must be at least 1"},
		{"negative rounds", []string{"--rounds=-1"}, "--rounds must be at least 1"},
		{"unknown allocator", []string{"--allocator", "slab"}, "unknown allocator"},
		{"bad limit", []string{"--limit", "lots"}, "invalid --limit"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := runCLI(t, append([]string{"bench"}, tt.args...)...)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestBench_ObservesFinalSnapshot(t *testing.T) {
	c := metrics.NewCollector("direct")
	res, err := bench(benchOptions{
		SegmentSize: 24,
		Growth:      4,
		Count:       10,
		Rounds:      1,
		Allocator:   "heap",
	}, c)
	require.NoError(t, err)

	last, ok := c.Last()
	require.True(t, ok)
	assert.Equal(t, res.Stats, last)
	assert.Equal(t, 3, last.Pages)
	assert.Equal(t, 12, last.Segments)
	assert.Equal(t, 12, last.Free)
}

func TestStamp(t *testing.T) {
	seg := make([]byte, 16)
	stamp(seg, 6)
	assert.True(t, stamped(seg, 6))
	assert.False(t, stamped(seg, 8))

	seg[15] = 0
	assert.False(t, stamped(seg, 6))
}
