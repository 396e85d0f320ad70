// Command benchreport turns `go test -bench` output of the pool package into a
// markdown report comparing pool allocation with the Go heap.
//
//	go test -run '^$' -bench . -benchmem ./pool | go run ./scripts/benchreport
package main

import (
	"bufio"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
)

// BenchmarkResult represents a parsed benchmark result.
type BenchmarkResult struct {
	Name        string
	Operation   string
	Size        string // segment size, if the benchmark is sized
	Impl        string // "pool" or "heap"
	Iterations  int
	NsPerOp     float64
	BytesPerOp  int64
	AllocsPerOp int64
}

// ComparisonResult pairs the pool and heap runs of one operation and size.
type ComparisonResult struct {
	Operation  string
	Size       string
	PoolNs     float64
	HeapNs     float64
	Speedup    float64 // HeapNs / PoolNs
	PoolMem    int64
	HeapMem    int64
	PoolAllocs int64
	HeapAllocs int64
	PoolOnly   bool
}

var (
	inputFile = flag.String(
		"input",
		"",
		"Input file with benchmark output (stdin if not specified)",
	)
	outputFile = flag.String("output", "", "Output markdown file (stdout if not specified)")
	quiet      = flag.Bool("quiet", false, "Suppress progress output")
)

// benchmarkRegex matches lines such as
// BenchmarkCompare_Burst/pool/64-8    50000    24510 ns/op    0 B/op    0 allocs/op
var benchmarkRegex = regexp.MustCompile(
	`^(Benchmark\S+)\s+(\d+)\s+([\d.]+)\s+ns/op(?:\s+([\d.]+)\s+B/op)?(?:\s+([\d.]+)\s+allocs/op)?`,
)

func main() {
	flag.Parse()

	var in io.Reader = os.Stdin
	if *inputFile != "" {
		f, err := os.Open(*inputFile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error opening input file: %v\n", err)
			os.Exit(1)
		}
		defer f.Close()
		in = f
	}

	results, err := parseBenchmarks(in)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error reading benchmark output: %v\n", err)
		os.Exit(1)
	}
	if !*quiet {
		fmt.Fprintf(os.Stderr, "Parsed %d benchmark results\n", len(results))
	}

	comparisons := generateComparisons(results)
	report := generateMarkdownReport(comparisons, time.Now())

	if *outputFile == "" {
		fmt.Fprint(os.Stdout, report)
		return
	}
	if err := os.WriteFile(*outputFile, []byte(report), 0o644); err != nil {
		fmt.Fprintf(os.Stderr, "Error writing output file: %v\n", err)
		os.Exit(1)
	}
	if !*quiet {
		fmt.Fprintf(os.Stderr, "Report written to %s\n", *outputFile)
	}
}

// parseBenchmarks reads plain or `-json` benchmark output.
func parseBenchmarks(r io.Reader) ([]BenchmarkResult, error) {
	var results []BenchmarkResult

	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := scanner.Text()

		var event struct{ Output string }
		if err := json.Unmarshal([]byte(line), &event); err == nil && event.Output != "" {
			line = event.Output
		}

		matches := benchmarkRegex.FindStringSubmatch(strings.TrimSpace(line))
		if matches == nil {
			continue
		}

		res := BenchmarkResult{Name: matches[1]}
		res.Iterations, _ = strconv.Atoi(matches[2])
		res.NsPerOp, _ = strconv.ParseFloat(matches[3], 64)
		if matches[4] != "" {
			res.BytesPerOp, _ = strconv.ParseInt(matches[4], 10, 64)
		}
		if matches[5] != "" {
			res.AllocsPerOp, _ = strconv.ParseInt(matches[5], 10, 64)
		}
		res.Operation, res.Impl, res.Size = splitName(res.Name)
		results = append(results, res)
	}
	return results, scanner.Err()
}

// splitName breaks a benchmark name into operation, implementation and size.
//
//	BenchmarkCompare_Burst/pool/64-8 -> "Compare_Burst", "pool", "64"
//	BenchmarkTyped_New/heap-8        -> "Typed_New", "heap", ""
//	BenchmarkPool_Grow-8             -> "Pool_Grow", "pool", ""
func splitName(name string) (operation, impl, size string) {
	parts := strings.Split(name, "/")
	last := len(parts) - 1
	if i := strings.LastIndex(parts[last], "-"); i > 0 {
		if _, err := strconv.Atoi(parts[last][i+1:]); err == nil {
			parts[last] = parts[last][:i]
		}
	}

	operation = strings.TrimPrefix(parts[0], "Benchmark")
	impl = "pool"
	if len(parts) >= 2 {
		impl = parts[1]
	}
	if len(parts) >= 3 {
		size = parts[last]
	}
	return operation, impl, size
}

func generateComparisons(results []BenchmarkResult) []ComparisonResult {
	type key struct {
		operation string
		size      string
	}

	grouped := make(map[key]map[string]BenchmarkResult)
	for _, result := range results {
		k := key{result.Operation, result.Size}
		if grouped[k] == nil {
			grouped[k] = make(map[string]BenchmarkResult)
		}
		grouped[k][result.Impl] = result
	}

	var comparisons []ComparisonResult
	for k, impls := range grouped {
		p, hasPool := impls["pool"]
		if !hasPool {
			continue
		}
		comp := ComparisonResult{
			Operation:  k.operation,
			Size:       k.size,
			PoolNs:     p.NsPerOp,
			PoolMem:    p.BytesPerOp,
			PoolAllocs: p.AllocsPerOp,
			PoolOnly:   true,
		}
		if h, ok := impls["heap"]; ok {
			comp.PoolOnly = false
			comp.HeapNs = h.NsPerOp
			comp.HeapMem = h.BytesPerOp
			comp.HeapAllocs = h.AllocsPerOp
			if p.NsPerOp > 0 {
				comp.Speedup = h.NsPerOp / p.NsPerOp
			}
		}
		comparisons = append(comparisons, comp)
	}

	sort.Slice(comparisons, func(i, j int) bool {
		if comparisons[i].Operation != comparisons[j].Operation {
			return comparisons[i].Operation < comparisons[j].Operation
		}
		return sizeLess(comparisons[i].Size, comparisons[j].Size)
	})
	return comparisons
}

// sizeLess orders numeric sizes numerically and everything else lexically.
func sizeLess(a, b string) bool {
	x, errA := strconv.Atoi(a)
	y, errB := strconv.Atoi(b)
	if errA == nil && errB == nil {
		return x < y
	}
	return a < b
}

func generateMarkdownReport(comparisons []ComparisonResult, now time.Time) string {
	var sb strings.Builder

	sb.WriteString("# Pool Benchmark Report\n\n")
	fmt.Fprintf(&sb, "Generated: %s\n\n", now.Format("2006-01-02 15:04:05"))

	poolFaster, heapFaster, poolOnly := 0, 0, 0
	totalSpeedup := 0.0
	for _, comp := range comparisons {
		switch {
		case comp.PoolOnly:
			poolOnly++
		case comp.Speedup > 1.0:
			poolFaster++
		case comp.Speedup < 1.0:
			heapFaster++
		}
		totalSpeedup += comp.Speedup
	}
	comparable := len(comparisons) - poolOnly

	sb.WriteString("## Summary\n\n")
	fmt.Fprintf(&sb, "- **Total benchmarks**: %d\n", len(comparisons))
	fmt.Fprintf(&sb, "- **Compared with the heap**: %d\n", comparable)
	if comparable > 0 {
		fmt.Fprintf(&sb, "  - pool faster: %d (%.1f%%)\n", poolFaster, percent(poolFaster, comparable))
		fmt.Fprintf(&sb, "  - heap faster: %d (%.1f%%)\n", heapFaster, percent(heapFaster, comparable))
		fmt.Fprintf(&sb, "  - Average speedup: **%.2fx**\n", totalSpeedup/float64(comparable))
	}
	fmt.Fprintf(&sb, "- **Pool only**: %d\n\n", poolOnly)

	sb.WriteString("## Detailed Results\n\n")
	sb.WriteString("| Operation | Size | pool (ns/op) | heap (ns/op) | Speedup | Memory (B/op) | Allocs |\n")
	sb.WriteString("|-----------|------|--------------|--------------|---------|---------------|--------|\n")

	for _, comp := range comparisons {
		size := comp.Size
		if size == "" {
			size = "-"
		}
		if comp.PoolOnly {
			fmt.Fprintf(&sb, "| %s | %s | %s | *N/A* | *pool only* | %s | %s |\n",
				comp.Operation,
				size,
				formatNumber(comp.PoolNs),
				humanize.IBytes(uint64(comp.PoolMem)),
				humanize.Comma(comp.PoolAllocs),
			)
			continue
		}

		indicator, style := "✓", "**"
		if comp.Speedup < 1.0 {
			indicator, style = "✗", ""
		}
		fmt.Fprintf(&sb, "| %s | %s | %s | %s | %s%.2fx%s %s | %s vs %s%s | %s vs %s%s |\n",
			comp.Operation,
			size,
			formatNumber(comp.PoolNs),
			formatNumber(comp.HeapNs),
			style, comp.Speedup, style, indicator,
			humanize.IBytes(uint64(comp.PoolMem)),
			humanize.IBytes(uint64(comp.HeapMem)),
			lowerMark(comp.PoolMem, comp.HeapMem),
			humanize.Comma(comp.PoolAllocs),
			humanize.Comma(comp.HeapAllocs),
			lowerMark(comp.PoolAllocs, comp.HeapAllocs),
		)
	}

	sb.WriteString("\n## Notes\n\n")
	sb.WriteString("- **Speedup > 1.0**: the pool is faster ✓\n")
	sb.WriteString("- **Speedup < 1.0**: the Go heap is faster ✗\n")
	sb.WriteString("- **Memory** and **Allocs** count Go heap usage only; pool pages are excluded once grown\n")
	return sb.String()
}

func lowerMark(pool, heap int64) string {
	switch {
	case pool < heap:
		return " ✓"
	case pool > heap:
		return " ✗"
	default:
		return ""
	}
}

func percent(n, total int) float64 {
	return float64(n) / float64(total) * 100
}

func formatNumber(n float64) string {
	return humanize.CommafWithDigits(n, 1)
}
