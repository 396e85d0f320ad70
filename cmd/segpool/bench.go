package main

import (
	"errors"
	"fmt"
	"math"
	"time"
	"unsafe"

	"github.com/dustin/go-humanize"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/common/expfmt"
	"github.com/spf13/cobra"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/joshuapare/segpool/internal/logger"
	"github.com/joshuapare/segpool/metrics"
	"github.com/joshuapare/segpool/pool"
	"github.com/joshuapare/segpool/sysalloc"
)

func newBenchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "bench",
		Short: "Run an allocate/deallocate workload against a pool",
		Long: `The bench command runs --rounds rounds against one pool. Each round
allocates --count segments, stamps a pattern into every byte of each one,
then verifies and deallocates them all. Segments freed in one round are
reused by the next, so only the first round grows the pool.

--limit caps the bytes the pool may obtain from the system allocator; once
it is reached, allocations fail and are reported instead of aborting.

Example:
  segpool bench --segment-size 32 --count 100000
  segpool bench --allocator mmap --limit 1MiB --json
  segpool bench --metrics`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBench()
		},
	}
	cmd.Flags().Int("segment-size", 64, "Requested segment size in bytes")
	cmd.Flags().Int("growth", pool.DefaultGrowth, "Segments added per automatic growth")
	cmd.Flags().Int("count", 10000, "Segments allocated per round")
	cmd.Flags().Int("rounds", 3, "Number of allocate/deallocate rounds")
	cmd.Flags().String("allocator", "heap", "System allocator: heap or mmap")
	cmd.Flags().String("limit", "", "Cap on bytes obtained from the system allocator (e.g. 64MiB)")
	cmd.Flags().Bool("metrics", false, "Print the Prometheus exposition of the pool metrics")
	return cmd
}

// benchOptions are the resolved bench settings.
type benchOptions struct {
	SegmentSize int
	Growth      int
	Count       int
	Rounds      int
	Allocator   string
	Limit       uint64 // 0 = unlimited
}

// benchResult is the outcome of one bench run.
type benchResult struct {
	Allocator   string `json:"allocator"`
	SegmentSize int    `json:"segment_size"`
	Growth      int    `json:"growth"`
	Count       int    `json:"count"`
	Rounds      int    `json:"rounds"`
	Limit       uint64 `json:"limit,omitempty"`

	Allocations uint64 `json:"allocations"`
	Failures    uint64 `json:"failures"`
	Pages       int    `json:"pages"`
	Segments    int    `json:"segments"`
	Reserved    int64  `json:"reserved_bytes"`

	SystemAllocs int   `json:"system_allocs"`
	SystemFrees  int   `json:"system_frees"`
	PeakBytes    int64 `json:"peak_bytes"`

	Elapsed time.Duration `json:"elapsed_ns"`
	NsPerOp float64       `json:"ns_per_op"`

	// Final pool snapshot, taken before the pool is closed.
	Stats pool.Stats `json:"-"`
}

func resolveBenchOptions() (benchOptions, error) {
	var opts benchOptions
	var err error

	opts.SegmentSize = conf.GetInt("segment-size")
	opts.Growth = conf.GetInt("growth")
	if opts.Count, err = positiveInt(conf, "count"); err != nil {
		return opts, err
	}
	if opts.Rounds, err = positiveInt(conf, "rounds"); err != nil {
		return opts, err
	}
	opts.Allocator = conf.GetString("allocator")
	if limit := conf.GetString("limit"); limit != "" {
		if opts.Limit, err = humanize.ParseBytes(limit); err != nil {
			return opts, fmt.Errorf("invalid --limit %q: %w", limit, err)
		}
	}
	return opts, nil
}

// newBackend builds the system allocator chain named by opts.
func newBackend(opts benchOptions) (sysalloc.Allocator, error) {
	var backend sysalloc.Allocator
	switch opts.Allocator {
	case "heap", "":
		backend = sysalloc.NewHeap()
	case "mmap":
		m := sysalloc.NewMmap()
		if !m.OffHeap() {
			logger.L.Warn("mmap unavailable on this platform, using the Go heap")
		}
		backend = m
	default:
		return nil, fmt.Errorf("unknown allocator %q (want heap or mmap)", opts.Allocator)
	}
	if opts.Limit > 0 {
		backend = sysalloc.NewLimit(backend, int(min(opts.Limit, uint64(math.MaxInt))))
	}
	return backend, nil
}

// bench runs the workload and feeds the final snapshot to collector, if any.
func bench(opts benchOptions, collector *metrics.Collector) (benchResult, error) {
	backend, err := newBackend(opts)
	if err != nil {
		return benchResult{}, err
	}
	counting := sysalloc.NewCounting(backend)

	p := pool.New(opts.SegmentSize, &pool.Config{
		DefaultGrowth: opts.Growth,
		Allocator:     counting,
		Logger:        logger.L,
	})

	res := benchResult{
		Allocator:   opts.Allocator,
		SegmentSize: p.GetSegmentSize(),
		Growth:      p.GrowthSize(),
		Count:       opts.Count,
		Rounds:      opts.Rounds,
		Limit:       opts.Limit,
	}

	live := make([]unsafe.Pointer, 0, opts.Count)
	start := time.Now()
	var runErr error
	for round := 0; round < opts.Rounds && runErr == nil; round++ {
		live = live[:0]
		for i := 0; i < opts.Count; i++ {
			seg, err := p.AllocateErr()
			if err != nil {
				res.Failures++
				logger.L.Debug("allocation failed", "round", round, "index", i, "error", err)
				break
			}
			res.Allocations++
			stamp(p.Segment(seg), i)
			live = append(live, seg)
		}
		for i := len(live) - 1; i >= 0; i-- {
			if runErr == nil && !stamped(p.Segment(live[i]), i) {
				runErr = fmt.Errorf("round %d: segment %d was overwritten while in use", round, i)
			}
			p.Deallocate(live[i])
		}
		printVerbose("round %d: %d segments, %d pages\n", round, len(live), p.Stats().Pages)
	}
	res.Elapsed = time.Since(start)
	if ops := res.Allocations * 2; ops > 0 {
		res.NsPerOp = float64(res.Elapsed.Nanoseconds()) / float64(ops)
	}

	res.Stats = p.Stats()
	res.Pages = res.Stats.Pages
	res.Segments = res.Stats.Segments
	res.Reserved = res.Stats.ReservedBytes
	if collector != nil {
		collector.Observe(res.Stats)
	}

	closeErr := p.Close()
	counts := counting.Counts()
	res.SystemAllocs = counts.Allocs
	res.SystemFrees = counts.Frees
	res.PeakBytes = counts.PeakBytes

	return res, errors.Join(runErr, closeErr)
}

// stamp fills seg with a byte derived from its index.
func stamp(seg []byte, i int) {
	b := byte(i) | 1
	for j := range seg {
		seg[j] = b
	}
}

func stamped(seg []byte, i int) bool {
	b := byte(i) | 1
	for _, got := range seg {
		if got != b {
			return false
		}
	}
	return true
}

func runBench() error {
	opts, err := resolveBenchOptions()
	if err != nil {
		return err
	}
	printVerbose("Benchmarking %s allocator, segment size %d, %d x %d\n",
		opts.Allocator, opts.SegmentSize, opts.Rounds, opts.Count)

	var collector *metrics.Collector
	if conf.GetBool("metrics") {
		collector = metrics.NewCollector("bench")
	}

	res, err := bench(opts, collector)
	if err != nil {
		return err
	}

	if collector != nil {
		return printMetrics(collector)
	}
	if jsonOut {
		return printJSON(res)
	}
	printBenchResult(res)
	return nil
}

func printBenchResult(res benchResult) {
	mp := message.NewPrinter(language.English)

	printInfo("\nBench Results:\n")
	printInfo("  Allocator:      %s", res.Allocator)
	if res.Limit > 0 {
		printInfo(" (limit %s)", humanize.IBytes(res.Limit))
	}
	printInfo("\n")
	printInfo("  Segment size:   %d bytes\n", res.SegmentSize)
	printInfo("  Growth:         %d segments\n", res.Growth)
	printInfo("%s", mp.Sprintf("  Workload:       %d rounds x %d segments\n", res.Rounds, res.Count))
	printInfo("%s", mp.Sprintf("  Allocations:    %d\n", res.Allocations))
	if res.Failures > 0 {
		printInfo("%s", mp.Sprintf("  Failures:       %d\n", res.Failures))
	}
	printInfo("%s", mp.Sprintf("  Pages:          %d\n", res.Pages))
	printInfo("%s", mp.Sprintf("  Segments:       %d\n", res.Segments))
	printInfo("  Reserved:       %s\n", humanize.IBytes(uint64(res.Reserved)))
	printInfo("  Peak system:    %s\n", humanize.IBytes(uint64(res.PeakBytes)))
	printInfo("%s", mp.Sprintf("  System calls:   %d allocs, %d frees\n", res.SystemAllocs, res.SystemFrees))
	printInfo("  Elapsed:        %s (%.1f ns/op)\n", res.Elapsed.Round(time.Microsecond), res.NsPerOp)
}

// printMetrics writes the collector's series in the Prometheus text format.
func printMetrics(collector *metrics.Collector) error {
	reg := prometheus.NewPedanticRegistry()
	if err := reg.Register(collector); err != nil {
		return fmt.Errorf("registering collector: %w", err)
	}
	families, err := reg.Gather()
	if err != nil {
		return fmt.Errorf("gathering metrics: %w", err)
	}
	for _, mf := range families {
		if _, err := expfmt.MetricFamilyToText(out, mf); err != nil {
			return fmt.Errorf("writing %s: %w", mf.GetName(), err)
		}
	}
	return nil
}
