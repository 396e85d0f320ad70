package main

import (
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/joshuapare/segpool/internal/sizes"
	"github.com/joshuapare/segpool/pool"
)

func newInfoCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "info",
		Short: "Report the memory layout of a pool",
		Long: `The info command shows how a pool with the given segment size and growth
lays out its pages: the effective segment size after word rounding, the
number of segments per automatic growth and the bytes requested from the
system allocator for each page.

Example:
  segpool info --segment-size 20
  segpool info --segment-size 4096 --growth 16 --json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInfo()
		},
	}
	cmd.Flags().Int("segment-size", 64, "Requested segment size in bytes")
	cmd.Flags().Int("growth", pool.DefaultGrowth, "Segments added per automatic growth")
	return cmd
}

// layout describes the pages a pool would request.
type layout struct {
	WordSize             int     `json:"word_size"`
	RequestedSegmentSize int     `json:"requested_segment_size"`
	SegmentSize          int     `json:"segment_size"`
	Growth               int     `json:"growth"`
	PageBytes            int     `json:"page_bytes"`
	PayloadBytes         int     `json:"payload_bytes"`
	Efficiency           float64 `json:"efficiency"`
}

func computeLayout(segmentSize, growth int) (layout, error) {
	// New allocates nothing, so it is the cheapest way to apply the clamping rules.
	p := pool.New(segmentSize, &pool.Config{DefaultGrowth: growth})
	defer p.Close()

	l := layout{
		WordSize:             sizes.Word,
		RequestedSegmentSize: segmentSize,
		SegmentSize:          p.GetSegmentSize(),
		Growth:               p.GrowthSize(),
	}
	page, err := sizes.PageSize(l.Growth, l.SegmentSize)
	if err != nil {
		return layout{}, fmt.Errorf("page for %d segments of %d bytes: %w", l.Growth, l.SegmentSize, err)
	}
	l.PageBytes = page
	l.PayloadBytes = page - sizes.Word
	l.Efficiency = float64(l.PayloadBytes) / float64(page)
	return l, nil
}

func runInfo() error {
	l, err := computeLayout(conf.GetInt("segment-size"), conf.GetInt("growth"))
	if err != nil {
		return err
	}

	if jsonOut {
		return printJSON(l)
	}

	printInfo("\nPool Layout:\n")
	printInfo("  Word size:      %d bytes\n", l.WordSize)
	printInfo("  Segment size:   %d bytes", l.SegmentSize)
	if l.SegmentSize != l.RequestedSegmentSize {
		printInfo(" (requested %d)", l.RequestedSegmentSize)
	}
	printInfo("\n")
	printInfo("  Growth:         %d segments\n", l.Growth)
	printInfo("  Page size:      %s (%d bytes)\n", humanize.IBytes(uint64(l.PageBytes)), l.PageBytes)
	printInfo("  Payload:        %s\n", humanize.IBytes(uint64(l.PayloadBytes)))
	printInfo("  Efficiency:     %.2f%%\n", l.Efficiency*100)
	printVerbose("  Page header:    %d bytes (next-page link)\n", sizes.Word)
	return nil
}
