// Package metrics exports pool statistics to Prometheus.
//
// Pools are single-threaded, while Prometheus scrapes from its own goroutines.
// A Collector therefore never touches a pool: the pool's owner pushes
// snapshots with Observe, and scrapes read the latest snapshot.
//
//	c := metrics.NewCollector("nodes")
//	prometheus.MustRegister(c)
//	...
//	c.Observe(p.Stats()) // from the goroutine that owns p
package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/joshuapare/segpool/pool"
)

// Namespace prefixes every metric name.
const Namespace = "segpool"

// PoolLabel is the constant label identifying the observed pool.
const PoolLabel = "pool"

var (
	segmentSizeDesc = newDesc("segment_size_bytes", "Effective segment size in bytes.")
	growthSizeDesc  = newDesc("growth_segments", "Segments added per automatic growth.")
	pagesDesc       = newDesc("pages", "Pages currently owned by the pool.")
	segmentsDesc    = newDesc("segments", "Segments provisioned across all pages.")
	freeDesc        = newDesc("free_segments", "Segments on the free list.")
	inUseDesc       = newDesc("in_use_segments", "Segments handed out and not yet returned.")
	reservedDesc    = newDesc("reserved_bytes", "Bytes obtained from the system allocator.")

	allocDesc         = newDesc("alloc_total", "Allocate calls.")
	allocFailuresDesc = newDesc("alloc_failures_total", "Allocate calls that failed to grow the pool.")
	freeCallsDesc     = newDesc("free_total", "Deallocate calls.")
	growDesc          = newDesc("grow_total", "Growth attempts.")
	growFailuresDesc  = newDesc("grow_failures_total", "Failed growth attempts.")
)

func newDesc(name, help string) *prometheus.Desc {
	return prometheus.NewDesc(
		prometheus.BuildFQName(Namespace, "", name),
		help,
		[]string{PoolLabel},
		nil,
	)
}

// Collector is a prometheus.Collector over pool.Stats snapshots.
// It is safe for concurrent use.
type Collector struct {
	name string

	mu       sync.RWMutex
	last     pool.Stats
	observed bool
}

// NewCollector creates a Collector whose series carry pool=name.
func NewCollector(name string) *Collector {
	return &Collector{name: name}
}

// Observe records a new snapshot.
func (c *Collector) Observe(s pool.Stats) {
	c.mu.Lock()
	c.last = s
	c.observed = true
	c.mu.Unlock()
}

// Last returns the most recent snapshot and whether one was observed.
func (c *Collector) Last() (pool.Stats, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.last, c.observed
}

// Describe implements prometheus.Collector.
func (c *Collector) Describe(ch chan<- *prometheus.Desc) {
	for _, d := range []*prometheus.Desc{
		segmentSizeDesc, growthSizeDesc, pagesDesc, segmentsDesc, freeDesc, inUseDesc, reservedDesc,
		allocDesc, allocFailuresDesc, freeCallsDesc, growDesc, growFailuresDesc,
	} {
		ch <- d
	}
}

// Collect implements prometheus.Collector. Nothing is emitted before the
// first Observe.
func (c *Collector) Collect(ch chan<- prometheus.Metric) {
	s, ok := c.Last()
	if !ok {
		return
	}

	gauge := func(d *prometheus.Desc, v float64) {
		ch <- prometheus.MustNewConstMetric(d, prometheus.GaugeValue, v, c.name)
	}
	counter := func(d *prometheus.Desc, v uint64) {
		ch <- prometheus.MustNewConstMetric(d, prometheus.CounterValue, float64(v), c.name)
	}

	gauge(segmentSizeDesc, float64(s.SegmentSize))
	gauge(growthSizeDesc, float64(s.GrowthSize))
	gauge(pagesDesc, float64(s.Pages))
	gauge(segmentsDesc, float64(s.Segments))
	gauge(freeDesc, float64(s.Free))
	gauge(inUseDesc, float64(s.InUse))
	gauge(reservedDesc, float64(s.ReservedBytes))

	counter(allocDesc, s.AllocCalls)
	counter(allocFailuresDesc, s.AllocFailures)
	counter(freeCallsDesc, s.FreeCalls)
	counter(growDesc, s.GrowCalls)
	counter(growFailuresDesc, s.GrowFailures)
}

// Compile-time interface check
var _ prometheus.Collector = (*Collector)(nil)
