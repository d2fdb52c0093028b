// Package promdiag exposes keyboard pipeline diagnostics as Prometheus
// metrics for host-side simulation and soak runs.
package promdiag

import (
	"github.com/prometheus/client_golang/prometheus"

	"keymatrix-go/types"
)

// Collector reads a fresh Diagnostics snapshot on every scrape.
type Collector struct {
	source func() types.Diagnostics

	dropped     *prometheus.Desc
	scanErrors  *prometheus.Desc
	rollovers   *prometheus.Desc
	transitions *prometheus.Desc
	reports     *prometheus.Desc
	lost        *prometheus.Desc
	ticks       *prometheus.Desc
	layers      *prometheus.Desc
}

// NewCollector returns a collector over source. source must be safe to call
// from the scrape goroutine.
func NewCollector(source func() types.Diagnostics) *Collector {
	return &Collector{
		source:      source,
		dropped:     prometheus.NewDesc("keymatrix_queue_dropped_total", "Key transitions lost to event queue overflow.", nil, nil),
		scanErrors:  prometheus.NewDesc("keymatrix_scan_errors_total", "Scan ticks with at least one line failure.", nil, nil),
		rollovers:   prometheus.NewDesc("keymatrix_rollover_events_total", "Key presses beyond the report slot count.", nil, nil),
		transitions: prometheus.NewDesc("keymatrix_transitions_total", "Debounced key transitions.", nil, nil),
		reports:     prometheus.NewDesc("keymatrix_reports_total", "Output reports emitted.", nil, nil),
		lost:        prometheus.NewDesc("keymatrix_reports_dropped_total", "Reports lost before reaching the host transport.", nil, nil),
		ticks:       prometheus.NewDesc("keymatrix_scan_ticks_total", "Matrix scan passes.", nil, nil),
		layers:      prometheus.NewDesc("keymatrix_active_layers", "Active layers including the base layer.", nil, nil),
	}
}

func (c *Collector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.dropped
	ch <- c.scanErrors
	ch <- c.rollovers
	ch <- c.transitions
	ch <- c.reports
	ch <- c.lost
	ch <- c.ticks
	ch <- c.layers
}

func (c *Collector) Collect(ch chan<- prometheus.Metric) {
	d := c.source()
	ch <- prometheus.MustNewConstMetric(c.dropped, prometheus.CounterValue, float64(d.QueueDropped))
	ch <- prometheus.MustNewConstMetric(c.scanErrors, prometheus.CounterValue, float64(d.ScanErrors))
	ch <- prometheus.MustNewConstMetric(c.rollovers, prometheus.CounterValue, float64(d.RolloverEvents))
	ch <- prometheus.MustNewConstMetric(c.transitions, prometheus.CounterValue, float64(d.Transitions))
	ch <- prometheus.MustNewConstMetric(c.reports, prometheus.CounterValue, float64(d.Reports))
	ch <- prometheus.MustNewConstMetric(c.lost, prometheus.CounterValue, float64(d.ReportsDropped))
	ch <- prometheus.MustNewConstMetric(c.ticks, prometheus.CounterValue, float64(d.Ticks))
	ch <- prometheus.MustNewConstMetric(c.layers, prometheus.GaugeValue, float64(d.ActiveLayers))
}
