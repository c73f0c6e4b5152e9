// Package metrics exposes Prometheus counters for element loading.
//
// Each Collector owns a registry so tests and multiple handlers in one
// process never collide on registration.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "attrfilter"

// Load outcomes used as label values.
const (
	OutcomeSuccess   = "success"
	OutcomeError     = "error"
	OutcomeCancelled = "cancelled"
	OutcomeStale     = "stale"
)

// Collector holds the element loading metrics.
type Collector struct {
	registry *prometheus.Registry

	// Loads counts finished loads by kind and outcome.
	Loads *prometheus.CounterVec

	// ElementsLoaded counts elements received in pages.
	ElementsLoaded prometheus.Counter

	// LoadDuration observes load latency by kind.
	LoadDuration *prometheus.HistogramVec

	// PendingSlots reports pending positions of the latest merged list.
	PendingSlots prometheus.Gauge

	// SelectionChanges counts working selection edits by op.
	SelectionChanges *prometheus.CounterVec
}

// NewCollector creates a collector with its own registry.
func NewCollector() *Collector {
	registry := prometheus.NewRegistry()

	c := &Collector{
		registry: registry,
		Loads: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "element_loads_total",
				Help:      "Total number of element loads",
			},
			[]string{"kind", "outcome"},
		),
		ElementsLoaded: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "elements_loaded_total",
				Help:      "Total number of elements received in pages",
			},
		),
		LoadDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "element_load_duration_seconds",
				Help:      "Element load duration in seconds",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"kind"},
		),
		PendingSlots: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "pending_slots",
				Help:      "Pending positions in the latest merged element list",
			},
		),
		SelectionChanges: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "selection_changes_total",
				Help:      "Total number of working selection edits",
			},
			[]string{"op"},
		),
	}

	registry.MustRegister(
		c.Loads,
		c.ElementsLoaded,
		c.LoadDuration,
		c.PendingSlots,
		c.SelectionChanges,
	)

	return c
}

// Registry returns the collector's registry.
func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}

// Handler serves the collector's metrics in the Prometheus text format.
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{})
}

// RecordLoad records one finished load. Safe on a nil collector.
func (c *Collector) RecordLoad(kind, outcome string, seconds float64, elements int) {
	if c == nil {
		return
	}
	c.Loads.WithLabelValues(kind, outcome).Inc()
	c.LoadDuration.WithLabelValues(kind).Observe(seconds)
	if elements > 0 {
		c.ElementsLoaded.Add(float64(elements))
	}
}

// SetPending records the pending slot count. Safe on a nil collector.
func (c *Collector) SetPending(n int) {
	if c == nil {
		return
	}
	c.PendingSlots.Set(float64(n))
}

// RecordSelectionChange counts one selection edit. Safe on a nil collector.
func (c *Collector) RecordSelectionChange(op string) {
	if c == nil {
		return
	}
	c.SelectionChanges.WithLabelValues(op).Inc()
}
