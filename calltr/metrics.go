package calltr

import "github.com/prometheus/client_golang/prometheus"

// Metrics exposes an Allocator's AllocStats as Prometheus collectors, the
// observability surface layered over the injectable allocator (§5, §6
// environment toggles). It implements prometheus.Collector so it can be
// registered directly with a registry the embedding process already owns.
type Metrics struct {
	alloc Allocator

	newCalls     *prometheus.Desc
	freeCalls    *prometheus.Desc
	newMessages  *prometheus.Desc
	freeMessages *prometheus.Desc
	failures     *prometheus.Desc
}

// NewMetrics builds a Collector reading live counters off a.
func NewMetrics(a Allocator) *Metrics {
	return &Metrics{
		alloc: a,
		newCalls: prometheus.NewDesc(
			"dialogtrack_calls_allocated_total",
			"Total number of Call values handed out by the allocator.",
			nil, nil),
		freeCalls: prometheus.NewDesc(
			"dialogtrack_calls_freed_total",
			"Total number of Call values returned to the allocator.",
			nil, nil),
		newMessages: prometheus.NewDesc(
			"dialogtrack_messages_allocated_total",
			"Total number of Message values handed out by the allocator.",
			nil, nil),
		freeMessages: prometheus.NewDesc(
			"dialogtrack_messages_freed_total",
			"Total number of Message values returned to the allocator.",
			nil, nil),
		failures: prometheus.NewDesc(
			"dialogtrack_alloc_failures_total",
			"Total number of allocation attempts that failed.",
			nil, nil),
	}
}

// Describe implements prometheus.Collector.
func (m *Metrics) Describe(ch chan<- *prometheus.Desc) {
	ch <- m.newCalls
	ch <- m.freeCalls
	ch <- m.newMessages
	ch <- m.freeMessages
	ch <- m.failures
}

// Collect implements prometheus.Collector.
func (m *Metrics) Collect(ch chan<- prometheus.Metric) {
	s := m.alloc.Stats()
	ch <- prometheus.MustNewConstMetric(m.newCalls, prometheus.CounterValue, float64(s.NewCalls.Get()))
	ch <- prometheus.MustNewConstMetric(m.freeCalls, prometheus.CounterValue, float64(s.FreeCalls.Get()))
	ch <- prometheus.MustNewConstMetric(m.newMessages, prometheus.CounterValue, float64(s.NewMessages.Get()))
	ch <- prometheus.MustNewConstMetric(m.freeMessages, prometheus.CounterValue, float64(s.FreeMessages.Get()))
	ch <- prometheus.MustNewConstMetric(m.failures, prometheus.CounterValue, float64(s.Failures.Get()))
}
