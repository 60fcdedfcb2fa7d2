// Package metrics defines prometheus collectors for the digest pipeline and the classifier chain.
// All methods are safe to call on a nil *Metrics, which records nothing.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "newsdigest"

// Metrics holds the collectors
type Metrics struct {
	classifications *prometheus.CounterVec
	providerErrors  *prometheus.CounterVec
	fetchErrors     prometheus.Counter
	entriesSkipped  *prometheus.CounterVec
	runDuration     prometheus.Histogram
	runs            *prometheus.CounterVec
}

// New creates collectors and registers them with reg
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		classifications: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "classifications_total",
			Help:      "Entries classified, by chain tier and verdict.",
		}, []string{"tier", "verdict"}),
		providerErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "provider_errors_total",
			Help:      "Failed provider calls, by tier and error kind.",
		}, []string{"tier", "kind"}),
		fetchErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "fetch_errors_total",
			Help:      "Feed fetch failures.",
		}),
		entriesSkipped: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "entries_skipped_total",
			Help:      "Entries skipped before classification, by reason.",
		}, []string{"reason"}),
		runDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "run_duration_seconds",
			Help:      "Digest run duration.",
			Buckets:   []float64{1, 5, 15, 30, 60, 120, 300, 600, 1200},
		}),
		runs: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "runs_total",
			Help:      "Digest runs, by status.",
		}, []string{"status"}),
	}
	reg.MustRegister(m.classifications, m.providerErrors, m.fetchErrors, m.entriesSkipped, m.runDuration, m.runs)
	return m
}

// ObserveClassification counts one verdict produced by the given tier
func (m *Metrics) ObserveClassification(tier, verdict string) {
	if m == nil {
		return
	}
	m.classifications.WithLabelValues(tier, verdict).Inc()
}

// ProviderError counts one failed provider call
func (m *Metrics) ProviderError(tier, kind string) {
	if m == nil {
		return
	}
	m.providerErrors.WithLabelValues(tier, kind).Inc()
}

// FetchError counts one feed fetch failure
func (m *Metrics) FetchError() {
	if m == nil {
		return
	}
	m.fetchErrors.Inc()
}

// EntrySkipped counts one entry skipped for reason (seen, duplicate, canceled)
func (m *Metrics) EntrySkipped(reason string) {
	if m == nil {
		return
	}
	m.entriesSkipped.WithLabelValues(reason).Inc()
}

// ObserveRun records a finished run
func (m *Metrics) ObserveRun(d time.Duration, failed bool) {
	if m == nil {
		return
	}
	m.runDuration.Observe(d.Seconds())
	status := "ok"
	if failed {
		status = "failed"
	}
	m.runs.WithLabelValues(status).Inc()
}
