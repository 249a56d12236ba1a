package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus counters, histograms, and gauges for the
// signal aggregation pipeline.
type Metrics struct {
	AssessmentsTotal   prometheus.Counter
	AssessmentDuration prometheus.Histogram

	// Per-source fetch metrics.
	SourceFetches      *prometheus.CounterVec   // labels: source, outcome={success,degraded}
	SourceRecords      *prometheus.CounterVec   // labels: source
	SourceFetchSeconds *prometheus.HistogramVec // labels: source

	// Pipeline stage metrics.
	RecordsDiscarded *prometheus.CounterVec // labels: stage={filter,dedupe}

	PublishErrors prometheus.Counter
	StoreErrors   prometheus.Counter
}

// NewMetrics creates and registers all pipeline metrics with the default
// Prometheus registry.
func NewMetrics() *Metrics {
	m := newMetrics()

	prometheus.MustRegister(
		m.AssessmentsTotal,
		m.AssessmentDuration,
		m.SourceFetches,
		m.SourceRecords,
		m.SourceFetchSeconds,
		m.RecordsDiscarded,
		m.PublishErrors,
		m.StoreErrors,
	)

	return m
}

// NewMetricsForTesting creates Metrics without registering them, avoiding
// "already registered" panics when called from multiple tests.
func NewMetricsForTesting() *Metrics {
	return newMetrics()
}

func newMetrics() *Metrics {
	return &Metrics{
		AssessmentsTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "risk_signal",
			Name:      "assessments_total",
			Help:      "Total assessments processed by the pipeline.",
		}),
		AssessmentDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "risk_signal",
			Name:      "assessment_duration_seconds",
			Help:      "Duration of a complete fetch-filter-dedupe-rank-score cycle.",
			Buckets:   []float64{0.1, 0.5, 1, 2.5, 5, 10, 20, 30},
		}),
		SourceFetches: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "risk_signal",
			Name:      "source_fetches_total",
			Help:      "Source adapter fetches by source and outcome.",
		}, []string{"source", "outcome"}),
		SourceRecords: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "risk_signal",
			Name:      "source_records_total",
			Help:      "Raw records emitted per source adapter.",
		}, []string{"source"}),
		SourceFetchSeconds: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "risk_signal",
			Name:      "source_fetch_duration_seconds",
			Help:      "Source adapter fetch duration in seconds.",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 20},
		}, []string{"source"}),
		RecordsDiscarded: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "risk_signal",
			Name:      "records_discarded_total",
			Help:      "Records dropped by pipeline stage.",
		}, []string{"stage"}),
		PublishErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "risk_signal",
			Name:      "publish_errors_total",
			Help:      "Failed assessment event publishes.",
		}),
		StoreErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "risk_signal",
			Name:      "store_errors_total",
			Help:      "Failed assessment history inserts.",
		}),
	}
}
