package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics covers report computation and the report cache.
// All methods are safe on a nil receiver.
type Metrics struct {
	ReportDuration *prometheus.HistogramVec
	ReportFailures *prometheus.CounterVec
	CacheLookups   *prometheus.CounterVec
}

// New creates a Metrics instance registered on the default registry.
func New() *Metrics {
	return NewWith(prometheus.DefaultRegisterer)
}

// NewWith registers the metrics on reg.
func NewWith(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		ReportDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "etatcivil_report_duration_seconds",
			Help:    "Duration of report bundle computation, cache hits included",
			Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		}, []string{"report"}),
		ReportFailures: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "etatcivil_report_failures_total",
			Help: "Report bundles aborted by a failing section",
		}, []string{"report"}),
		CacheLookups: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "etatcivil_report_cache_lookups_total",
			Help: "Report cache lookups by result (hit, miss, error)",
		}, []string{"report", "result"}),
	}
}

// ObserveReport records the duration of one report request.
// Call with time.Now() at the start of the request.
func (m *Metrics) ObserveReport(report string, start time.Time) {
	if m == nil {
		return
	}
	m.ReportDuration.WithLabelValues(report).Observe(time.Since(start).Seconds())
}

func (m *Metrics) IncrementFailure(report string) {
	if m == nil {
		return
	}
	m.ReportFailures.WithLabelValues(report).Inc()
}

// IncrementCacheLookup counts a cache lookup; result is hit, miss or error.
func (m *Metrics) IncrementCacheLookup(report, result string) {
	if m == nil {
		return
	}
	m.CacheLookups.WithLabelValues(report, result).Inc()
}
