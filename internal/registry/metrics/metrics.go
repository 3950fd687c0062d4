package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides observability for the registry module.
// Tracks record and dimension mutations and blocked deletes.
type Metrics struct {
	RecordsWritten  *prometheus.CounterVec
	DimensionWrites *prometheus.CounterVec
	DeletesBlocked  *prometheus.CounterVec
	WriteDuration   *prometheus.HistogramVec
}

// New creates a Metrics instance registered on the default registry.
func New() *Metrics {
	return NewWith(prometheus.DefaultRegisterer)
}

// NewWith registers the metrics on reg. Tests pass a fresh registry.
func NewWith(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		RecordsWritten: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "etatcivil_records_written_total",
			Help: "Fact records written, by kind (deces, naissance) and operation",
		}, []string{"kind", "op"}),
		DimensionWrites: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "etatcivil_dimension_writes_total",
			Help: "Dimension rows written, by kind and operation",
		}, []string{"kind", "op"}),
		DeletesBlocked: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "etatcivil_dimension_deletes_blocked_total",
			Help: "Dimension deletes refused because rows still reference them",
		}, []string{"kind"}),
		WriteDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "etatcivil_registry_write_duration_seconds",
			Help:    "Duration of registry write operations",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		}, []string{"op"}),
	}
}

// IncrementRecordWritten records a successful create, update or delete.
func (m *Metrics) IncrementRecordWritten(kind, op string) {
	m.RecordsWritten.WithLabelValues(kind, op).Inc()
}

func (m *Metrics) IncrementDimensionWrite(kind, op string) {
	m.DimensionWrites.WithLabelValues(kind, op).Inc()
}

func (m *Metrics) IncrementDeleteBlocked(kind string) {
	m.DeletesBlocked.WithLabelValues(kind).Inc()
}

// ObserveWrite records the duration of a write operation.
// Call with time.Now() at the start of the operation.
func (m *Metrics) ObserveWrite(op string, start time.Time) {
	m.WriteDuration.WithLabelValues(op).Observe(time.Since(start).Seconds())
}
