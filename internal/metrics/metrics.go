package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the various metrics used for monitoring the application.
// It includes counters for store operations, validation failures and parsed
// roster rows, a gauge for the collection size, and histograms for store
// operation and database query durations.
type Metrics struct {
	StoreOperations    *prometheus.CounterVec
	StoreDuration      *prometheus.HistogramVec
	CollectionSize     prometheus.Gauge
	Reseeds            *prometheus.CounterVec
	ValidationFailures *prometheus.CounterVec
	ItemsParsed        *prometheus.CounterVec
	EmailsGenerated    prometheus.Counter
	DBQueryDuration    *prometheus.HistogramVec
}

// NewMetrics creates a new Metrics instance with the provided Registerer.
//
// Parameters:
//   - reg: A prometheus.Registerer used to register the metrics.
//
// Returns:
//   - A pointer to the newly created Metrics instance.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	metrics := &Metrics{
		StoreOperations: promauto.With(reg).NewCounterVec(prometheus.CounterOpts{
			Name: "staffbook_store_operations_total",
			Help: "Total record store operations by operation and outcome.",
		}, []string{"operation", "status"}),
		StoreDuration: promauto.With(reg).NewHistogramVec(prometheus.HistogramOpts{
			Name:    "staffbook_store_operation_duration_seconds",
			Help:    "Duration of a full record store read-modify-write cycle.",
			Buckets: prometheus.DefBuckets,
		}, []string{"operation"}),
		CollectionSize: promauto.With(reg).NewGauge(prometheus.GaugeOpts{
			Name: "staffbook_employees",
			Help: "Number of employee records in the last loaded or saved collection.",
		}),
		Reseeds: promauto.With(reg).NewCounterVec(prometheus.CounterOpts{
			Name: "staffbook_store_reseeds_total",
			Help: "Times the store was initialized with the seed set.",
		}, []string{"reason"}), // reason: 'empty', 'corrupt'
		ValidationFailures: promauto.With(reg).NewCounterVec(prometheus.CounterOpts{
			Name: "staffbook_validation_failures_total",
			Help: "Rejected form fields by field name.",
		}, []string{"field"}),
		ItemsParsed: promauto.With(reg).NewCounterVec(prometheus.CounterOpts{
			Name: "staffbook_items_parsed_total",
			Help: "Total number of parsed items",
		}, []string{"type"}),
		EmailsGenerated: promauto.With(reg).NewCounter(prometheus.CounterOpts{
			Name: "staffbook_emails_generated_total",
			Help: "Total number of imported employees that received a generated placeholder email.",
		}),
		DBQueryDuration: promauto.With(reg).NewHistogramVec(prometheus.HistogramOpts{
			Name:    "staffbook_db_query_duration_seconds",
			Help:    "Duration of database queries.",
			Buckets: prometheus.DefBuckets,
		}, []string{"query_type"}), // query_type: 'get_slot', 'set_slot'
	}

	for _, op := range []string{"load", "save", "add", "update", "remove"} {
		metrics.StoreOperations.WithLabelValues(op, "success")
		metrics.StoreOperations.WithLabelValues(op, "failure")
	}

	return metrics
}
