package metric

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics contains all pipeline-level metrics for one batch run.
type Metrics struct {
	// Ingestion metrics
	RowsIngested      *prometheus.CounterVec
	RowsSkipped       *prometheus.CounterVec
	DroppedReferences *prometheus.CounterVec
	CoercionFailures  *prometheus.CounterVec

	// Classification metrics
	EdgesAsserted         *prometheus.CounterVec
	EdgesInferred         *prometheus.CounterVec
	ClassificationPasses  prometheus.Gauge
	CompositeMembers      *prometheus.GaugeVec
	ConsistencyViolations *prometheus.CounterVec
}

// NewMetrics creates a new Metrics instance with all pipeline metrics.
func NewMetrics() *Metrics {
	return &Metrics{
		RowsIngested: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "semtransit",
				Subsystem: "ingest",
				Name:      "rows_total",
				Help:      "Total number of rows turned into individuals, per table",
			},
			[]string{"table"},
		),

		RowsSkipped: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "semtransit",
				Subsystem: "ingest",
				Name:      "rows_skipped_total",
				Help:      "Total number of rows skipped, per table and reason",
			},
			[]string{"table", "reason"},
		),

		DroppedReferences: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "semtransit",
				Subsystem: "ingest",
				Name:      "dropped_references_total",
				Help:      "Total number of foreign keys dropped because the target was not loaded, per table",
			},
			[]string{"table"},
		),

		CoercionFailures: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "semtransit",
				Subsystem: "ingest",
				Name:      "coercion_failures_total",
				Help:      "Total number of attribute values left unset due to coercion failure, per attribute",
			},
			[]string{"attribute"},
		),

		EdgesAsserted: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "semtransit",
				Subsystem: "graph",
				Name:      "edges_asserted_total",
				Help:      "Total number of edges asserted during ingestion, per relation",
			},
			[]string{"relation"},
		),

		EdgesInferred: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "semtransit",
				Subsystem: "classify",
				Name:      "edges_inferred_total",
				Help:      "Total number of edges added by relation closure, per relation",
			},
			[]string{"relation"},
		),

		ClassificationPasses: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: "semtransit",
				Subsystem: "classify",
				Name:      "passes",
				Help:      "Number of fixed-point passes the last composite evaluation took",
			},
		),

		CompositeMembers: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: "semtransit",
				Subsystem: "classify",
				Name:      "composite_members",
				Help:      "Membership count per composite category after classification",
			},
			[]string{"composite"},
		),

		ConsistencyViolations: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "semtransit",
				Subsystem: "classify",
				Name:      "consistency_violations_total",
				Help:      "Total number of consistency violations reported, per kind",
			},
			[]string{"kind"},
		),
	}
}

// Register registers all metrics with the provided registerer.
func (m *Metrics) Register(reg prometheus.Registerer) error {
	collectors := []prometheus.Collector{
		m.RowsIngested,
		m.RowsSkipped,
		m.DroppedReferences,
		m.CoercionFailures,
		m.EdgesAsserted,
		m.EdgesInferred,
		m.ClassificationPasses,
		m.CompositeMembers,
		m.ConsistencyViolations,
	}
	for _, c := range collectors {
		if err := reg.Register(c); err != nil {
			return err
		}
	}
	return nil
}
