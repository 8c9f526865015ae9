// Package metrics provides Prometheus metrics for the arbiter service.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// BatchesProcessed counts submission batches accepted by the pipeline.
var BatchesProcessed = promauto.NewCounter(prometheus.CounterOpts{
	Namespace: "arbiter",
	Name:      "batches_processed_total",
	Help:      "Total submission batches processed.",
})

// BatchLatency tracks end-to-end batch processing duration in seconds.
var BatchLatency = promauto.NewHistogram(prometheus.HistogramOpts{
	Namespace: "arbiter",
	Name:      "batch_latency_seconds",
	Help:      "Submission batch processing duration in seconds.",
	Buckets:   prometheus.DefBuckets,
})

// FindingsClassified counts findings by assigned outcome.
var FindingsClassified = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "arbiter",
	Name:      "findings_classified_total",
	Help:      "Total findings with a definitive outcome.",
}, []string{"outcome"})

// FindingsDeferred counts findings parked without an outcome.
var FindingsDeferred = promauto.NewCounter(prometheus.CounterOpts{
	Namespace: "arbiter",
	Name:      "findings_deferred_total",
	Help:      "Total findings deferred pending an oracle verdict.",
})

// OracleCalls counts reasoning oracle calls by operation and result.
var OracleCalls = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "arbiter",
	Name:      "oracle_calls_total",
	Help:      "Total reasoning oracle calls.",
}, []string{"op", "status"})

// OracleLatency tracks oracle round-trip duration in seconds.
var OracleLatency = promauto.NewHistogram(prometheus.HistogramOpts{
	Namespace: "arbiter",
	Name:      "oracle_latency_seconds",
	Help:      "Reasoning oracle call duration in seconds.",
	Buckets:   []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
})

// TasksSubmitted counts bounty tasks created in the registry.
var TasksSubmitted = promauto.NewCounter(prometheus.CounterOpts{
	Namespace: "arbiter",
	Name:      "tasks_submitted_total",
	Help:      "Total bounty tasks submitted.",
})

// TasksCancelled counts bounty tasks cancelled and refunded.
var TasksCancelled = promauto.NewCounter(prometheus.CounterOpts{
	Namespace: "arbiter",
	Name:      "tasks_cancelled_total",
	Help:      "Total bounty tasks cancelled.",
})

// EscrowedValue tracks the value currently held in task escrow.
var EscrowedValue = promauto.NewGauge(prometheus.GaugeOpts{
	Namespace: "arbiter",
	Name:      "escrowed_value",
	Help:      "Value currently escrowed against active tasks, in smallest units.",
})
