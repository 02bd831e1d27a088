package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/METResearchGroup/mirrorView-task/types"
)

// PrometheusCollector implements types.MetricsCollector backed by Prometheus.
type PrometheusCollector struct {
	reg       prometheus.Registerer
	namespace string
	once      sync.Once

	allocations    *prometheus.CounterVec
	allocLatency   prometheus.Histogram
	commits        *prometheus.CounterVec
	commitLatency  prometheus.Histogram
	conflictRetry  *prometheus.CounterVec
	storeLatency   *prometheus.HistogramVec
	catalogSize    prometheus.Gauge
	pendingByScope *prometheus.GaugeVec
}

// Compile-time assertion that PrometheusCollector implements MetricsCollector.
var _ types.MetricsCollector = (*PrometheusCollector)(nil)

// NewPrometheus creates a new Prometheus-backed metrics collector.
//
// Parameters:
//   - reg: Prometheus registerer interface (uses prometheus.DefaultRegisterer if nil)
//   - namespace: Prometheus metrics namespace (defaults to "mirrorview" if empty)
//
// Returns:
//   - *PrometheusCollector: A MetricsCollector implementation using Prometheus
func NewPrometheus(reg prometheus.Registerer, namespace string) *PrometheusCollector {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	if namespace == "" {
		namespace = "mirrorview"
	}

	return &PrometheusCollector{reg: reg, namespace: namespace}
}

func (p *PrometheusCollector) ensureRegistered() {
	p.once.Do(func() {
		p.allocations = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: p.namespace,
			Subsystem: "engine",
			Name:      "allocations_total",
			Help:      "Total allocation requests by scope, condition, and outcome.",
		}, []string{"scope", "condition", "outcome"})

		p.allocLatency = prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: p.namespace,
			Subsystem: "engine",
			Name:      "allocation_latency_seconds",
			Help:      "Latency of allocation requests in seconds.",
			Buckets:   prometheus.ExponentialBuckets(0.005, 2, 10), // 5ms .. ~2.5s
		})

		p.commits = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: p.namespace,
			Subsystem: "engine",
			Name:      "commits_total",
			Help:      "Total commit requests by scope and outcome.",
		}, []string{"scope", "outcome"})

		p.commitLatency = prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: p.namespace,
			Subsystem: "engine",
			Name:      "commit_latency_seconds",
			Help:      "Latency of commit requests in seconds.",
			Buckets:   prometheus.ExponentialBuckets(0.005, 2, 10),
		})

		p.conflictRetry = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: p.namespace,
			Subsystem: "engine",
			Name:      "conflict_retries_total",
			Help:      "Total optimistic-concurrency retries by operation.",
		}, []string{"op"})

		p.storeLatency = prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: p.namespace,
			Subsystem: "store",
			Name:      "operation_latency_seconds",
			Help:      "Latency of backing store operations in seconds by operation.",
			Buckets:   prometheus.ExponentialBuckets(0.001, 2, 12), // 1ms .. ~4s
		}, []string{"op"})

		p.catalogSize = prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: p.namespace,
			Subsystem: "catalog",
			Name:      "items",
			Help:      "Number of valid catalog items loaded.",
		})

		p.pendingByScope = prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: p.namespace,
			Subsystem: "engine",
			Name:      "pending_reservations",
			Help:      "Live pending reservations by scope.",
		}, []string{"scope"})

		p.reg.MustRegister(
			p.allocations, p.allocLatency,
			p.commits, p.commitLatency,
			p.conflictRetry, p.storeLatency,
			p.catalogSize, p.pendingByScope,
		)
	})
}

// RecordAllocation records one allocation outcome.
func (p *PrometheusCollector) RecordAllocation(scope, condition, outcome string, seconds float64) {
	p.ensureRegistered()
	p.allocations.WithLabelValues(scope, condition, outcome).Inc()
	p.allocLatency.Observe(seconds)
}

// RecordCommit records one commit outcome.
func (p *PrometheusCollector) RecordCommit(scope, outcome string, seconds float64) {
	p.ensureRegistered()
	p.commits.WithLabelValues(scope, outcome).Inc()
	p.commitLatency.Observe(seconds)
}

// RecordConflictRetry counts one optimistic-concurrency retry.
func (p *PrometheusCollector) RecordConflictRetry(op string) {
	p.ensureRegistered()
	p.conflictRetry.WithLabelValues(op).Inc()
}

// RecordStoreOperation records the latency of one store call.
func (p *PrometheusCollector) RecordStoreOperation(op string, seconds float64) {
	p.ensureRegistered()
	p.storeLatency.WithLabelValues(op).Observe(seconds)
}

// SetCatalogSize records the number of valid catalog items loaded.
func (p *PrometheusCollector) SetCatalogSize(n int) {
	p.ensureRegistered()
	p.catalogSize.Set(float64(n))
}

// SetPendingReservations records the live reservation count for a scope.
func (p *PrometheusCollector) SetPendingReservations(scope string, n int) {
	p.ensureRegistered()
	p.pendingByScope.WithLabelValues(scope).Set(float64(n))
}
