// Package metrics provides the built-in types.MetricsCollector
// implementations.
package metrics

import "github.com/METResearchGroup/mirrorView-task/types"

// NopMetrics implements a no-op metrics collector.
//
// All metrics are discarded. Useful for testing or when external metrics
// collection is used.
type NopMetrics struct{}

// Compile-time assertion that NopMetrics implements MetricsCollector.
var _ types.MetricsCollector = (*NopMetrics)(nil)

// NewNop creates a new no-op metrics collector.
//
// Returns:
//   - *NopMetrics: A new no-op metrics collector instance
func NewNop() *NopMetrics {
	return &NopMetrics{}
}

// RecordAllocation discards the allocation outcome metric.
func (n *NopMetrics) RecordAllocation(_ /* scope */, _ /* condition */, _ /* outcome */ string, _ /* seconds */ float64) {
	// No-op
}

// RecordCommit discards the commit outcome metric.
func (n *NopMetrics) RecordCommit(_ /* scope */, _ /* outcome */ string, _ /* seconds */ float64) {
	// No-op
}

// RecordConflictRetry discards the conflict retry counter.
func (n *NopMetrics) RecordConflictRetry(_ /* op */ string) {
	// No-op
}

// RecordStoreOperation discards the store latency metric.
func (n *NopMetrics) RecordStoreOperation(_ /* op */ string, _ /* seconds */ float64) {
	// No-op
}

// SetCatalogSize discards the catalog size gauge.
func (n *NopMetrics) SetCatalogSize(_ /* n */ int) {
	// No-op
}

// SetPendingReservations discards the pending reservations gauge.
func (n *NopMetrics) SetPendingReservations(_ /* scope */ string, _ /* n */ int) {
	// No-op
}
