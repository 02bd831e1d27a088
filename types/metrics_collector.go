package types

// MetricsCollector receives engine observability signals.
//
// Implementations must be safe for concurrent use. The engine calls the
// collector on every allocation and commit; implementations should be cheap
// and never block.
type MetricsCollector interface {
	// RecordAllocation records one allocation outcome. outcome is one of
	// "assigned", "existing", "short", or "error".
	RecordAllocation(scope, condition, outcome string, seconds float64)

	// RecordCommit records one commit outcome. outcome is one of
	// "committed", "noop", or "error".
	RecordCommit(scope, outcome string, seconds float64)

	// RecordConflictRetry counts one optimistic-concurrency retry for the
	// given operation ("allocate" or "commit").
	RecordConflictRetry(op string)

	// RecordStoreOperation records the latency of one store call.
	RecordStoreOperation(op string, seconds float64)

	// SetCatalogSize records the number of valid catalog items loaded.
	SetCatalogSize(n int)

	// SetPendingReservations records the current number of live
	// reservations in a scope after a successful write.
	SetPendingReservations(scope string, n int)
}
