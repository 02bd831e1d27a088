package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"
)

func TestNopMetrics_AllMethodsSafe(t *testing.T) {
	t.Parallel()

	m := NewNop()
	m.RecordAllocation("production", "control", "assigned", 0.01)
	m.RecordCommit("production", "committed", 0.01)
	m.RecordConflictRetry("allocate")
	m.RecordStoreOperation("get", 0.001)
	m.SetCatalogSize(100)
	m.SetPendingReservations("sandbox", 3)
	require.NotNil(t, m)
}

func TestPrometheusCollector_RegistersOnce(t *testing.T) {
	t.Parallel()

	reg := prometheus.NewRegistry()
	m := NewPrometheus(reg, "test")

	// Repeated calls must not re-register collectors.
	m.RecordAllocation("production", "control", "assigned", 0.02)
	m.RecordAllocation("production", "linked_fate", "existing", 0.01)
	m.RecordCommit("sandbox", "noop", 0.005)
	m.RecordConflictRetry("commit")
	m.RecordStoreOperation("update", 0.003)
	m.SetCatalogSize(42)
	m.SetPendingReservations("production", 1)

	families, err := reg.Gather()
	require.NoError(t, err)

	names := make(map[string]bool, len(families))
	for _, f := range families {
		names[f.GetName()] = true
	}
	require.True(t, names["test_engine_allocations_total"])
	require.True(t, names["test_engine_commits_total"])
	require.True(t, names["test_engine_conflict_retries_total"])
	require.True(t, names["test_store_operation_latency_seconds"])
	require.True(t, names["test_catalog_items"])
	require.True(t, names["test_engine_pending_reservations"])
}

func TestPrometheusCollector_DefaultNamespace(t *testing.T) {
	t.Parallel()

	reg := prometheus.NewRegistry()
	m := NewPrometheus(reg, "")
	m.SetCatalogSize(1)

	families, err := reg.Gather()
	require.NoError(t, err)
	require.NotEmpty(t, families)
	require.Contains(t, families[0].GetName(), "mirrorview")
}
