// Package integration exercises the full allocate/commit flow against a real
// embedded NATS JetStream KV store.
package integration

import (
	"testing"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"
	"github.com/stretchr/testify/require"

	mirrorview "github.com/METResearchGroup/mirrorView-task"
	"github.com/METResearchGroup/mirrorView-task/catalog"
	"github.com/METResearchGroup/mirrorView-task/kvstore"
	mvtest "github.com/METResearchGroup/mirrorView-task/testing"
	"github.com/METResearchGroup/mirrorView-task/types"
)

func testItems(n int) []types.CatalogItem {
	items := make([]types.CatalogItem, n)
	for i := range n {
		items[i] = types.CatalogItem{
			ID:       "post-" + string(rune('a'+i)),
			Number:   i + 1,
			Category: types.CategoryUncategorized,
		}
	}

	return items
}

func openStores(t *testing.T, nc *nats.Conn, cfg mirrorview.Config) types.Stores {
	t.Helper()

	js, err := jetstream.New(nc)
	require.NoError(t, err)

	stores, err := kvstore.Open(t.Context(), js, kvstore.Options{
		LedgerBucket:  cfg.KVBuckets.LedgerBucket,
		PendingBucket: cfg.KVBuckets.PendingBucket,
		PendingTTL:    cfg.KVBuckets.PendingTTL,
	})
	require.NoError(t, err)

	return stores
}

func TestAllocateCommitOverJetStream(t *testing.T) {
	_, nc := mvtest.StartEmbeddedNATS(t)
	ctx := t.Context()

	cfg := mirrorview.TestConfig()
	stores := openStores(t, nc, cfg)

	engine, err := mirrorview.New(cfg, stores, catalog.NewStatic(testItems(10)),
		mirrorview.WithLogger(mvtest.NewTestLogger(t)))
	require.NoError(t, err)

	pid := mirrorview.NewParticipantID(time.Now())
	scope := mirrorview.ScopeFor(pid, false)
	require.Equal(t, mirrorview.ScopeProduction, scope)

	result, err := engine.Allocate(ctx, mirrorview.AllocateRequest{
		Scope:         scope,
		ParticipantID: pid,
		Group:         "democrat",
		Condition:     "control",
	})
	require.NoError(t, err)
	require.Len(t, result.Items, 5)
	require.False(t, result.ShortAssignment)

	committed, err := engine.Commit(ctx, scope, pid)
	require.NoError(t, err)
	require.Len(t, committed.Items, 5)

	snapshot, err := engine.Snapshot(ctx, scope)
	require.NoError(t, err)
	require.Len(t, snapshot.Participants, 1)
	mvtest.RequireLedgerConsistent(t, snapshot, mirrorview.CounterModeCondition)
}

// TestCrossEngineConsistency runs two engine instances against the same
// buckets, the way two concurrent serverless workers would share state.
func TestCrossEngineConsistency(t *testing.T) {
	_, nc := mvtest.StartEmbeddedNATS(t)
	ctx := t.Context()

	cfg := mirrorview.TestConfig()
	stores := openStores(t, nc, cfg)
	provider := catalog.NewStatic(testItems(12))

	engineA, err := mirrorview.New(cfg, stores, provider)
	require.NoError(t, err)
	engineB, err := mirrorview.New(cfg, stores, provider)
	require.NoError(t, err)

	// Each engine serves its own participant.
	reqA := mirrorview.AllocateRequest{
		Scope: mirrorview.ScopeProduction, ParticipantID: "P_1_aaaaaaa",
		Group: "democrat", Condition: "control",
	}
	reqB := mirrorview.AllocateRequest{
		Scope: mirrorview.ScopeProduction, ParticipantID: "P_1_bbbbbbb",
		Group: "republican", Condition: "linked_fate",
	}

	_, err = engineA.Allocate(ctx, reqA)
	require.NoError(t, err)
	_, err = engineB.Allocate(ctx, reqB)
	require.NoError(t, err)

	_, err = engineA.Commit(ctx, mirrorview.ScopeProduction, "P_1_aaaaaaa")
	require.NoError(t, err)
	_, err = engineB.Commit(ctx, mirrorview.ScopeProduction, "P_1_bbbbbbb")
	require.NoError(t, err)

	// Engine B serves engine A's participant from the shared ledger.
	resultA, err := engineB.Allocate(ctx, reqA)
	require.NoError(t, err)
	require.True(t, resultA.AlreadyAssigned)
	require.Len(t, resultA.Items, 5)

	snapshot, err := engineA.Snapshot(ctx, mirrorview.ScopeProduction)
	require.NoError(t, err)
	require.Len(t, snapshot.Participants, 2)
	mvtest.RequireLedgerConsistent(t, snapshot, mirrorview.CounterModeCondition)
}

func TestConcurrentAllocationsOverJetStream(t *testing.T) {
	_, nc := mvtest.StartEmbeddedNATS(t)
	ctx := t.Context()

	cfg := mirrorview.TestConfig()
	cfg.ConflictRetries = 10
	stores := openStores(t, nc, cfg)
	provider := catalog.NewStatic(testItems(20))

	engine, err := mirrorview.New(cfg, stores, provider)
	require.NoError(t, err)

	const participants = 8
	errCh := make(chan error, participants)
	for i := range participants {
		pid := "P_1_conc" + string(rune('a'+i)) + "00"
		go func() {
			_, err := engine.Allocate(ctx, mirrorview.AllocateRequest{
				Scope: mirrorview.ScopeProduction, ParticipantID: pid,
				Group: "democrat", Condition: "control",
			})
			if err != nil {
				errCh <- err
				return
			}
			_, err = engine.Commit(ctx, mirrorview.ScopeProduction, pid)
			errCh <- err
		}()
	}

	for range participants {
		require.NoError(t, <-errCh)
	}

	snapshot, err := engine.Snapshot(ctx, mirrorview.ScopeProduction)
	require.NoError(t, err)
	require.Len(t, snapshot.Participants, participants)
	mvtest.RequireLedgerConsistent(t, snapshot, mirrorview.CounterModeCondition)
}

func TestResetOverJetStream(t *testing.T) {
	_, nc := mvtest.StartEmbeddedNATS(t)
	ctx := t.Context()

	cfg := mirrorview.TestConfig()
	stores := openStores(t, nc, cfg)

	engine, err := mirrorview.New(cfg, stores, catalog.NewStatic(testItems(10)))
	require.NoError(t, err)

	_, err = engine.Allocate(ctx, mirrorview.AllocateRequest{
		Scope: mirrorview.ScopeSandbox, ParticipantID: "TEST_reset00",
		Group: "democrat", Condition: "control",
	})
	require.NoError(t, err)
	_, err = engine.Commit(ctx, mirrorview.ScopeSandbox, "TEST_reset00")
	require.NoError(t, err)

	require.ErrorIs(t, engine.Reset(ctx, mirrorview.ScopeProduction), mirrorview.ErrProductionReset)
	require.NoError(t, engine.Reset(ctx, mirrorview.ScopeSandbox))

	snapshot, err := engine.Snapshot(ctx, mirrorview.ScopeSandbox)
	require.NoError(t, err)
	require.Empty(t, snapshot.Participants)
}
