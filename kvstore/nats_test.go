package kvstore

import (
	"errors"
	"testing"
	"time"

	"github.com/nats-io/nats.go/jetstream"
	"github.com/stretchr/testify/require"

	mvtest "github.com/METResearchGroup/mirrorView-task/testing"
	"github.com/METResearchGroup/mirrorView-task/types"
)

func newTestStore(t *testing.T) *NatsStore {
	t.Helper()

	_, nc := mvtest.StartEmbeddedNATS(t)
	kv := mvtest.CreateJetStreamKV(t, nc, "kvstore-test")

	return New(kv, nil)
}

func TestNatsStore_GetMissingKey(t *testing.T) {
	store := newTestStore(t)

	_, _, err := store.Get(t.Context(), "absent")
	require.ErrorIs(t, err, types.ErrKeyNotFound)
}

func TestNatsStore_PutGetRoundTrip(t *testing.T) {
	store := newTestStore(t)
	ctx := t.Context()

	rev, err := store.Put(ctx, "production", []byte(`{"posts":{}}`))
	require.NoError(t, err)
	require.NotZero(t, rev)

	value, gotRev, err := store.Get(ctx, "production")
	require.NoError(t, err)
	require.Equal(t, rev, gotRev)
	require.JSONEq(t, `{"posts":{}}`, string(value))
}

func TestNatsStore_CreateExistingKey(t *testing.T) {
	store := newTestStore(t)
	ctx := t.Context()

	_, err := store.Create(ctx, "production", []byte("a"))
	require.NoError(t, err)

	_, err = store.Create(ctx, "production", []byte("b"))
	require.ErrorIs(t, err, types.ErrKeyExists)
}

func TestNatsStore_UpdateRevisionGuard(t *testing.T) {
	store := newTestStore(t)
	ctx := t.Context()

	rev, err := store.Create(ctx, "sandbox", []byte("v1"))
	require.NoError(t, err)

	// A write with the current revision succeeds.
	rev2, err := store.Update(ctx, "sandbox", []byte("v2"), rev)
	require.NoError(t, err)
	require.Greater(t, rev2, rev)

	// Reusing the stale revision must fail.
	_, err = store.Update(ctx, "sandbox", []byte("v3"), rev)
	require.ErrorIs(t, err, types.ErrRevisionMismatch)
	require.True(t, types.IsConflict(err))

	// The stale writer's value must not be visible.
	value, _, err := store.Get(ctx, "sandbox")
	require.NoError(t, err)
	require.Equal(t, "v2", string(value))
}

func TestNatsStore_DeleteAbsentKey(t *testing.T) {
	store := newTestStore(t)
	ctx := t.Context()

	require.NoError(t, store.Delete(ctx, "never-written"))

	_, err := store.Create(ctx, "gone", []byte("x"))
	require.NoError(t, err)
	require.NoError(t, store.Delete(ctx, "gone"))

	_, _, err = store.Get(ctx, "gone")
	require.ErrorIs(t, err, types.ErrKeyNotFound)
}

func TestOpen_CreatesBothBuckets(t *testing.T) {
	_, nc := mvtest.StartEmbeddedNATS(t)
	js, err := jetstream.New(nc)
	require.NoError(t, err)

	stores, err := Open(t.Context(), js, Options{
		LedgerBucket:  "mirrorview-ledger",
		PendingBucket: "mirrorview-pending",
		PendingTTL:    time.Minute,
	})
	require.NoError(t, err)
	require.NotNil(t, stores.Ledger)
	require.NotNil(t, stores.Pending)

	// Opening again must reuse the existing buckets.
	again, err := Open(t.Context(), js, Options{
		LedgerBucket:  "mirrorview-ledger",
		PendingBucket: "mirrorview-pending",
	})
	require.NoError(t, err)

	rev, err := stores.Ledger.Put(t.Context(), "production", []byte("shared"))
	require.NoError(t, err)

	value, gotRev, err := again.Ledger.Get(t.Context(), "production")
	require.NoError(t, err)
	require.Equal(t, rev, gotRev)
	require.Equal(t, "shared", string(value))
}

func TestOpen_MissingBucketNames(t *testing.T) {
	_, nc := mvtest.StartEmbeddedNATS(t)
	js, err := jetstream.New(nc)
	require.NoError(t, err)

	_, err = Open(t.Context(), js, Options{LedgerBucket: "only-ledger"})
	require.ErrorIs(t, err, types.ErrInvalidConfig)
}

func TestIsConnectivityError(t *testing.T) {
	t.Parallel()

	require.False(t, IsConnectivityError(nil))
	require.False(t, IsConnectivityError(types.ErrKeyNotFound))
	require.True(t, IsConnectivityError(errors.New("dial tcp 127.0.0.1:4222: connection refused")))
	require.True(t, IsConnectivityError(errors.New("read tcp: i/o timeout")))
}
