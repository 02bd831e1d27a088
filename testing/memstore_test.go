package testing

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/METResearchGroup/mirrorView-task/types"
)

func TestMemStore_RevisionSemantics(t *testing.T) {
	t.Parallel()

	store := NewMemStore()
	ctx := t.Context()

	_, _, err := store.Get(ctx, "production")
	require.ErrorIs(t, err, types.ErrKeyNotFound)

	rev, err := store.Create(ctx, "production", []byte("v1"))
	require.NoError(t, err)

	_, err = store.Create(ctx, "production", []byte("v1-again"))
	require.ErrorIs(t, err, types.ErrKeyExists)

	rev2, err := store.Update(ctx, "production", []byte("v2"), rev)
	require.NoError(t, err)
	require.Greater(t, rev2, rev)

	_, err = store.Update(ctx, "production", []byte("v3"), rev)
	require.ErrorIs(t, err, types.ErrRevisionMismatch)

	value, gotRev, err := store.Get(ctx, "production")
	require.NoError(t, err)
	require.Equal(t, "v2", string(value))
	require.Equal(t, rev2, gotRev)
}

func TestMemStore_UpdateMissingKey(t *testing.T) {
	t.Parallel()

	store := NewMemStore()
	_, err := store.Update(t.Context(), "absent", []byte("x"), 1)
	require.ErrorIs(t, err, types.ErrKeyNotFound)
}

func TestMemStore_DeleteIsIdempotent(t *testing.T) {
	t.Parallel()

	store := NewMemStore()
	ctx := t.Context()

	require.NoError(t, store.Delete(ctx, "absent"))

	_, err := store.Put(ctx, "k", []byte("v"))
	require.NoError(t, err)
	require.NoError(t, store.Delete(ctx, "k"))
	require.NoError(t, store.Delete(ctx, "k"))
	require.Zero(t, store.Len())
}

func TestMemStore_FaultInjection(t *testing.T) {
	t.Parallel()

	store := NewMemStore()
	ctx := t.Context()

	boom := errors.New("boom")
	store.FailNext("update", types.ErrRevisionMismatch, boom)

	rev, err := store.Create(ctx, "k", []byte("v"))
	require.NoError(t, err)

	_, err = store.Update(ctx, "k", []byte("v2"), rev)
	require.ErrorIs(t, err, types.ErrRevisionMismatch)

	_, err = store.Update(ctx, "k", []byte("v2"), rev)
	require.ErrorIs(t, err, boom)

	// Queue drained; the real revision still matches.
	rev2, err := store.Update(ctx, "k", []byte("v2"), rev)
	require.NoError(t, err)
	require.Greater(t, rev2, rev)

	require.Equal(t, 3, store.Calls("update"))
}

func TestMemStore_ValueIsolation(t *testing.T) {
	t.Parallel()

	store := NewMemStore()
	ctx := t.Context()

	original := []byte("immutable")
	_, err := store.Put(ctx, "k", original)
	require.NoError(t, err)

	// Mutating the caller's slice must not leak into the store.
	original[0] = 'X'

	value, _, err := store.Get(ctx, "k")
	require.NoError(t, err)
	require.Equal(t, "immutable", string(value))

	// Mutating the returned slice must not corrupt the stored copy.
	value[0] = 'Y'
	again, _, err := store.Get(ctx, "k")
	require.NoError(t, err)
	require.Equal(t, "immutable", string(again))
}
