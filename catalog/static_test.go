package catalog

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/METResearchGroup/mirrorView-task/types"
)

func TestStatic_Load(t *testing.T) {
	t.Parallel()

	items := []types.CatalogItem{
		{ID: "post-001", Number: 1, Category: "liberal/high"},
		{ID: "post-002", Number: 2, Category: "conservative/low"},
	}
	provider := NewStatic(items)

	loaded, err := provider.Load(context.Background())
	require.NoError(t, err)
	require.Equal(t, items, loaded)

	// Mutating the returned slice must not affect the provider.
	loaded[0].ID = "mutated"
	again, err := provider.Load(context.Background())
	require.NoError(t, err)
	require.Equal(t, "post-001", again[0].ID)
}

func TestStatic_EmptyCatalog(t *testing.T) {
	t.Parallel()

	provider := NewStatic(nil)
	_, err := provider.Load(context.Background())
	require.ErrorIs(t, err, types.ErrEmptyCatalog)
}

func TestStatic_Update(t *testing.T) {
	t.Parallel()

	provider := NewStatic([]types.CatalogItem{{ID: "post-001", Number: 1}})
	provider.Update([]types.CatalogItem{
		{ID: "post-001", Number: 1},
		{ID: "post-002", Number: 2},
	})

	loaded, err := provider.Load(context.Background())
	require.NoError(t, err)
	require.Len(t, loaded, 2)
}

func TestCached_LoadsOnceAndCopies(t *testing.T) {
	t.Parallel()

	inner := &countingProvider{items: []types.CatalogItem{{ID: "post-001", Number: 1}}}
	provider := NewCached(inner)

	first, err := provider.Load(context.Background())
	require.NoError(t, err)
	second, err := provider.Load(context.Background())
	require.NoError(t, err)

	require.Equal(t, first, second)
	require.Equal(t, 1, inner.calls, "inner provider loaded once")

	first[0].ID = "mutated"
	third, err := provider.Load(context.Background())
	require.NoError(t, err)
	require.Equal(t, "post-001", third[0].ID)
}

func TestCached_DoesNotCacheFailures(t *testing.T) {
	t.Parallel()

	inner := &countingProvider{failFirst: true, items: []types.CatalogItem{{ID: "post-001", Number: 1}}}
	provider := NewCached(inner)

	_, err := provider.Load(context.Background())
	require.ErrorIs(t, err, types.ErrCatalogUnavailable)

	items, err := provider.Load(context.Background())
	require.NoError(t, err)
	require.Len(t, items, 1)
	require.Equal(t, 2, inner.calls)
}

type countingProvider struct {
	items     []types.CatalogItem
	calls     int
	failFirst bool
}

func (p *countingProvider) Load(_ context.Context) ([]types.CatalogItem, error) {
	p.calls++
	if p.failFirst && p.calls == 1 {
		return nil, types.ErrCatalogUnavailable
	}

	return p.items, nil
}
