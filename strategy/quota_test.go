package strategy

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/METResearchGroup/mirrorView-task/types"
)

func flatCatalog(n int) []types.CatalogItem {
	items := make([]types.CatalogItem, n)
	for i := range items {
		items[i] = types.CatalogItem{ID: fmt.Sprintf("p%d", i+1), Number: i + 1}
	}

	return items
}

func TestQuota_SkipsItemsAtCap(t *testing.T) {
	t.Parallel()

	q := NewQuota(3)
	items, short, err := q.Select(types.SelectionContext{
		Catalog:  flatCatalog(6),
		Exposure: map[string]int{"p1": 3, "p2": 4},
		Target:   4,
		Seed:     42,
	})

	require.NoError(t, err)
	require.False(t, short)
	require.Len(t, items, 4)
	for _, item := range items {
		require.NotContains(t, []string{"p1", "p2"}, item.ID)
	}
}

func TestQuota_DeterministicDraw(t *testing.T) {
	t.Parallel()

	q := NewQuota(3)
	sctx := types.SelectionContext{
		Catalog:  flatCatalog(20),
		Exposure: map[string]int{},
		Target:   5,
		Seed:     7,
	}

	first, _, err := q.Select(sctx)
	require.NoError(t, err)
	second, _, err := q.Select(sctx)
	require.NoError(t, err)

	require.Equal(t, first, second, "same participant seed draws the same items")
}

func TestQuota_FallbackToLeastUsed(t *testing.T) {
	t.Parallel()

	// Everything is at or over the cap; fallback should draw the least-used.
	q := NewQuota(2)
	items, short, err := q.Select(types.SelectionContext{
		Catalog:  flatCatalog(4),
		Exposure: map[string]int{"p1": 5, "p2": 2, "p3": 3, "p4": 2},
		Target:   2,
	})

	require.NoError(t, err)
	require.False(t, short)
	require.Equal(t, []string{"p2", "p4"}, []string{items[0].ID, items[1].ID})
}

func TestQuota_PartialFallback(t *testing.T) {
	t.Parallel()

	q := NewQuota(1)
	items, short, err := q.Select(types.SelectionContext{
		Catalog:  flatCatalog(3),
		Exposure: map[string]int{"p1": 1, "p2": 1},
		Target:   2,
		Seed:     3,
	})

	require.NoError(t, err)
	require.False(t, short)
	require.Len(t, items, 2)
	require.Contains(t, []string{items[0].ID, items[1].ID}, "p3")
}

func TestQuota_StrictRefusesFallback(t *testing.T) {
	t.Parallel()

	q := NewQuota(1, WithStrict())

	t.Run("errors when nothing is under the cap", func(t *testing.T) {
		_, _, err := q.Select(types.SelectionContext{
			Catalog:  flatCatalog(2),
			Exposure: map[string]int{"p1": 1, "p2": 1},
			Target:   2,
		})
		require.ErrorIs(t, err, types.ErrNoItemsAvailable)
	})

	t.Run("returns short without drawing over the cap", func(t *testing.T) {
		items, short, err := q.Select(types.SelectionContext{
			Catalog:  flatCatalog(3),
			Exposure: map[string]int{"p1": 1, "p2": 1},
			Target:   3,
		})
		require.NoError(t, err)
		require.True(t, short)
		require.Len(t, items, 1)
		require.Equal(t, "p3", items[0].ID)
	})
}

func TestQuota_UncappedWhenMaxIsZero(t *testing.T) {
	t.Parallel()

	q := NewQuota(0)
	items, short, err := q.Select(types.SelectionContext{
		Catalog:  flatCatalog(3),
		Exposure: map[string]int{"p1": 100, "p2": 100, "p3": 100},
		Target:   3,
	})

	require.NoError(t, err)
	require.False(t, short)
	require.Len(t, items, 3)
}

func TestQuota_ExcludeSkipsHeldItems(t *testing.T) {
	t.Parallel()

	q := NewQuota(3)
	items, short, err := q.Select(types.SelectionContext{
		Catalog:  flatCatalog(3),
		Exposure: map[string]int{},
		Exclude:  map[string]bool{"p2": true},
		Target:   2,
	})

	require.NoError(t, err)
	require.False(t, short)
	for _, item := range items {
		require.NotEqual(t, "p2", item.ID)
	}
}
