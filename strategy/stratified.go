package strategy

import (
	"sort"

	"github.com/METResearchGroup/mirrorView-task/types"
)

// Stratified implements category-balanced item selection.
//
// The catalog is partitioned into the configured buckets by item category.
// Selection sweeps the buckets in rotated order, drawing one item per bucket
// per sweep: first only items never exposed under the active condition, then
// the least-exposed items, and finally uncategorized items as an
// unconstrained fallback. Ties are broken by catalog order.
type Stratified struct {
	buckets []string
}

var _ types.SelectionStrategy = (*Stratified)(nil)

// NewStratified creates a stratified selection strategy.
//
// With zero buckets the whole catalog is treated as a single bucket, which
// degenerates to a flat least-exposed draw.
//
// Parameters:
//   - buckets: Fixed, ordered bucket names items are partitioned into
//
// Returns:
//   - *Stratified: Initialized strategy
//
// Example:
//
//	strategy := strategy.NewStratified([]string{"liberal/high", "liberal/low", "conservative/high", "conservative/low"})
//	engine, err := mirrorview.New(cfg, stores, provider, mirrorview.WithStrategy(strategy))
func NewStratified(buckets []string) *Stratified {
	return &Stratified{buckets: buckets}
}

// Select chooses up to Target items honoring stratified balance.
//
// The algorithm:
//  1. Partition the catalog into bucket queues, preserving catalog order.
//     Excluded items are dropped; items whose category matches no bucket go
//     to the uncategorized fallback pool.
//  2. Unseen-first pass: sweep buckets starting at the rotation offset,
//     popping one item with zero exposure per bucket per sweep.
//  3. Least-exposed pass: re-sort each queue by ascending exposure (stable,
//     so catalog order breaks ties) and sweep again, allowing repeats across
//     participants.
//  4. Uncategorized fallback: draw least-exposed items from the fallback
//     pool.
//
// Returns fewer than Target items with short=true when supply is exhausted;
// never fails for lack of items.
func (s *Stratified) Select(sctx types.SelectionContext) ([]types.CatalogItem, bool, error) {
	if sctx.Target <= 0 {
		return nil, false, nil
	}

	queues, fallback := s.partition(sctx)

	offset := RotationOffset(sctx.Completed, len(queues))
	selected := make([]types.CatalogItem, 0, sctx.Target)

	// Pass 1: unseen-first rotated sweeps.
	for len(selected) < sctx.Target {
		picked := false
		for i := 0; i < len(queues) && len(selected) < sctx.Target; i++ {
			qi := (offset + i) % len(queues)
			if item, ok := popUnseen(&queues[qi], sctx.Exposure); ok {
				selected = append(selected, item)
				picked = true
			}
		}
		if !picked {
			break
		}
	}

	// Pass 2: least-exposed rotated sweeps over the remaining items.
	if len(selected) < sctx.Target {
		for qi := range queues {
			sortByExposure(queues[qi], sctx.Exposure)
		}
		for len(selected) < sctx.Target {
			picked := false
			for i := 0; i < len(queues) && len(selected) < sctx.Target; i++ {
				qi := (offset + i) % len(queues)
				if len(queues[qi]) == 0 {
					continue
				}
				selected = append(selected, queues[qi][0])
				queues[qi] = queues[qi][1:]
				picked = true
			}
			if !picked {
				break
			}
		}
	}

	// Degraded fallback: uncategorized items, least-exposed first.
	if len(selected) < sctx.Target && len(fallback) > 0 {
		sortByExposure(fallback, sctx.Exposure)
		for _, item := range fallback {
			if len(selected) >= sctx.Target {
				break
			}
			selected = append(selected, item)
		}
	}

	return selected, len(selected) < sctx.Target, nil
}

// partition splits the catalog into per-bucket queues plus the uncategorized
// fallback pool, preserving catalog order and dropping excluded items.
func (s *Stratified) partition(sctx types.SelectionContext) ([][]types.CatalogItem, []types.CatalogItem) {
	if len(s.buckets) == 0 {
		// Single implicit bucket covering the whole catalog.
		queue := make([]types.CatalogItem, 0, len(sctx.Catalog))
		for _, item := range sctx.Catalog {
			if !sctx.Exclude[item.ID] {
				queue = append(queue, item)
			}
		}

		return [][]types.CatalogItem{queue}, nil
	}

	index := make(map[string]int, len(s.buckets))
	for i, bucket := range s.buckets {
		index[bucket] = i
	}

	queues := make([][]types.CatalogItem, len(s.buckets))
	var fallback []types.CatalogItem
	for _, item := range sctx.Catalog {
		if sctx.Exclude[item.ID] {
			continue
		}
		if qi, ok := index[item.Category]; ok {
			queues[qi] = append(queues[qi], item)
		} else {
			fallback = append(fallback, item)
		}
	}

	return queues, fallback
}

// popUnseen removes and returns the first item in the queue with zero
// exposure under the active key.
func popUnseen(queue *[]types.CatalogItem, exposure map[string]int) (types.CatalogItem, bool) {
	for i, item := range *queue {
		if exposure[item.ID] != 0 {
			continue
		}
		*queue = append((*queue)[:i:i], (*queue)[i+1:]...)

		return item, true
	}

	return types.CatalogItem{}, false
}

// sortByExposure orders items by ascending exposure; the stable sort keeps
// catalog order for ties.
func sortByExposure(items []types.CatalogItem, exposure map[string]int) {
	sort.SliceStable(items, func(a, b int) bool {
		return exposure[items[a].ID] < exposure[items[b].ID]
	})
}
