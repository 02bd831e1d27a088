package strategy

import (
	"sort"

	"github.com/zeebo/xxh3"

	"github.com/METResearchGroup/mirrorView-task/types"
)

// Quota implements the flat per-item exposure cap selection used by the
// earlier quota-only study design: items at the cap are skipped, the draw is
// random, and least-used items fill the remainder when the pool under the
// cap runs dry.
//
// The random draw is a deterministic shuffle seeded by the participant hash,
// so a retried request draws the same items.
type Quota struct {
	maxPerKey int
	strict    bool
}

var _ types.SelectionStrategy = (*Quota)(nil)

// QuotaOption configures a Quota strategy.
type QuotaOption func(*Quota)

// WithStrict makes the strategy refuse to fall back past the exposure cap.
// A strict strategy returns types.ErrNoItemsAvailable when nothing under the
// cap remains, and short assignments when the pool cannot cover the target.
func WithStrict() QuotaOption {
	return func(q *Quota) {
		q.strict = true
	}
}

// NewQuota creates a quota selection strategy.
//
// Parameters:
//   - maxPerKey: Exposure cap per item under the active group or condition
//     key; values <= 0 disable the cap
//   - opts: Optional settings (WithStrict)
//
// Returns:
//   - *Quota: Initialized strategy
//
// Example:
//
//	strategy := strategy.NewQuota(3)
//	engine, err := mirrorview.New(cfg, stores, provider, mirrorview.WithStrategy(strategy))
func NewQuota(maxPerKey int, opts ...QuotaOption) *Quota {
	q := &Quota{maxPerKey: maxPerKey}
	for _, opt := range opts {
		opt(q)
	}

	return q
}

// Select draws up to Target items whose exposure is under the cap, in
// deterministic shuffled order, then fills from the least-exposed remainder
// unless strict mode is enabled.
func (q *Quota) Select(sctx types.SelectionContext) ([]types.CatalogItem, bool, error) {
	if sctx.Target <= 0 {
		return nil, false, nil
	}

	var eligible, over []types.CatalogItem
	for _, item := range sctx.Catalog {
		if sctx.Exclude[item.ID] {
			continue
		}
		if q.maxPerKey > 0 && sctx.Exposure[item.ID] >= q.maxPerKey {
			over = append(over, item)
			continue
		}
		eligible = append(eligible, item)
	}

	if q.strict && len(eligible) == 0 {
		return nil, false, types.ErrNoItemsAvailable
	}

	shuffleDeterministic(eligible, sctx.Seed)
	selected := eligible
	if len(selected) > sctx.Target {
		selected = selected[:sctx.Target]
	}

	if len(selected) < sctx.Target && !q.strict && len(over) > 0 {
		sortByExposure(over, sctx.Exposure)
		for _, item := range over {
			if len(selected) >= sctx.Target {
				break
			}
			selected = append(selected, item)
		}
	}

	return selected, len(selected) < sctx.Target, nil
}

// shuffleDeterministic orders items by their seeded hash, producing a stable
// pseudo-random permutation per participant.
func shuffleDeterministic(items []types.CatalogItem, seed uint64) {
	sort.SliceStable(items, func(a, b int) bool {
		return xxh3.HashStringSeed(items[a].ID, seed) < xxh3.HashStringSeed(items[b].ID, seed)
	})
}
