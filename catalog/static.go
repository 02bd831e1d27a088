package catalog

import (
	"context"
	"sync"

	"github.com/METResearchGroup/mirrorView-task/types"
)

// Static implements a catalog provider with a fixed list of items.
type Static struct {
	mu    sync.RWMutex
	items []types.CatalogItem
}

var _ types.CatalogProvider = (*Static)(nil)

// NewStatic creates a new static catalog provider.
//
// The provider returns a fixed list of items. Useful for testing and
// scenarios where the catalog is known at startup.
//
// Parameters:
//   - items: Fixed list of catalog items
//
// Returns:
//   - *Static: Initialized static provider
//
// Example:
//
//	provider := catalog.NewStatic([]types.CatalogItem{
//	    {ID: "post-001", Number: 1, Category: "liberal/high"},
//	    {ID: "post-002", Number: 2, Category: "conservative/low"},
//	})
//	engine, err := mirrorview.New(&cfg, stores, provider)
func NewStatic(items []types.CatalogItem) *Static {
	return &Static{items: items}
}

// Load returns the static list of items.
//
// Returns:
//   - []types.CatalogItem: A copy of the fixed item list
//   - error: types.ErrEmptyCatalog when the list is empty
func (s *Static) Load(_ context.Context) ([]types.CatalogItem, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if len(s.items) == 0 {
		return nil, types.ErrEmptyCatalog
	}

	result := make([]types.CatalogItem, len(s.items))
	copy(result, s.items)

	return result, nil
}

// Update replaces the item list.
//
// This allows the static provider to simulate catalog re-deployments, which
// is useful for testing.
//
// Parameters:
//   - items: New list of items
func (s *Static) Update(items []types.CatalogItem) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.items = make([]types.CatalogItem, len(items))
	copy(s.items, items)
}
