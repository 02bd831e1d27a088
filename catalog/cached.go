package catalog

import (
	"context"
	"sync"

	"github.com/METResearchGroup/mirrorView-task/types"
)

// Cached wraps a provider and memoizes the first successful load for the
// process lifetime. Failed loads are not cached, so a transient read failure
// at startup does not poison the catalog for every later request.
type Cached struct {
	inner types.CatalogProvider

	mu    sync.Mutex
	items []types.CatalogItem
}

var _ types.CatalogProvider = (*Cached)(nil)

// NewCached wraps a provider with process-lifetime caching.
//
// Parameters:
//   - inner: The provider whose result is memoized
//
// Returns:
//   - *Cached: Caching wrapper
func NewCached(inner types.CatalogProvider) *Cached {
	return &Cached{inner: inner}
}

// Load returns the cached catalog, loading it on first use.
func (c *Cached) Load(ctx context.Context) ([]types.CatalogItem, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.items == nil {
		items, err := c.inner.Load(ctx)
		if err != nil {
			return nil, err
		}
		c.items = items
	}

	result := make([]types.CatalogItem, len(c.items))
	copy(result, c.items)

	return result, nil
}
