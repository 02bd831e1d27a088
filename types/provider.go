package types

import "context"

// CatalogProvider supplies the fixed set of assignable catalog items.
//
// Load returns the full, ordered catalog. Implementations return
// ErrCatalogUnavailable when the backing resource cannot be read or parsed
// and ErrEmptyCatalog when no valid rows remain after filtering. The catalog
// is read-only during allocation; providers are expected to be wrapped with
// catalog.Cached so the parse cost is paid once per process.
type CatalogProvider interface {
	Load(ctx context.Context) ([]CatalogItem, error)
}
