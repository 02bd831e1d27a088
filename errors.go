package mirrorview

import "github.com/METResearchGroup/mirrorView-task/types"

// Sentinel errors returned by the Engine, re-exported from the types
// subpackage so callers only import the root package.
var (
	// ErrCatalogUnavailable is returned when the catalog cannot be read.
	ErrCatalogUnavailable = types.ErrCatalogUnavailable

	// ErrEmptyCatalog is returned when zero valid catalog items remain.
	ErrEmptyCatalog = types.ErrEmptyCatalog

	// ErrStoreUnavailable is returned when the backing store fails.
	ErrStoreUnavailable = types.ErrStoreUnavailable

	// ErrKeyNotFound is returned by Store.Get for absent keys.
	ErrKeyNotFound = types.ErrKeyNotFound

	// ErrKeyExists is returned by Store.Create for existing keys.
	ErrKeyExists = types.ErrKeyExists

	// ErrRevisionMismatch is returned when another writer updated a document
	// between read and write.
	ErrRevisionMismatch = types.ErrRevisionMismatch

	// ErrConflictBudgetExceeded is returned when optimistic-concurrency
	// retries are exhausted.
	ErrConflictBudgetExceeded = types.ErrConflictBudgetExceeded

	// ErrInvalidScope is returned for unknown scopes.
	ErrInvalidScope = types.ErrInvalidScope

	// ErrInvalidGroup is returned for unknown participant groups.
	ErrInvalidGroup = types.ErrInvalidGroup

	// ErrInvalidCondition is returned from configuration validation for
	// malformed condition lists.
	ErrInvalidCondition = types.ErrInvalidCondition

	// ErrNoItemsAvailable is returned by the strict quota strategy when
	// nothing under the cap remains.
	ErrNoItemsAvailable = types.ErrNoItemsAvailable

	// ErrProductionReset is returned when Reset targets the production scope
	// without the explicit configuration override.
	ErrProductionReset = types.ErrProductionReset

	// ErrInvalidConfig is returned when the configuration is invalid.
	ErrInvalidConfig = types.ErrInvalidConfig

	// ErrCatalogProviderRequired is returned when the catalog provider is nil.
	ErrCatalogProviderRequired = types.ErrCatalogProviderRequired

	// ErrStoreRequired is returned when a ledger or pending store is nil.
	ErrStoreRequired = types.ErrStoreRequired
)

// IsConflict reports whether an error is a retryable write conflict.
// See types.IsConflict.
var IsConflict = types.IsConflict
