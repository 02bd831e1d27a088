package types

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors for the mirrorview engine.
//
// These errors provide type-safe error checking using errors.Is() and
// errors.As(). All components should use these sentinel errors for known
// error conditions and wrap external errors with context using
// fmt.Errorf("%s: %w", msg, err).

// Catalog errors - configuration/data problems, fatal to allocation.
var (
	// ErrCatalogUnavailable is returned when the catalog resource cannot be
	// read or parsed. Not retried silently; surfaced to the caller.
	ErrCatalogUnavailable = errors.New("catalog unavailable")

	// ErrEmptyCatalog is returned when zero valid rows remain after
	// filtering malformed catalog rows.
	ErrEmptyCatalog = errors.New("catalog contains no valid items")
)

// Store errors - transient infrastructure problems and concurrency signals.
var (
	// ErrStoreUnavailable is returned when the backing store fails.
	// Callers may retry the whole request; the engine performs no automatic
	// retry beyond its bounded conflict budget.
	ErrStoreUnavailable = errors.New("store unavailable")

	// ErrKeyNotFound is returned by Store.Get for absent keys.
	ErrKeyNotFound = errors.New("key not found")

	// ErrKeyExists is returned by Store.Create when the key already exists.
	ErrKeyExists = errors.New("key already exists")

	// ErrRevisionMismatch is returned by Store.Update when the document was
	// modified by another writer since it was read.
	ErrRevisionMismatch = errors.New("revision mismatch")

	// ErrConflictBudgetExceeded is returned when the engine exhausts its
	// bounded optimistic-concurrency retries without a successful write. It
	// wraps ErrStoreUnavailable so callers keying retries off the store
	// taxonomy treat budget exhaustion like any other transient store
	// failure.
	ErrConflictBudgetExceeded = fmt.Errorf("%w: conflict retry budget exceeded", ErrStoreUnavailable)
)

// Engine errors - caller input and policy errors.
var (
	// ErrInvalidScope is returned when a request carries an unknown scope.
	ErrInvalidScope = errors.New("invalid scope")

	// ErrInvalidGroup is returned when the participant group is not one of
	// the configured groups.
	ErrInvalidGroup = errors.New("invalid participant group")

	// ErrInvalidCondition signals an unknown condition. The engine
	// normalizes unknown conditions to the baseline instead of failing, so
	// this surfaces only from configuration validation.
	ErrInvalidCondition = errors.New("invalid condition")

	// ErrNoItemsAvailable is returned by the strict quota strategy when no
	// item under the exposure cap remains and fallback is disabled.
	ErrNoItemsAvailable = errors.New("no items available under quota")

	// ErrProductionReset is returned when Reset is invoked on the
	// production scope without the explicit configuration override.
	ErrProductionReset = errors.New("refusing to reset production scope")

	// ErrInvalidConfig is returned when the engine configuration is invalid.
	ErrInvalidConfig = errors.New("invalid configuration")

	// ErrCatalogProviderRequired is returned when the catalog provider is nil.
	ErrCatalogProviderRequired = errors.New("catalog provider is required")

	// ErrStoreRequired is returned when a ledger or pending store is nil.
	ErrStoreRequired = errors.New("ledger and pending stores are required")
)

// IsConflict reports whether an error indicates a lost optimistic-concurrency
// race (another writer updated the document first). Conflicts are retryable
// within the engine's bounded conflict budget.
//
// Handles both our sentinel errors and NATS-specific messages which may
// arrive wrapped, e.g. "failed to update key: nats: wrong last sequence: 12".
//
// Parameters:
//   - err: The error to check
//
// Returns:
//   - bool: true when the error is a retryable write conflict
func IsConflict(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, ErrRevisionMismatch) || errors.Is(err, ErrKeyExists) {
		return true
	}

	return strings.Contains(err.Error(), "wrong last sequence")
}
