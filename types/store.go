package types

import "context"

// Store is the whole-document key-value contract required from the backing
// storage layer. Implementations must expose per-key revisions so that the
// engine can perform optimistic-concurrency writes; the store itself offers
// no multi-key transactions.
//
// All operations are fallible, possibly-slow remote calls and must honor
// context cancellation. Implementations translate their native errors to the
// sentinel errors in this package (ErrKeyNotFound, ErrKeyExists,
// ErrRevisionMismatch) and wrap infrastructure failures so that
// errors.Is(err, ErrStoreUnavailable) holds.
type Store interface {
	// Get returns the document stored under key along with its current
	// revision. Returns ErrKeyNotFound when the key does not exist.
	Get(ctx context.Context, key string) (value []byte, revision uint64, err error)

	// Put overwrites the document under key unconditionally and returns the
	// new revision.
	Put(ctx context.Context, key string, value []byte) (revision uint64, err error)

	// Create stores the document only if the key does not yet exist.
	// Returns ErrKeyExists otherwise.
	Create(ctx context.Context, key string, value []byte) (revision uint64, err error)

	// Update overwrites the document only if the current revision equals
	// expected. Returns ErrRevisionMismatch when another writer got there
	// first.
	Update(ctx context.Context, key string, value []byte, expected uint64) (revision uint64, err error)

	// Delete removes the key. Deleting an absent key is not an error.
	Delete(ctx context.Context, key string) error
}

// Stores bundles the two document stores the engine writes to: the committed
// assignment ledger and the pending reservation table. They may be backed by
// distinct buckets so that pending entries can carry a TTL.
type Stores struct {
	Ledger  Store
	Pending Store
}
