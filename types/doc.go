// Package types defines the shared contracts of the mirrorview allocation
// engine: catalog items, persisted documents, scopes, the backing store
// interface, selection strategy contracts, and sentinel errors.
//
// It exists as a separate package so that internal packages can depend on
// these definitions without importing the root mirrorview package, which
// re-exports them via type aliases for a convenient public API.
package types
