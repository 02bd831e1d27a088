// Package catalog provides catalog item providers.
//
// A provider supplies the fixed, ordered set of assignable items. The package
// includes three implementations:
//
//   - CSV: Parses a record-oriented catalog file, deriving each item's
//     stratification category from configured columns
//   - Static: A fixed in-memory list, useful for tests and known-at-startup
//     catalogs
//   - Cached: Wraps any provider and memoizes a successful load for the
//     process lifetime
//
// The catalog is append-only infrastructure: it is re-deployed rather than
// hot-reloaded, so Cached offers no invalidation mechanism.
package catalog
