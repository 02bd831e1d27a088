package types

// SelectionContext is the input to a selection strategy: the catalog, the
// exposure counters for the active condition or group, and the rotation
// state. Strategies are pure with respect to storage; the engine assembles
// the context from the ledger snapshot before calling Select.
type SelectionContext struct {
	// Catalog is the full ordered catalog.
	Catalog []CatalogItem

	// Exposure maps item id to its committed exposure counter under the
	// active condition or group key. Absent items count as zero.
	Exposure map[string]int

	// Exclude marks item ids that must not be selected (items the
	// participant already holds from a prior partial commit).
	Exclude map[string]bool

	// Target is the number of items to select.
	Target int

	// Completed is the number of prior committed assignments under the
	// active key; it drives the bucket rotation offset.
	Completed int

	// Seed is a per-participant hash used for deterministic shuffles and
	// tiebreaks, so repeated calls for the same participant draw the same
	// items.
	Seed uint64
}

// SelectionStrategy selects catalog items for one allocation.
//
// Implementations must be safe for concurrent use; they receive all mutable
// state through the SelectionContext.
type SelectionStrategy interface {
	// Select returns the chosen items, a short flag set when fewer than
	// Target items could be selected, and an error for strategies that
	// refuse to degrade (strict quota mode).
	Select(sctx SelectionContext) (items []CatalogItem, short bool, err error)
}
