package types

// CategoryUncategorized is the category assigned to catalog items whose
// stratification attributes do not match any configured bucket. Uncategorized
// items are excluded from stratified selection but remain eligible as an
// unconstrained fallback when the bucketed supply is exhausted.
const CategoryUncategorized = "uncategorized"

// CatalogItem is one assignable stimulus item ("post") from the catalog.
//
// Items are immutable after load. Category is derived from the item's
// stratification attributes at parse time and must either match one of the
// configured bucket names or be CategoryUncategorized.
type CatalogItem struct {
	// ID uniquely identifies the item across the whole study.
	ID string `json:"id"`

	// Number is the human-facing numeric identifier of the item.
	Number int `json:"number"`

	// Category is the stratification bucket this item belongs to.
	Category string `json:"category"`
}

// Assigned converts the catalog item to its assignment form, dropping the
// category (assignments record only identity).
func (c CatalogItem) Assigned() AssignedItem {
	return AssignedItem{ID: c.ID, Number: c.Number}
}

// AssignedItem is an item reference stored inside reservations and committed
// assignments. Both the id and the number are persisted so that exports can
// reference items without re-reading the catalog.
type AssignedItem struct {
	ID     string `json:"id"`
	Number int    `json:"number"`
}
