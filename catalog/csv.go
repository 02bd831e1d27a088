package catalog

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/METResearchGroup/mirrorView-task/types"
)

// Columns maps catalog file columns to item fields.
type Columns struct {
	// ID is the column holding the unique item id.
	ID string `yaml:"id"`

	// Number is the column holding the numeric item identifier.
	Number string `yaml:"number"`

	// Category lists the stratification attribute columns whose normalized
	// values are combined into the item category (e.g., stance and
	// intensity).
	Category []string `yaml:"category"`
}

// CSV loads catalog items from a record-oriented text file.
//
// Parsing tolerates quoted fields containing delimiters and embedded line
// breaks. A row is accepted only when its id field is non-empty and its
// number field parses; malformed rows are skipped, not treated as errors.
type CSV struct {
	path    string
	columns Columns
	buckets map[string]bool
}

var _ types.CatalogProvider = (*CSV)(nil)

// NewCSV creates a CSV catalog provider.
//
// Parameters:
//   - path: Path to the catalog file
//   - columns: Column mapping for id, number, and category attributes
//   - buckets: Known category buckets; derived categories outside this set
//     become types.CategoryUncategorized
//
// Returns:
//   - *CSV: Initialized provider
//
// Example:
//
//	provider := catalog.NewCSV("all_mirrors.csv", catalog.Columns{
//	    ID:       "post_primary_key",
//	    Number:   "post_number",
//	    Category: []string{"stance", "intensity"},
//	}, []string{"liberal/high", "liberal/low", "conservative/high", "conservative/low"})
func NewCSV(path string, columns Columns, buckets []string) *CSV {
	// No configured buckets means any derived category is accepted, which
	// suits the flat quota variant where categories are unused.
	var known map[string]bool
	if len(buckets) > 0 {
		known = make(map[string]bool, len(buckets))
		for _, bucket := range buckets {
			known[bucket] = true
		}
	}

	return &CSV{path: path, columns: columns, buckets: known}
}

// Load reads and parses the catalog file.
//
// Returns:
//   - []types.CatalogItem: Valid items in file order
//   - error: types.ErrCatalogUnavailable when the file cannot be read or
//     required columns are missing; types.ErrEmptyCatalog when no valid
//     rows remain
func (c *CSV) Load(ctx context.Context) ([]types.CatalogItem, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%w: %w", types.ErrCatalogUnavailable, err)
	}

	f, err := os.Open(c.path)
	if err != nil {
		return nil, fmt.Errorf("%w: open %s: %w", types.ErrCatalogUnavailable, c.path, err)
	}
	defer f.Close()

	return c.parse(f)
}

func (c *CSV) parse(r io.Reader) ([]types.CatalogItem, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("%w: read header: %w", types.ErrCatalogUnavailable, err)
	}

	index := make(map[string]int, len(header))
	for i, name := range header {
		index[strings.TrimSpace(name)] = i
	}

	idIdx, ok := index[c.columns.ID]
	if !ok {
		return nil, fmt.Errorf("%w: id column %q not found", types.ErrCatalogUnavailable, c.columns.ID)
	}
	numberIdx, ok := index[c.columns.Number]
	if !ok {
		return nil, fmt.Errorf("%w: number column %q not found", types.ErrCatalogUnavailable, c.columns.Number)
	}

	var categoryIdx []int
	for _, name := range c.columns.Category {
		if i, ok := index[name]; ok {
			categoryIdx = append(categoryIdx, i)
		}
	}

	var items []types.CatalogItem
	for {
		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: read row: %w", types.ErrCatalogUnavailable, err)
		}

		item, ok := c.itemFromRow(row, idIdx, numberIdx, categoryIdx)
		if !ok {
			continue
		}
		items = append(items, item)
	}

	if len(items) == 0 {
		return nil, types.ErrEmptyCatalog
	}

	return items, nil
}

// itemFromRow converts one record into a catalog item. Rows with a missing
// id or an unparsable number are rejected.
func (c *CSV) itemFromRow(row []string, idIdx, numberIdx int, categoryIdx []int) (types.CatalogItem, bool) {
	if idIdx >= len(row) || numberIdx >= len(row) {
		return types.CatalogItem{}, false
	}

	id := strings.TrimSpace(row[idIdx])
	if id == "" {
		return types.CatalogItem{}, false
	}

	number, err := strconv.Atoi(strings.TrimSpace(row[numberIdx]))
	if err != nil {
		return types.CatalogItem{}, false
	}

	values := make([]string, 0, len(categoryIdx))
	for _, i := range categoryIdx {
		if i < len(row) {
			values = append(values, row[i])
		}
	}

	return types.CatalogItem{
		ID:       id,
		Number:   number,
		Category: DeriveCategory(values, c.buckets),
	}, true
}

// DeriveCategory combines stratification attribute values into a category
// bucket name.
//
// Values are trimmed, lowercased, and joined with "/" (empty values are
// dropped). When the result is not a known bucket the item is
// uncategorized: excluded from stratified selection but still eligible as
// unconstrained fallback.
//
// Parameters:
//   - values: Raw attribute values in column order
//   - known: Set of configured bucket names (nil accepts any non-empty
//     category)
//
// Returns:
//   - string: The bucket name or types.CategoryUncategorized
func DeriveCategory(values []string, known map[string]bool) string {
	parts := make([]string, 0, len(values))
	for _, v := range values {
		v = strings.ToLower(strings.TrimSpace(v))
		if v != "" {
			parts = append(parts, v)
		}
	}

	category := strings.Join(parts, "/")
	if category == "" {
		return types.CategoryUncategorized
	}
	if known != nil && !known[category] {
		return types.CategoryUncategorized
	}

	return category
}
