package types

import "time"

// Group is a coarse participant partition (e.g., political affiliation) with
// independent exposure quotas.
type Group string

// Condition is an experimental arm with independent exposure counters.
type Condition string

// LedgerEntry holds the committed exposure counters for one catalog item.
//
// Counts is keyed by condition name or group name depending on the engine's
// counter mode. Counters only ever increase, except under administrative
// reset or participant removal.
type LedgerEntry struct {
	// Number mirrors the catalog item number for export convenience.
	Number int `json:"number"`

	// Counts maps a condition or group key to the number of committed
	// assignments referencing this item under that key.
	Counts map[string]int `json:"counts"`
}

// CommittedAssignment is a participant's permanent assignment, created only
// by Commit. Items may grow across multiple short sessions (top-up) but are
// otherwise never mutated.
type CommittedAssignment struct {
	Group     Group          `json:"group"`
	Condition Condition      `json:"condition"`
	Items     []AssignedItem `json:"items"`

	// Short records that the assignment holds fewer items than the
	// configured target because eligible supply was exhausted.
	Short bool `json:"short,omitempty"`

	CommittedAt time.Time `json:"committed_at"`
}

// Has reports whether the assignment already contains the given item.
func (c *CommittedAssignment) Has(itemID string) bool {
	for _, item := range c.Items {
		if item.ID == itemID {
			return true
		}
	}

	return false
}

// PendingReservation is a tentative, uncommitted assignment awaiting the
// participant's session data. It never affects ledger counters; abandoned
// reservations are a bounded, harmless leak.
type PendingReservation struct {
	Group     Group          `json:"group"`
	Condition Condition      `json:"condition"`
	Items     []AssignedItem `json:"items"`
	Short     bool           `json:"short,omitempty"`
	ReservedAt time.Time     `json:"reserved_at"`
}

// PendingDocument maps participant id to its live reservation. At most one
// live reservation exists per participant per scope.
type PendingDocument map[string]*PendingReservation

// LedgerDocument is the whole-document unit of committed state for one scope:
// per-item exposure counters plus the committed assignment of every finished
// participant.
type LedgerDocument struct {
	Items        map[string]*LedgerEntry         `json:"items"`
	Participants map[string]*CommittedAssignment `json:"participants"`
}

// NewLedgerDocument returns an empty, initialized ledger document.
func NewLedgerDocument() *LedgerDocument {
	return &LedgerDocument{
		Items:        make(map[string]*LedgerEntry),
		Participants: make(map[string]*CommittedAssignment),
	}
}

// Normalize initializes any nil maps, making documents decoded from older or
// empty payloads safe to mutate.
func (d *LedgerDocument) Normalize() {
	if d.Items == nil {
		d.Items = make(map[string]*LedgerEntry)
	}
	if d.Participants == nil {
		d.Participants = make(map[string]*CommittedAssignment)
	}
	for _, entry := range d.Items {
		if entry.Counts == nil {
			entry.Counts = make(map[string]int)
		}
	}
}

// CountFor returns the committed exposure counter for an item under the given
// condition or group key, defaulting to zero when absent.
func (d *LedgerDocument) CountFor(itemID, key string) int {
	entry, ok := d.Items[itemID]
	if !ok {
		return 0
	}

	return entry.Counts[key]
}

// EntryFor returns the ledger entry for an item, creating it lazily.
func (d *LedgerDocument) EntryFor(item AssignedItem) *LedgerEntry {
	entry, ok := d.Items[item.ID]
	if !ok {
		entry = &LedgerEntry{Number: item.Number, Counts: make(map[string]int)}
		d.Items[item.ID] = entry
	}
	if entry.Counts == nil {
		entry.Counts = make(map[string]int)
	}

	return entry
}

// ExposureFor builds the itemID -> counter view used by selection strategies
// for the given condition or group key.
func (d *LedgerDocument) ExposureFor(key string) map[string]int {
	exposure := make(map[string]int, len(d.Items))
	for id, entry := range d.Items {
		if n := entry.Counts[key]; n > 0 {
			exposure[id] = n
		}
	}

	return exposure
}

// CompletedInCondition counts committed participants assigned to a condition.
// Together with CompletedInGroup this drives the bucket rotation offset and
// the group-alternation index; the engine picks the helper matching its
// counter mode so the two axes never bleed into each other.
func (d *LedgerDocument) CompletedInCondition(condition Condition) int {
	n := 0
	for _, p := range d.Participants {
		if p.Condition == condition {
			n++
		}
	}

	return n
}

// CompletedInGroup counts committed participants belonging to a group.
func (d *LedgerDocument) CompletedInGroup(group Group) int {
	n := 0
	for _, p := range d.Participants {
		if p.Group == group {
			n++
		}
	}

	return n
}
