package testing

import (
	"testing"

	"github.com/METResearchGroup/mirrorView-task/types"
)

// RequireLedgerConsistent fails the test when a ledger document's exposure
// counters disagree with a recount from its committed participants.
//
// The recount walks every committed assignment and tallies each item under
// the participant's counter key ("condition" or "group" mode). Any drift
// means an item was double counted or a rollback was missed.
//
// Parameters:
//   - t: Testing context
//   - doc: Ledger document to check (typically from Engine.Snapshot)
//   - counterMode: "condition" or "group", matching the engine configuration
func RequireLedgerConsistent(t *testing.T, doc *types.LedgerDocument, counterMode string) {
	t.Helper()

	expected := make(map[string]map[string]int)
	for pid, p := range doc.Participants {
		key := string(p.Condition)
		if counterMode == "group" {
			key = string(p.Group)
		}
		seen := make(map[string]bool, len(p.Items))
		for _, item := range p.Items {
			if seen[item.ID] {
				t.Errorf("participant %s holds item %s twice", pid, item.ID)
				continue
			}
			seen[item.ID] = true
			if expected[item.ID] == nil {
				expected[item.ID] = make(map[string]int)
			}
			expected[item.ID][key]++
		}
	}

	for itemID, entry := range doc.Items {
		for key, count := range entry.Counts {
			if expected[itemID][key] != count {
				t.Errorf("item %s key %s: ledger count %d, recount %d",
					itemID, key, count, expected[itemID][key])
			}
		}
	}
	for itemID, counts := range expected {
		for key, count := range counts {
			entry := doc.Items[itemID]
			if entry == nil {
				t.Errorf("item %s counted by participants but missing from ledger items", itemID)
				continue
			}
			if entry.Counts[key] != count {
				t.Errorf("item %s key %s: recount %d, ledger count %d",
					itemID, key, count, entry.Counts[key])
			}
		}
	}
}
