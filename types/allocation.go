package types

// AllocateRequest carries one participant's allocation request into the
// engine. Scope must be decided at the API boundary via ScopeFor; the engine
// never re-derives it.
type AllocateRequest struct {
	// Scope selects the production or sandbox namespace.
	Scope Scope

	// ParticipantID identifies the participant.
	ParticipantID string

	// Group is the participant's group; must be one of the configured
	// groups.
	Group Group

	// Condition is the requested experimental arm. Optional: unknown or
	// empty values fall back to the baseline condition, and the value is
	// ignored entirely in group-alternation mode.
	Condition Condition

	// TargetCount overrides the configured per-participant item count when
	// positive.
	TargetCount int
}

// AssignmentResult is the outcome of an allocation.
type AssignmentResult struct {
	// Items are the assigned items, in selection order. For participants
	// with a prior partial commit this includes both the committed and the
	// newly reserved items.
	Items []AssignedItem `json:"items"`

	// Condition is the arm the participant is (or was) assigned to.
	Condition Condition `json:"condition"`

	// AlreadyAssigned is true when the result was served from an existing
	// committed assignment or live reservation rather than a fresh draw.
	AlreadyAssigned bool `json:"already_assigned"`

	// ShortAssignment signals fewer than the target items were available.
	// Callers must proceed with fewer items rather than treat it as failure.
	ShortAssignment bool `json:"short_assignment"`
}

// ItemIDs returns the assigned item ids in order.
func (r *AssignmentResult) ItemIDs() []string {
	ids := make([]string, len(r.Items))
	for i, item := range r.Items {
		ids[i] = item.ID
	}

	return ids
}
