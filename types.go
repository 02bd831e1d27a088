package mirrorview

import "github.com/METResearchGroup/mirrorView-task/types"

// Re-export types from the internal types package.
//
// This file provides a stable, backward-compatible public API for the library's
// core types and interfaces. It uses type aliases to re-export definitions
// from the `types` subpackage, which contains the actual implementations.
//
// This pattern solves the "import cycle" problem by allowing internal packages
// to depend on `types` without depending on the root `mirrorview` package,
// while still providing a convenient `mirrorview.Scope`, `mirrorview.Logger`,
// etc. for users.
type (
	Scope               = types.Scope
	Group               = types.Group
	Condition           = types.Condition
	CatalogItem         = types.CatalogItem
	AssignedItem        = types.AssignedItem
	LedgerEntry         = types.LedgerEntry
	LedgerDocument      = types.LedgerDocument
	CommittedAssignment = types.CommittedAssignment
	PendingReservation  = types.PendingReservation
	PendingDocument     = types.PendingDocument
	AllocateRequest     = types.AllocateRequest
	AssignmentResult    = types.AssignmentResult
	SelectionContext    = types.SelectionContext
)

// Re-export interfaces from the internal types package for convenience.
type (
	CatalogProvider   = types.CatalogProvider
	SelectionStrategy = types.SelectionStrategy
	Store             = types.Store
	Stores            = types.Stores
	MetricsCollector  = types.MetricsCollector
	Logger            = types.Logger
)

// Re-export scope constants from the internal types package.
const (
	ScopeProduction = types.ScopeProduction
	ScopeSandbox    = types.ScopeSandbox

	CategoryUncategorized = types.CategoryUncategorized
)

// ScopeFor decides the scope for a participant once at the API boundary.
// See types.ScopeFor.
var ScopeFor = types.ScopeFor

// NewParticipantID generates a fresh participant id. See types.NewParticipantID.
var NewParticipantID = types.NewParticipantID
