package mirrorview

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/puzpuzpuz/xsync/v4"
	"github.com/zeebo/xxh3"

	"github.com/METResearchGroup/mirrorView-task/internal/logging"
	"github.com/METResearchGroup/mirrorView-task/internal/metrics"
	"github.com/METResearchGroup/mirrorView-task/strategy"
	"github.com/METResearchGroup/mirrorView-task/types"
)

// Engine allocates catalog items to participants with balanced exposure.
//
// Engine is the main entry point of the mirrorview library. It handles:
//   - Idempotent item allocation with per-participant reservations
//   - Exposure-balanced selection via a pluggable strategy
//   - Two-phase reserve/commit bookkeeping over whole-document storage
//   - Optimistic-concurrency writes with a bounded retry budget
//   - Strict production/sandbox scope isolation
//
// Thread Safety:
//   - All public methods are safe for concurrent use
//   - Writers within one scope are serialized in-process by a per-scope lock
//   - Cross-process races are resolved by revision-checked writes
//
// Testing:
// Consumers can define minimal interfaces for mocking:
//
//	type Allocator interface {
//	    Allocate(ctx context.Context, req mirrorview.AllocateRequest) (*mirrorview.AssignmentResult, error)
//	    Commit(ctx context.Context, scope mirrorview.Scope, participantID string) (*mirrorview.CommittedAssignment, error)
//	}
type Engine struct {
	cfg      Config
	stores   Stores
	provider CatalogProvider

	strategy SelectionStrategy
	metrics  MetricsCollector
	logger   Logger
	clock    func() time.Time

	// Per-scope write locks. Entries are never removed; there are only two
	// scopes.
	locks *xsync.Map[string, *sync.Mutex]
}

// New creates a new Engine instance with the provided configuration.
//
// Returns a concrete *Engine struct following the "accept interfaces, return
// structs" principle. Consumers can define their own interfaces for testing.
//
// When no strategy is injected, the engine derives one from the
// configuration: stratified selection when Buckets is set, otherwise flat
// quota selection capped at MaxExposurePerKey (0 = uncapped).
//
// Parameters:
//   - cfg: Runtime configuration
//   - stores: Ledger and pending document stores
//   - provider: Catalog source
//   - opts: Optional configuration (strategy, metrics, logger, clock)
//
// Returns:
//   - *Engine: Initialized engine instance
//   - error: Validation error if configuration or dependencies are invalid
//
// Example:
//
//	cfg := mirrorview.DefaultConfig()
//	provider := catalog.NewStatic(items)
//	engine, err := mirrorview.New(cfg, stores, provider)
func New(cfg Config, stores Stores, provider CatalogProvider, opts ...Option) (*Engine, error) {
	if stores.Ledger == nil || stores.Pending == nil {
		return nil, ErrStoreRequired
	}
	if provider == nil {
		return nil, ErrCatalogProviderRequired
	}

	// Fill in missing configuration values with defaults
	SetDefaults(&cfg)

	// Validate configuration
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	// Apply options
	options := &engineOptions{}
	for _, opt := range opts {
		opt(options)
	}

	// Provide safe defaults for optional dependencies to avoid nil checks everywhere
	metricsCollector := options.metrics
	if metricsCollector == nil {
		metricsCollector = metrics.NewNop()
	}

	loggerInstance := options.logger
	if loggerInstance == nil {
		loggerInstance = logging.NewNop()
	}

	selection := options.strategy
	if selection == nil {
		if len(cfg.Buckets) > 0 {
			selection = strategy.NewStratified(cfg.Buckets)
		} else {
			selection = strategy.NewQuota(cfg.MaxExposurePerKey)
		}
	}

	clock := options.clock
	if clock == nil {
		clock = time.Now
	}

	return &Engine{
		cfg:      cfg,
		stores:   stores,
		provider: provider,
		strategy: selection,
		metrics:  metricsCollector,
		logger:   loggerInstance,
		clock:    clock,
		locks:    xsync.NewMap[string, *sync.Mutex](),
	}, nil
}

// Allocate returns the item set for one participant, drawing a fresh
// reservation when none exists yet.
//
// The operation is idempotent: a participant with a full committed
// assignment or a live reservation receives the same items again. A
// participant with a partial committed assignment (short session that was
// later allowed to continue) receives only the missing items on top of the
// committed ones.
//
// The reservation touches no exposure counters; only Commit does.
//
// Parameters:
//   - ctx: Context for cancellation and timeout
//   - req: Allocation request (scope, participant, group, optional condition)
//
// Returns:
//   - *AssignmentResult: Items, resolved condition, and idempotency flags
//   - error: Validation, catalog, or storage error
func (e *Engine) Allocate(ctx context.Context, req AllocateRequest) (*AssignmentResult, error) {
	start := e.clock()

	result, err := e.allocate(ctx, req)

	outcome := "error"
	condition := string(req.Condition)
	if err == nil {
		condition = string(result.Condition)
		switch {
		case result.AlreadyAssigned:
			outcome = "existing"
		case result.ShortAssignment:
			outcome = "short"
		default:
			outcome = "assigned"
		}
	}
	e.metrics.RecordAllocation(req.Scope.String(), condition, outcome, e.clock().Sub(start).Seconds())

	return result, err
}

func (e *Engine) allocate(ctx context.Context, req AllocateRequest) (*AssignmentResult, error) {
	if !req.Scope.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrInvalidScope, req.Scope)
	}
	if req.ParticipantID == "" {
		return nil, fmt.Errorf("%w: empty participant id", ErrInvalidConfig)
	}
	if !e.knownGroup(req.Group) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidGroup, req.Group)
	}

	target := req.TargetCount
	if target <= 0 {
		target = e.cfg.TargetCount
	}

	ctx, cancel := e.withTimeout(ctx)
	defer cancel()

	unlock := e.lockScope(req.Scope)
	defer unlock()

	for attempt := 0; attempt < e.cfg.ConflictRetries; attempt++ {
		result, err := e.tryAllocate(ctx, req, target)
		if err == nil {
			return result, nil
		}
		if !IsConflict(err) {
			return nil, err
		}

		e.metrics.RecordConflictRetry("allocate")
		e.logger.Debug("allocation lost a write race, retrying",
			"participant", req.ParticipantID, "scope", req.Scope.String(), "attempt", attempt+1)
	}

	return nil, fmt.Errorf("%w: allocate for %s after %d attempts",
		ErrConflictBudgetExceeded, req.ParticipantID, e.cfg.ConflictRetries)
}

// tryAllocate performs one read-decide-write pass. A conflict error means
// another writer updated the pending document first and the whole pass must
// be replayed against fresh state.
func (e *Engine) tryAllocate(ctx context.Context, req AllocateRequest, target int) (*AssignmentResult, error) {
	ledger, _, err := e.loadLedger(ctx, req.Scope)
	if err != nil {
		return nil, err
	}

	committed := ledger.Participants[req.ParticipantID]
	if committed != nil && len(committed.Items) >= target {
		e.logger.Debug("serving existing committed assignment",
			"participant", req.ParticipantID, "scope", req.Scope.String(), "items", len(committed.Items))

		return &AssignmentResult{
			Items:           copyItems(committed.Items),
			Condition:       committed.Condition,
			AlreadyAssigned: true,
			ShortAssignment: committed.Short,
		}, nil
	}

	pending, pendingRev, err := e.loadPending(ctx, req.Scope)
	if err != nil {
		return nil, err
	}

	if reservation := pending[req.ParticipantID]; reservation != nil {
		items := mergeItems(committed, reservation.Items)
		e.logger.Debug("serving existing reservation",
			"participant", req.ParticipantID, "scope", req.Scope.String(), "items", len(items))

		return &AssignmentResult{
			Items:           items,
			Condition:       reservation.Condition,
			AlreadyAssigned: true,
			ShortAssignment: reservation.Short,
		}, nil
	}

	condition := e.resolveCondition(ledger, req, committed)

	items, short, err := e.selectItems(ctx, ledger, req, committed, condition, target)
	if err != nil {
		return nil, err
	}

	reservation := &types.PendingReservation{
		Group:      req.Group,
		Condition:  condition,
		Items:      items,
		Short:      short,
		ReservedAt: e.clock(),
	}
	pending[req.ParticipantID] = reservation

	if err := e.savePending(ctx, req.Scope, pending, pendingRev); err != nil {
		return nil, err
	}
	e.metrics.SetPendingReservations(req.Scope.String(), len(pending))

	e.logger.Info("reserved items",
		"participant", req.ParticipantID,
		"scope", req.Scope.String(),
		"condition", string(condition),
		"items", len(items),
		"short", short)

	return &AssignmentResult{
		Items:           mergeItems(committed, items),
		Condition:       condition,
		ShortAssignment: short,
	}, nil
}

// selectItems runs the selection strategy against the current ledger state,
// excluding items the participant already holds.
func (e *Engine) selectItems(
	ctx context.Context,
	ledger *LedgerDocument,
	req AllocateRequest,
	committed *CommittedAssignment,
	condition Condition,
	target int,
) ([]AssignedItem, bool, error) {
	catalogItems, err := e.provider.Load(ctx)
	if err != nil {
		return nil, false, err
	}
	e.metrics.SetCatalogSize(len(catalogItems))

	missing := target
	exclude := make(map[string]bool)
	if committed != nil {
		missing = target - len(committed.Items)
		for _, item := range committed.Items {
			exclude[item.ID] = true
		}
	}

	selected, short, err := e.strategy.Select(SelectionContext{
		Catalog:   catalogItems,
		Exposure:  ledger.ExposureFor(e.counterKey(req.Group, condition)),
		Exclude:   exclude,
		Target:    missing,
		Completed: e.completedUnder(ledger, req.Group, condition),
		Seed:      xxh3.HashString(req.ParticipantID),
	})
	if err != nil {
		return nil, false, err
	}

	items := make([]AssignedItem, len(selected))
	for i, item := range selected {
		items[i] = item.Assigned()
	}

	return items, short, nil
}

// resolveCondition picks the experimental arm for a fresh reservation.
//
// A participant with a prior partial commit keeps their original condition.
// In group-alternation mode the caller's condition is ignored and arms
// alternate within the group by commit order. Otherwise unknown conditions
// fall back to the baseline (first configured condition).
func (e *Engine) resolveCondition(ledger *LedgerDocument, req AllocateRequest, committed *CommittedAssignment) Condition {
	if committed != nil {
		return committed.Condition
	}

	if e.cfg.AlternateConditions {
		idx := ledger.CompletedInGroup(req.Group) % len(e.cfg.Conditions)

		return Condition(e.cfg.Conditions[idx])
	}

	for _, c := range e.cfg.Conditions {
		if Condition(c) == req.Condition {
			return req.Condition
		}
	}

	baseline := Condition(e.cfg.Conditions[0])
	if req.Condition != "" {
		e.logger.Warn("unknown condition, falling back to baseline",
			"participant", req.ParticipantID,
			"condition", string(req.Condition),
			"baseline", string(baseline))
	}

	return baseline
}

// Commit folds a participant's pending reservation into the permanent
// ledger, bumping exposure counters exactly once per item.
//
// Commit is idempotent and crash-safe: items already present in the
// participant's committed assignment are skipped, so replaying a commit (or
// crashing between the ledger write and the pending cleanup) never double
// counts. A participant with no live reservation yields (nil, nil).
//
// Parameters:
//   - ctx: Context for cancellation and timeout
//   - scope: Namespace the participant belongs to
//   - participantID: The participant to commit
//
// Returns:
//   - *CommittedAssignment: The assignment after the fold, nil when there
//     was nothing to commit
//   - error: Validation or storage error
func (e *Engine) Commit(ctx context.Context, scope Scope, participantID string) (*CommittedAssignment, error) {
	start := e.clock()

	committed, err := e.commit(ctx, scope, participantID)

	outcome := "error"
	if err == nil {
		outcome = "committed"
		if committed == nil {
			outcome = "noop"
		}
	}
	e.metrics.RecordCommit(scope.String(), outcome, e.clock().Sub(start).Seconds())

	return committed, err
}

func (e *Engine) commit(ctx context.Context, scope Scope, participantID string) (*CommittedAssignment, error) {
	if !scope.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrInvalidScope, scope)
	}

	ctx, cancel := e.withTimeout(ctx)
	defer cancel()

	unlock := e.lockScope(scope)
	defer unlock()

	for attempt := 0; attempt < e.cfg.ConflictRetries; attempt++ {
		committed, done, err := e.tryCommit(ctx, scope, participantID)
		if err == nil {
			if !done {
				return nil, nil
			}

			return committed, nil
		}
		if !IsConflict(err) {
			return nil, err
		}

		e.metrics.RecordConflictRetry("commit")
		e.logger.Debug("commit lost a write race, retrying",
			"participant", participantID, "scope", scope.String(), "attempt", attempt+1)
	}

	return nil, fmt.Errorf("%w: commit for %s after %d attempts",
		ErrConflictBudgetExceeded, participantID, e.cfg.ConflictRetries)
}

func (e *Engine) tryCommit(ctx context.Context, scope Scope, participantID string) (*CommittedAssignment, bool, error) {
	pending, _, err := e.loadPending(ctx, scope)
	if err != nil {
		return nil, false, err
	}

	reservation := pending[participantID]
	if reservation == nil {
		return nil, false, nil
	}

	ledger, ledgerRev, err := e.loadLedger(ctx, scope)
	if err != nil {
		return nil, false, err
	}

	committed := ledger.Participants[participantID]
	if committed == nil {
		committed = &types.CommittedAssignment{
			Group:     reservation.Group,
			Condition: reservation.Condition,
		}
		ledger.Participants[participantID] = committed
	}

	counterKey := e.counterKey(committed.Group, committed.Condition)

	// Fold reserved items in, skipping anything the participant already
	// holds. The skip is what makes double commit and
	// crash-between-ledger-write-and-pending-delete safe.
	folded := 0
	for _, item := range reservation.Items {
		if committed.Has(item.ID) {
			continue
		}
		committed.Items = append(committed.Items, item)
		ledger.EntryFor(item).Counts[counterKey]++
		folded++
	}

	committed.Short = len(committed.Items) < e.cfg.TargetCount
	committed.CommittedAt = e.clock()

	if err := e.saveLedger(ctx, scope, ledger, ledgerRev); err != nil {
		return nil, false, err
	}

	if err := e.deletePendingEntry(ctx, scope, participantID); err != nil {
		// The ledger write already landed; the reservation will be folded
		// as a no-op if the cleanup is replayed.
		return nil, false, err
	}

	e.logger.Info("committed assignment",
		"participant", participantID,
		"scope", scope.String(),
		"condition", string(committed.Condition),
		"items", len(committed.Items),
		"folded", folded,
		"short", committed.Short)

	return copyAssignment(committed), true, nil
}

// Reset clears all committed and pending state for one scope.
//
// Production is refused unless AllowProductionReset is set; sandbox resets
// are always allowed.
//
// Parameters:
//   - ctx: Context for cancellation and timeout
//   - scope: Namespace to clear
//
// Returns:
//   - error: ErrProductionReset or a storage error
func (e *Engine) Reset(ctx context.Context, scope Scope) error {
	if !scope.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidScope, scope)
	}
	if scope == ScopeProduction && !e.cfg.AllowProductionReset {
		return ErrProductionReset
	}

	ctx, cancel := e.withTimeout(ctx)
	defer cancel()

	unlock := e.lockScope(scope)
	defer unlock()

	if err := e.stores.Ledger.Delete(ctx, scope.Key()); err != nil {
		return fmt.Errorf("reset ledger: %w", err)
	}
	if err := e.stores.Pending.Delete(ctx, scope.Key()); err != nil {
		return fmt.Errorf("reset pending: %w", err)
	}
	e.metrics.SetPendingReservations(scope.String(), 0)

	e.logger.Warn("scope reset", "scope", scope.String())

	return nil
}

// RemoveParticipant administratively removes one participant from a scope.
//
// The participant's committed items are un-counted from the exposure
// counters so the freed supply becomes eligible again, and any live
// reservation is dropped. Removing an unknown participant is a no-op.
//
// Parameters:
//   - ctx: Context for cancellation and timeout
//   - scope: Namespace the participant belongs to
//   - participantID: The participant to remove
//
// Returns:
//   - bool: true when committed or pending state was actually removed
//   - error: Validation or storage error
func (e *Engine) RemoveParticipant(ctx context.Context, scope Scope, participantID string) (bool, error) {
	if !scope.Valid() {
		return false, fmt.Errorf("%w: %q", ErrInvalidScope, scope)
	}

	ctx, cancel := e.withTimeout(ctx)
	defer cancel()

	unlock := e.lockScope(scope)
	defer unlock()

	removed := false

	for attempt := 0; ; attempt++ {
		ledger, ledgerRev, err := e.loadLedger(ctx, scope)
		if err != nil {
			return false, err
		}

		committed := ledger.Participants[participantID]
		if committed == nil {
			break
		}

		counterKey := e.counterKey(committed.Group, committed.Condition)
		for _, item := range committed.Items {
			entry := ledger.Items[item.ID]
			if entry == nil {
				continue
			}
			if entry.Counts[counterKey] > 0 {
				entry.Counts[counterKey]--
			}
			if entry.Counts[counterKey] == 0 {
				delete(entry.Counts, counterKey)
			}
		}
		delete(ledger.Participants, participantID)

		err = e.saveLedger(ctx, scope, ledger, ledgerRev)
		if err == nil {
			removed = true

			break
		}
		if !IsConflict(err) {
			return false, err
		}
		if attempt+1 >= e.cfg.ConflictRetries {
			return false, fmt.Errorf("%w: remove %s after %d attempts",
				ErrConflictBudgetExceeded, participantID, e.cfg.ConflictRetries)
		}
		e.metrics.RecordConflictRetry("remove")
	}

	droppedPending, err := e.dropPendingEntry(ctx, scope, participantID)
	if err != nil {
		return removed, err
	}

	if removed || droppedPending {
		e.logger.Info("removed participant",
			"participant", participantID,
			"scope", scope.String(),
			"hadCommitted", removed,
			"hadPending", droppedPending)
	}

	return removed || droppedPending, nil
}

// Snapshot returns a deep copy of the scope's committed ledger for export
// and diagnostics. An empty scope yields an empty, initialized document.
//
// Parameters:
//   - ctx: Context for cancellation and timeout
//   - scope: Namespace to read
//
// Returns:
//   - *LedgerDocument: Detached copy of the ledger
//   - error: Validation or storage error
func (e *Engine) Snapshot(ctx context.Context, scope Scope) (*LedgerDocument, error) {
	if !scope.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrInvalidScope, scope)
	}

	ctx, cancel := e.withTimeout(ctx)
	defer cancel()

	ledger, _, err := e.loadLedger(ctx, scope)
	if err != nil {
		return nil, err
	}

	data, err := json.Marshal(ledger)
	if err != nil {
		return nil, fmt.Errorf("snapshot ledger: %w", err)
	}

	snapshot := types.NewLedgerDocument()
	if err := json.Unmarshal(data, snapshot); err != nil {
		return nil, fmt.Errorf("snapshot ledger: %w", err)
	}
	snapshot.Normalize()

	return snapshot, nil
}

// --- document plumbing ---

func (e *Engine) loadLedger(ctx context.Context, scope Scope) (*LedgerDocument, uint64, error) {
	value, rev, err := e.stores.Ledger.Get(ctx, scope.Key())
	if err != nil {
		if errors.Is(err, ErrKeyNotFound) {
			return types.NewLedgerDocument(), 0, nil
		}

		return nil, 0, fmt.Errorf("load ledger: %w", err)
	}

	doc := &types.LedgerDocument{}
	if err := json.Unmarshal(value, doc); err != nil {
		return nil, 0, fmt.Errorf("decode ledger for scope %s: %w", scope, err)
	}
	doc.Normalize()

	return doc, rev, nil
}

func (e *Engine) saveLedger(ctx context.Context, scope Scope, doc *LedgerDocument, rev uint64) error {
	data, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("encode ledger: %w", err)
	}

	if rev == 0 {
		_, err = e.stores.Ledger.Create(ctx, scope.Key(), data)
	} else {
		_, err = e.stores.Ledger.Update(ctx, scope.Key(), data, rev)
	}
	if err != nil {
		return fmt.Errorf("save ledger: %w", err)
	}

	return nil
}

func (e *Engine) loadPending(ctx context.Context, scope Scope) (PendingDocument, uint64, error) {
	value, rev, err := e.stores.Pending.Get(ctx, scope.Key())
	if err != nil {
		if errors.Is(err, ErrKeyNotFound) {
			return types.PendingDocument{}, 0, nil
		}

		return nil, 0, fmt.Errorf("load pending: %w", err)
	}

	doc := types.PendingDocument{}
	if err := json.Unmarshal(value, &doc); err != nil {
		return nil, 0, fmt.Errorf("decode pending for scope %s: %w", scope, err)
	}

	return doc, rev, nil
}

func (e *Engine) savePending(ctx context.Context, scope Scope, doc PendingDocument, rev uint64) error {
	data, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("encode pending: %w", err)
	}

	if rev == 0 {
		_, err = e.stores.Pending.Create(ctx, scope.Key(), data)
	} else {
		_, err = e.stores.Pending.Update(ctx, scope.Key(), data, rev)
	}
	if err != nil {
		return fmt.Errorf("save pending: %w", err)
	}

	return nil
}

// deletePendingEntry removes one reservation with its own small retry loop,
// so a pending-table race after a successful ledger write does not force the
// whole commit to replay.
func (e *Engine) deletePendingEntry(ctx context.Context, scope Scope, participantID string) error {
	for attempt := 0; attempt < e.cfg.ConflictRetries; attempt++ {
		pending, rev, err := e.loadPending(ctx, scope)
		if err != nil {
			return err
		}
		if _, ok := pending[participantID]; !ok || rev == 0 {
			return nil
		}

		delete(pending, participantID)
		err = e.savePending(ctx, scope, pending, rev)
		if err == nil {
			e.metrics.SetPendingReservations(scope.String(), len(pending))

			return nil
		}
		if !IsConflict(err) {
			return err
		}
		e.metrics.RecordConflictRetry("pending_cleanup")
	}

	return fmt.Errorf("%w: pending cleanup for %s after %d attempts",
		ErrConflictBudgetExceeded, participantID, e.cfg.ConflictRetries)
}

func (e *Engine) dropPendingEntry(ctx context.Context, scope Scope, participantID string) (bool, error) {
	pending, _, err := e.loadPending(ctx, scope)
	if err != nil {
		return false, err
	}
	if _, ok := pending[participantID]; !ok {
		return false, nil
	}

	return true, e.deletePendingEntry(ctx, scope, participantID)
}

// --- helpers ---

func (e *Engine) knownGroup(group Group) bool {
	for _, g := range e.cfg.Groups {
		if Group(g) == group {
			return true
		}
	}

	return false
}

// counterKey returns the exposure counter axis for one assignment.
func (e *Engine) counterKey(group Group, condition Condition) string {
	if e.cfg.CounterMode == CounterModeGroup {
		return string(group)
	}

	return string(condition)
}

// completedUnder counts committed participants on the configured counter axis
// only, so a group sharing its name with a condition never skews the rotation
// offset.
func (e *Engine) completedUnder(ledger *LedgerDocument, group Group, condition Condition) int {
	if e.cfg.CounterMode == CounterModeGroup {
		return ledger.CompletedInGroup(group)
	}

	return ledger.CompletedInCondition(condition)
}

func (e *Engine) lockScope(scope Scope) func() {
	mu, _ := e.locks.LoadOrStore(scope.Key(), &sync.Mutex{})
	mu.Lock()

	return mu.Unlock
}

func (e *Engine) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if _, ok := ctx.Deadline(); !ok && e.cfg.OperationTimeout > 0 {
		return context.WithTimeout(ctx, e.cfg.OperationTimeout)
	}

	return ctx, func() {}
}

func copyItems(items []AssignedItem) []AssignedItem {
	out := make([]AssignedItem, len(items))
	copy(out, items)

	return out
}

// mergeItems concatenates a participant's committed items with newly drawn
// ones, dropping duplicates while preserving order.
func mergeItems(committed *CommittedAssignment, fresh []AssignedItem) []AssignedItem {
	if committed == nil {
		return copyItems(fresh)
	}

	out := copyItems(committed.Items)
	for _, item := range fresh {
		if !committed.Has(item.ID) {
			out = append(out, item)
		}
	}

	return out
}

func copyAssignment(a *CommittedAssignment) *CommittedAssignment {
	out := *a
	out.Items = copyItems(a.Items)

	return &out
}
