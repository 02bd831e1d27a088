// Package mirrorview provides a balanced stimulus allocation engine for
// behavioral studies backed by NATS JetStream KV.
//
// The engine assigns catalog items ("posts") to study participants while
// keeping exposure balanced across experimental conditions and participant
// groups. Assignments follow a two-phase protocol: Allocate records a
// tentative reservation, and Commit folds it into the permanent ledger once
// the participant finishes their session. Reservations that are never
// committed leave the exposure counters untouched.
//
// # Quick Start
//
// Basic usage with default settings:
//
//	import (
//	    "github.com/METResearchGroup/mirrorView-task"
//	    "github.com/METResearchGroup/mirrorView-task/catalog"
//	    "github.com/METResearchGroup/mirrorView-task/kvstore"
//	)
//
//	cfg := mirrorview.DefaultConfig()
//	stores, err := kvstore.Open(ctx, js, kvstore.Options{
//	    LedgerBucket:  cfg.KVBuckets.LedgerBucket,
//	    PendingBucket: cfg.KVBuckets.PendingBucket,
//	})
//	provider := catalog.NewCached(catalog.NewCSV("posts.csv", columns, cfg.Buckets))
//
//	engine, err := mirrorview.New(cfg, stores, provider)
//
//	scope := mirrorview.ScopeFor(participantID, false)
//	result, err := engine.Allocate(ctx, mirrorview.AllocateRequest{
//	    Scope:         scope,
//	    ParticipantID: participantID,
//	    Group:         "democrat",
//	    Condition:     "control",
//	})
//	// ... participant completes their session ...
//	_, err = engine.Commit(ctx, scope, participantID)
//
// # Key Features
//
//   - Two-phase reserve/commit: abandoned sessions never skew exposure counters
//   - Stratified selection: per-category rotation with unseen-first sweeps
//   - Quota selection: flat per-item caps with deterministic per-participant shuffle
//   - Scope isolation: production and sandbox state never mix
//   - Optimistic concurrency: revision-checked writes with a bounded retry budget
//
// # Consistency Model
//
// All state for one scope lives in two whole documents: a committed ledger
// and a pending reservation table. The store offers no multi-key
// transactions, so every write is a read-modify-write guarded by the
// document revision; lost races are retried up to ConflictRetries times.
// Commit is idempotent: items already present in a participant's committed
// assignment are never counted twice, so a crash between the ledger write
// and the pending cleanup is harmless.
//
// # Advanced Usage
//
// Custom strategy with options:
//
//	import (
//	    "github.com/METResearchGroup/mirrorView-task"
//	    "github.com/METResearchGroup/mirrorView-task/strategy"
//	)
//
//	s := strategy.NewQuota(3, strategy.WithStrict())
//
//	engine, err := mirrorview.New(cfg, stores, provider,
//	    mirrorview.WithStrategy(s),
//	    mirrorview.WithLogger(logger),
//	)
package mirrorview
