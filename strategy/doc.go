// Package strategy provides built-in item selection implementations.
//
// Selection strategies determine which catalog items a participant receives.
// The package includes two built-in strategies:
//
//   - Stratified: Category-bucketed selection with rotation fairness,
//     unseen-first preference, and least-exposed fallback (recommended)
//   - Quota: Flat per-item exposure cap with a deterministic random draw and
//     least-exposed fallback
//
// # Strategy Selection Guide
//
// Stratified:
//   - Use when items carry stratification attributes (stance, intensity)
//     that must stay balanced across participants
//   - Rotates the bucket visit order with every completion so no bucket is
//     systematically first or last
//   - Prefers items never exposed under the active condition, then draws the
//     least-exposed, breaking ties by catalog order
//   - With a single bucket it degenerates to a flat least-exposed draw
//
// Quota:
//   - Use for the simpler per-group quota design: items at the cap are
//     skipped, the draw is a deterministic shuffle seeded per participant
//   - Falls back to least-used items when the pool under the cap runs dry,
//     unless strict mode is enabled
//
// Custom strategies can be implemented by satisfying the
// types.SelectionStrategy interface.
package strategy
