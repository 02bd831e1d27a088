// Package testing provides test utilities for the mirrorview library.
//
// This package offers helpers for setting up test environments, particularly
// embedded NATS servers for integration testing. It follows Go's convention
// of providing testing utilities in a dedicated package (similar to net/http/httptest).
//
// Key utilities:
//   - StartEmbeddedNATS: Single NATS server with JetStream
//   - CreateJetStreamKV: Convenience wrapper for KV bucket creation
//   - MemStore: In-memory types.Store with revision semantics and fault injection
//   - NewTestLogger: types.Logger backed by testing.T
//
// Example usage:
//
//	import (
//	    "testing"
//	    mvtest "github.com/METResearchGroup/mirrorView-task/testing"
//	)
//
//	func TestMyComponent(t *testing.T) {
//	    _, nc := mvtest.StartEmbeddedNATS(t)
//	    // Use nc for your tests
//	}
package testing
