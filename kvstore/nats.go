// Package kvstore implements the types.Store contract on top of NATS
// JetStream KeyValue buckets.
package kvstore

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"

	"github.com/METResearchGroup/mirrorView-task/types"
)

// Options configures the two KV buckets backing the engine.
type Options struct {
	// LedgerBucket is the bucket holding the committed assignment ledger,
	// one document per scope.
	LedgerBucket string

	// PendingBucket is the bucket holding pending reservation documents,
	// one document per scope.
	PendingBucket string

	// PendingTTL, when positive, lets the server expire abandoned pending
	// documents. Zero disables expiry.
	PendingTTL time.Duration

	// Replicas is the JetStream replica count for both buckets (default 1).
	Replicas int

	// MaxRetries bounds bucket creation attempts (default 3).
	MaxRetries int

	// Metrics receives per-operation latency observations. Nil disables
	// recording.
	Metrics types.MetricsCollector
}

// NatsStore adapts a single jetstream.KeyValue bucket to types.Store.
//
// Native JetStream errors are translated to the sentinel errors in types/
// so that callers never import NATS packages: missing keys map to
// ErrKeyNotFound, create collisions to ErrKeyExists, and revision-guarded
// update failures to ErrRevisionMismatch. Connectivity failures are wrapped
// so errors.Is(err, types.ErrStoreUnavailable) holds.
type NatsStore struct {
	kv      jetstream.KeyValue
	metrics types.MetricsCollector
}

// Compile-time assertion that NatsStore implements Store.
var _ types.Store = (*NatsStore)(nil)

// New wraps an existing KV bucket as a types.Store.
//
// Parameters:
//   - kv: JetStream KeyValue bucket
//   - metrics: Latency collector (nil disables recording)
//
// Returns:
//   - *NatsStore: Store adapter over the bucket
func New(kv jetstream.KeyValue, metrics types.MetricsCollector) *NatsStore {
	return &NatsStore{kv: kv, metrics: metrics}
}

// Open creates or opens the ledger and pending buckets and returns them as
// a types.Stores pair.
//
// Bucket creation tolerates concurrent creators: when another process wins
// the race the existing bucket is opened instead.
//
// Parameters:
//   - ctx: Context for timeout/cancellation
//   - js: JetStream context
//   - opts: Bucket names, TTL, and retry bounds
//
// Returns:
//   - types.Stores: Ledger and pending store pair
//   - error: Any error after exhausting creation retries
func Open(ctx context.Context, js jetstream.JetStream, opts Options) (types.Stores, error) {
	if opts.LedgerBucket == "" || opts.PendingBucket == "" {
		return types.Stores{}, fmt.Errorf("%w: ledger and pending bucket names are required", types.ErrInvalidConfig)
	}

	replicas := opts.Replicas
	if replicas <= 0 {
		replicas = 1
	}

	ledgerKV, err := EnsureBucket(ctx, js, jetstream.KeyValueConfig{
		Bucket:      opts.LedgerBucket,
		Description: "committed assignment ledger, one document per scope",
		History:     1,
		Replicas:    replicas,
	}, opts.MaxRetries)
	if err != nil {
		return types.Stores{}, fmt.Errorf("open ledger bucket: %w", err)
	}

	pendingKV, err := EnsureBucket(ctx, js, jetstream.KeyValueConfig{
		Bucket:      opts.PendingBucket,
		Description: "pending reservations, one document per scope",
		History:     1,
		TTL:         opts.PendingTTL,
		Replicas:    replicas,
	}, opts.MaxRetries)
	if err != nil {
		return types.Stores{}, fmt.Errorf("open pending bucket: %w", err)
	}

	return types.Stores{
		Ledger:  New(ledgerKV, opts.Metrics),
		Pending: New(pendingKV, opts.Metrics),
	}, nil
}

// EnsureBucket creates or opens a KV bucket with retry logic.
//
// Handles the race where multiple workers create the same bucket
// concurrently, and retries transient failures with exponential backoff.
//
// Parameters:
//   - ctx: Context for timeout/cancellation
//   - js: JetStream context
//   - config: KV bucket configuration
//   - maxRetries: Maximum number of attempts (default: 3)
//
// Returns:
//   - jetstream.KeyValue: The KV bucket instance
//   - error: Any error that occurred after all retries
func EnsureBucket(
	ctx context.Context,
	js jetstream.JetStream,
	config jetstream.KeyValueConfig,
	maxRetries int,
) (jetstream.KeyValue, error) {
	if maxRetries <= 0 {
		maxRetries = 3
	}

	var lastErr error

	for attempt := 0; attempt < maxRetries; attempt++ {
		kv, err := js.CreateKeyValue(ctx, config)
		if err == nil {
			return kv, nil
		}

		// Another creator won the race; open the existing bucket.
		if errors.Is(err, jetstream.ErrBucketExists) {
			kv, err := js.KeyValue(ctx, config.Bucket)
			if err == nil {
				return kv, nil
			}
			lastErr = fmt.Errorf("bucket exists but failed to open: %w", err)
		} else {
			lastErr = err
		}

		if ctx.Err() != nil {
			return nil, fmt.Errorf("context cancelled during KV bucket creation: %w", ctx.Err())
		}

		// Exponential backoff: 10ms, 20ms, 40ms...
		if attempt < maxRetries-1 {
			backoff := time.Duration(1<<uint(attempt)) * 10 * time.Millisecond
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(backoff):
			}
		}
	}

	return nil, fmt.Errorf("failed to create/open KV bucket %s after %d attempts: %w",
		config.Bucket, maxRetries, lastErr)
}

// Get returns the document stored under key along with its revision.
func (s *NatsStore) Get(ctx context.Context, key string) ([]byte, uint64, error) {
	start := time.Now()
	entry, err := s.kv.Get(ctx, key)
	s.observe("get", start)

	if err != nil {
		if errors.Is(err, jetstream.ErrKeyNotFound) {
			return nil, 0, types.ErrKeyNotFound
		}

		return nil, 0, wrapInfra("get", key, err)
	}

	return entry.Value(), entry.Revision(), nil
}

// Put overwrites the document under key unconditionally.
func (s *NatsStore) Put(ctx context.Context, key string, value []byte) (uint64, error) {
	start := time.Now()
	rev, err := s.kv.Put(ctx, key, value)
	s.observe("put", start)

	if err != nil {
		return 0, wrapInfra("put", key, err)
	}

	return rev, nil
}

// Create stores the document only if the key does not yet exist.
func (s *NatsStore) Create(ctx context.Context, key string, value []byte) (uint64, error) {
	start := time.Now()
	rev, err := s.kv.Create(ctx, key, value)
	s.observe("create", start)

	if err != nil {
		if errors.Is(err, jetstream.ErrKeyExists) {
			return 0, types.ErrKeyExists
		}

		return 0, wrapInfra("create", key, err)
	}

	return rev, nil
}

// Update overwrites the document only if the current revision equals expected.
func (s *NatsStore) Update(ctx context.Context, key string, value []byte, expected uint64) (uint64, error) {
	start := time.Now()
	rev, err := s.kv.Update(ctx, key, value, expected)
	s.observe("update", start)

	if err != nil {
		if isRevisionMismatch(err) {
			return 0, types.ErrRevisionMismatch
		}
		if errors.Is(err, jetstream.ErrKeyNotFound) {
			return 0, types.ErrKeyNotFound
		}

		return 0, wrapInfra("update", key, err)
	}

	return rev, nil
}

// Delete removes the key. Deleting an absent key is not an error.
func (s *NatsStore) Delete(ctx context.Context, key string) error {
	start := time.Now()
	err := s.kv.Delete(ctx, key)
	s.observe("delete", start)

	if err != nil && !errors.Is(err, jetstream.ErrKeyNotFound) {
		return wrapInfra("delete", key, err)
	}

	return nil
}

func (s *NatsStore) observe(op string, start time.Time) {
	if s.metrics != nil {
		s.metrics.RecordStoreOperation(op, time.Since(start).Seconds())
	}
}

// isRevisionMismatch reports whether err is a revision-guarded update
// failure. JetStream reports these as a "wrong last sequence" API error
// sharing an error code with ErrKeyExists, so both checks are needed.
func isRevisionMismatch(err error) bool {
	return errors.Is(err, jetstream.ErrKeyExists) ||
		strings.Contains(err.Error(), "wrong last sequence")
}

// wrapInfra wraps connectivity and server-side failures so callers can match
// errors.Is(err, types.ErrStoreUnavailable) without importing NATS packages.
func wrapInfra(op, key string, err error) error {
	return fmt.Errorf("%w: %s %q: %w", types.ErrStoreUnavailable, op, key, err)
}

// IsConnectivityError checks if an error is caused by NATS connectivity
// issues such as timeouts, refused connections, or closed connections.
//
// Parameters:
//   - err: Error to check
//
// Returns:
//   - bool: true if error indicates connectivity issue
func IsConnectivityError(err error) bool {
	if err == nil {
		return false
	}

	return errors.Is(err, nats.ErrTimeout) ||
		errors.Is(err, nats.ErrNoServers) ||
		errors.Is(err, nats.ErrDisconnected) ||
		errors.Is(err, nats.ErrConnectionClosed) ||
		errors.Is(err, jetstream.ErrNoStreamResponse) ||
		strings.Contains(err.Error(), "connection refused") ||
		strings.Contains(err.Error(), "i/o timeout")
}
