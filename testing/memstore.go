package testing

import (
	"context"
	"sync"

	"github.com/METResearchGroup/mirrorView-task/types"
)

// MemStore is an in-memory types.Store with the same revision semantics as
// the JetStream-backed store: every write bumps a store-wide sequence, and
// Update succeeds only when the caller holds the key's current revision.
//
// It also supports fault injection so engine tests can exercise conflict
// retries and infrastructure failures without a real server. Safe for
// concurrent use.
type MemStore struct {
	mu      sync.Mutex
	entries map[string]memEntry
	seq     uint64
	faults  map[string][]error
	calls   map[string]int
}

type memEntry struct {
	value    []byte
	revision uint64
}

var _ types.Store = (*MemStore)(nil)

// NewMemStore creates an empty in-memory store.
func NewMemStore() *MemStore {
	return &MemStore{
		entries: make(map[string]memEntry),
		faults:  make(map[string][]error),
		calls:   make(map[string]int),
	}
}

// FailNext queues errs to be returned, in order, by the next calls of op.
// Valid ops are "get", "put", "create", "update", and "delete". Each queued
// error fires once; once the queue drains the operation behaves normally.
func (m *MemStore) FailNext(op string, errs ...error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.faults[op] = append(m.faults[op], errs...)
}

// Calls returns how many times op has been invoked, including calls that
// returned injected faults.
func (m *MemStore) Calls(op string) int {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.calls[op]
}

// Revision returns the current revision of key, or zero when absent.
func (m *MemStore) Revision(key string) uint64 {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.entries[key].revision
}

// Len returns the number of stored keys.
func (m *MemStore) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()

	return len(m.entries)
}

func (m *MemStore) takeFault(op string) error {
	m.calls[op]++
	queue := m.faults[op]
	if len(queue) == 0 {
		return nil
	}

	err := queue[0]
	m.faults[op] = queue[1:]

	return err
}

// Get returns the document stored under key along with its revision.
func (m *MemStore) Get(ctx context.Context, key string) ([]byte, uint64, error) {
	if err := ctx.Err(); err != nil {
		return nil, 0, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.takeFault("get"); err != nil {
		return nil, 0, err
	}

	entry, ok := m.entries[key]
	if !ok {
		return nil, 0, types.ErrKeyNotFound
	}

	value := make([]byte, len(entry.value))
	copy(value, entry.value)

	return value, entry.revision, nil
}

// Put overwrites the document under key unconditionally.
func (m *MemStore) Put(ctx context.Context, key string, value []byte) (uint64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.takeFault("put"); err != nil {
		return 0, err
	}

	return m.write(key, value), nil
}

// Create stores the document only if the key does not yet exist.
func (m *MemStore) Create(ctx context.Context, key string, value []byte) (uint64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.takeFault("create"); err != nil {
		return 0, err
	}

	if _, ok := m.entries[key]; ok {
		return 0, types.ErrKeyExists
	}

	return m.write(key, value), nil
}

// Update overwrites the document only if the current revision equals expected.
func (m *MemStore) Update(ctx context.Context, key string, value []byte, expected uint64) (uint64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.takeFault("update"); err != nil {
		return 0, err
	}

	entry, ok := m.entries[key]
	if !ok {
		return 0, types.ErrKeyNotFound
	}
	if entry.revision != expected {
		return 0, types.ErrRevisionMismatch
	}

	return m.write(key, value), nil
}

// Delete removes the key. Deleting an absent key is not an error.
func (m *MemStore) Delete(ctx context.Context, key string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.takeFault("delete"); err != nil {
		return err
	}

	delete(m.entries, key)

	return nil
}

func (m *MemStore) write(key string, value []byte) uint64 {
	m.seq++
	stored := make([]byte, len(value))
	copy(stored, value)
	m.entries[key] = memEntry{value: stored, revision: m.seq}

	return m.seq
}

// NewMemStores returns a Stores pair backed by two independent MemStores.
func NewMemStores() (types.Stores, *MemStore, *MemStore) {
	ledger := NewMemStore()
	pending := NewMemStore()

	return types.Stores{Ledger: ledger, Pending: pending}, ledger, pending
}
