// Package storage provides durable key-value stores for form drafts.
//
// A Store plays the role of the browser's local storage: a flat map of
// string keys to string values that survives restarts. Backends:
//
//   - MemoryStore: process memory, for tests and ephemeral runs
//   - FileStore: one JSON object on disk
//   - RedisStore: Redis strings under a key prefix
//   - SQLiteStore: one table in a SQLite database
//   - S3Store: one object per key in an S3 bucket
//
// Open builds the backend selected in config.StorageConfig.
package storage

import (
	"context"
	"sort"
	"sync"
)

// Store is a durable string key-value store.
type Store interface {
	// Get returns the value stored under key. ok is false when the key
	// does not exist; that is not an error.
	Get(ctx context.Context, key string) (value string, ok bool, err error)

	// Set stores value under key, replacing any previous value.
	Set(ctx context.Context, key, value string) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases the backend's resources.
	Close() error
}

// MemoryStore keeps values in process memory.
type MemoryStore struct {
	mu     sync.RWMutex
	values map[string]string
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{values: make(map[string]string)}
}

func (m *MemoryStore) Get(_ context.Context, key string) (string, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.values[key]
	return v, ok, nil
}

func (m *MemoryStore) Set(_ context.Context, key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.values[key] = value
	return nil
}

func (m *MemoryStore) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.values, key)
	return nil
}

func (m *MemoryStore) Close() error { return nil }

// Keys returns the stored keys in sorted order.
func (m *MemoryStore) Keys() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	keys := make([]string, 0, len(m.values))
	for k := range m.values {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
