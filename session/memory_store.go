// Package session persists client-side state: the auth token, the cached
// user record, the guest cart, the chatbot conversation id and the
// remember-me email. The browser original kept these in sessionStorage and
// localStorage; here they live behind the pharmakit.Store interface with
// an in-memory backend for single-process use and a Redis backend when the
// state must survive the process or be shared.
package session

import (
	"context"
	"sync"
	"time"

	"github.com/medleaf/pharmakit"
)

// MemoryStore is an in-memory implementation of pharmakit.Store.
type MemoryStore struct {
	mu     sync.RWMutex
	store  map[string]memoryEntry
	logger pharmakit.Logger
}

type memoryEntry struct {
	value     string
	expiresAt time.Time
}

// NewMemoryStore creates a new in-memory store
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		store:  make(map[string]memoryEntry),
		logger: &pharmakit.NoOpLogger{},
	}
}

// SetLogger configures the logger for this store
func (m *MemoryStore) SetLogger(logger pharmakit.Logger) {
	if logger != nil {
		m.logger = logger
	}
}

// Get retrieves a value. A missing or expired key returns "" with no error.
func (m *MemoryStore) Get(ctx context.Context, key string) (string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	entry, exists := m.store[key]
	if !exists {
		return "", nil
	}
	if !entry.expiresAt.IsZero() && time.Now().After(entry.expiresAt) {
		return "", nil
	}
	return entry.value, nil
}

// Set stores a value with optional TTL (0 means no expiry).
func (m *MemoryStore) Set(ctx context.Context, key string, value string, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	entry := memoryEntry{value: value}
	if ttl > 0 {
		entry.expiresAt = time.Now().Add(ttl)
	}
	m.store[key] = entry

	m.logger.Debug("Session key set", map[string]interface{}{
		"operation": "session_set",
		"key":       key,
		"has_ttl":   ttl > 0,
	})
	return nil
}

// Delete removes a value
func (m *MemoryStore) Delete(ctx context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.store, key)
	return nil
}

// Exists checks whether a key is present and unexpired
func (m *MemoryStore) Exists(ctx context.Context, key string) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	entry, exists := m.store[key]
	if !exists {
		return false, nil
	}
	if !entry.expiresAt.IsZero() && time.Now().After(entry.expiresAt) {
		return false, nil
	}
	return true, nil
}
