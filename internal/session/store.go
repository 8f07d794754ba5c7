// Package session keeps the transient purchase form state (alert text and the
// invite flag) next to, but never inside, the persisted draft.
package session

import (
	"context"
	"sync"
	"time"

	"game-market/internal/purchaseform"
)

// Store loads and saves form sessions keyed by purchase id. Get returns a
// zero Session for unknown or expired keys. Every access extends the TTL.
type Store interface {
	Get(ctx context.Context, purchaseID string) (purchaseform.Session, error)
	Save(ctx context.Context, purchaseID string, s purchaseform.Session) error
	Delete(ctx context.Context, purchaseID string) error
}

type memoryEntry struct {
	session   purchaseform.Session
	expiresAt time.Time
}

// MemoryStore is a process-local Store used when Redis is not configured.
type MemoryStore struct {
	mu      sync.Mutex
	ttl     time.Duration
	now     func() time.Time
	entries map[string]memoryEntry
}

func NewMemory(ttl time.Duration) *MemoryStore {
	return &MemoryStore{
		ttl:     ttl,
		now:     time.Now,
		entries: make(map[string]memoryEntry),
	}
}

func (m *MemoryStore) Get(_ context.Context, purchaseID string) (purchaseform.Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.entries[purchaseID]
	if !ok {
		return purchaseform.Session{}, nil
	}
	now := m.now()
	if now.After(e.expiresAt) {
		delete(m.entries, purchaseID)
		return purchaseform.Session{}, nil
	}
	e.expiresAt = now.Add(m.ttl)
	m.entries[purchaseID] = e
	return e.session, nil
}

func (m *MemoryStore) Save(_ context.Context, purchaseID string, s purchaseform.Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries[purchaseID] = memoryEntry{session: s, expiresAt: m.now().Add(m.ttl)}
	return nil
}

func (m *MemoryStore) Delete(_ context.Context, purchaseID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.entries, purchaseID)
	return nil
}
