package auth

import (
	"context"
	"sync"
	"time"

	"github.com/ariefcatur/go-artisan-market/internal/clock"
)

// MemoryStore keeps sessions in process. Expired entries are dropped on access.
type MemoryStore struct {
	mu    sync.Mutex
	clock clock.Clock
	items map[string]memoryEntry
}

type memoryEntry struct {
	sess    Session
	expires time.Time
}

func NewMemoryStore(c clock.Clock) *MemoryStore {
	if c == nil {
		c = clock.RealClock{}
	}
	return &MemoryStore{clock: c, items: map[string]memoryEntry{}}
}

func (m *MemoryStore) Save(_ context.Context, s Session, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.items[s.ID] = memoryEntry{sess: s, expires: m.clock.Now().Add(ttl)}
	return nil
}

func (m *MemoryStore) Load(_ context.Context, id string) (Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.items[id]
	if !ok {
		return Session{}, ErrNoSession
	}
	if !m.clock.Now().Before(e.expires) {
		delete(m.items, id)
		return Session{}, ErrNoSession
	}
	return e.sess, nil
}

func (m *MemoryStore) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.items, id)
	return nil
}
