package store

import (
	"context"
	"sort"
	"sync"
	"time"

	"truco-lite/truco"
)

// MemoryStore keeps game state in process memory. It mirrors the SQL
// stores' semantics, including ErrNotFound, for single-binary deployment
// and tests.
type MemoryStore struct {
	mu      sync.RWMutex
	games   map[string]truco.GameState
	updated map[string]time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		games:   make(map[string]truco.GameState),
		updated: make(map[string]time.Time),
	}
}

func (m *MemoryStore) Save(_ context.Context, st truco.GameState) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.games[st.ID] = st
	m.updated[st.ID] = time.Now()
	return nil
}

func (m *MemoryStore) Load(_ context.Context, gameID string) (truco.GameState, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	st, ok := m.games[gameID]
	if !ok {
		return truco.GameState{}, ErrNotFound
	}
	return st, nil
}

func (m *MemoryStore) Delete(_ context.Context, gameID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.games, gameID)
	delete(m.updated, gameID)
	return nil
}

func (m *MemoryStore) List(_ context.Context) ([]truco.GameState, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]truco.GameState, 0, len(m.games))
	for _, st := range m.games {
		out = append(out, st)
	}
	sort.Slice(out, func(i, j int) bool {
		return m.updated[out[i].ID].After(m.updated[out[j].ID])
	})
	return out, nil
}

func (m *MemoryStore) ListIdle(_ context.Context, cutoff time.Time) ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var ids []string
	for id, ts := range m.updated {
		if ts.Before(cutoff) {
			ids = append(ids, id)
		}
	}
	sort.Strings(ids)
	return ids, nil
}

func (m *MemoryStore) Close() error { return nil }
