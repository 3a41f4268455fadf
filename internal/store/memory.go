// internal/store/memory.go
//
// In-memory registry of active sessions.
// A player has at most one live session per mode; starting a new one
// replaces the old entry.
//
// Characteristics:
//   - Stores *game.Session objects keyed by player ID and mode.
//   - Concurrency-safe via RWMutex (concurrent reads allowed, writes exclusive).
//   - State is lost when the process restarts.
//   - Get returns ErrNotFound for missing entries.

package store

import (
	"context"
	"errors"
	"sync"

	"github.com/robalobadob/defuse/internal/game"
)

var ErrNotFound = errors.New("not found")

// Store defines the persistence interface for active sessions.
// Implementations may be backed by memory (this package), Redis, SQL, etc.
type Store interface {
	// Save persists or replaces the player's session for s.Mode.
	Save(ctx context.Context, playerID string, s *game.Session) error

	// Get retrieves the player's session for mode.
	Get(ctx context.Context, playerID string, mode game.Mode) (*game.Session, error)

	// Delete drops the player's session for mode; missing entries are ignored.
	Delete(ctx context.Context, playerID string, mode game.Mode) error
}

type key struct {
	player string
	mode   game.Mode
}

// memory is an in-memory map-based Store implementation.
type memory struct {
	mu       sync.RWMutex           // guards sessions
	sessions map[key]*game.Session
}

// NewMemoryStore constructs a new in-memory Store.
func NewMemoryStore() Store {
	return &memory{sessions: make(map[key]*game.Session)}
}

func (m *memory) Save(ctx context.Context, playerID string, s *game.Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions[key{playerID, s.Mode}] = s
	return nil
}

func (m *memory) Get(ctx context.Context, playerID string, mode game.Mode) (*game.Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if s, ok := m.sessions[key{playerID, mode}]; ok {
		return s, nil
	}
	return nil, ErrNotFound
}

func (m *memory) Delete(ctx context.Context, playerID string, mode game.Mode) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, key{playerID, mode})
	return nil
}
