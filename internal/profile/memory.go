// internal/profile/memory.go
//
// In-memory implementation of Backend/KV.
// Used in tests and when no database path is configured.
// State is lost when the process restarts.

package profile

import (
	"context"
	"sync"
)

// memory is a map-based Backend; each player gets its own key space.
type memory struct {
	mu   sync.RWMutex                 // guards data
	data map[string]map[string]string // playerID → key → value
}

// NewMemoryBackend constructs an empty in-memory Backend.
func NewMemoryBackend() Backend {
	return &memory{data: make(map[string]map[string]string)}
}

// KV returns the key space for playerID.
func (m *memory) KV(playerID string) KV {
	return &memoryKV{m: m, player: playerID}
}

type memoryKV struct {
	m      *memory
	player string
}

func (k *memoryKV) Get(ctx context.Context, key string) (string, bool, error) {
	k.m.mu.RLock()
	defer k.m.mu.RUnlock()
	v, ok := k.m.data[k.player][key]
	return v, ok, nil
}

func (k *memoryKV) Set(ctx context.Context, key, value string) error {
	k.m.mu.Lock()
	defer k.m.mu.Unlock()
	ns, ok := k.m.data[k.player]
	if !ok {
		ns = make(map[string]string)
		k.m.data[k.player] = ns
	}
	ns[key] = value
	return nil
}
