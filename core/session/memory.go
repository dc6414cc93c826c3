package session

import (
	"context"
	"sync"
)

// MemoryBackend keeps sessions in process memory.
type MemoryBackend struct {
	mu       sync.RWMutex
	sessions map[string]Session
}

var _ Backend = (*MemoryBackend)(nil)

func NewMemoryBackend() *MemoryBackend {
	return &MemoryBackend{sessions: make(map[string]Session)}
}

func (b *MemoryBackend) Load(_ context.Context, id string) (Session, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.sessions[id], nil
}

func (b *MemoryBackend) Save(_ context.Context, id string, s Session) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.sessions[id] = s
	return nil
}

func (b *MemoryBackend) Delete(_ context.Context, id string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	delete(b.sessions, id)
	return nil
}

// Len returns the number of stored sessions.
func (b *MemoryBackend) Len() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.sessions)
}
