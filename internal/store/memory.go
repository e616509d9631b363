package store

import (
	"context"
	"sync"
)

// MemoryGateway keeps documents in process memory.
type MemoryGateway struct {
	mu   sync.RWMutex
	docs map[string][]byte
}

// NewMemoryGateway creates an empty MemoryGateway.
func NewMemoryGateway() *MemoryGateway {
	return &MemoryGateway{docs: map[string][]byte{}}
}

func (g *MemoryGateway) Read(_ context.Context, key string) ([]byte, error) {
	g.mu.RLock()
	defer g.mu.RUnlock()

	v, ok := g.docs[key]
	if !ok {
		return nil, ErrKeyNotFound
	}
	return append([]byte(nil), v...), nil
}

func (g *MemoryGateway) Write(_ context.Context, key string, value []byte) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.docs[key] = append([]byte(nil), value...)
	return nil
}

// Clear drops every document.
func (g *MemoryGateway) Clear() {
	g.mu.Lock()
	g.docs = map[string][]byte{}
	g.mu.Unlock()
}
