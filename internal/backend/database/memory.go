package database

import (
	"context"
	"sync"
)

// MemoryDatabase keeps pairs in process memory. Nothing survives a restart.
type MemoryDatabase struct {
	mu    sync.RWMutex
	pairs map[string]ImagePair
}

func NewMemoryDatabase() *MemoryDatabase {
	return &MemoryDatabase{pairs: make(map[string]ImagePair)}
}

func (m *MemoryDatabase) CreateDatabase(ctx context.Context) error {
	return nil
}

func (m *MemoryDatabase) DoesDatabaseExist(ctx context.Context) bool {
	return true
}

func (m *MemoryDatabase) Close() error {
	return nil
}

func (m *MemoryDatabase) CreatePair(ctx context.Context, pair *ImagePair) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.pairs[pair.ID]; ok {
		return ErrDuplicateID
	}
	m.pairs[pair.ID] = *pair
	return nil
}

func (m *MemoryDatabase) GetAllPairs(ctx context.Context) ([]*ImagePair, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	pairs := make([]*ImagePair, 0, len(m.pairs))
	for _, pair := range m.pairs {
		p := pair
		pairs = append(pairs, &p)
	}
	return pairs, nil
}

func (m *MemoryDatabase) GetPairByID(ctx context.Context, id string) (*ImagePair, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	pair, ok := m.pairs[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &pair, nil
}

func (m *MemoryDatabase) UpdatePair(ctx context.Context, pair *ImagePair) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.pairs[pair.ID]; !ok {
		return ErrNotFound
	}
	m.pairs[pair.ID] = *pair
	return nil
}

func (m *MemoryDatabase) DeletePair(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.pairs[id]; !ok {
		return ErrNotFound
	}
	delete(m.pairs, id)
	return nil
}

func (m *MemoryDatabase) CountPairs(ctx context.Context) (int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.pairs), nil
}
