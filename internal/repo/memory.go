package repo

import (
	"context"
	"sync"

	"github.com/richardliu001/point-service/internal/model"
)

// MemoryPointStore is a process-local PointStore.
type MemoryPointStore struct {
	mu     sync.RWMutex
	points map[int64]model.UserPoint
}

func NewMemoryPointStore() *MemoryPointStore {
	return &MemoryPointStore{points: make(map[int64]model.UserPoint)}
}

func (m *MemoryPointStore) Get(_ context.Context, id int64) (model.UserPoint, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	p, ok := m.points[id]
	if !ok {
		return model.UserPoint{}, ErrNotFound
	}
	return p, nil
}

func (m *MemoryPointStore) Put(_ context.Context, p model.UserPoint) (model.UserPoint, error) {
	m.mu.Lock()
	m.points[p.ID] = p
	m.mu.Unlock()
	return p, nil
}

// MemoryHistoryStore is a process-local HistoryStore.
type MemoryHistoryStore struct {
	mu     sync.RWMutex
	cursor int64
	byUser map[int64][]model.PointHistory
}

func NewMemoryHistoryStore() *MemoryHistoryStore {
	return &MemoryHistoryStore{byUser: make(map[int64][]model.PointHistory)}
}

func (m *MemoryHistoryStore) Append(_ context.Context, h model.PointHistory) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.cursor++
	h.ID = m.cursor
	m.byUser[h.UserID] = append(m.byUser[h.UserID], h)
	return nil
}

func (m *MemoryHistoryStore) ListByUser(_ context.Context, userID int64) ([]model.PointHistory, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]model.PointHistory, len(m.byUser[userID]))
	copy(out, m.byUser[userID])
	return out, nil
}

var (
	_ PointStore   = (*MemoryPointStore)(nil)
	_ HistoryStore = (*MemoryHistoryStore)(nil)
)
