package mocks

import (
	"context"
	"sync"

	"github.com/seu-repo/voicebook/internal/domain"
)

// MockCommandLogRepository is a mock implementation of CommandLogRepository
type MockCommandLogRepository struct {
	mu                   sync.Mutex
	entries              []domain.CommandLogEntry
	SaveFunc             func(ctx context.Context, entry *domain.CommandLogEntry) error
	FindRecentByUserFunc func(ctx context.Context, userID string, limit int) ([]domain.CommandLogEntry, error)
}

func NewMockCommandLogRepository() *MockCommandLogRepository {
	return &MockCommandLogRepository{}
}

func (m *MockCommandLogRepository) Save(ctx context.Context, entry *domain.CommandLogEntry) error {
	if m.SaveFunc != nil {
		return m.SaveFunc(ctx, entry)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries = append(m.entries, *entry)
	return nil
}

func (m *MockCommandLogRepository) FindRecentByUser(ctx context.Context, userID string, limit int) ([]domain.CommandLogEntry, error) {
	if m.FindRecentByUserFunc != nil {
		return m.FindRecentByUserFunc(ctx, userID, limit)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []domain.CommandLogEntry
	for i := len(m.entries) - 1; i >= 0 && (limit <= 0 || len(out) < limit); i-- {
		if m.entries[i].UserID == userID {
			out = append(out, m.entries[i])
		}
	}
	return out, nil
}

// Entries returns every saved entry in insertion order.
func (m *MockCommandLogRepository) Entries() []domain.CommandLogEntry {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]domain.CommandLogEntry(nil), m.entries...)
}
