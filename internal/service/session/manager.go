package session

import (
	"context"
	"fmt"
	"sync"

	"go.uber.org/zap"
)

// OpenFunc builds a session for a user.
type OpenFunc func(ctx context.Context, userID string) (*Session, error)

// Manager keeps one session per signed-in user.
type Manager struct {
	mu       sync.Mutex
	sessions map[string]*Session
	open     OpenFunc
	log      *zap.Logger
}

func NewManager(open OpenFunc, log *zap.Logger) *Manager {
	return &Manager{
		sessions: make(map[string]*Session),
		open:     open,
		log:      log,
	}
}

// Get returns the user's session, opening one on first use.
func (m *Manager) Get(ctx context.Context, userID string) (*Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if s, ok := m.sessions[userID]; ok {
		return s, nil
	}
	s, err := m.open(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("open session for %s: %w", userID, err)
	}
	m.sessions[userID] = s
	return s, nil
}

// Submit runs utterance through the user's session, opening it if needed.
func (m *Manager) Submit(ctx context.Context, userID, utterance string) (Result, error) {
	s, err := m.Get(ctx, userID)
	if err != nil {
		return Result{}, err
	}
	return s.Submit(ctx, utterance)
}

// Lookup returns an existing session without opening one.
func (m *Manager) Lookup(userID string) (*Session, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sessions[userID]
	return s, ok
}

// Close ends the user's session, if any.
func (m *Manager) Close(userID string) {
	m.mu.Lock()
	s, ok := m.sessions[userID]
	delete(m.sessions, userID)
	m.mu.Unlock()
	if ok {
		s.Close()
	}
}

// CloseAll ends every session. Used on shutdown.
func (m *Manager) CloseAll() {
	m.mu.Lock()
	sessions := m.sessions
	m.sessions = make(map[string]*Session)
	m.mu.Unlock()

	for _, s := range sessions {
		s.Close()
	}
	m.log.Info("All voice sessions closed", zap.Int("count", len(sessions)))
}

func (m *Manager) Count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sessions)
}
