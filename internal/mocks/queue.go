package mocks

import "sync"

// MockEventPublisher is a mock implementation of EventPublisher interface
type MockEventPublisher struct {
	mu                sync.Mutex
	PublishedMessages map[string][][]byte
	PublishFunc       func(subject string, data []byte) error
}

func NewMockEventPublisher() *MockEventPublisher {
	return &MockEventPublisher{
		PublishedMessages: make(map[string][][]byte),
	}
}

func (m *MockEventPublisher) Publish(subject string, data []byte) error {
	if m.PublishFunc != nil {
		return m.PublishFunc(subject, data)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.PublishedMessages[subject] = append(m.PublishedMessages[subject], data)
	return nil
}

// GetPublishedMessages returns all messages published to a subject
func (m *MockEventPublisher) GetPublishedMessages(subject string) [][]byte {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.PublishedMessages[subject]
}

// ClearMessages clears all published messages
func (m *MockEventPublisher) ClearMessages() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.PublishedMessages = make(map[string][][]byte)
}
