package queue

import (
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/seu-repo/voicebook/internal/ports"
)

// MessageQueue defines the interface for a message queue adapter
type MessageQueue interface {
	ports.EventPublisher
	Subscribe(subject string, handler func(data []byte) error) error
	Close() error
}

type Config struct {
	// Driver is one of "nats", "rabbitmq" or "local".
	Driver      string
	NATSURL     string
	RabbitMQURL string
}

// New connects the queue selected by cfg.Driver. An empty driver means the
// in-process queue.
func New(cfg Config, log *zap.Logger) (MessageQueue, error) {
	switch cfg.Driver {
	case "nats":
		return NewNATSQueue(cfg.NATSURL, log)
	case "rabbitmq":
		return NewRabbitMQQueue(cfg.RabbitMQURL, log)
	case "", "local":
		return NewLocalQueue(log), nil
	}
	return nil, fmt.Errorf("unknown queue driver %q", cfg.Driver)
}

// LocalQueue fans messages out to in-process subscribers. Handlers run on
// the publishing goroutine.
type LocalQueue struct {
	mu       sync.RWMutex
	handlers map[string][]func(data []byte) error
	closed   bool
	log      *zap.Logger
}

func NewLocalQueue(log *zap.Logger) *LocalQueue {
	return &LocalQueue{
		handlers: make(map[string][]func(data []byte) error),
		log:      log,
	}
}

func (q *LocalQueue) Publish(subject string, data []byte) error {
	q.mu.RLock()
	if q.closed {
		q.mu.RUnlock()
		return fmt.Errorf("local queue: closed")
	}
	handlers := append([]func(data []byte) error(nil), q.handlers[subject]...)
	q.mu.RUnlock()

	for _, h := range handlers {
		if err := h(data); err != nil {
			q.log.Error("Error processing message", zap.String("subject", subject), zap.Error(err))
		}
	}
	return nil
}

func (q *LocalQueue) Subscribe(subject string, handler func(data []byte) error) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.closed {
		return fmt.Errorf("local queue: closed")
	}
	q.handlers[subject] = append(q.handlers[subject], handler)
	return nil
}

func (q *LocalQueue) Close() error {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.closed = true
	q.handlers = nil
	return nil
}
