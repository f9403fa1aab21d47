package ports

import (
	"context"

	"github.com/seu-repo/voicebook/internal/domain"
)

// MediaUploader stores a blob and returns its public location.
type MediaUploader interface {
	Upload(ctx context.Context, blob []byte, filename, contentType string) (domain.Upload, error)
}

// AudioRecorder captures microphone audio.
type AudioRecorder interface {
	Start(ctx context.Context) error
	Stop(ctx context.Context) (domain.AudioClip, error)
}

// Notifier is the spoken/status feedback channel of a session.
type Notifier interface {
	Say(message string)
}

// EventPublisher fans processed commands out to other services.
type EventPublisher interface {
	Publish(subject string, data []byte) error
}

type SecretProvider interface {
	GeminiAPIKey(ctx context.Context) (string, error)
}
