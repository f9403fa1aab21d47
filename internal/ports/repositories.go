package ports

import (
	"context"

	"github.com/seu-repo/voicebook/internal/domain"
)

type CommandLogRepository interface {
	Save(ctx context.Context, entry *domain.CommandLogEntry) error
	FindRecentByUser(ctx context.Context, userID string, limit int) ([]domain.CommandLogEntry, error)
}
