package postgres

import (
	"context"
	"fmt"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/seu-repo/voicebook/internal/domain"
	"github.com/seu-repo/voicebook/internal/ports"
)

const maxHistory = 200

type CommandLogRepository struct {
	db  *gorm.DB
	log *zap.Logger
}

func NewCommandLogRepository(db *gorm.DB, log *zap.Logger) ports.CommandLogRepository {
	return &CommandLogRepository{
		db:  db,
		log: log,
	}
}

func (r *CommandLogRepository) Save(ctx context.Context, entry *domain.CommandLogEntry) error {
	if err := r.db.WithContext(ctx).Create(entry).Error; err != nil {
		return fmt.Errorf("save command log %s: %w", entry.ID, err)
	}
	return nil
}

// FindRecentByUser returns the user's newest entries first.
func (r *CommandLogRepository) FindRecentByUser(ctx context.Context, userID string, limit int) ([]domain.CommandLogEntry, error) {
	if limit <= 0 || limit > maxHistory {
		limit = maxHistory
	}
	var entries []domain.CommandLogEntry
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Limit(limit).
		Find(&entries).Error
	if err != nil {
		return nil, err
	}
	return entries, nil
}
