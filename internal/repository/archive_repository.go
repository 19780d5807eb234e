package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"dropit/internal/model"
)

type ArchiveRepository struct {
	db *gorm.DB
}

func NewArchiveRepository(db *gorm.DB) *ArchiveRepository {
	return &ArchiveRepository{db: db}
}

func (r *ArchiveRepository) AutoMigrate() error {
	if err := r.db.AutoMigrate(&model.ArchivedMessage{}); err != nil {
		return fmt.Errorf("migrate archived messages failed: %w", err)
	}
	return nil
}

// Create ignores a message that was already archived, so redelivery is safe.
func (r *ArchiveRepository) Create(ctx context.Context, message *model.ArchivedMessage) error {
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "message_id"}}, DoNothing: true}).
		Create(message).Error
	if err != nil {
		return fmt.Errorf("archive message failed: %w", err)
	}
	return nil
}

func (r *ArchiveRepository) ListRecent(ctx context.Context, limit int) ([]model.ArchivedMessage, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}

	var messages []model.ArchivedMessage
	if err := r.db.WithContext(ctx).Order("timestamp DESC").Order("id DESC").Limit(limit).Find(&messages).Error; err != nil {
		return nil, fmt.Errorf("list archived messages failed: %w", err)
	}
	return messages, nil
}
