package repository

import (
	"context"

	"meditrack-backend/internal/domain/entity"

	"gorm.io/gorm"
)

type ChatLogRepository interface {
	Create(ctx context.Context, db *gorm.DB, log *entity.ChatLog) error
	FindRecentByUserID(ctx context.Context, db *gorm.DB, userID string, limit int) ([]entity.ChatLog, error)
}
