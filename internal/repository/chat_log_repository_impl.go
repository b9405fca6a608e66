package repository

import (
	"context"

	"meditrack-backend/internal/domain/entity"
	domainRepo "meditrack-backend/internal/domain/repository"

	"gorm.io/gorm"
)

type chatLogRepository struct{}

func NewChatLogRepository() domainRepo.ChatLogRepository {
	return &chatLogRepository{}
}

func (r *chatLogRepository) Create(ctx context.Context, db *gorm.DB, log *entity.ChatLog) error {
	return db.WithContext(ctx).Create(log).Error
}

func (r *chatLogRepository) FindRecentByUserID(ctx context.Context, db *gorm.DB, userID string, limit int) ([]entity.ChatLog, error) {
	logs := []entity.ChatLog{}
	err := db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("logged_at DESC").
		Limit(limit).
		Find(&logs).Error
	if err != nil {
		return nil, err
	}
	return logs, nil
}
