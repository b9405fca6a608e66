package repository

import (
	"context"
	"errors"

	"meditrack-backend/internal/domain/entity"
	domainRepo "meditrack-backend/internal/domain/repository"

	"gorm.io/gorm"
)

// recordRepository implements the per-user CRUD shared by reminders,
// prescriptions and health notes.
type recordRepository[T domainRepo.Record] struct{}

func NewReminderRepository() domainRepo.ReminderRepository {
	return &recordRepository[entity.Reminder]{}
}

func NewPrescriptionRepository() domainRepo.PrescriptionRepository {
	return &recordRepository[entity.Prescription]{}
}

func NewHealthNoteRepository() domainRepo.HealthNoteRepository {
	return &recordRepository[entity.HealthNote]{}
}

func (r *recordRepository[T]) Create(ctx context.Context, db *gorm.DB, record *T) error {
	return db.WithContext(ctx).Create(record).Error
}

func (r *recordRepository[T]) FindAllByUserID(ctx context.Context, db *gorm.DB, userID string) ([]T, error) {
	records := []T{}
	err := db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&records).Error
	if err != nil {
		return nil, err
	}
	return records, nil
}

func (r *recordRepository[T]) FindByID(ctx context.Context, db *gorm.DB, userID, id string) (*T, error) {
	var record T
	err := db.WithContext(ctx).
		Where("user_id = ? AND id = ?", userID, id).
		First(&record).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &record, nil
}

func (r *recordRepository[T]) UpdateColumns(ctx context.Context, db *gorm.DB, userID, id string, columns map[string]interface{}) (int64, error) {
	result := db.WithContext(ctx).
		Model(new(T)).
		Where("user_id = ? AND id = ?", userID, id).
		Updates(columns)
	return result.RowsAffected, result.Error
}

func (r *recordRepository[T]) Delete(ctx context.Context, db *gorm.DB, userID, id string) error {
	return db.WithContext(ctx).
		Where("user_id = ? AND id = ?", userID, id).
		Delete(new(T)).Error
}
