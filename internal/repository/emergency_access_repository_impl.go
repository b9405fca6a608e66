package repository

import (
	"context"
	"errors"
	"time"

	"meditrack-backend/internal/domain/entity"
	domainRepo "meditrack-backend/internal/domain/repository"

	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type emergencyAccessRepository struct{}

func NewEmergencyAccessRepository() domainRepo.EmergencyAccessRepository {
	return &emergencyAccessRepository{}
}

// Create runs inside a savepoint so a duplicate does not abort an enclosing
// transaction.
func (r *emergencyAccessRepository) Create(ctx context.Context, db *gorm.DB, record *entity.EmergencyAccess) error {
	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Create(record).Error
	})
	if isUniqueViolation(err) {
		return domainRepo.ErrAlreadyExists
	}
	return err
}

func (r *emergencyAccessRepository) FindByID(ctx context.Context, db *gorm.DB, userID, accessID string) (*entity.EmergencyAccess, error) {
	var record entity.EmergencyAccess
	err := db.WithContext(ctx).
		Where("user_id = ? AND access_id = ?", userID, accessID).
		First(&record).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &record, nil
}

func (r *emergencyAccessRepository) Upsert(ctx context.Context, db *gorm.DB, record *entity.EmergencyAccess, updateColumns []string) error {
	columns := append([]string{}, updateColumns...)
	columns = append(columns, "updated_at")

	return db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}, {Name: "access_id"}},
			DoUpdates: clause.AssignmentColumns(columns),
		}).
		Create(record).Error
}

func (r *emergencyAccessRepository) CompareAndSwapContacts(ctx context.Context, db *gorm.DB, userID, accessID string, version int64, contacts []entity.EmergencyContact) (bool, error) {
	result := db.WithContext(ctx).
		Model(&entity.EmergencyAccess{}).
		Where("user_id = ? AND access_id = ? AND version = ?", userID, accessID, version).
		Updates(map[string]interface{}{
			"emergency_contacts": datatypes.JSONSlice[entity.EmergencyContact](contacts),
			"version":            gorm.Expr("version + 1"),
			"updated_at":         time.Now(),
		})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected == 1, nil
}

func (r *emergencyAccessRepository) ForceContacts(ctx context.Context, db *gorm.DB, userID, accessID string, contacts []entity.EmergencyContact) (bool, error) {
	result := db.WithContext(ctx).
		Model(&entity.EmergencyAccess{}).
		Where("user_id = ? AND access_id = ?", userID, accessID).
		Updates(map[string]interface{}{
			"emergency_contacts": datatypes.JSONSlice[entity.EmergencyContact](contacts),
			"version":            gorm.Expr("version + 1"),
			"updated_at":         time.Now(),
		})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected == 1, nil
}
