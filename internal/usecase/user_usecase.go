package usecase

import (
	"context"
	"errors"
	"time"

	"meditrack-backend/internal/converter"
	"meditrack-backend/internal/delivery/dto"
	"meditrack-backend/internal/domain/entity"
	"meditrack-backend/internal/domain/repository"
	"meditrack-backend/pkg/jwt"

	"github.com/sirupsen/logrus"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

var (
	ErrUserNotFound = errors.New("user not found")
)

type UserUsecase interface {
	EnsureUser(ctx context.Context, identity *jwt.Identity) (*dto.CheckUserResponse, error)
	GetProfile(ctx context.Context, userID string) (*dto.ProfileResponse, error)
	UpdateProfile(ctx context.Context, userID string, patch entity.Patch) (*dto.ProfileResponse, error)
}

type userUsecase struct {
	db            *gorm.DB
	log           *logrus.Logger
	userRepo      repository.UserRepository
	emergencyRepo repository.EmergencyAccessRepository
	publicWebURL  string
	now           func() time.Time
}

func NewUserUsecase(
	db *gorm.DB,
	log *logrus.Logger,
	userRepo repository.UserRepository,
	emergencyRepo repository.EmergencyAccessRepository,
	publicWebURL string,
	now func() time.Time,
) UserUsecase {
	return &userUsecase{
		db:            db,
		log:           log,
		userRepo:      userRepo,
		emergencyRepo: emergencyRepo,
		publicWebURL:  publicWebURL,
		now:           now,
	}
}

// EnsureUser creates the user and its default emergency record on first
// contact. Later calls change nothing.
func (u *userUsecase) EnsureUser(ctx context.Context, identity *jwt.Identity) (*dto.CheckUserResponse, error) {
	now := u.now()
	user := &entity.User{
		ID:          identity.SubjectID,
		Email:       nonEmpty(&identity.Email),
		DisplayName: nonEmpty(identity.DisplayName),
		PhotoURL:    nonEmpty(identity.PhotoURL),
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	created, err := u.userRepo.CreateIfAbsent(ctx, tx, user)
	if err != nil {
		u.log.Warnf("Failed to create user: %+v", err)
		return nil, err
	}

	if created {
		access := &entity.EmergencyAccess{
			UserID:            user.ID,
			AccessID:          entity.DefaultAccessID,
			SharedData:        datatypes.JSONSlice[string]{},
			EmergencyContacts: datatypes.JSONSlice[entity.EmergencyContact]{},
			CreatedAt:         now,
			UpdatedAt:         now,
		}
		if err := u.emergencyRepo.Create(ctx, tx, access); err != nil && !errors.Is(err, repository.ErrAlreadyExists) {
			u.log.Warnf("Failed to create emergency access: %+v", err)
			return nil, err
		}
	} else {
		user, err = u.userRepo.FindByID(ctx, tx, identity.SubjectID)
		if err != nil {
			u.log.Warnf("Failed to find user: %+v", err)
			return nil, err
		}
		if user == nil {
			return nil, ErrUserNotFound
		}
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return nil, err
	}

	if created {
		u.log.Infof("New user created: %s", user.ID)
	}

	return converter.UserToCheckResponse(user, created), nil
}

func (u *userUsecase) GetProfile(ctx context.Context, userID string) (*dto.ProfileResponse, error) {
	return u.loadProfile(ctx, u.db, userID)
}

// UpdateProfile writes the allow-listed keys of patch and mirrors displayName,
// bloodType and dateOfBirth into the emergency record.
func (u *userUsecase) UpdateProfile(ctx context.Context, userID string, patch entity.Patch) (*dto.ProfileResponse, error) {
	columns, _, err := entity.UserProfileSchema.Split(patch)
	if err != nil {
		return nil, patchValidationError(err)
	}

	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	user, err := u.userRepo.FindByID(ctx, tx, userID)
	if err != nil {
		u.log.Warnf("Failed to find user: %+v", err)
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}

	now := u.now()
	columns["updated_at"] = now
	if err := u.userRepo.UpdateColumns(ctx, tx, userID, columns); err != nil {
		u.log.Warnf("Failed to update user: %+v", err)
		return nil, err
	}

	if err := u.syncEmergencyAccess(ctx, tx, user, patch, columns, now); err != nil {
		u.log.Warnf("Failed to sync emergency access: %+v", err)
		return nil, err
	}

	profile, err := u.loadProfile(ctx, tx, userID)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return nil, err
	}

	return profile, nil
}

// syncEmergencyAccess copies the patched summary fields into the emergency
// record. When the record is missing it is recreated from user, the profile
// as loaded before this update, with the patched values on top.
func (u *userUsecase) syncEmergencyAccess(ctx context.Context, db *gorm.DB, user *entity.User, patch entity.Patch, columns map[string]interface{}, now time.Time) error {
	access := &entity.EmergencyAccess{
		UserID:            user.ID,
		AccessID:          entity.DefaultAccessID,
		DisplayName:       user.DisplayName,
		BloodType:         user.BloodType,
		DateOfBirth:       user.DateOfBirth,
		SharedData:        datatypes.JSONSlice[string]{},
		EmergencyContacts: datatypes.JSONSlice[entity.EmergencyContact]{},
		CreatedAt:         now,
		UpdatedAt:         now,
	}

	var synced []string
	for key, column := range entity.EmergencySyncedKeys {
		if !patch.Has(key) {
			continue
		}
		value, _ := columns[column].(*string)
		switch column {
		case "display_name":
			access.DisplayName = value
		case "blood_type":
			access.BloodType = value
		case "date_of_birth":
			access.DateOfBirth = value
		}
		synced = append(synced, column)
	}
	if len(synced) == 0 {
		return nil
	}

	return u.emergencyRepo.Upsert(ctx, db, access, synced)
}

func (u *userUsecase) loadProfile(ctx context.Context, db *gorm.DB, userID string) (*dto.ProfileResponse, error) {
	user, err := u.userRepo.FindByID(ctx, db, userID)
	if err != nil {
		u.log.Warnf("Failed to find user: %+v", err)
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}

	access, err := u.emergencyRepo.FindByID(ctx, db, userID, entity.DefaultAccessID)
	if err != nil {
		u.log.Warnf("Failed to find emergency access: %+v", err)
		return nil, err
	}

	return converter.UserToProfileResponse(user, access, emergencyURL(u.publicWebURL, entity.DefaultAccessID)), nil
}

func emergencyURL(publicWebURL, accessID string) string {
	return publicWebURL + "/emergency/" + accessID
}
