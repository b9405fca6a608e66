package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"meditrack-backend/internal/converter"
	"meditrack-backend/internal/delivery/dto"
	"meditrack-backend/internal/domain/entity"
	"meditrack-backend/internal/domain/repository"
	"meditrack-backend/pkg/validator"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

var (
	ErrEmergencyAccessNotFound = errors.New("emergency access not found")
	ErrContactNotFound         = errors.New("contact not found")
)

// Optimistic writes of the contact list before falling back to last write wins.
const maxContactWriteAttempts = 3

// errContactsUnchanged lets a mutation skip the write.
var errContactsUnchanged = errors.New("contacts unchanged")

type EmergencyUsecase interface {
	CreateOrRefreshAccess(ctx context.Context, userID string, sharedData []string) (*dto.CreateAccessResponse, error)
	GetEmergencyData(ctx context.Context, userID, accessID string) (*dto.EmergencyDataResponse, error)
	AddContact(ctx context.Context, userID string, req *dto.ContactRequest) ([]dto.ContactResponse, error)
	GetContacts(ctx context.Context, userID string) ([]dto.ContactResponse, error)
	GetContact(ctx context.Context, userID, contactID string) (*dto.ContactResponse, error)
	UpdateContact(ctx context.Context, userID, contactID string, patch entity.Patch) (*dto.ContactResponse, error)
	DeleteContact(ctx context.Context, userID, contactID string) error
}

type emergencyUsecase struct {
	db            *gorm.DB
	log           *logrus.Logger
	validator     *validator.CustomValidator
	userRepo      repository.UserRepository
	emergencyRepo repository.EmergencyAccessRepository
	publicWebURL  string
	now           func() time.Time
}

func NewEmergencyUsecase(
	db *gorm.DB,
	log *logrus.Logger,
	validator *validator.CustomValidator,
	userRepo repository.UserRepository,
	emergencyRepo repository.EmergencyAccessRepository,
	publicWebURL string,
	now func() time.Time,
) EmergencyUsecase {
	return &emergencyUsecase{
		db:            db,
		log:           log,
		validator:     validator,
		userRepo:      userRepo,
		emergencyRepo: emergencyRepo,
		publicWebURL:  publicWebURL,
		now:           now,
	}
}

// CreateOrRefreshAccess upserts the default record. A nil sharedData leaves
// the stored tags alone; contacts are never touched.
func (u *emergencyUsecase) CreateOrRefreshAccess(ctx context.Context, userID string, sharedData []string) (*dto.CreateAccessResponse, error) {
	access, err := u.newAccess(ctx, userID)
	if err != nil {
		return nil, err
	}

	var updateColumns []string
	if sharedData != nil {
		access.SharedData = sharedData
		updateColumns = append(updateColumns, "shared_data")
	}

	if err := u.emergencyRepo.Upsert(ctx, u.db, access, updateColumns); err != nil {
		u.log.Warnf("Failed to upsert emergency access: %+v", err)
		return nil, err
	}

	return &dto.CreateAccessResponse{
		AccessID:     entity.DefaultAccessID,
		EmergencyURL: emergencyURL(u.publicWebURL, entity.DefaultAccessID),
	}, nil
}

// newAccess builds a default record carrying the owner's current profile
// summary, used whenever the record has to be created outside EnsureUser.
func (u *emergencyUsecase) newAccess(ctx context.Context, userID string) (*entity.EmergencyAccess, error) {
	now := u.now()
	access := &entity.EmergencyAccess{
		UserID:            userID,
		AccessID:          entity.DefaultAccessID,
		SharedData:        datatypes.JSONSlice[string]{},
		EmergencyContacts: datatypes.JSONSlice[entity.EmergencyContact]{},
		CreatedAt:         now,
		UpdatedAt:         now,
	}

	user, err := u.userRepo.FindByID(ctx, u.db, userID)
	if err != nil {
		u.log.Warnf("Failed to find user: %+v", err)
		return nil, err
	}
	if user != nil {
		access.DisplayName = user.DisplayName
		access.BloodType = user.BloodType
		access.DateOfBirth = user.DateOfBirth
	}
	return access, nil
}

// GetEmergencyData is the public read path; the (userID, accessID) pair is
// the only capability required.
func (u *emergencyUsecase) GetEmergencyData(ctx context.Context, userID, accessID string) (*dto.EmergencyDataResponse, error) {
	access, err := u.emergencyRepo.FindByID(ctx, u.db, userID, accessID)
	if err != nil {
		u.log.Warnf("Failed to find emergency access: %+v", err)
		return nil, err
	}
	if access == nil {
		return nil, ErrEmergencyAccessNotFound
	}
	return converter.EmergencyAccessToResponse(access), nil
}

func (u *emergencyUsecase) AddContact(ctx context.Context, userID string, req *dto.ContactRequest) ([]dto.ContactResponse, error) {
	if err := u.validator.Validate(req); err != nil {
		return nil, newValidationError(u.validator.FormatValidationErrors(err))
	}

	now := u.now()
	contact := entity.EmergencyContact{
		ID:           uuid.NewString(),
		Name:         req.Name,
		Phone:        req.Phone,
		Relationship: req.Relationship,
		Email:        nonEmpty(req.Email),
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	contacts, err := u.writeContacts(ctx, userID, func(current []entity.EmergencyContact) ([]entity.EmergencyContact, error) {
		return append(current, contact), nil
	})
	if err != nil {
		return nil, err
	}
	return converter.ContactsToResponse(contacts), nil
}

func (u *emergencyUsecase) GetContacts(ctx context.Context, userID string) ([]dto.ContactResponse, error) {
	access, err := u.emergencyRepo.FindByID(ctx, u.db, userID, entity.DefaultAccessID)
	if err != nil {
		u.log.Warnf("Failed to find emergency access: %+v", err)
		return nil, err
	}
	return converter.ContactsToResponse(access.Contacts()), nil
}

func (u *emergencyUsecase) GetContact(ctx context.Context, userID, contactID string) (*dto.ContactResponse, error) {
	access, err := u.emergencyRepo.FindByID(ctx, u.db, userID, entity.DefaultAccessID)
	if err != nil {
		u.log.Warnf("Failed to find emergency access: %+v", err)
		return nil, err
	}

	i := access.FindContact(contactID)
	if i < 0 {
		return nil, ErrContactNotFound
	}
	resp := converter.ContactToResponse(access.Contacts()[i])
	return &resp, nil
}

// UpdateContact shallow-merges patch over the stored contact. The id and
// createdAt are preserved and updatedAt is refreshed.
func (u *emergencyUsecase) UpdateContact(ctx context.Context, userID, contactID string, patch entity.Patch) (*dto.ContactResponse, error) {
	var updated entity.EmergencyContact

	_, err := u.writeContacts(ctx, userID, func(current []entity.EmergencyContact) ([]entity.EmergencyContact, error) {
		for i, existing := range current {
			if existing.ID != contactID {
				continue
			}
			merged, err := u.mergeContact(existing, patch)
			if err != nil {
				return nil, err
			}
			current[i] = merged
			updated = merged
			return current, nil
		}
		return nil, ErrContactNotFound
	})
	if err != nil {
		return nil, err
	}

	resp := converter.ContactToResponse(updated)
	return &resp, nil
}

func (u *emergencyUsecase) mergeContact(existing entity.EmergencyContact, patch entity.Patch) (entity.EmergencyContact, error) {
	base, err := json.Marshal(existing)
	if err != nil {
		return existing, err
	}

	fields := map[string]json.RawMessage{}
	if err := json.Unmarshal(base, &fields); err != nil {
		return existing, err
	}
	for key, raw := range patch {
		switch key {
		case "id", "createdAt", "updatedAt":
			continue
		}
		fields[key] = raw
	}

	data, err := json.Marshal(fields)
	if err != nil {
		return existing, err
	}

	var merged entity.EmergencyContact
	if err := json.Unmarshal(data, &merged); err != nil {
		return existing, newValidationError(map[string]string{"contact": "contact fields have invalid types"})
	}
	merged.ID = existing.ID
	merged.CreatedAt = existing.CreatedAt
	merged.UpdatedAt = u.now()
	merged.Email = nonEmpty(merged.Email)

	check := dto.ContactRequest{
		Name:         merged.Name,
		Phone:        merged.Phone,
		Relationship: merged.Relationship,
		Email:        merged.Email,
	}
	if err := u.validator.Validate(&check); err != nil {
		return existing, newValidationError(u.validator.FormatValidationErrors(err))
	}

	return merged, nil
}

// DeleteContact removes the contact with contactID. Deleting an unknown
// contact is not an error.
func (u *emergencyUsecase) DeleteContact(ctx context.Context, userID, contactID string) error {
	_, err := u.writeContacts(ctx, userID, func(current []entity.EmergencyContact) ([]entity.EmergencyContact, error) {
		kept := make([]entity.EmergencyContact, 0, len(current))
		for _, c := range current {
			if c.ID != contactID {
				kept = append(kept, c)
			}
		}
		if len(kept) == len(current) {
			return nil, errContactsUnchanged
		}
		return kept, nil
	})
	if errors.Is(err, errContactsUnchanged) {
		return nil
	}
	return err
}

// writeContacts applies mutate to the stored contact list with an optimistic
// version check. After maxContactWriteAttempts conflicts the last mutation is
// written unconditionally. A missing record is created.
func (u *emergencyUsecase) writeContacts(ctx context.Context, userID string, mutate func([]entity.EmergencyContact) ([]entity.EmergencyContact, error)) ([]entity.EmergencyContact, error) {
	for attempt := 0; attempt < maxContactWriteAttempts; attempt++ {
		access, err := u.emergencyRepo.FindByID(ctx, u.db, userID, entity.DefaultAccessID)
		if err != nil {
			u.log.Warnf("Failed to find emergency access: %+v", err)
			return nil, err
		}

		contacts, err := mutate(cloneContacts(access.Contacts()))
		if err != nil {
			return nil, err
		}

		if access == nil {
			created, err := u.newAccess(ctx, userID)
			if err != nil {
				return nil, err
			}
			created.EmergencyContacts = contacts
			err = u.emergencyRepo.Create(ctx, u.db, created)
			if err == nil {
				return contacts, nil
			}
			if !errors.Is(err, repository.ErrAlreadyExists) {
				u.log.Warnf("Failed to create emergency access: %+v", err)
				return nil, err
			}
			continue
		}

		swapped, err := u.emergencyRepo.CompareAndSwapContacts(ctx, u.db, userID, entity.DefaultAccessID, access.Version, contacts)
		if err != nil {
			u.log.Warnf("Failed to write emergency contacts: %+v", err)
			return nil, err
		}
		if swapped {
			return contacts, nil
		}
	}

	u.log.Warnf("Emergency contacts of %s kept changing, writing last version", userID)

	access, err := u.emergencyRepo.FindByID(ctx, u.db, userID, entity.DefaultAccessID)
	if err != nil {
		u.log.Warnf("Failed to find emergency access: %+v", err)
		return nil, err
	}
	contacts, err := mutate(cloneContacts(access.Contacts()))
	if err != nil {
		return nil, err
	}
	written, err := u.emergencyRepo.ForceContacts(ctx, u.db, userID, entity.DefaultAccessID, contacts)
	if err != nil {
		u.log.Warnf("Failed to write emergency contacts: %+v", err)
		return nil, err
	}
	if written {
		return contacts, nil
	}

	// The record was removed between attempts.
	created, err := u.newAccess(ctx, userID)
	if err != nil {
		return nil, err
	}
	created.EmergencyContacts = contacts
	err = u.emergencyRepo.Create(ctx, u.db, created)
	if errors.Is(err, repository.ErrAlreadyExists) {
		_, err = u.emergencyRepo.ForceContacts(ctx, u.db, userID, entity.DefaultAccessID, contacts)
	}
	if err != nil {
		u.log.Warnf("Failed to write emergency contacts: %+v", err)
		return nil, err
	}
	return contacts, nil
}

func cloneContacts(contacts []entity.EmergencyContact) []entity.EmergencyContact {
	return append(make([]entity.EmergencyContact, 0, len(contacts)+1), contacts...)
}
