package usecase

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"meditrack-backend/internal/converter"
	"meditrack-backend/internal/delivery/dto"
	"meditrack-backend/internal/domain/entity"
	"meditrack-backend/internal/domain/repository"
	"meditrack-backend/internal/infrastructure/storage"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

var (
	ErrPrescriptionNotFound = errors.New("prescription not found")
)

// UploadFailedWarning is returned to the caller when the record was saved but
// its attachment was not.
const UploadFailedWarning = "File upload failed; prescription saved without attachment"

// Attachment is a file sent along with a new prescription.
type Attachment struct {
	Name string
	Data []byte
}

type PrescriptionUsecase interface {
	Create(ctx context.Context, userID string, req *dto.CreatePrescriptionRequest, file *Attachment) (*dto.CreatePrescriptionResponse, error)
	List(ctx context.Context, userID string) ([]dto.PrescriptionResponse, error)
	GetByID(ctx context.Context, userID, id string) (*dto.PrescriptionResponse, error)
	Update(ctx context.Context, userID, id string, patch entity.Patch) error
	Delete(ctx context.Context, userID, id string) error
}

type prescriptionUsecase struct {
	db               *gorm.DB
	log              *logrus.Logger
	prescriptionRepo repository.PrescriptionRepository
	store            storage.ObjectStore
	records          *recordManager[entity.Prescription]
	now              func() time.Time
}

func NewPrescriptionUsecase(
	db *gorm.DB,
	log *logrus.Logger,
	prescriptionRepo repository.PrescriptionRepository,
	store storage.ObjectStore,
	now func() time.Time,
) PrescriptionUsecase {
	return &prescriptionUsecase{
		db:               db,
		log:              log,
		prescriptionRepo: prescriptionRepo,
		store:            store,
		records: &recordManager[entity.Prescription]{
			db:       db,
			log:      log,
			repo:     prescriptionRepo,
			schema:   entity.PrescriptionSchema,
			reserved: []string{"prescriptionId", "storagePath"},
			extras:   func(p *entity.Prescription) datatypes.JSONMap { return p.Extras },
			notFound: ErrPrescriptionNotFound,
			kind:     "prescription",
			now:      now,
		},
		now: now,
	}
}

// Create saves a prescription. When a file is attached it is uploaded first;
// an upload failure is logged and the record is saved without file fields.
func (u *prescriptionUsecase) Create(ctx context.Context, userID string, req *dto.CreatePrescriptionRequest, file *Attachment) (*dto.CreatePrescriptionResponse, error) {
	now := u.now()
	prescription := &entity.Prescription{
		ID:         uuid.NewString(),
		UserID:     userID,
		DoctorName: nonEmpty(req.DoctorName),
		Hospital:   nonEmpty(req.Hospital),
		DateIssued: now.UTC().Format(time.RFC3339),
		Notes:      nonEmpty(req.Notes),
		FileURL:    nonEmpty(req.FileURL),
		FileType:   nonEmpty(req.FileType),
		Extras:     datatypes.JSONMap{},
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if req.DateIssued != nil && *req.DateIssued != "" {
		prescription.DateIssued = *req.DateIssued
	}

	resp := &dto.CreatePrescriptionResponse{PrescriptionID: prescription.ID}

	if file != nil && len(file.Data) > 0 {
		object, err := u.upload(ctx, userID, file)
		if err != nil {
			u.log.Warnf("Failed to upload prescription file: %+v", err)
			resp.Warning = UploadFailedWarning
		} else {
			name := object.Name
			prescription.FileURL = &object.URL
			prescription.FileType = &object.ContentType
			prescription.FileName = &name
			prescription.StoragePath = &object.Path
		}
	}

	if err := u.prescriptionRepo.Create(ctx, u.db, prescription); err != nil {
		u.log.Warnf("Failed to create prescription: %+v", err)
		if prescription.HasAttachment() {
			if err := u.store.Delete(ctx, *prescription.StoragePath); err != nil {
				u.log.Warnf("Failed to remove orphaned prescription file: %+v", err)
			}
		}
		return nil, err
	}

	return resp, nil
}

func (u *prescriptionUsecase) upload(ctx context.Context, userID string, file *Attachment) (*storage.Object, error) {
	mime := mimetype.Detect(file.Data)

	name := sanitizeFileName(file.Name)
	if name == "" {
		name = "attachment" + mime.Extension()
	}

	path := fmt.Sprintf("prescriptions/%s/%s-%s", userID, uuid.NewString(), name)
	object, err := u.store.Upload(ctx, path, mime.String(), bytes.NewReader(file.Data))
	if err != nil {
		return nil, err
	}
	object.Name = name
	return object, nil
}

func sanitizeFileName(name string) string {
	name = filepath.Base(strings.ReplaceAll(name, "\\", "/"))
	if name == "." || name == "/" {
		return ""
	}
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '.', r == '-', r == '_':
			return r
		default:
			return '_'
		}
	}, name)
}

func (u *prescriptionUsecase) List(ctx context.Context, userID string) ([]dto.PrescriptionResponse, error) {
	prescriptions, err := u.records.list(ctx, userID)
	if err != nil {
		return nil, err
	}
	return converter.PrescriptionsToResponse(prescriptions), nil
}

func (u *prescriptionUsecase) GetByID(ctx context.Context, userID, id string) (*dto.PrescriptionResponse, error) {
	prescription, err := u.records.get(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	return converter.PrescriptionToResponse(prescription), nil
}

func (u *prescriptionUsecase) Update(ctx context.Context, userID, id string, patch entity.Patch) error {
	return u.records.update(ctx, userID, id, patch)
}

// Delete removes the record and then its uploaded file, if any. A failure to
// remove the file is only logged.
func (u *prescriptionUsecase) Delete(ctx context.Context, userID, id string) error {
	prescription, err := u.prescriptionRepo.FindByID(ctx, u.db, userID, id)
	if err != nil {
		u.log.Warnf("Failed to find prescription: %+v", err)
		return err
	}

	if err := u.records.delete(ctx, userID, id); err != nil {
		return err
	}

	if prescription != nil && prescription.HasAttachment() {
		if err := u.store.Delete(ctx, *prescription.StoragePath); err != nil {
			u.log.Warnf("Failed to delete prescription file %s: %+v", *prescription.StoragePath, err)
		}
	}

	return nil
}
