package usecase

import (
	"context"
	"encoding/base64"
	"strings"
	"testing"

	"meditrack-backend/internal/delivery/dto"
	repoImpl "meditrack-backend/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// 1x1 transparent PNG.
var tinyPNG, _ = base64.StdEncoding.DecodeString(
	"iVBORw0KGgoAAAANSUhEUgAAAAEAAAABCAQAAAC1HAwCAAAAC0lEQVR42mNkYAAAAAYAAjCB0C8AAAAASUVORK5CYII=")

func newPrescriptionUsecase(t *testing.T, store *fakeObjectStore) PrescriptionUsecase {
	t.Helper()
	return NewPrescriptionUsecase(newTestDB(t), quietLogger(), repoImpl.NewPrescriptionRepository(), store, newTestClock().Now)
}

func TestPrescription_CreateWithoutFile(t *testing.T) {
	store := newFakeObjectStore()
	uc := newPrescriptionUsecase(t, store)
	ctx := context.Background()

	resp, err := uc.Create(ctx, "u1", &dto.CreatePrescriptionRequest{DoctorName: strPtr("Dr. Lee")}, nil)
	require.NoError(t, err)
	assert.Empty(t, resp.Warning)

	p, err := uc.GetByID(ctx, "u1", resp.PrescriptionID)
	require.NoError(t, err)
	assert.Equal(t, "Dr. Lee", *p.DoctorName)
	assert.Nil(t, p.Hospital)
	assert.Equal(t, "2026-03-01T09:00:01Z", p.DateIssued)
	assert.Nil(t, p.FileURL)
	assert.Empty(t, store.objects)
}

func TestPrescription_CreateUploadsImage(t *testing.T) {
	store := newFakeObjectStore()
	uc := newPrescriptionUsecase(t, store)
	ctx := context.Background()

	resp, err := uc.Create(ctx, "u1",
		&dto.CreatePrescriptionRequest{DateIssued: strPtr("2026-02-20")},
		&Attachment{Name: "../scan 1.png", Data: tinyPNG})
	require.NoError(t, err)
	assert.Empty(t, resp.Warning)

	p, err := uc.GetByID(ctx, "u1", resp.PrescriptionID)
	require.NoError(t, err)
	assert.Equal(t, "2026-02-20", p.DateIssued)
	require.NotNil(t, p.FileType)
	assert.Equal(t, "image/png", *p.FileType)
	require.NotNil(t, p.FileName)
	assert.Equal(t, "scan_1.png", *p.FileName)
	require.NotNil(t, p.FileURL)
	assert.True(t, strings.HasPrefix(*p.FileURL, "https://files.test/prescriptions/u1/"))

	require.Len(t, store.objects, 1)
	for path, data := range store.objects {
		assert.True(t, strings.HasSuffix(path, "-scan_1.png"))
		assert.Equal(t, tinyPNG, data)
	}
}

func TestPrescription_UploadFailureKeepsRecord(t *testing.T) {
	store := newFakeObjectStore()
	store.uploadErr = errUpstream
	uc := newPrescriptionUsecase(t, store)
	ctx := context.Background()

	resp, err := uc.Create(ctx, "u1", &dto.CreatePrescriptionRequest{Notes: strPtr("twice a day")}, &Attachment{Name: "scan.png", Data: tinyPNG})
	require.NoError(t, err)
	assert.NotEmpty(t, resp.PrescriptionID)
	assert.Equal(t, UploadFailedWarning, resp.Warning)

	p, err := uc.GetByID(ctx, "u1", resp.PrescriptionID)
	require.NoError(t, err)
	assert.Equal(t, "twice a day", *p.Notes)
	assert.Nil(t, p.FileURL)
	assert.Nil(t, p.FileType)
}

func TestPrescription_DeleteRemovesFile(t *testing.T) {
	store := newFakeObjectStore()
	uc := newPrescriptionUsecase(t, store)
	ctx := context.Background()

	withFile, err := uc.Create(ctx, "u1", &dto.CreatePrescriptionRequest{}, &Attachment{Name: "scan.png", Data: tinyPNG})
	require.NoError(t, err)
	withoutFile, err := uc.Create(ctx, "u1", &dto.CreatePrescriptionRequest{FileURL: strPtr("https://elsewhere.test/x.pdf")}, nil)
	require.NoError(t, err)

	require.NoError(t, uc.Delete(ctx, "u1", withFile.PrescriptionID))
	assert.Len(t, store.deleted, 1)
	assert.Empty(t, store.objects)

	// A client-supplied URL has no stored object to remove.
	require.NoError(t, uc.Delete(ctx, "u1", withoutFile.PrescriptionID))
	assert.Len(t, store.deleted, 1)

	list, err := uc.List(ctx, "u1")
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestPrescription_DeleteIgnoresStoreFailure(t *testing.T) {
	store := newFakeObjectStore()
	uc := newPrescriptionUsecase(t, store)
	ctx := context.Background()

	resp, err := uc.Create(ctx, "u1", &dto.CreatePrescriptionRequest{}, &Attachment{Name: "scan.png", Data: tinyPNG})
	require.NoError(t, err)

	store.deleteErr = errUpstream
	require.NoError(t, uc.Delete(ctx, "u1", resp.PrescriptionID))

	_, err = uc.GetByID(ctx, "u1", resp.PrescriptionID)
	assert.ErrorIs(t, err, ErrPrescriptionNotFound)
}

func TestPrescription_UpdateCannotMoveStoragePath(t *testing.T) {
	store := newFakeObjectStore()
	uc := newPrescriptionUsecase(t, store)
	ctx := context.Background()

	resp, err := uc.Create(ctx, "u1", &dto.CreatePrescriptionRequest{}, &Attachment{Name: "scan.png", Data: tinyPNG})
	require.NoError(t, err)

	require.NoError(t, uc.Update(ctx, "u1", resp.PrescriptionID, patchOf(t, `{"storagePath":"prescriptions/u2/other.png","hospital":"City"}`)))
	require.NoError(t, uc.Delete(ctx, "u1", resp.PrescriptionID))

	require.Len(t, store.deleted, 1)
	assert.True(t, strings.HasPrefix(store.deleted[0], "prescriptions/u1/"))
}

func TestSanitizeFileName(t *testing.T) {
	assert.Equal(t, "report.pdf", sanitizeFileName("report.pdf"))
	assert.Equal(t, "passwd", sanitizeFileName("../../etc/passwd"))
	assert.Equal(t, "a_b.png", sanitizeFileName(`C:\scans\a b.png`))
	assert.Equal(t, "", sanitizeFileName(""))
}
