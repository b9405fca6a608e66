package usecase

import (
	"context"
	"testing"

	"meditrack-backend/internal/delivery/dto"
	"meditrack-backend/internal/domain/entity"
	"meditrack-backend/internal/domain/repository"
	repoImpl "meditrack-backend/internal/repository"
	"meditrack-backend/pkg/jwt"
	"meditrack-backend/pkg/validator"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func validContact(name string) *dto.ContactRequest {
	return &dto.ContactRequest{Name: name, Phone: "+1 555 0100", Relationship: "sister"}
}

func TestAddContact_MissingPhone(t *testing.T) {
	f := newProfileFixture(t)
	ctx := context.Background()
	_, err := f.users.EnsureUser(ctx, &jwt.Identity{SubjectID: "u1"})
	require.NoError(t, err)
	_, err = f.emergency.AddContact(ctx, "u1", validContact("Ann"))
	require.NoError(t, err)

	_, err = f.emergency.AddContact(ctx, "u1", &dto.ContactRequest{Name: "Bob", Relationship: "brother"})
	require.ErrorIs(t, err, ErrValidation)

	var vErr *ValidationError
	require.ErrorAs(t, err, &vErr)
	assert.Equal(t, "phone is required", vErr.Fields["phone"])

	contacts, err := f.emergency.GetContacts(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, contacts, 1)
	assert.Equal(t, "Ann", contacts[0].Name)
}

func TestAddContact_AppendsInOrder(t *testing.T) {
	f := newProfileFixture(t)
	ctx := context.Background()
	_, err := f.users.EnsureUser(ctx, &jwt.Identity{SubjectID: "u1"})
	require.NoError(t, err)

	_, err = f.emergency.AddContact(ctx, "u1", validContact("Ann"))
	require.NoError(t, err)
	contacts, err := f.emergency.AddContact(ctx, "u1", validContact("Bob"))
	require.NoError(t, err)

	require.Len(t, contacts, 2)
	assert.Equal(t, "Ann", contacts[0].Name)
	assert.Equal(t, "Bob", contacts[1].Name)
	assert.NotEmpty(t, contacts[0].ID)
	assert.NotEqual(t, contacts[0].ID, contacts[1].ID)

	one, err := f.emergency.GetContact(ctx, "u1", contacts[1].ID)
	require.NoError(t, err)
	assert.Equal(t, "Bob", one.Name)
}

func TestAddContact_CreatesMissingRecord(t *testing.T) {
	f := newProfileFixture(t)
	ctx := context.Background()

	contacts, err := f.emergency.AddContact(ctx, "u-without-record", validContact("Ann"))
	require.NoError(t, err)
	require.Len(t, contacts, 1)

	data, err := f.emergency.GetEmergencyData(ctx, "u-without-record", entity.DefaultAccessID)
	require.NoError(t, err)
	assert.Len(t, data.EmergencyContacts, 1)
}

func TestGetContacts_NoRecord(t *testing.T) {
	f := newProfileFixture(t)

	contacts, err := f.emergency.GetContacts(context.Background(), "nobody")
	require.NoError(t, err)
	assert.NotNil(t, contacts)
	assert.Empty(t, contacts)
}

func TestUpdateContact_MergesAndPreservesID(t *testing.T) {
	f := newProfileFixture(t)
	ctx := context.Background()
	_, err := f.users.EnsureUser(ctx, &jwt.Identity{SubjectID: "u1"})
	require.NoError(t, err)
	contacts, err := f.emergency.AddContact(ctx, "u1", validContact("Ann"))
	require.NoError(t, err)
	original := contacts[0]

	updated, err := f.emergency.UpdateContact(ctx, "u1", original.ID, patchOf(t, `{"phone":"+1 555 0199","id":"hijack","email":"ann@example.com"}`))
	require.NoError(t, err)

	assert.Equal(t, original.ID, updated.ID)
	assert.Equal(t, "Ann", updated.Name)
	assert.Equal(t, "sister", updated.Relationship)
	assert.Equal(t, "+1 555 0199", updated.Phone)
	require.NotNil(t, updated.Email)
	assert.Equal(t, "ann@example.com", *updated.Email)
	assert.True(t, original.CreatedAt.Equal(updated.CreatedAt))
	assert.True(t, updated.UpdatedAt.After(original.UpdatedAt))

	stored, err := f.emergency.GetContact(ctx, "u1", original.ID)
	require.NoError(t, err)
	assert.Equal(t, "+1 555 0199", stored.Phone)
}

func TestUpdateContact_NotFound(t *testing.T) {
	f := newProfileFixture(t)
	ctx := context.Background()
	_, err := f.users.EnsureUser(ctx, &jwt.Identity{SubjectID: "u1"})
	require.NoError(t, err)

	_, err = f.emergency.UpdateContact(ctx, "u1", "missing", patchOf(t, `{"name":"X"}`))
	assert.ErrorIs(t, err, ErrContactNotFound)

	_, err = f.emergency.GetContact(ctx, "u1", "missing")
	assert.ErrorIs(t, err, ErrContactNotFound)
}

func TestUpdateContact_RejectsEmptyRequiredField(t *testing.T) {
	f := newProfileFixture(t)
	ctx := context.Background()
	contacts, err := f.emergency.AddContact(ctx, "u1", validContact("Ann"))
	require.NoError(t, err)

	_, err = f.emergency.UpdateContact(ctx, "u1", contacts[0].ID, patchOf(t, `{"name":""}`))
	assert.ErrorIs(t, err, ErrValidation)
}

func TestDeleteContact(t *testing.T) {
	f := newProfileFixture(t)
	ctx := context.Background()
	_, err := f.users.EnsureUser(ctx, &jwt.Identity{SubjectID: "u1"})
	require.NoError(t, err)
	_, err = f.emergency.AddContact(ctx, "u1", validContact("Ann"))
	require.NoError(t, err)
	contacts, err := f.emergency.AddContact(ctx, "u1", validContact("Bob"))
	require.NoError(t, err)

	// Unknown id is a no-op.
	require.NoError(t, f.emergency.DeleteContact(ctx, "u1", "missing"))
	after, err := f.emergency.GetContacts(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, after, 2)
	assert.Equal(t, contacts[0].ID, after[0].ID)

	require.NoError(t, f.emergency.DeleteContact(ctx, "u1", contacts[0].ID))
	after, err = f.emergency.GetContacts(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, after, 1)
	assert.Equal(t, "Bob", after[0].Name)

	// No record at all is a no-op too.
	assert.NoError(t, f.emergency.DeleteContact(ctx, "nobody", "x"))
}

func TestCreateOrRefreshAccess_KeepsContacts(t *testing.T) {
	f := newProfileFixture(t)
	ctx := context.Background()
	_, err := f.users.EnsureUser(ctx, &jwt.Identity{SubjectID: "u1"})
	require.NoError(t, err)
	_, err = f.emergency.AddContact(ctx, "u1", validContact("Ann"))
	require.NoError(t, err)

	resp, err := f.emergency.CreateOrRefreshAccess(ctx, "u1", []string{"bloodType", "allergies"})
	require.NoError(t, err)
	assert.Equal(t, entity.DefaultAccessID, resp.AccessID)
	assert.Equal(t, testWebURL+"/emergency/default", resp.EmergencyURL)

	data, err := f.emergency.GetEmergencyData(ctx, "u1", entity.DefaultAccessID)
	require.NoError(t, err)
	assert.Equal(t, []string{"bloodType", "allergies"}, data.SharedData)
	assert.Len(t, data.EmergencyContacts, 1)

	// Omitting the tags keeps the stored ones.
	_, err = f.emergency.CreateOrRefreshAccess(ctx, "u1", nil)
	require.NoError(t, err)
	data, err = f.emergency.GetEmergencyData(ctx, "u1", entity.DefaultAccessID)
	require.NoError(t, err)
	assert.Equal(t, []string{"bloodType", "allergies"}, data.SharedData)
}

func TestCreateOrRefreshAccess_NewRecordCopiesProfile(t *testing.T) {
	f := newProfileFixture(t)
	ctx := context.Background()
	_, err := f.users.EnsureUser(ctx, &jwt.Identity{SubjectID: "u1"})
	require.NoError(t, err)
	_, err = f.users.UpdateProfile(ctx, "u1", patchOf(t, `{"bloodType":"AB+"}`))
	require.NoError(t, err)
	require.NoError(t, f.db.Where("user_id = ?", "u1").Delete(&entity.EmergencyAccess{}).Error)

	_, err = f.emergency.CreateOrRefreshAccess(ctx, "u1", []string{})
	require.NoError(t, err)

	data, err := f.emergency.GetEmergencyData(ctx, "u1", entity.DefaultAccessID)
	require.NoError(t, err)
	assert.Equal(t, "AB+", *data.BloodType)
	assert.Empty(t, data.SharedData)
}

func TestGetEmergencyData_NotFound(t *testing.T) {
	f := newProfileFixture(t)
	ctx := context.Background()
	_, err := f.users.EnsureUser(ctx, &jwt.Identity{SubjectID: "u1"})
	require.NoError(t, err)

	_, err = f.emergency.GetEmergencyData(ctx, "u1", "other")
	assert.ErrorIs(t, err, ErrEmergencyAccessNotFound)

	_, err = f.emergency.GetEmergencyData(ctx, "nobody", entity.DefaultAccessID)
	assert.ErrorIs(t, err, ErrEmergencyAccessNotFound)
}

// conflictingRepository loses every optimistic write, as if another request
// always changed the list first.
type conflictingRepository struct {
	repository.EmergencyAccessRepository
	swaps  int
	forced int
	// vanish deletes the record right before the first forced write.
	vanish bool
}

func (r *conflictingRepository) CompareAndSwapContacts(context.Context, *gorm.DB, string, string, int64, []entity.EmergencyContact) (bool, error) {
	r.swaps++
	return false, nil
}

func (r *conflictingRepository) ForceContacts(ctx context.Context, db *gorm.DB, userID, accessID string, contacts []entity.EmergencyContact) (bool, error) {
	r.forced++
	if r.vanish && r.forced == 1 {
		err := db.WithContext(ctx).
			Where("user_id = ? AND access_id = ?", userID, accessID).
			Delete(&entity.EmergencyAccess{}).Error
		if err != nil {
			return false, err
		}
	}
	return r.EmergencyAccessRepository.ForceContacts(ctx, db, userID, accessID, contacts)
}

func TestAddContact_FallsBackToLastWriteWins(t *testing.T) {
	db := newTestDB(t)
	clock := newTestClock()
	userRepo := repoImpl.NewUserRepository()
	repo := &conflictingRepository{EmergencyAccessRepository: repoImpl.NewEmergencyAccessRepository()}

	users := NewUserUsecase(db, quietLogger(), userRepo, repo, testWebURL, clock.Now)
	emergency := NewEmergencyUsecase(db, quietLogger(), validator.NewValidator(), userRepo, repo, testWebURL, clock.Now)

	ctx := context.Background()
	_, err := users.EnsureUser(ctx, &jwt.Identity{SubjectID: "u1"})
	require.NoError(t, err)

	contacts, err := emergency.AddContact(ctx, "u1", validContact("Ann"))
	require.NoError(t, err)
	assert.Len(t, contacts, 1)
	assert.Equal(t, maxContactWriteAttempts, repo.swaps)
	assert.Equal(t, 1, repo.forced)

	stored, err := emergency.GetContacts(ctx, "u1")
	require.NoError(t, err)
	assert.Len(t, stored, 1)
}

func TestAddContact_LastWriteRecreatesRemovedRecord(t *testing.T) {
	db := newTestDB(t)
	clock := newTestClock()
	userRepo := repoImpl.NewUserRepository()
	repo := &conflictingRepository{EmergencyAccessRepository: repoImpl.NewEmergencyAccessRepository(), vanish: true}

	users := NewUserUsecase(db, quietLogger(), userRepo, repo, testWebURL, clock.Now)
	emergency := NewEmergencyUsecase(db, quietLogger(), validator.NewValidator(), userRepo, repo, testWebURL, clock.Now)

	ctx := context.Background()
	_, err := users.EnsureUser(ctx, &jwt.Identity{SubjectID: "u1", DisplayName: strPtr("Ann")})
	require.NoError(t, err)

	contacts, err := emergency.AddContact(ctx, "u1", validContact("Bob"))
	require.NoError(t, err)
	assert.Len(t, contacts, 1)
	assert.Equal(t, 1, repo.forced)

	stored, err := emergency.GetContacts(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, stored, 1)
	assert.Equal(t, "Bob", stored[0].Name)

	data, err := emergency.GetEmergencyData(ctx, "u1", entity.DefaultAccessID)
	require.NoError(t, err)
	require.NotNil(t, data.DisplayName)
	assert.Equal(t, "Ann", *data.DisplayName)
}

func TestForceContacts_ReportsMissingRecord(t *testing.T) {
	db := newTestDB(t)
	repo := repoImpl.NewEmergencyAccessRepository()
	ctx := context.Background()

	written, err := repo.ForceContacts(ctx, db, "u1", entity.DefaultAccessID, []entity.EmergencyContact{{ID: "a"}})
	require.NoError(t, err)
	assert.False(t, written)

	require.NoError(t, repo.Create(ctx, db, &entity.EmergencyAccess{
		UserID:   "u1",
		AccessID: entity.DefaultAccessID,
	}))

	written, err = repo.ForceContacts(ctx, db, "u1", entity.DefaultAccessID, []entity.EmergencyContact{{ID: "a"}})
	require.NoError(t, err)
	assert.True(t, written)
}

func TestCompareAndSwapContacts_DetectsStaleVersion(t *testing.T) {
	db := newTestDB(t)
	repo := repoImpl.NewEmergencyAccessRepository()
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, db, &entity.EmergencyAccess{
		UserID:   "u1",
		AccessID: entity.DefaultAccessID,
	}))

	ok, err := repo.CompareAndSwapContacts(ctx, db, "u1", entity.DefaultAccessID, 0, []entity.EmergencyContact{{ID: "a"}})
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = repo.CompareAndSwapContacts(ctx, db, "u1", entity.DefaultAccessID, 0, []entity.EmergencyContact{{ID: "b"}})
	require.NoError(t, err)
	assert.False(t, ok)

	stored, err := repo.FindByID(ctx, db, "u1", entity.DefaultAccessID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), stored.Version)
	assert.Equal(t, "a", stored.Contacts()[0].ID)
}
