package bootstrap

import (
	"context"
	"encoding/json"
	"fmt"

	"meditrack-backend/internal/delivery/dto"
	"meditrack-backend/internal/domain/entity"
	"meditrack-backend/pkg/jwt"
)

// DefaultSeedUserID is the subject id used by the seed command.
const DefaultSeedUserID = "test_user_001"

type seedNote struct {
	title    string
	content  string
	category string
}

// Seed fills the database with a sample user and their records. Records are
// only created for a user that did not exist yet.
func (app *App) Seed(ctx context.Context, uid string) error {
	uc := app.Usecases
	name := "John Doe"

	user, err := uc.User.EnsureUser(ctx, &jwt.Identity{SubjectID: uid, Email: "john@example.com", DisplayName: &name})
	if err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}

	profile, err := patch(map[string]interface{}{
		"phone":       "+1234567890",
		"dateOfBirth": "1990-05-15",
		"bloodType":   "O+",
		"weight":      75,
		"height":      178,
		"allergies":   []string{"Penicillin", "Aspirin"},
	})
	if err != nil {
		return err
	}
	if _, err := uc.User.UpdateProfile(ctx, uid, profile); err != nil {
		return fmt.Errorf("failed to update profile: %w", err)
	}
	app.Log.Infof("Seeded profile for %s", uid)

	if !user.IsNewUser {
		app.Log.Infof("User %s already existed, skipping sample records", uid)
		return nil
	}

	reminders := []dto.CreateReminderRequest{
		{MedicineName: "Aspirin", Dosage: "500mg", Time: "09:00 AM", Repeat: "daily"},
		{MedicineName: "Vitamin D", Dosage: "1000 IU", Time: "08:00 AM", Repeat: "daily"},
		{MedicineName: "Metformin", Dosage: "500mg", Time: "02:00 PM", Repeat: "twice daily"},
	}
	for i := range reminders {
		if _, err := uc.Reminder.Create(ctx, uid, &reminders[i]); err != nil {
			return fmt.Errorf("failed to create reminder: %w", err)
		}
	}

	prescriptions := []dto.CreatePrescriptionRequest{
		{
			DoctorName: strPtr("Dr. Smith"),
			Hospital:   strPtr("General Hospital"),
			DateIssued: strPtr("2024-11-01"),
			Notes:      strPtr("Take with food"),
			FileURL:    strPtr("https://example.com/prescription1.pdf"),
			FileType:   strPtr("application/pdf"),
		},
		{
			DoctorName: strPtr("Dr. Johnson"),
			Hospital:   strPtr("City Medical Center"),
			DateIssued: strPtr("2024-12-01"),
			Notes:      strPtr("Take before meals"),
			FileURL:    strPtr("https://example.com/prescription2.pdf"),
			FileType:   strPtr("application/pdf"),
		},
	}
	for i := range prescriptions {
		if _, err := uc.Prescription.Create(ctx, uid, &prescriptions[i], nil); err != nil {
			return fmt.Errorf("failed to create prescription: %w", err)
		}
	}

	notes := []seedNote{
		{title: "Blood Pressure Check", content: "BP: 120/80 mmHg - Normal", category: "Vitals"},
		{title: "Weight Update", content: "Current weight: 75 kg", category: "Health"},
	}
	for _, n := range notes {
		noteID, err := uc.HealthNote.Create(ctx, uid, &dto.CreateHealthNoteRequest{Title: n.title, Content: n.content})
		if err != nil {
			return fmt.Errorf("failed to create note: %w", err)
		}
		extra, err := patch(map[string]interface{}{"category": n.category})
		if err != nil {
			return err
		}
		if err := uc.HealthNote.Update(ctx, uid, noteID, extra); err != nil {
			return fmt.Errorf("failed to tag note: %w", err)
		}
	}

	contacts := []dto.ContactRequest{
		{Name: "Jane Doe", Relationship: "Spouse", Phone: "+1234567891", Email: strPtr("jane@example.com")},
		{Name: "Mike Doe", Relationship: "Son", Phone: "+1234567892", Email: strPtr("mike@example.com")},
	}
	for i := range contacts {
		if _, err := uc.Emergency.AddContact(ctx, uid, &contacts[i]); err != nil {
			return fmt.Errorf("failed to add contact: %w", err)
		}
	}

	access, err := uc.Emergency.CreateOrRefreshAccess(ctx, uid, []string{"bloodType", "allergies", "emergencyContacts"})
	if err != nil {
		return fmt.Errorf("failed to create emergency access: %w", err)
	}

	app.Log.Infof("Seeded %d reminders, %d prescriptions, %d notes and %d contacts for %s",
		len(reminders), len(prescriptions), len(notes), len(contacts), uid)
	app.Log.Infof("Emergency page: %s (uid %s)", access.EmergencyURL, uid)
	return nil
}

func patch(fields map[string]interface{}) (entity.Patch, error) {
	p := make(entity.Patch, len(fields))
	for k, v := range fields {
		raw, err := json.Marshal(v)
		if err != nil {
			return nil, fmt.Errorf("failed to encode %s: %w", k, err)
		}
		p[k] = raw
	}
	return p, nil
}

func strPtr(s string) *string {
	return &s
}
