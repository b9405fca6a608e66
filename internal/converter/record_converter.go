package converter

import (
	"meditrack-backend/internal/delivery/dto"
	"meditrack-backend/internal/domain/entity"
)

func ReminderToResponse(r *entity.Reminder) *dto.ReminderResponse {
	if r == nil {
		return nil
	}

	return &dto.ReminderResponse{
		ReminderID:   r.ID,
		MedicineName: r.MedicineName,
		Dosage:       r.Dosage,
		Time:         r.Time,
		Repeat:       r.Repeat,
		ImageURL:     r.ImageURL,
		VoiceNoteURL: r.VoiceNoteURL,
		Status:       r.Status,
		CreatedAt:    r.CreatedAt,
		UpdatedAt:    r.UpdatedAt,
		Extras:       r.Extras,
	}
}

func RemindersToResponse(reminders []entity.Reminder) []dto.ReminderResponse {
	responses := make([]dto.ReminderResponse, 0, len(reminders))
	for i := range reminders {
		responses = append(responses, *ReminderToResponse(&reminders[i]))
	}
	return responses
}

// PrescriptionToResponse leaves out the storage path, which is internal.
func PrescriptionToResponse(p *entity.Prescription) *dto.PrescriptionResponse {
	if p == nil {
		return nil
	}

	return &dto.PrescriptionResponse{
		PrescriptionID: p.ID,
		DoctorName:     p.DoctorName,
		Hospital:       p.Hospital,
		DateIssued:     p.DateIssued,
		Notes:          p.Notes,
		FileURL:        p.FileURL,
		FileType:       p.FileType,
		FileName:       p.FileName,
		CreatedAt:      p.CreatedAt,
		UpdatedAt:      p.UpdatedAt,
		Extras:         p.Extras,
	}
}

func PrescriptionsToResponse(prescriptions []entity.Prescription) []dto.PrescriptionResponse {
	responses := make([]dto.PrescriptionResponse, 0, len(prescriptions))
	for i := range prescriptions {
		responses = append(responses, *PrescriptionToResponse(&prescriptions[i]))
	}
	return responses
}

func HealthNoteToResponse(n *entity.HealthNote) *dto.HealthNoteResponse {
	if n == nil {
		return nil
	}

	return &dto.HealthNoteResponse{
		NoteID:    n.ID,
		Title:     n.Title,
		Content:   n.Content,
		CreatedAt: n.CreatedAt,
		UpdatedAt: n.UpdatedAt,
		Extras:    n.Extras,
	}
}

func HealthNotesToResponse(notes []entity.HealthNote) []dto.HealthNoteResponse {
	responses := make([]dto.HealthNoteResponse, 0, len(notes))
	for i := range notes {
		responses = append(responses, *HealthNoteToResponse(&notes[i]))
	}
	return responses
}
