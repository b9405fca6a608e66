package dto

import "time"

type CreateReminderRequest struct {
	MedicineName string  `json:"medicineName"`
	Dosage       string  `json:"dosage"`
	Time         string  `json:"time"`
	Repeat       string  `json:"repeat"`
	ImageURL     *string `json:"imageURL"`
	VoiceNoteURL *string `json:"voiceNoteURL"`
}

type ReminderResponse struct {
	ReminderID   string                 `json:"reminderId"`
	MedicineName string                 `json:"medicineName"`
	Dosage       string                 `json:"dosage"`
	Time         string                 `json:"time"`
	Repeat       string                 `json:"repeat"`
	ImageURL     *string                `json:"imageURL"`
	VoiceNoteURL *string                `json:"voiceNoteURL"`
	Status       string                 `json:"status"`
	CreatedAt    time.Time              `json:"createdAt"`
	UpdatedAt    time.Time              `json:"updatedAt"`
	Extras       map[string]interface{} `json:"-"`
}

func (r ReminderResponse) MarshalJSON() ([]byte, error) {
	type alias ReminderResponse
	return marshalWithExtras(alias(r), r.Extras)
}
