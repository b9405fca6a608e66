package dto

import "time"

type CreateHealthNoteRequest struct {
	Title   string `json:"title"`
	Content string `json:"content"`
}

type HealthNoteResponse struct {
	NoteID    string                 `json:"noteId"`
	Title     string                 `json:"title"`
	Content   string                 `json:"content"`
	CreatedAt time.Time              `json:"createdAt"`
	UpdatedAt time.Time              `json:"updatedAt"`
	Extras    map[string]interface{} `json:"-"`
}

func (n HealthNoteResponse) MarshalJSON() ([]byte, error) {
	type alias HealthNoteResponse
	return marshalWithExtras(alias(n), n.Extras)
}
