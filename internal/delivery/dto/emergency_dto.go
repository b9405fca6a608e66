package dto

import "time"

type CreateAccessRequest struct {
	SharedData []string `json:"sharedData"`
}

type CreateAccessResponse struct {
	AccessID     string `json:"accessId"`
	EmergencyURL string `json:"emergencyURL"`
}

// EmergencyDataResponse is the public view of an emergency record.
type EmergencyDataResponse struct {
	UID               string            `json:"uid"`
	AccessID          string            `json:"accessId"`
	DisplayName       *string           `json:"displayName"`
	BloodType         *string           `json:"bloodType"`
	DateOfBirth       *string           `json:"dateOfBirth"`
	SharedData        []string          `json:"sharedData"`
	EmergencyContacts []ContactResponse `json:"emergencyContacts"`
	CreatedAt         time.Time         `json:"createdAt"`
	UpdatedAt         time.Time         `json:"updatedAt"`
}

// ContactRequest carries a new emergency contact.
type ContactRequest struct {
	Name         string  `json:"name" validate:"required,max=255"`
	Phone        string  `json:"phone" validate:"required,max=64"`
	Relationship string  `json:"relationship" validate:"required,max=64"`
	Email        *string `json:"email,omitempty" validate:"omitempty,max=255"`
}

type ContactResponse struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Phone        string    `json:"phone"`
	Relationship string    `json:"relationship"`
	Email        *string   `json:"email,omitempty"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}
