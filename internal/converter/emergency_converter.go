package converter

import (
	"meditrack-backend/internal/delivery/dto"
	"meditrack-backend/internal/domain/entity"
)

func EmergencyAccessToResponse(access *entity.EmergencyAccess) *dto.EmergencyDataResponse {
	if access == nil {
		return nil
	}

	sharedData := []string(access.SharedData)
	if sharedData == nil {
		sharedData = []string{}
	}

	return &dto.EmergencyDataResponse{
		UID:               access.UserID,
		AccessID:          access.AccessID,
		DisplayName:       access.DisplayName,
		BloodType:         access.BloodType,
		DateOfBirth:       access.DateOfBirth,
		SharedData:        sharedData,
		EmergencyContacts: ContactsToResponse(access.Contacts()),
		CreatedAt:         access.CreatedAt,
		UpdatedAt:         access.UpdatedAt,
	}
}

func ContactToResponse(contact entity.EmergencyContact) dto.ContactResponse {
	return dto.ContactResponse{
		ID:           contact.ID,
		Name:         contact.Name,
		Phone:        contact.Phone,
		Relationship: contact.Relationship,
		Email:        contact.Email,
		CreatedAt:    contact.CreatedAt,
		UpdatedAt:    contact.UpdatedAt,
	}
}

// ContactsToResponse never returns nil so the list always encodes as an array.
func ContactsToResponse(contacts []entity.EmergencyContact) []dto.ContactResponse {
	responses := make([]dto.ContactResponse, 0, len(contacts))
	for _, c := range contacts {
		responses = append(responses, ContactToResponse(c))
	}
	return responses
}
