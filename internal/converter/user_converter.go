package converter

import (
	"meditrack-backend/internal/delivery/dto"
	"meditrack-backend/internal/domain/entity"
)

// UserToProfileResponse converts a User and its emergency record (which may be
// nil) into the profile view.
func UserToProfileResponse(user *entity.User, access *entity.EmergencyAccess, emergencyURL string) *dto.ProfileResponse {
	if user == nil {
		return nil
	}

	resp := &dto.ProfileResponse{
		UID:               user.ID,
		Email:             user.Email,
		DisplayName:       user.DisplayName,
		PhotoURL:          user.PhotoURL,
		BloodType:         user.BloodType,
		DateOfBirth:       user.DateOfBirth,
		Weight:            user.Weight,
		Height:            user.Height,
		Phone:             user.Phone,
		Allergies:         user.Allergies,
		MedicalConditions: user.MedicalConditions,
		EmergencyAccess:   dto.EmergencyAccessSummary{SharedData: []string{}},
		CreatedAt:         user.CreatedAt,
		UpdatedAt:         user.UpdatedAt,
	}

	if access != nil {
		accessID := access.AccessID
		resp.EmergencyAccess.AccessID = &accessID
		resp.EmergencyAccess.EmergencyURL = &emergencyURL
		resp.EmergencyAccess.ContactCount = len(access.EmergencyContacts)
		if access.SharedData != nil {
			resp.EmergencyAccess.SharedData = access.SharedData
		}
	}

	return resp
}

func UserToCheckResponse(user *entity.User, isNewUser bool) *dto.CheckUserResponse {
	if user == nil {
		return nil
	}

	return &dto.CheckUserResponse{
		UID:         user.ID,
		Email:       user.Email,
		DisplayName: user.DisplayName,
		PhotoURL:    user.PhotoURL,
		IsNewUser:   isNewUser,
	}
}
