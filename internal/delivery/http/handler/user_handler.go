package handler

import (
	"errors"
	"net/http"

	"meditrack-backend/internal/delivery/http/middleware"
	"meditrack-backend/internal/usecase"
	"meditrack-backend/pkg/response"
)

type UserHandler struct {
	userUsecase usecase.UserUsecase
}

func NewUserHandler(userUsecase usecase.UserUsecase) *UserHandler {
	return &UserHandler{
		userUsecase: userUsecase,
	}
}

// CheckUser creates the caller's profile on first sight and reports whether
// it was new.
func (h *UserHandler) CheckUser(w http.ResponseWriter, r *http.Request) {
	identity, ok := middleware.GetIdentityFromContext(r.Context())
	if !ok {
		response.Unauthorized(w, "Invalid token")
		return
	}

	user, err := h.userUsecase.EnsureUser(r.Context(), identity)
	if err != nil {
		response.InternalServerError(w, "")
		return
	}

	response.Success(w, http.StatusOK, "User verified", response.Fields{
		"uid":         user.UID,
		"email":       user.Email,
		"displayName": user.DisplayName,
		"photoURL":    user.PhotoURL,
		"isNewUser":   user.IsNewUser,
	})
}

func (h *UserHandler) GetProfile(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUserID(w, r)
	if !ok {
		return
	}

	profile, err := h.userUsecase.GetProfile(r.Context(), userID)
	if err != nil {
		if errors.Is(err, usecase.ErrUserNotFound) {
			response.NotFound(w, "User not found")
			return
		}
		response.InternalServerError(w, "Failed to load profile")
		return
	}

	response.Success(w, http.StatusOK, "", response.Fields{"profile": profile})
}

func (h *UserHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUserID(w, r)
	if !ok {
		return
	}

	patch, ok := decodePatch(w, r)
	if !ok {
		return
	}

	profile, err := h.userUsecase.UpdateProfile(r.Context(), userID, patch)
	if err != nil {
		if writeValidationError(w, err) {
			return
		}
		if errors.Is(err, usecase.ErrUserNotFound) {
			response.NotFound(w, "User not found")
			return
		}
		response.InternalServerError(w, "Failed to update profile")
		return
	}

	response.Success(w, http.StatusOK, "Profile updated", response.Fields{"profile": profile})
}
