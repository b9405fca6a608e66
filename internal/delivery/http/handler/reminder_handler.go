package handler

import (
	"errors"
	"net/http"

	"meditrack-backend/internal/delivery/dto"
	"meditrack-backend/internal/usecase"
	"meditrack-backend/pkg/response"

	"github.com/gorilla/mux"
)

type ReminderHandler struct {
	reminderUsecase usecase.ReminderUsecase
}

func NewReminderHandler(reminderUsecase usecase.ReminderUsecase) *ReminderHandler {
	return &ReminderHandler{
		reminderUsecase: reminderUsecase,
	}
}

func (h *ReminderHandler) CreateReminder(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUserID(w, r)
	if !ok {
		return
	}

	var req dto.CreateReminderRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	reminderID, err := h.reminderUsecase.Create(r.Context(), userID, &req)
	if err != nil {
		response.InternalServerError(w, "Failed to create reminder")
		return
	}

	response.Success(w, http.StatusCreated, "Reminder created", response.Fields{"reminderId": reminderID})
}

func (h *ReminderHandler) GetReminders(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUserID(w, r)
	if !ok {
		return
	}

	reminders, err := h.reminderUsecase.List(r.Context(), userID)
	if err != nil {
		response.InternalServerError(w, "Failed to load reminders")
		return
	}

	response.Success(w, http.StatusOK, "", response.Fields{"reminders": reminders})
}

func (h *ReminderHandler) GetReminder(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUserID(w, r)
	if !ok {
		return
	}

	reminder, err := h.reminderUsecase.GetByID(r.Context(), userID, mux.Vars(r)["id"])
	if err != nil {
		if errors.Is(err, usecase.ErrReminderNotFound) {
			response.NotFound(w, "Reminder not found")
			return
		}
		response.InternalServerError(w, "Failed to load reminder")
		return
	}

	response.Success(w, http.StatusOK, "", response.Fields{"reminder": reminder})
}

func (h *ReminderHandler) UpdateReminder(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUserID(w, r)
	if !ok {
		return
	}

	patch, ok := decodePatch(w, r)
	if !ok {
		return
	}

	if err := h.reminderUsecase.Update(r.Context(), userID, mux.Vars(r)["id"], patch); err != nil {
		if writeValidationError(w, err) {
			return
		}
		if errors.Is(err, usecase.ErrReminderNotFound) {
			response.NotFound(w, "Reminder not found")
			return
		}
		response.InternalServerError(w, "Failed to update reminder")
		return
	}

	response.Success(w, http.StatusOK, "Reminder updated", nil)
}

func (h *ReminderHandler) DeleteReminder(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUserID(w, r)
	if !ok {
		return
	}

	if err := h.reminderUsecase.Delete(r.Context(), userID, mux.Vars(r)["id"]); err != nil {
		response.InternalServerError(w, "Failed to delete reminder")
		return
	}

	response.Success(w, http.StatusOK, "Reminder deleted", nil)
}
