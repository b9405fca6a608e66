package handler

import (
	"errors"
	"net/http"

	"meditrack-backend/internal/delivery/dto"
	"meditrack-backend/internal/usecase"
	"meditrack-backend/pkg/response"

	"github.com/gorilla/mux"
)

type HealthNoteHandler struct {
	noteUsecase usecase.HealthNoteUsecase
}

func NewHealthNoteHandler(noteUsecase usecase.HealthNoteUsecase) *HealthNoteHandler {
	return &HealthNoteHandler{
		noteUsecase: noteUsecase,
	}
}

func (h *HealthNoteHandler) CreateNote(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUserID(w, r)
	if !ok {
		return
	}

	var req dto.CreateHealthNoteRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	noteID, err := h.noteUsecase.Create(r.Context(), userID, &req)
	if err != nil {
		response.InternalServerError(w, "Failed to create note")
		return
	}

	response.Success(w, http.StatusCreated, "Note created", response.Fields{"noteId": noteID})
}

func (h *HealthNoteHandler) GetNotes(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUserID(w, r)
	if !ok {
		return
	}

	notes, err := h.noteUsecase.List(r.Context(), userID)
	if err != nil {
		response.InternalServerError(w, "Failed to load notes")
		return
	}

	response.Success(w, http.StatusOK, "", response.Fields{"notes": notes})
}

func (h *HealthNoteHandler) GetNote(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUserID(w, r)
	if !ok {
		return
	}

	note, err := h.noteUsecase.GetByID(r.Context(), userID, mux.Vars(r)["id"])
	if err != nil {
		if errors.Is(err, usecase.ErrHealthNoteNotFound) {
			response.NotFound(w, "Note not found")
			return
		}
		response.InternalServerError(w, "Failed to load note")
		return
	}

	response.Success(w, http.StatusOK, "", response.Fields{"note": note})
}

func (h *HealthNoteHandler) UpdateNote(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUserID(w, r)
	if !ok {
		return
	}

	patch, ok := decodePatch(w, r)
	if !ok {
		return
	}

	if err := h.noteUsecase.Update(r.Context(), userID, mux.Vars(r)["id"], patch); err != nil {
		if writeValidationError(w, err) {
			return
		}
		if errors.Is(err, usecase.ErrHealthNoteNotFound) {
			response.NotFound(w, "Note not found")
			return
		}
		response.InternalServerError(w, "Failed to update note")
		return
	}

	response.Success(w, http.StatusOK, "Note updated", nil)
}

func (h *HealthNoteHandler) DeleteNote(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUserID(w, r)
	if !ok {
		return
	}

	if err := h.noteUsecase.Delete(r.Context(), userID, mux.Vars(r)["id"]); err != nil {
		response.InternalServerError(w, "Failed to delete note")
		return
	}

	response.Success(w, http.StatusOK, "Note deleted", nil)
}
