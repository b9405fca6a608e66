package handler

import (
	"net/http"

	"meditrack-backend/internal/delivery/dto"
	"meditrack-backend/internal/usecase"
	"meditrack-backend/pkg/response"
	"meditrack-backend/pkg/validator"
)

type ChatHandler struct {
	chatUsecase usecase.ChatUsecase
	validator   *validator.CustomValidator
}

func NewChatHandler(chatUsecase usecase.ChatUsecase, validator *validator.CustomValidator) *ChatHandler {
	return &ChatHandler{
		chatUsecase: chatUsecase,
		validator:   validator,
	}
}

func (h *ChatHandler) AskAI(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUserID(w, r)
	if !ok {
		return
	}

	var req dto.ChatRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		response.BadRequest(w, "Message is required")
		return
	}

	reply, err := h.chatUsecase.AskAI(r.Context(), userID, req.Message, req.Topic)
	if err != nil {
		response.InternalServerError(w, "AI chat failed")
		return
	}

	response.Success(w, http.StatusOK, "", response.Fields{"reply": reply})
}

func (h *ChatHandler) GetChatHistory(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUserID(w, r)
	if !ok {
		return
	}

	history, err := h.chatUsecase.GetChatHistory(r.Context(), userID)
	if err != nil {
		response.InternalServerError(w, "Failed to load chat history")
		return
	}

	response.Success(w, http.StatusOK, "", response.Fields{"history": history})
}
