package handlers

import (
	"encoding/json"
	"net/http"

	"eventchat-backend/internal/auth"
	"eventchat-backend/internal/models"
	"eventchat-backend/internal/services"
)

// BotHandler handles bot relay requests.
type BotHandler struct {
	botService    *services.BotService
	includeDetail bool
}

// NewBotHandler creates a BotHandler.
func NewBotHandler(botService *services.BotService, includeDetail bool) *BotHandler {
	return &BotHandler{
		botService:    botService,
		includeDetail: includeDetail,
	}
}

// HandleBotMessage runs one bot turn and returns the generated reply. The
// reply is returned even when relaying it into the channel failed.
func (h *BotHandler) HandleBotMessage(w http.ResponseWriter, r *http.Request) {
	var req models.BotMessageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if identity, ok := auth.IdentityFromContext(r.Context()); ok {
		req.UserID = identity.SubjectID
	}

	reply, err := h.botService.HandleBotMessage(r.Context(), req.UserID, req.Message, req.ChannelType, req.ChannelID)
	if err != nil {
		RespondWithServiceError(w, err, h.includeDetail)
		return
	}
	RespondWithJSON(w, http.StatusOK, models.BotMessageResponse{Success: true, Reply: reply})
}
