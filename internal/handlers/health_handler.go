package handlers

import (
	"net/http"

	"eventchat-backend/internal/models"
)

// HealthHandler reports a deployment diagnostic: which optional subsystems
// are active. No secrets are exposed, only the public chat API key.
type HealthHandler struct {
	chatKey              string
	identityVerification bool
	botEnabled           bool
	historyStore         string
}

// NewHealthHandler creates a HealthHandler from the resolved configuration.
func NewHealthHandler(chatKey string, identityVerification, botEnabled bool, historyStore string) *HealthHandler {
	return &HealthHandler{
		chatKey:              chatKey,
		identityVerification: identityVerification,
		botEnabled:           botEnabled,
		historyStore:         historyStore,
	}
}

// HandleHealth serves both /health and /healthz.
func (h *HealthHandler) HandleHealth(w http.ResponseWriter, r *http.Request) {
	RespondWithJSON(w, http.StatusOK, models.HealthResponse{
		OK:                   true,
		ChatKey:              h.chatKey,
		IdentityVerification: h.identityVerification,
		BotEnabled:           h.botEnabled,
		HistoryStore:         h.historyStore,
	})
}
