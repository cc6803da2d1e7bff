package handlers

import (
	"encoding/json"
	"log"
	"net/http"

	"eventchat-backend/internal/models"
	"eventchat-backend/internal/services"
)

// WebhookHandler answers the chat backend's synchronous pre-send hook.
//
// This endpoint is fail-open on every internal error path: a malformed
// payload or a lookup failure resolves to 200 "allowed" rather than an
// error, so a transient infrastructure problem degrades enforcement instead
// of blocking all chat traffic. The chat backend also applies a hard timeout
// to this call, so the handler must never hang.
type WebhookHandler struct {
	gatekeeper *services.GatekeeperService
}

// NewWebhookHandler creates a WebhookHandler.
func NewWebhookHandler(gatekeeper *services.GatekeeperService) *WebhookHandler {
	return &WebhookHandler{gatekeeper: gatekeeper}
}

// HandleMessage evaluates a candidate message against the event-channel
// write policy.
func (h *WebhookHandler) HandleMessage(w http.ResponseWriter, r *http.Request) {
	var req models.WebhookRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Printf("Warning: webhook payload could not be decoded, allowing message: %v", err)
		respondAllowed(w)
		return
	}

	decision := h.gatekeeper.Evaluate(r.Context(), req.Type, req.ChannelType, req.ChannelID, req.SenderID())
	if decision.Allow {
		respondAllowed(w)
		return
	}

	RespondWithJSON(w, http.StatusForbidden, map[string]string{
		"error":   decision.Reason,
		"message": "rejected",
	})
}

func respondAllowed(w http.ResponseWriter) {
	RespondWithJSON(w, http.StatusOK, map[string]string{"message": "allowed"})
}
