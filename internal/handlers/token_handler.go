package handlers

import (
	"net/http"

	"eventchat-backend/internal/auth"
	"eventchat-backend/internal/models"
	"eventchat-backend/internal/services"
)

// TokenHandler handles chat-session token issuance.
type TokenHandler struct {
	tokenService  *services.TokenService
	includeDetail bool
}

// NewTokenHandler creates a TokenHandler.
func NewTokenHandler(tokenService *services.TokenService, includeDetail bool) *TokenHandler {
	return &TokenHandler{
		tokenService:  tokenService,
		includeDetail: includeDetail,
	}
}

// HandleGetToken issues a chat token. The subject id comes from the verified
// identity when present; otherwise the explicit user_id query parameter is
// used (degraded-trust mode when identity verification is disabled).
func (h *TokenHandler) HandleGetToken(w http.ResponseWriter, r *http.Request) {
	userID := r.URL.Query().Get("user_id")
	name := r.URL.Query().Get("name")
	image := r.URL.Query().Get("image")

	if identity, ok := auth.IdentityFromContext(r.Context()); ok {
		userID = identity.SubjectID
		if identity.Name != "" {
			name = identity.Name
		}
		if identity.Picture != "" {
			image = identity.Picture
		}
	}

	token, err := h.tokenService.IssueToken(r.Context(), userID, name, image)
	if err != nil {
		RespondWithServiceError(w, err, h.includeDetail)
		return
	}

	RespondWithJSON(w, http.StatusOK, models.TokenResponse{Token: token})
}
