package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"eventchat-backend/internal/models"
	"eventchat-backend/internal/services"
)

// RespondWithError responds with an error message.
func RespondWithError(w http.ResponseWriter, code int, message string) {
	RespondWithJSON(w, code, map[string]string{"error": message})
}

// RespondWithJSON responds with a JSON payload.
func RespondWithJSON(w http.ResponseWriter, code int, payload interface{}) {
	response, _ := json.Marshal(payload)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	w.Write(response)
}

// RespondWithServiceError maps a service-layer error to its HTTP status and
// body. The diagnostic detail string is suppressed in production-like
// deployments.
func RespondWithServiceError(w http.ResponseWriter, err error, includeDetail bool) {
	code := http.StatusInternalServerError
	message := "internal error"

	switch {
	case errors.Is(err, services.ErrValidation):
		code = http.StatusBadRequest
		message = "invalid request"
	case errors.Is(err, services.ErrEventNotFound):
		code = http.StatusNotFound
		message = "event not found"
	case errors.Is(err, services.ErrBotNotConfigured):
		code = http.StatusServiceUnavailable
		message = "bot is not configured"
	}

	resp := models.ErrorResponse{Error: message}
	if includeDetail {
		resp.Detail = err.Error()
	}
	RespondWithJSON(w, code, resp)
}
