// Package httputil holds the JSON response helpers shared by code that runs
// before routing, where the handler-level helpers are not in scope.
package httputil

import (
	"encoding/json"
	"log"
	"net/http"

	"eventchat-backend/internal/models"
)

// RespondJSON writes payload as a JSON body with the given status code.
func RespondJSON(w http.ResponseWriter, statusCode int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		// The status line is already on the wire; all we can do is log.
		log.Printf("Error encoding JSON response: %v", err)
	}
}

// RespondError writes the standard error body for middleware rejections.
func RespondError(w http.ResponseWriter, statusCode int, message string) {
	RespondJSON(w, statusCode, models.ErrorResponse{Error: message})
}
