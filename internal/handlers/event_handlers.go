package handlers

import (
	"encoding/json"
	"net/http"

	"eventchat-backend/internal/auth"
	"eventchat-backend/internal/models"
	"eventchat-backend/internal/services"

	"github.com/go-chi/chi/v5"
)

// EventHandlers handles HTTP requests for event channels.
type EventHandlers struct {
	eventService  *services.EventService
	includeDetail bool
}

// NewEventHandlers creates an EventHandlers instance.
func NewEventHandlers(eventService *services.EventService, includeDetail bool) *EventHandlers {
	return &EventHandlers{
		eventService:  eventService,
		includeDetail: includeDetail,
	}
}

// HandleCreateEvent creates a new event channel. The organizer id is taken
// from the verified identity when present, else from the request body.
func (h *EventHandlers) HandleCreateEvent(w http.ResponseWriter, r *http.Request) {
	var req models.CreateEventRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if identity, ok := auth.IdentityFromContext(r.Context()); ok {
		req.AdminUserID = identity.SubjectID
	}

	resp, err := h.eventService.CreateEvent(r.Context(), req)
	if err != nil {
		RespondWithServiceError(w, err, h.includeDetail)
		return
	}
	RespondWithJSON(w, http.StatusOK, resp)
}

// HandleJoinEvent adds the caller to an existing event channel.
func (h *EventHandlers) HandleJoinEvent(w http.ResponseWriter, r *http.Request) {
	var req models.JoinEventRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if identity, ok := auth.IdentityFromContext(r.Context()); ok {
		req.UserID = identity.SubjectID
	}

	resp, err := h.eventService.JoinEvent(r.Context(), req.EventID, req.UserID)
	if err != nil {
		RespondWithServiceError(w, err, h.includeDetail)
		return
	}
	RespondWithJSON(w, http.StatusOK, resp)
}

// HandleGetEvent returns the public details of an event channel.
func (h *EventHandlers) HandleGetEvent(w http.ResponseWriter, r *http.Request) {
	eventID := chi.URLParam(r, "eventID")

	details, err := h.eventService.GetEvent(r.Context(), eventID)
	if err != nil {
		RespondWithServiceError(w, err, h.includeDetail)
		return
	}
	RespondWithJSON(w, http.StatusOK, models.GetEventResponse{Success: true, Event: *details})
}
