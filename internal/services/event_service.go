package services

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"eventchat-backend/internal/chatapi"
	"eventchat-backend/internal/models"

	"github.com/oklog/ulid/v2"
)

// Custom channel attributes that mark and describe an event channel.
const (
	attrIsEventChannel = "is_event_channel"
	attrEventAdmin     = "event_admin"
	attrEventName      = "event_name"
	attrDescription    = "event_description"
	attrEventDate      = "event_date"
	attrCoverImage     = "event_cover_image"
	attrJoinLink       = "join_link"
	attrCreatedByAPI   = "created_by_event_api"
)

// EventService manages event channels: channels with exactly one organizer
// holding write permission and any number of read/participate members.
// The organizer recorded at creation is immutable; no operation rewrites
// channel custom data after the channel exists.
type EventService struct {
	backend     chatapi.ChatBackend
	channelType string
	linkScheme  string
}

// NewEventService creates an EventService operating on the given managed
// channel type.
func NewEventService(backend chatapi.ChatBackend, channelType, linkScheme string) *EventService {
	return &EventService{
		backend:     backend,
		channelType: channelType,
		linkScheme:  linkScheme,
	}
}

// CreateEvent provisions a new event channel in three steps: create the
// channel, add the organizer as a member, grant the organizer moderator
// standing. Step 1 failing fails the whole operation; steps 2 and 3 have no
// rollback, so their failure is logged and reported via
// ProvisioningIncomplete instead of being left ambiguous.
func (s *EventService) CreateEvent(ctx context.Context, req models.CreateEventRequest) (*models.CreateEventResponse, error) {
	adminID := strings.TrimSpace(req.AdminUserID)
	name := strings.TrimSpace(req.EventName)
	if adminID == "" || name == "" {
		return nil, fmt.Errorf("%w: adminUserId and eventName are required", ErrValidation)
	}

	eventID := newEventID()
	joinLink := fmt.Sprintf("%s://event/%s", s.linkScheme, eventID)

	custom := map[string]interface{}{
		attrIsEventChannel: true,
		attrEventAdmin:     adminID,
		attrEventName:      name,
		attrJoinLink:       joinLink,
		attrCreatedByAPI:   true,
	}
	if req.Description != "" {
		custom[attrDescription] = req.Description
	}
	if req.EventDate != "" {
		custom[attrEventDate] = req.EventDate
	}
	if req.CoverImage != "" {
		custom[attrCoverImage] = req.CoverImage
	}

	ch, err := s.backend.CreateChannel(ctx, s.channelType, eventID, adminID, custom)
	if err != nil {
		return nil, fmt.Errorf("%w: event creation failed: %v", ErrUpstream, err)
	}

	incomplete := false
	if err := s.backend.AddMembers(ctx, s.channelType, eventID, []string{adminID}, false); err != nil {
		log.Printf("Warning: event %s created but adding organizer %s as member failed: %v", eventID, adminID, err)
		incomplete = true
	}
	if err := s.backend.AddModerators(ctx, s.channelType, eventID, []string{adminID}); err != nil {
		log.Printf("Warning: event %s created but promoting organizer %s failed: %v", eventID, adminID, err)
		incomplete = true
	}

	log.Printf("Created event %s (admin: %s, incomplete: %t)", eventID, adminID, incomplete)

	return &models.CreateEventResponse{
		Success:                true,
		EventID:                eventID,
		JoinLink:               joinLink,
		ChannelID:              eventID,
		ChannelCID:             channelCID(ch, s.channelType, eventID),
		ProvisioningIncomplete: incomplete,
	}, nil
}

// JoinEvent adds userID to an existing event channel with full history
// visible. Re-joining an existing member does not error.
func (s *EventService) JoinEvent(ctx context.Context, eventID, userID string) (*models.JoinEventResponse, error) {
	eventID = strings.TrimSpace(eventID)
	userID = strings.TrimSpace(userID)
	if eventID == "" || userID == "" {
		return nil, fmt.Errorf("%w: eventId and userId are required", ErrValidation)
	}

	ch, err := s.backend.GetChannel(ctx, s.channelType, eventID)
	if err != nil {
		if errors.Is(err, chatapi.ErrChannelNotFound) {
			return nil, fmt.Errorf("%w: %s", ErrEventNotFound, eventID)
		}
		return nil, fmt.Errorf("%w: failed to look up event %s: %v", ErrUpstream, eventID, err)
	}

	if err := s.backend.AddMembers(ctx, s.channelType, eventID, []string{userID}, false); err != nil {
		return nil, fmt.Errorf("%w: failed to join event %s: %v", ErrUpstream, eventID, err)
	}

	return &models.JoinEventResponse{
		Success:    true,
		ChannelID:  eventID,
		ChannelCID: channelCID(ch, s.channelType, eventID),
	}, nil
}

// GetEvent looks up an event channel by exact id and maps its custom data to
// the public event view.
func (s *EventService) GetEvent(ctx context.Context, eventID string) (*models.EventDetails, error) {
	eventID = strings.TrimSpace(eventID)
	if eventID == "" {
		return nil, fmt.Errorf("%w: eventId is required", ErrValidation)
	}

	ch, err := s.backend.GetChannel(ctx, s.channelType, eventID)
	if err != nil {
		if errors.Is(err, chatapi.ErrChannelNotFound) {
			return nil, fmt.Errorf("%w: %s", ErrEventNotFound, eventID)
		}
		return nil, fmt.Errorf("%w: failed to look up event %s: %v", ErrUpstream, eventID, err)
	}

	// The member-count field can be absent from older channel states; fall
	// back to counting the explicit member list.
	memberCount := ch.MemberCount
	if memberCount == 0 && len(ch.Members) > 0 {
		memberCount = len(ch.Members)
	}

	details := &models.EventDetails{
		ID:          eventID,
		Name:        ch.CustomString(attrEventName),
		Description: ch.CustomString(attrDescription),
		AdminUserID: ch.CustomString(attrEventAdmin),
		EventDate:   ch.CustomString(attrEventDate),
		CoverImage:  ch.CustomString(attrCoverImage),
		JoinLink:    ch.CustomString(attrJoinLink),
		MemberCount: memberCount,
	}
	if !ch.CreatedAt.IsZero() {
		details.CreatedAt = ch.CreatedAt.UTC().Format(time.RFC3339)
	}
	return details, nil
}

// newEventID generates a globally-unique event id without a coordination
// service: a ULID is time-ordered with a random suffix, so concurrent
// creations cannot collide.
func newEventID() string {
	id := ulid.MustNew(ulid.Timestamp(time.Now()), rand.Reader)
	return "event-" + strings.ToLower(id.String())
}

func channelCID(ch *chatapi.Channel, channelType, channelID string) string {
	if ch != nil && ch.CID != "" {
		return ch.CID
	}
	return channelType + ":" + channelID
}
