package services

import (
	"context"
	"log"

	"eventchat-backend/internal/chatapi"
)

// Rejection reasons surfaced to the chat backend.
const (
	ReasonMissingSender = "message has no sender"
	ReasonNotOrganizer  = "only the event organizer can send messages in this channel"
)

// Webhook event type that carries a candidate message.
const eventTypeNewMessage = "message.new"

// Decision is the gatekeeper's verdict for a candidate message.
type Decision struct {
	Allow  bool
	Reason string
}

func allow() Decision { return Decision{Allow: true} }

func reject(reason string) Decision { return Decision{Allow: false, Reason: reason} }

// GatekeeperService enforces the event-channel write policy on the chat
// backend's synchronous pre-send hook. It answers within the hook's latency
// budget by caching channel lookups, and it is deliberately fail-open: an
// error while evaluating resolves to allow, so a transient backend outage
// degrades enforcement instead of silently blocking legitimate traffic.
type GatekeeperService struct {
	backend     chatapi.ChatBackend
	cache       *chatapi.ChannelCache
	channelType string
}

// NewGatekeeperService creates a gatekeeper for the managed channel type.
func NewGatekeeperService(backend chatapi.ChatBackend, cache *chatapi.ChannelCache, channelType string) *GatekeeperService {
	return &GatekeeperService{
		backend:     backend,
		cache:       cache,
		channelType: channelType,
	}
}

// Evaluate decides whether a candidate message may be accepted. It never
// returns an error.
func (s *GatekeeperService) Evaluate(ctx context.Context, eventType, channelType, channelID, senderID string) Decision {
	// Channels of other types are not under this service's jurisdiction.
	if channelType != s.channelType {
		return allow()
	}
	// Only new messages are policy-relevant.
	if eventType != eventTypeNewMessage {
		return allow()
	}
	if senderID == "" {
		return reject(ReasonMissingSender)
	}

	ch, err := s.lookupChannel(ctx, channelID)
	if err != nil {
		log.Printf("Warning: gatekeeper failed to look up channel %s, allowing message: %v", channelID, err)
		return allow()
	}

	if !ch.CustomBool("is_event_channel") {
		return allow()
	}
	if admin := ch.CustomString("event_admin"); admin != senderID {
		log.Printf("Rejected message in event channel %s: sender %s is not organizer %s", channelID, senderID, admin)
		return reject(ReasonNotOrganizer)
	}
	return allow()
}

func (s *GatekeeperService) lookupChannel(ctx context.Context, channelID string) (*chatapi.Channel, error) {
	cid := s.channelType + ":" + channelID
	if s.cache != nil {
		if ch := s.cache.Get(cid); ch != nil {
			return ch, nil
		}
	}
	ch, err := s.backend.GetChannel(ctx, s.channelType, channelID)
	if err != nil {
		return nil, err
	}
	if s.cache != nil {
		s.cache.Set(cid, ch)
	}
	return ch, nil
}
