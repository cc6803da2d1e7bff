package chatapi

import (
	"context"
	"errors"
	"time"
)

// ErrChannelNotFound is returned when a channel lookup matches nothing.
var ErrChannelNotFound = errors.New("channel not found")

// ChatUser is the profile pushed into the chat backend's user directory.
// The chat backend owns canonical storage; we only upsert.
type ChatUser struct {
	ID    string `json:"id"`
	Name  string `json:"name,omitempty"`
	Image string `json:"image,omitempty"`
	Role  string `json:"role,omitempty"`
}

// ChannelMember is a single membership record on a channel.
type ChannelMember struct {
	UserID string `json:"user_id"`
}

// Channel is the server-side view of a chat channel, including the custom
// data that tags event channels.
type Channel struct {
	ID          string
	Type        string
	CID         string
	CreatedAt   time.Time
	MemberCount int
	Members     []ChannelMember
	Custom      map[string]interface{}
}

// CustomString returns a string-valued custom attribute, or "" when absent
// or of another type.
func (c *Channel) CustomString(key string) string {
	if c == nil || c.Custom == nil {
		return ""
	}
	s, _ := c.Custom[key].(string)
	return s
}

// CustomBool returns a bool-valued custom attribute, false when absent.
func (c *Channel) CustomBool(key string) bool {
	if c == nil || c.Custom == nil {
		return false
	}
	b, _ := c.Custom[key].(bool)
	return b
}

// ChatBackend is the narrow surface of the external chat provider used by
// this service. Implementations must be safe for concurrent use.
type ChatBackend interface {
	// UpsertUser creates or updates a user profile (create-or-update
	// semantics; absent fields are left untouched by the backend).
	UpsertUser(ctx context.Context, user ChatUser) error

	// CreateChannel creates a channel of the given type with custom data,
	// returning the created channel state.
	CreateChannel(ctx context.Context, channelType, channelID, createdByID string, custom map[string]interface{}) (*Channel, error)

	// AddMembers adds users to a channel. Adding an existing member is a
	// no-op by backend contract. hideHistory controls whether prior
	// messages are visible to the new members.
	AddMembers(ctx context.Context, channelType, channelID string, userIDs []string, hideHistory bool) error

	// AddModerators grants elevated standing on a channel.
	AddModerators(ctx context.Context, channelType, channelID string, userIDs []string) error

	// GetChannel queries a channel by exact id, returning ErrChannelNotFound
	// on zero matches.
	GetChannel(ctx context.Context, channelType, channelID string) (*Channel, error)

	// SendMessage posts a message into a channel authored by senderID.
	SendMessage(ctx context.Context, channelType, channelID, senderID, text string) error
}
