package models

// --- Request Structs ---

// BotMessageRequest defines the body for the bot relay endpoint.
// UserID is only honored when no verified identity is present on the request.
type BotMessageRequest struct {
	Message     string `json:"message"`
	ChannelID   string `json:"channelId"`
	ChannelType string `json:"channelType,omitempty"`
	UserID      string `json:"userId,omitempty"`
}

// CreateEventRequest defines the body for creating an event channel.
type CreateEventRequest struct {
	EventName   string `json:"eventName"`
	Description string `json:"description,omitempty"`
	EventDate   string `json:"eventDate,omitempty"`
	CoverImage  string `json:"coverImage,omitempty"`
	AdminUserID string `json:"adminUserId,omitempty"`
}

// JoinEventRequest defines the body for joining an existing event channel.
type JoinEventRequest struct {
	EventID string `json:"eventId"`
	UserID  string `json:"userId,omitempty"`
}

// --- Response Structs ---

// TokenResponse carries a freshly minted chat session token.
type TokenResponse struct {
	Token string `json:"token"`
}

// BotMessageResponse carries the generated bot reply back to the caller.
// The reply is returned here even when relaying it into the channel failed.
type BotMessageResponse struct {
	Success bool   `json:"success"`
	Reply   string `json:"reply"`
}

// CreateEventResponse is returned after an event channel has been created.
// ProvisioningIncomplete is set when the channel exists but adding or
// promoting the organizer failed, so the client can surface a retry.
type CreateEventResponse struct {
	Success                bool   `json:"success"`
	EventID                string `json:"eventId"`
	JoinLink               string `json:"joinLink"`
	ChannelID              string `json:"channelId"`
	ChannelCID             string `json:"channelCid"`
	ProvisioningIncomplete bool   `json:"provisioningIncomplete,omitempty"`
}

// JoinEventResponse is returned after a member has been added to an event.
type JoinEventResponse struct {
	Success    bool   `json:"success"`
	ChannelID  string `json:"channelId"`
	ChannelCID string `json:"channelCid"`
}

// EventDetails is the public view of an event channel.
type EventDetails struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	AdminUserID string `json:"adminUserId"`
	EventDate   string `json:"eventDate,omitempty"`
	CoverImage  string `json:"coverImage,omitempty"`
	JoinLink    string `json:"joinLink"`
	MemberCount int    `json:"memberCount"`
	CreatedAt   string `json:"createdAt,omitempty"`
}

// GetEventResponse wraps EventDetails for the lookup endpoint.
type GetEventResponse struct {
	Success bool         `json:"success"`
	Event   EventDetails `json:"event"`
}

// ErrorResponse defines the standard structure for API errors.
// Detail is omitted in production deployments.
type ErrorResponse struct {
	Error  string `json:"error"`
	Detail string `json:"detail,omitempty"`
}

// --- Webhook Payloads ---

// WebhookUser identifies the sender of a candidate message.
type WebhookUser struct {
	ID string `json:"id"`
}

// WebhookMessage is the candidate message carried by a webhook event.
type WebhookMessage struct {
	Text string       `json:"text,omitempty"`
	User *WebhookUser `json:"user,omitempty"`
}

// WebhookRequest is the payload the chat backend posts to the pre-send hook.
type WebhookRequest struct {
	Type        string          `json:"type"`
	ChannelType string          `json:"channel_type"`
	ChannelID   string          `json:"channel_id"`
	Message     *WebhookMessage `json:"message,omitempty"`
}

// SenderID returns the id of the message sender, or "" when absent.
func (r *WebhookRequest) SenderID() string {
	if r.Message == nil || r.Message.User == nil {
		return ""
	}
	return r.Message.User.ID
}

// HealthResponse is the diagnostic payload for the health endpoints.
type HealthResponse struct {
	OK                   bool   `json:"ok"`
	ChatKey              string `json:"chat_key"`
	IdentityVerification bool   `json:"identity_verification"`
	BotEnabled           bool   `json:"bot_enabled"`
	HistoryStore         string `json:"history_store"`
}
