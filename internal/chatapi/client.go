package chatapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/google/uuid"
)

// APIError represents an error response from the chat backend.
type APIError struct {
	StatusCode int    `json:"StatusCode"`
	Code       int    `json:"code"`
	Message    string `json:"message"`
}

func (e *APIError) Error() string {
	return fmt.Sprintf("chat API error: %s (status: %d, code: %d)", e.Message, e.StatusCode, e.Code)
}

// Client is a REST implementation of ChatBackend against a Stream-style chat
// API: JSON bodies, api_key query parameter, server-signed JWT auth header.
type Client struct {
	apiKey      string
	baseURL     string
	httpClient  *http.Client
	serverToken string
}

var _ ChatBackend = (*Client)(nil)

// NewClient creates a chat backend client. The server token is minted once;
// it carries no expiry.
func NewClient(apiKey, baseURL string, signer *TokenSigner) (*Client, error) {
	serverToken, err := signer.ServerToken()
	if err != nil {
		return nil, fmt.Errorf("failed to mint server token: %w", err)
	}
	return &Client{
		apiKey:      apiKey,
		baseURL:     baseURL,
		httpClient:  &http.Client{Timeout: 15 * time.Second},
		serverToken: serverToken,
	}, nil
}

// UpsertUser creates or updates a user profile in the chat user directory.
func (c *Client) UpsertUser(ctx context.Context, user ChatUser) error {
	if user.ID == "" {
		return fmt.Errorf("user id cannot be empty")
	}
	body := map[string]interface{}{
		"users": map[string]ChatUser{user.ID: user},
	}
	return c.doRequest(ctx, http.MethodPost, "/users", body, nil)
}

// CreateChannel creates (or returns) a channel with the given custom data.
func (c *Client) CreateChannel(ctx context.Context, channelType, channelID, createdByID string, custom map[string]interface{}) (*Channel, error) {
	data := map[string]interface{}{
		"created_by_id": createdByID,
	}
	for k, v := range custom {
		data[k] = v
	}
	body := map[string]interface{}{
		"data":  data,
		"state": true,
	}
	var resp queryChannelResponse
	path := fmt.Sprintf("/channels/%s/%s/query", url.PathEscape(channelType), url.PathEscape(channelID))
	if err := c.doRequest(ctx, http.MethodPost, path, body, &resp); err != nil {
		return nil, err
	}
	return resp.channel()
}

// GetChannel queries an existing channel's state without creating it.
func (c *Client) GetChannel(ctx context.Context, channelType, channelID string) (*Channel, error) {
	body := map[string]interface{}{
		"state": true,
	}
	var resp queryChannelResponse
	path := fmt.Sprintf("/channels/%s/%s/query", url.PathEscape(channelType), url.PathEscape(channelID))
	if err := c.doRequest(ctx, http.MethodPost, path, body, &resp); err != nil {
		return nil, err
	}
	return resp.channel()
}

// AddMembers adds users to a channel; re-adding an existing member is a
// backend-side no-op.
func (c *Client) AddMembers(ctx context.Context, channelType, channelID string, userIDs []string, hideHistory bool) error {
	body := map[string]interface{}{
		"add_members":  userIDs,
		"hide_history": hideHistory,
	}
	path := fmt.Sprintf("/channels/%s/%s", url.PathEscape(channelType), url.PathEscape(channelID))
	return c.doRequest(ctx, http.MethodPost, path, body, nil)
}

// AddModerators grants moderator standing on a channel.
func (c *Client) AddModerators(ctx context.Context, channelType, channelID string, userIDs []string) error {
	body := map[string]interface{}{
		"add_moderators": userIDs,
	}
	path := fmt.Sprintf("/channels/%s/%s", url.PathEscape(channelType), url.PathEscape(channelID))
	return c.doRequest(ctx, http.MethodPost, path, body, nil)
}

// SendMessage posts a message authored by senderID into the channel.
func (c *Client) SendMessage(ctx context.Context, channelType, channelID, senderID, text string) error {
	body := map[string]interface{}{
		"message": map[string]interface{}{
			"id":      uuid.New().String(),
			"text":    text,
			"user_id": senderID,
		},
	}
	path := fmt.Sprintf("/channels/%s/%s/message", url.PathEscape(channelType), url.PathEscape(channelID))
	return c.doRequest(ctx, http.MethodPost, path, body, nil)
}

// doRequest handles the HTTP request/response cycle with proper error handling.
func (c *Client) doRequest(ctx context.Context, method, path string, body interface{}, response interface{}) error {
	req, err := c.buildRequest(ctx, method, path, body)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		io.Copy(io.Discard, resp.Body)
		return ErrChannelNotFound
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := APIError{StatusCode: resp.StatusCode}
		if err := json.NewDecoder(resp.Body).Decode(&apiErr); err != nil {
			return fmt.Errorf("chat API error with status %d", resp.StatusCode)
		}
		return &apiErr
	}

	if response == nil {
		io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(response); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

// buildRequest creates a new HTTP request with auth headers and the api_key
// query parameter.
func (c *Client) buildRequest(ctx context.Context, method, path string, body interface{}) (*http.Request, error) {
	var bodyReader io.Reader
	if body != nil {
		jsonBody, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal request body: %w", err)
		}
		bodyReader = bytes.NewReader(jsonBody)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, bodyReader)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	q := req.URL.Query()
	q.Set("api_key", c.apiKey)
	req.URL.RawQuery = q.Encode()

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", c.serverToken)
	req.Header.Set("Stream-Auth-Type", "jwt")

	return req, nil
}

// queryChannelResponse is the wire shape of a channel query. The channel
// object flattens custom attributes alongside the built-in fields, so it is
// kept raw and split apart in channel().
type queryChannelResponse struct {
	Channel json.RawMessage `json:"channel"`
	Members []ChannelMember `json:"members"`
}

// builtinChannelFields are the channel attributes owned by the chat backend;
// everything else on the object is treated as custom data.
var builtinChannelFields = map[string]bool{
	"id": true, "type": true, "cid": true,
	"created_at": true, "updated_at": true, "last_message_at": true,
	"created_by": true, "member_count": true, "config": true,
	"frozen": true, "disabled": true, "hidden": true,
	"own_capabilities": true, "cooldown": true, "truncated_at": true,
}

func (r *queryChannelResponse) channel() (*Channel, error) {
	if len(r.Channel) == 0 {
		return nil, ErrChannelNotFound
	}

	var builtin struct {
		ID          string    `json:"id"`
		Type        string    `json:"type"`
		CID         string    `json:"cid"`
		CreatedAt   time.Time `json:"created_at"`
		MemberCount int       `json:"member_count"`
	}
	if err := json.Unmarshal(r.Channel, &builtin); err != nil {
		return nil, fmt.Errorf("failed to decode channel: %w", err)
	}

	var all map[string]interface{}
	if err := json.Unmarshal(r.Channel, &all); err != nil {
		return nil, fmt.Errorf("failed to decode channel attributes: %w", err)
	}
	custom := make(map[string]interface{})
	for k, v := range all {
		if !builtinChannelFields[k] {
			custom[k] = v
		}
	}

	return &Channel{
		ID:          builtin.ID,
		Type:        builtin.Type,
		CID:         builtin.CID,
		CreatedAt:   builtin.CreatedAt,
		MemberCount: builtin.MemberCount,
		Members:     r.Members,
		Custom:      custom,
	}, nil
}
