package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"google.golang.org/genai"
)

const (
	defaultModel = "gemini-1.5-flash"

	// Sampling parameters for bot replies. Replies are relayed into chat
	// channels, so output is kept short.
	replyTemperature     = 0.7
	replyMaxOutputTokens = 500
)

// GeminiBackend implements LanguageBackend using the Google GenAI SDK.
type GeminiBackend struct {
	client *genai.Client
	model  string
}

var _ LanguageBackend = (*GeminiBackend)(nil)

// NewGemini creates a Gemini-backed language backend. The API key is
// required; model falls back to a default when empty.
func NewGemini(ctx context.Context, apiKey, model string) (*GeminiBackend, error) {
	if apiKey == "" {
		return nil, errors.New("gemini API key is required")
	}
	if model == "" {
		model = defaultModel
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create GenAI client: %w", err)
	}

	return &GeminiBackend{client: client, model: model}, nil
}

// Generate maps the conversation context into the two roles the Gemini API
// expects (assistant turns become "model") and returns the concatenated text
// of the first candidate.
func (g *GeminiBackend) Generate(ctx context.Context, systemPrompt string, history []Turn, message string) (string, error) {
	message = strings.TrimSpace(message)
	if message == "" {
		return "", errors.New("empty user message")
	}

	var contents []*genai.Content
	for _, turn := range history {
		role := genai.RoleUser
		if turn.Role == RoleAssistant {
			role = genai.RoleModel
		}
		contents = append(contents, &genai.Content{
			Role:  role,
			Parts: []*genai.Part{{Text: turn.Content}},
		})
	}
	contents = append(contents, &genai.Content{
		Role:  genai.RoleUser,
		Parts: []*genai.Part{{Text: message}},
	})

	temperature := float32(replyTemperature)
	resp, err := g.client.Models.GenerateContent(ctx, g.model, contents, &genai.GenerateContentConfig{
		SystemInstruction: &genai.Content{Parts: []*genai.Part{{Text: systemPrompt}}},
		Temperature:       &temperature,
		MaxOutputTokens:   replyMaxOutputTokens,
	})
	if err != nil {
		return "", fmt.Errorf("failed to call Gemini API: %w", err)
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil || len(resp.Candidates[0].Content.Parts) == 0 {
		return "", errors.New("no response candidates returned from Gemini")
	}

	var reply strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if part == nil || part.Text == "" {
			continue
		}
		reply.WriteString(part.Text)
	}
	if reply.Len() == 0 {
		return "", errors.New("Gemini returned an empty reply")
	}
	return reply.String(), nil
}
