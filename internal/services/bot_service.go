package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"

	"eventchat-backend/internal/chatapi"
	"eventchat-backend/internal/llm"
	"eventchat-backend/internal/models"
	"eventchat-backend/internal/store"
)

const (
	// historyLimit bounds the stored conversation per user; the oldest
	// entries are dropped first.
	historyLimit = 20

	// contextWindow bounds how many stored entries are supplied as model
	// context per turn, independent of historyLimit.
	contextWindow = 10

	botSystemPrompt = "You are a friendly assistant living inside a chat app. " +
		"Answer concisely, stay on topic, and keep replies suitable for a " +
		"shared channel. Use the conversation history for context."
)

// BotService relays a user-addressed chat message through the language
// backend and posts the reply into the channel as the bot identity. Every
// step around the model call is best-effort: history reads, history writes
// and the channel relay degrade on failure instead of aborting the turn.
type BotService struct {
	backend     chatapi.ChatBackend
	history     store.HistoryStore
	lm          llm.LanguageBackend
	botUser     chatapi.ChatUser
	channelType string

	ensureBot sync.Once
}

// NewBotService creates a BotService. lm may be nil when no language-backend
// credential is configured; HandleBotMessage then fails fast.
func NewBotService(backend chatapi.ChatBackend, history store.HistoryStore, lm llm.LanguageBackend, botUser chatapi.ChatUser, channelType string) *BotService {
	if botUser.Role == "" {
		botUser.Role = "admin"
	}
	return &BotService{
		backend:     backend,
		history:     history,
		lm:          lm,
		botUser:     botUser,
		channelType: channelType,
	}
}

// Enabled reports whether a language backend is configured.
func (s *BotService) Enabled() bool {
	return s.lm != nil
}

// HandleBotMessage runs one bot turn for userID: load bounded history, call
// the language backend, persist the updated history, relay the reply into
// the channel. The generated reply is returned to the caller whenever the
// model call succeeds, regardless of persistence or relay failures.
func (s *BotService) HandleBotMessage(ctx context.Context, userID, message, channelType, channelID string) (string, error) {
	if s.lm == nil {
		return "", ErrBotNotConfigured
	}
	if userID == "" || message == "" || channelID == "" {
		return "", fmt.Errorf("%w: userId, message and channelId are required", ErrValidation)
	}
	if channelType == "" {
		channelType = s.channelType
	}

	// The bot identity only needs to exist once; the upsert is idempotent
	// and its failure must not block the turn.
	s.ensureBot.Do(func() {
		if err := s.backend.UpsertUser(ctx, s.botUser); err != nil {
			log.Printf("Warning: failed to upsert bot user %s: %v", s.botUser.ID, err)
		}
	})

	history, err := s.history.GetHistory(ctx, userID)
	if err != nil {
		if !errors.Is(err, store.ErrNotFound) {
			log.Printf("Warning: failed to load history for user %s, continuing without context: %v", userID, err)
		}
		history = nil
	}

	recent := models.RecentHistory(history, contextWindow)
	turns := make([]llm.Turn, 0, len(recent))
	for _, msg := range recent {
		turns = append(turns, llm.Turn{Role: msg.Role, Content: msg.Content})
	}

	reply, err := s.lm.Generate(ctx, botSystemPrompt, turns, message)
	if err != nil {
		return "", fmt.Errorf("%w: language backend call failed: %v", ErrUpstream, err)
	}

	updated := append(history,
		models.ChatMessage{Role: models.RoleUser, Content: message},
		models.ChatMessage{Role: models.RoleAssistant, Content: reply},
	)
	updated = models.TrimHistory(updated, historyLimit)
	if err := s.history.SaveHistory(ctx, userID, updated); err != nil {
		log.Printf("Warning: failed to persist history for user %s: %v", userID, err)
	}

	if err := s.backend.SendMessage(ctx, channelType, channelID, s.botUser.ID, reply); err != nil {
		log.Printf("Warning: failed to relay bot reply into channel %s: %v", channelID, err)
	}

	return reply, nil
}
