package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"eventchat-backend/internal/models"
	"eventchat-backend/internal/store"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// HistoryStore persists bot conversations as JSONB documents, one row per
// user, mirroring the document-store layout of the conversation memory.
type HistoryStore struct {
	db *pgxpool.Pool
}

var _ store.HistoryStore = (*HistoryStore)(nil)

// NewHistoryStore creates a Postgres-backed history store.
func NewHistoryStore(db *pgxpool.Pool) *HistoryStore {
	return &HistoryStore{db: db}
}

// EnsureSchema creates the conversation table if it does not exist yet.
func (s *HistoryStore) EnsureSchema(ctx context.Context) error {
	_, err := s.db.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS bot_conversations (
			user_id    TEXT PRIMARY KEY,
			messages   JSONB NOT NULL DEFAULT '[]'::jsonb,
			updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)`)
	if err != nil {
		return fmt.Errorf("failed to ensure bot_conversations schema: %w", err)
	}
	return nil
}

func (s *HistoryStore) GetHistory(ctx context.Context, userID string) ([]models.ChatMessage, error) {
	var raw []byte
	err := s.db.QueryRow(ctx,
		`SELECT messages FROM bot_conversations WHERE user_id = $1`, userID,
	).Scan(&raw)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, store.ErrNotFound
		}
		return nil, fmt.Errorf("failed to query conversation for user %s: %w", userID, err)
	}

	var msgs []models.ChatMessage
	if err := json.Unmarshal(raw, &msgs); err != nil {
		return nil, fmt.Errorf("failed to parse conversation document for user %s: %w", userID, err)
	}
	return msgs, nil
}

func (s *HistoryStore) SaveHistory(ctx context.Context, userID string, msgs []models.ChatMessage) error {
	doc, err := json.Marshal(msgs)
	if err != nil {
		return fmt.Errorf("failed to marshal conversation document: %w", err)
	}

	_, err = s.db.Exec(ctx, `
		INSERT INTO bot_conversations (user_id, messages, updated_at)
		VALUES ($1, $2, now())
		ON CONFLICT (user_id)
		DO UPDATE SET messages = EXCLUDED.messages, updated_at = now()`,
		userID, doc)
	if err != nil {
		return fmt.Errorf("failed to upsert conversation for user %s: %w", userID, err)
	}
	return nil
}
