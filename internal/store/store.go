package store

import (
	"context"
	"errors"

	"eventchat-backend/internal/models"
)

// ErrNotFound is returned when no conversation exists for a user.
var ErrNotFound = errors.New("record not found")

// HistoryStore persists per-user bot conversation documents. Documents are
// read and written whole; bounding to the retention limit is the caller's
// responsibility. Implementations must be safe for concurrent use, but the
// read-modify-write cycle itself is not transactionally guarded: concurrent
// bot turns for one user can race and one update can be lost.
type HistoryStore interface {
	// GetHistory returns the stored conversation for userID, oldest entry
	// first, or ErrNotFound when none exists.
	GetHistory(ctx context.Context, userID string) ([]models.ChatMessage, error)

	// SaveHistory upserts the full conversation document for userID.
	SaveHistory(ctx context.Context, userID string, msgs []models.ChatMessage) error
}
