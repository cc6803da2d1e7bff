package services

import (
	"context"
	"fmt"
	"log"
	"time"

	"eventchat-backend/internal/chatapi"
)

// TokenService exchanges a resolved subject id for a scoped chat-session
// token, pushing the user's public profile into the chat backend on the way.
type TokenService struct {
	backend    chatapi.ChatBackend
	signer     *chatapi.TokenSigner
	expiration time.Duration
}

// NewTokenService creates a TokenService. A zero expiration mints
// non-expiring tokens.
func NewTokenService(backend chatapi.ChatBackend, signer *chatapi.TokenSigner, expiration time.Duration) *TokenService {
	return &TokenService{
		backend:    backend,
		signer:     signer,
		expiration: expiration,
	}
}

// IssueToken mints a session token scoped to userID. The profile upsert is
// best-effort: a token's validity does not depend on profile freshness, so
// an upsert failure is logged and issuance continues.
func (s *TokenService) IssueToken(ctx context.Context, userID, name, image string) (string, error) {
	if userID == "" {
		return "", fmt.Errorf("%w: user id is required", ErrValidation)
	}

	user := chatapi.ChatUser{ID: userID}
	if name != "" {
		user.Name = name
	}
	if image != "" {
		user.Image = image
	}
	if err := s.backend.UpsertUser(ctx, user); err != nil {
		log.Printf("Warning: failed to upsert user %s before token issuance: %v", userID, err)
	}

	token, err := s.signer.UserToken(userID, s.expiration)
	if err != nil {
		return "", fmt.Errorf("%w: failed to sign token for user %s: %v", ErrUpstream, userID, err)
	}
	return token, nil
}
