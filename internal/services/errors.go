package services

import "errors"

// Error taxonomy shared by the services; handlers map these to HTTP status
// codes.
var (
	// ErrValidation covers missing or malformed request input (400).
	ErrValidation = errors.New("input validation failed")

	// ErrEventNotFound is returned when an event channel cannot be
	// located (404).
	ErrEventNotFound = errors.New("event not found")

	// ErrBotNotConfigured is returned when the relay has no
	// language-backend credential (503).
	ErrBotNotConfigured = errors.New("bot is not configured")

	// ErrUpstream covers dependent service failures (500).
	ErrUpstream = errors.New("upstream service failure")
)
