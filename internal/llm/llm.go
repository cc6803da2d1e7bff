// Package llm abstracts the generative-language backend used by the bot
// relay, so the relay logic stays testable with a substitutable fake.
package llm

import "context"

// Turn roles mirror the stored conversation roles.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Turn is one prior conversation entry supplied as model context.
type Turn struct {
	Role    string
	Content string
}

// LanguageBackend generates a reply to message given a system instruction
// and bounded conversation context, oldest turn first.
type LanguageBackend interface {
	Generate(ctx context.Context, systemPrompt string, history []Turn, message string) (string, error)
}
