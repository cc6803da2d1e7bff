package models

// MessageRole constants for stored conversation history.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// ChatMessage is a single entry in a user's stored bot conversation.
// Entries are kept oldest-first; insertion order is significant.
type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// TrimHistory bounds a conversation to its most recent limit entries,
// dropping the oldest first. The input slice is not modified.
func TrimHistory(msgs []ChatMessage, limit int) []ChatMessage {
	if limit <= 0 || len(msgs) <= limit {
		return msgs
	}
	return msgs[len(msgs)-limit:]
}

// RecentHistory returns the most recent n entries of a conversation,
// preserving order. Used to bound the model context independently of the
// stored history cap.
func RecentHistory(msgs []ChatMessage, n int) []ChatMessage {
	if n <= 0 {
		return nil
	}
	if len(msgs) <= n {
		return msgs
	}
	return msgs[len(msgs)-n:]
}
