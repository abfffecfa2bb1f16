package interfaces

import "context"

// Message represents a single role-tagged message in a conversation
type Message struct {
	Role    string `json:"role"` // "system", "user", or "assistant"
	Content string `json:"content"`
}

// LLMMode indicates where completions are generated
type LLMMode string

const (
	// LLMModeCloud indicates a cloud-hosted completion API
	LLMModeCloud LLMMode = "cloud"
)

// LLMService generates chat completions from a conversation history.
// Implementations wrap a single provider (Claude, Gemini).
type LLMService interface {
	// Chat generates a completion for the conversation in chronological
	// order. System messages are extracted and passed as the provider's
	// system instruction.
	Chat(ctx context.Context, messages []Message) (string, error)

	// HealthCheck verifies the provider is reachable and responding
	HealthCheck(ctx context.Context) error

	// GetMode returns the operational mode of the service
	GetMode() LLMMode

	// GetModel returns the configured model name
	GetModel() string

	// Close releases provider resources
	Close() error
}
