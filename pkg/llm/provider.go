package llm

import "context"

// Provider defines the interface for interacting with LLM backends.
// Implementations handle protocol-specific details such as request formatting,
// authentication, and response parsing.
type Provider interface {
	// Complete sends the conversation and tool declarations and returns the
	// full response, including the stop reason.
	Complete(ctx context.Context, messages []Message, tools []ToolDef) (*Response, error)
}

// Config holds common configuration for LLM providers.
type Config struct {
	BaseURL   string
	APIKey    string
	Model     string
	MaxTokens int
}
