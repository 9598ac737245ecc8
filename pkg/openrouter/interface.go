package openrouter

import "context"

// IOpenRouter defines the interface for the OpenRouter chat-completion client.
type IOpenRouter interface {
	CreateChatCompletion(ctx context.Context, messages []Message) (string, error)
}
