package chat

import "context"

// Message is a single {role, content} entry of an LLM request
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// ChatOptions tunes a single chat completion call
type ChatOptions struct {
	Temperature float32
	MaxTokens   int
}

// ChatResponse is the flat text reply of the model
type ChatResponse struct {
	Content string
}

// Chat is the LLM collaborator contract: an ordered list of messages in,
// a flat text reply out. No streaming or tool-call contract.
type Chat interface {
	Chat(ctx context.Context, messages []Message, opts *ChatOptions) (*ChatResponse, error)
}
