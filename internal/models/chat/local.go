package chat

import (
	"context"
	"fmt"
)

// LocalChat is the keyless development fallback: it echoes the last user
// message instead of calling a provider, so the rest of the stack can be
// exercised without credentials.
type LocalChat struct{}

// NewLocalChat creates the echo model
func NewLocalChat() *LocalChat {
	return &LocalChat{}
}

// Chat returns a canned reply built from the last user message
func (c *LocalChat) Chat(ctx context.Context, messages []Message, opts *ChatOptions) (*ChatResponse, error) {
	var last string
	for _, msg := range messages {
		if msg.Role == "user" {
			last = msg.Content
		}
	}
	return &ChatResponse{Content: fmt.Sprintf("[LOCAL MODE] Pong: %s", last)}, nil
}
