package chat

import (
	"context"
	"fmt"

	openai "github.com/sashabaranov/go-openai"
)

// OpenAIChat implements Chat with the OpenAI chat completions API
type OpenAIChat struct {
	client *openai.Client
	model  string
}

// NewOpenAIChat creates an OpenAI-backed chat model
func NewOpenAIChat(apiKey string, model string) *OpenAIChat {
	return &OpenAIChat{
		client: openai.NewClient(apiKey),
		model:  model,
	}
}

// Chat sends the messages and returns the first choice's content
func (c *OpenAIChat) Chat(ctx context.Context, messages []Message, opts *ChatOptions) (*ChatResponse, error) {
	req := openai.ChatCompletionRequest{
		Model:    c.model,
		Messages: make([]openai.ChatCompletionMessage, 0, len(messages)),
	}
	if opts != nil {
		req.Temperature = opts.Temperature
		req.MaxTokens = opts.MaxTokens
	}
	for _, msg := range messages {
		req.Messages = append(req.Messages, openai.ChatCompletionMessage{
			Role:    msg.Role,
			Content: msg.Content,
		})
	}

	resp, err := c.client.CreateChatCompletion(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("failed to call chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("chat completion returned no choices")
	}
	return &ChatResponse{Content: resp.Choices[0].Message.Content}, nil
}
