package chat

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/majordome-app/majordome/internal/logger"
	"github.com/majordome-app/majordome/internal/models/chat"
	"github.com/majordome-app/majordome/internal/types"
	"github.com/majordome-app/majordome/internal/types/interfaces"
)

// systemPrompt seeds every LLM request (the assistant speaks French)
const systemPrompt = "Tu es un assistant personnel attentif. Écris en français."

// Options tunes the orchestrator
type Options struct {
	// ContextSize is the number of recent messages included in the prompt
	ContextSize int
	// MemoryLimit is the number of relevant memories included in the prompt
	MemoryLimit int
	Temperature float32
	MaxTokens   int
}

// DefaultOptions mirrors the production defaults
func DefaultOptions() Options {
	return Options{
		ContextSize: 20,
		MemoryLimit: 5,
		Temperature: 0.3,
		MaxTokens:   1000,
	}
}

// Request is one inbound chat turn
type Request struct {
	// ConversationID selects the thread; empty starts a new conversation
	ConversationID string
	Message        string
	// UseMemory enables relevant-memory retrieval for prompt assembly
	UseMemory bool
}

// Response carries both persisted turns of the exchange
type Response struct {
	ConversationID   string
	UserMessage      *types.Message
	AssistantMessage *types.Message
}

// Service is the chat orchestrator: it combines conversation context and
// relevant memories into a prompt, invokes the LLM and writes both turns
// back through the conversation manager.
type Service struct {
	conversations interfaces.ConversationService
	memories      interfaces.MemoryService
	model         chat.Chat
	trigger       TriggerPolicy
	opts          Options
	now           func() time.Time
}

// NewService creates a chat orchestrator with the French trigger policy
func NewService(
	conversations interfaces.ConversationService,
	memories interfaces.MemoryService,
	model chat.Chat,
	opts Options,
) *Service {
	return &Service{
		conversations: conversations,
		memories:      memories,
		model:         model,
		trigger:       NewFrenchKeywordTrigger(),
		opts:          opts,
		now:           time.Now,
	}
}

// WithTrigger swaps the memory trigger policy
func (s *Service) WithTrigger(trigger TriggerPolicy) *Service {
	s.trigger = trigger
	return s
}

// Chat runs one conversational turn
func (s *Service) Chat(ctx context.Context, req Request) (*Response, error) {
	if strings.TrimSpace(req.Message) == "" {
		return nil, fmt.Errorf("chat message must not be empty")
	}

	conversationID := req.ConversationID
	if conversationID == "" {
		conversation, err := s.conversations.CreateConversation(ctx, "")
		if err != nil {
			return nil, err
		}
		conversationID = conversation.ID
	} else {
		conversation, err := s.conversations.GetConversation(ctx, conversationID)
		if err != nil {
			return nil, err
		}
		if conversation == nil {
			return nil, types.ErrConversationNotFound
		}
	}

	userMessage, err := s.conversations.AppendMessage(ctx, conversationID, types.RoleUser, req.Message)
	if err != nil {
		return nil, err
	}

	entries, err := s.conversations.GetContext(ctx, conversationID, s.opts.ContextSize)
	if err != nil {
		return nil, err
	}

	var memories []*types.Memory
	if req.UseMemory {
		memories, err = s.memories.GetRelevantMemories(ctx, req.Message, "", s.opts.MemoryLimit)
		if err != nil {
			// Memory retrieval must not block the conversation
			logger.Errorf(ctx, "failed to retrieve memories: %v", err)
			memories = nil
		}
	}

	reply, err := s.model.Chat(ctx, s.buildPrompt(entries, memories), &chat.ChatOptions{
		Temperature: s.opts.Temperature,
		MaxTokens:   s.opts.MaxTokens,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to call LLM: %w", err)
	}

	assistantMessage, err := s.conversations.AppendMessage(ctx, conversationID, types.RoleAssistant, reply.Content)
	if err != nil {
		return nil, err
	}

	if s.trigger.ShouldRemember(req.Message) {
		if err := s.rememberUserRequest(ctx, conversationID, req.Message); err != nil {
			logger.Errorf(ctx, "failed to store triggered memory: %v", err)
		}
	}

	return &Response{
		ConversationID:   conversationID,
		UserMessage:      userMessage,
		AssistantMessage: assistantMessage,
	}, nil
}

// buildPrompt assembles the system prompt, the memory block and the
// conversation window into the LLM request
func (s *Service) buildPrompt(entries []types.ChatEntry, memories []*types.Memory) []chat.Message {
	system := systemPrompt
	if len(memories) > 0 {
		var block strings.Builder
		block.WriteString("\n\nInformations pertinentes de ta mémoire:\n")
		for _, memory := range memories {
			block.WriteString(fmt.Sprintf("Mémoire: %s\n", memory.Content))
		}
		system += block.String()
	}

	messages := make([]chat.Message, 0, len(entries)+1)
	messages = append(messages, chat.Message{Role: string(types.RoleSystem), Content: system})
	for _, entry := range entries {
		messages = append(messages, chat.Message{Role: string(entry.Role), Content: entry.Content})
	}
	return messages
}

// rememberUserRequest stores the raw user message as a user_request
// memory with a dated provenance note
func (s *Service) rememberUserRequest(ctx context.Context, conversationID string, message string) error {
	_, err := s.memories.StoreMemory(ctx, interfaces.StoreMemoryParams{
		Content:               message,
		Context:               fmt.Sprintf("Conversation du %s", s.now().Format("02/01/2006")),
		Category:              "user_request",
		RelatedConversationID: &conversationID,
	})
	return err
}
