package chat

import (
	"context"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	conversationrepo "github.com/majordome-app/majordome/internal/application/repository/conversation"
	memoryrepo "github.com/majordome-app/majordome/internal/application/repository/memory"
	conversationsvc "github.com/majordome-app/majordome/internal/application/service/conversation"
	memorysvc "github.com/majordome-app/majordome/internal/application/service/memory"
	"github.com/majordome-app/majordome/internal/database"
	"github.com/majordome-app/majordome/internal/models/chat"
	"github.com/majordome-app/majordome/internal/types"
	"github.com/majordome-app/majordome/internal/types/interfaces"
)

// mockChat records the last request and returns a fixed reply
type mockChat struct {
	reply    string
	lastSeen []chat.Message
}

func (m *mockChat) Chat(ctx context.Context, messages []chat.Message, opts *chat.ChatOptions) (*chat.ChatResponse, error) {
	m.lastSeen = messages
	return &chat.ChatResponse{Content: m.reply}, nil
}

func newTestOrchestrator(t *testing.T, model chat.Chat) (*Service, interfaces.ConversationService, interfaces.MemoryService) {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "test.db")), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))

	conversations := conversationsvc.NewConversationService(conversationrepo.NewConversationRepository(db))
	memories := memorysvc.NewMemoryService(memoryrepo.NewMemoryRepository(db))
	return NewService(conversations, memories, model, DefaultOptions()), conversations, memories
}

func TestChatTurnPersistsBothMessages(t *testing.T) {
	model := &mockChat{reply: "Bien sûr, je m'en occupe."}
	svc, conversations, _ := newTestOrchestrator(t, model)
	ctx := context.Background()

	resp, err := svc.Chat(ctx, Request{Message: "bonjour"})
	require.NoError(t, err)
	require.NotEmpty(t, resp.ConversationID)
	assert.Equal(t, types.RoleUser, resp.UserMessage.Role)
	assert.Equal(t, "bonjour", resp.UserMessage.Content)
	assert.Equal(t, types.RoleAssistant, resp.AssistantMessage.Role)
	assert.Equal(t, "Bien sûr, je m'en occupe.", resp.AssistantMessage.Content)

	entries, err := conversations.GetContext(ctx, resp.ConversationID, 20)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, types.RoleUser, entries[0].Role)
	assert.Equal(t, types.RoleAssistant, entries[1].Role)
}

func TestChatTurnSendsSystemPromptAndHistory(t *testing.T) {
	model := &mockChat{reply: "ok"}
	svc, _, _ := newTestOrchestrator(t, model)
	ctx := context.Background()

	resp, err := svc.Chat(ctx, Request{Message: "première question"})
	require.NoError(t, err)
	_, err = svc.Chat(ctx, Request{ConversationID: resp.ConversationID, Message: "deuxième question"})
	require.NoError(t, err)

	require.NotEmpty(t, model.lastSeen)
	assert.Equal(t, string(types.RoleSystem), model.lastSeen[0].Role)
	// History includes the previous exchange and the new user message
	contents := make([]string, 0, len(model.lastSeen))
	for _, msg := range model.lastSeen[1:] {
		contents = append(contents, msg.Content)
	}
	assert.Equal(t, []string{"première question", "ok", "deuxième question"}, contents)
}

func TestChatTurnIncludesRelevantMemories(t *testing.T) {
	model := &mockChat{reply: "ok"}
	svc, _, memories := newTestOrchestrator(t, model)
	ctx := context.Background()

	_, err := memories.StoreMemory(ctx, interfaces.StoreMemoryParams{
		Content:  "le train pour Lyon part à 8h",
		Category: "agenda",
	})
	require.NoError(t, err)

	_, err = svc.Chat(ctx, Request{Message: "à quelle heure part le train pour Lyon ?", UseMemory: true})
	require.NoError(t, err)

	require.NotEmpty(t, model.lastSeen)
	system := model.lastSeen[0].Content
	assert.Contains(t, system, "Informations pertinentes de ta mémoire")
	assert.Contains(t, system, "le train pour Lyon part à 8h")
}

func TestChatTurnWithoutMemoryKeepsPromptClean(t *testing.T) {
	model := &mockChat{reply: "ok"}
	svc, _, memories := newTestOrchestrator(t, model)
	ctx := context.Background()

	_, err := memories.StoreMemory(ctx, interfaces.StoreMemoryParams{Content: "train pour Lyon"})
	require.NoError(t, err)

	_, err = svc.Chat(ctx, Request{Message: "parle-moi du train pour Lyon"})
	require.NoError(t, err)

	assert.NotContains(t, model.lastSeen[0].Content, "Informations pertinentes")
}

func TestChatTurnStoresTriggeredMemory(t *testing.T) {
	model := &mockChat{reply: "C'est noté."}
	svc, _, memories := newTestOrchestrator(t, model)
	ctx := context.Background()

	resp, err := svc.Chat(ctx, Request{Message: "Retiens que mon code wifi est 4242"})
	require.NoError(t, err)

	stored, err := memories.GetByCategory(ctx, "user_request", 10)
	require.NoError(t, err)
	require.Len(t, stored, 1)
	assert.Equal(t, "Retiens que mon code wifi est 4242", stored[0].Content)
	assert.True(t, strings.HasPrefix(stored[0].Context, "Conversation du "))
	require.NotNil(t, stored[0].RelatedConversationID)
	assert.Equal(t, resp.ConversationID, *stored[0].RelatedConversationID)
}

func TestChatTurnWithoutTriggerStoresNothing(t *testing.T) {
	model := &mockChat{reply: "ok"}
	svc, _, memories := newTestOrchestrator(t, model)
	ctx := context.Background()

	_, err := svc.Chat(ctx, Request{Message: "quel temps fait-il ?"})
	require.NoError(t, err)

	stored, err := memories.GetByCategory(ctx, "user_request", 10)
	require.NoError(t, err)
	assert.Empty(t, stored)
}

func TestChatUnknownConversation(t *testing.T) {
	svc, _, _ := newTestOrchestrator(t, &mockChat{reply: "ok"})

	_, err := svc.Chat(context.Background(), Request{ConversationID: "does-not-exist", Message: "bonjour"})
	assert.ErrorIs(t, err, types.ErrConversationNotFound)
}

func TestChatEmptyMessage(t *testing.T) {
	svc, _, _ := newTestOrchestrator(t, &mockChat{reply: "ok"})

	_, err := svc.Chat(context.Background(), Request{Message: "   "})
	assert.Error(t, err)
}

func TestKeywordTrigger(t *testing.T) {
	trigger := NewFrenchKeywordTrigger()

	assert.True(t, trigger.ShouldRemember("Rappelle-moi d'appeler maman"))
	assert.True(t, trigger.ShouldRemember("retiens bien ceci"))
	assert.True(t, trigger.ShouldRemember("c'est IMPORTANT"))
	assert.True(t, trigger.ShouldRemember("prends note de l'adresse"))
	assert.False(t, trigger.ShouldRemember("quel temps fait-il ?"))

	custom := NewKeywordTrigger([]string{"remember"})
	assert.True(t, custom.ShouldRemember("Please remember this"))
	assert.False(t, custom.ShouldRemember("rappelle-moi"))
}
