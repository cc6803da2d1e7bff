package services

import (
	"context"
	"fmt"
	"sync"

	"eventchat-backend/internal/chatapi"
	"eventchat-backend/internal/llm"
	"eventchat-backend/internal/models"
)

// mockChatBackend mocks chatapi.ChatBackend with per-method func fields.
type mockChatBackend struct {
	UpsertUserFunc    func(ctx context.Context, user chatapi.ChatUser) error
	CreateChannelFunc func(ctx context.Context, channelType, channelID, createdByID string, custom map[string]interface{}) (*chatapi.Channel, error)
	AddMembersFunc    func(ctx context.Context, channelType, channelID string, userIDs []string, hideHistory bool) error
	AddModeratorsFunc func(ctx context.Context, channelType, channelID string, userIDs []string) error
	GetChannelFunc    func(ctx context.Context, channelType, channelID string) (*chatapi.Channel, error)
	SendMessageFunc   func(ctx context.Context, channelType, channelID, senderID, text string) error
}

var _ chatapi.ChatBackend = (*mockChatBackend)(nil)

func (m *mockChatBackend) UpsertUser(ctx context.Context, user chatapi.ChatUser) error {
	if m.UpsertUserFunc != nil {
		return m.UpsertUserFunc(ctx, user)
	}
	return nil
}

func (m *mockChatBackend) CreateChannel(ctx context.Context, channelType, channelID, createdByID string, custom map[string]interface{}) (*chatapi.Channel, error) {
	if m.CreateChannelFunc != nil {
		return m.CreateChannelFunc(ctx, channelType, channelID, createdByID, custom)
	}
	return &chatapi.Channel{
		ID:     channelID,
		Type:   channelType,
		CID:    channelType + ":" + channelID,
		Custom: custom,
	}, nil
}

func (m *mockChatBackend) AddMembers(ctx context.Context, channelType, channelID string, userIDs []string, hideHistory bool) error {
	if m.AddMembersFunc != nil {
		return m.AddMembersFunc(ctx, channelType, channelID, userIDs, hideHistory)
	}
	return nil
}

func (m *mockChatBackend) AddModerators(ctx context.Context, channelType, channelID string, userIDs []string) error {
	if m.AddModeratorsFunc != nil {
		return m.AddModeratorsFunc(ctx, channelType, channelID, userIDs)
	}
	return nil
}

func (m *mockChatBackend) GetChannel(ctx context.Context, channelType, channelID string) (*chatapi.Channel, error) {
	if m.GetChannelFunc != nil {
		return m.GetChannelFunc(ctx, channelType, channelID)
	}
	return nil, chatapi.ErrChannelNotFound
}

func (m *mockChatBackend) SendMessage(ctx context.Context, channelType, channelID, senderID, text string) error {
	if m.SendMessageFunc != nil {
		return m.SendMessageFunc(ctx, channelType, channelID, senderID, text)
	}
	return nil
}

// fakeChatBackend is a stateful in-memory chat backend for end-to-end style
// tests across create/join/get.
type fakeChatBackend struct {
	mu       sync.Mutex
	users    map[string]chatapi.ChatUser
	channels map[string]*chatapi.Channel
	members  map[string]map[string]bool
	mods     map[string]map[string]bool
	messages []string
}

var _ chatapi.ChatBackend = (*fakeChatBackend)(nil)

func newFakeChatBackend() *fakeChatBackend {
	return &fakeChatBackend{
		users:    make(map[string]chatapi.ChatUser),
		channels: make(map[string]*chatapi.Channel),
		members:  make(map[string]map[string]bool),
		mods:     make(map[string]map[string]bool),
	}
}

func (f *fakeChatBackend) cid(channelType, channelID string) string {
	return channelType + ":" + channelID
}

func (f *fakeChatBackend) UpsertUser(ctx context.Context, user chatapi.ChatUser) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.users[user.ID] = user
	return nil
}

func (f *fakeChatBackend) CreateChannel(ctx context.Context, channelType, channelID, createdByID string, custom map[string]interface{}) (*chatapi.Channel, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	cid := f.cid(channelType, channelID)
	copied := make(map[string]interface{}, len(custom))
	for k, v := range custom {
		copied[k] = v
	}
	ch := &chatapi.Channel{
		ID:     channelID,
		Type:   channelType,
		CID:    cid,
		Custom: copied,
	}
	f.channels[cid] = ch
	f.members[cid] = make(map[string]bool)
	f.mods[cid] = make(map[string]bool)
	return ch, nil
}

func (f *fakeChatBackend) AddMembers(ctx context.Context, channelType, channelID string, userIDs []string, hideHistory bool) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	cid := f.cid(channelType, channelID)
	if _, ok := f.channels[cid]; !ok {
		return chatapi.ErrChannelNotFound
	}
	for _, id := range userIDs {
		f.members[cid][id] = true
	}
	return nil
}

func (f *fakeChatBackend) AddModerators(ctx context.Context, channelType, channelID string, userIDs []string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	cid := f.cid(channelType, channelID)
	if _, ok := f.channels[cid]; !ok {
		return chatapi.ErrChannelNotFound
	}
	for _, id := range userIDs {
		f.mods[cid][id] = true
	}
	return nil
}

func (f *fakeChatBackend) GetChannel(ctx context.Context, channelType, channelID string) (*chatapi.Channel, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	cid := f.cid(channelType, channelID)
	ch, ok := f.channels[cid]
	if !ok {
		return nil, chatapi.ErrChannelNotFound
	}
	out := *ch
	out.Members = nil
	for id := range f.members[cid] {
		out.Members = append(out.Members, chatapi.ChannelMember{UserID: id})
	}
	out.MemberCount = len(out.Members)
	return &out, nil
}

func (f *fakeChatBackend) SendMessage(ctx context.Context, channelType, channelID, senderID, text string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.messages = append(f.messages, fmt.Sprintf("%s|%s|%s", f.cid(channelType, channelID), senderID, text))
	return nil
}

// mockHistoryStore mocks store.HistoryStore with per-method func fields.
type mockHistoryStore struct {
	GetHistoryFunc  func(ctx context.Context, userID string) ([]models.ChatMessage, error)
	SaveHistoryFunc func(ctx context.Context, userID string, msgs []models.ChatMessage) error
}

func (m *mockHistoryStore) GetHistory(ctx context.Context, userID string) ([]models.ChatMessage, error) {
	if m.GetHistoryFunc != nil {
		return m.GetHistoryFunc(ctx, userID)
	}
	return nil, nil
}

func (m *mockHistoryStore) SaveHistory(ctx context.Context, userID string, msgs []models.ChatMessage) error {
	if m.SaveHistoryFunc != nil {
		return m.SaveHistoryFunc(ctx, userID, msgs)
	}
	return nil
}

// mockLanguageBackend mocks llm.LanguageBackend.
type mockLanguageBackend struct {
	GenerateFunc func(ctx context.Context, systemPrompt string, history []llm.Turn, message string) (string, error)
}

var _ llm.LanguageBackend = (*mockLanguageBackend)(nil)

func (m *mockLanguageBackend) Generate(ctx context.Context, systemPrompt string, history []llm.Turn, message string) (string, error) {
	if m.GenerateFunc != nil {
		return m.GenerateFunc(ctx, systemPrompt, history, message)
	}
	return "mock reply", nil
}
