package handler_test

import (
	"context"

	"github.com/stretchr/testify/mock"

	"talk2me/backend/internal/chat"
	"talk2me/backend/internal/models"
)

// MockChatService is a testify mock of handler.ChatService.
type MockChatService struct {
	mock.Mock
}

func (m *MockChatService) CreateUser(ctx context.Context, username, email string, avatarURL *string) (*models.User, error) {
	args := m.Called(username, email, avatarURL)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockChatService) GetUser(ctx context.Context, id uint) (*models.User, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockChatService) LinkLoginProvider(ctx context.Context, userID uint, provider, providerID string) (*models.LoginProvider, error) {
	args := m.Called(userID, provider, providerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.LoginProvider), args.Error(1)
}

func (m *MockChatService) GetOrCreateConversation(ctx context.Context, userID1, userID2 uint) (*models.Conversation, error) {
	args := m.Called(userID1, userID2)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Conversation), args.Error(1)
}

func (m *MockChatService) CreateGroupConversation(ctx context.Context, adminID uint, memberIDs []uint, groupName string, opts ...chat.GroupOption) (*models.Conversation, error) {
	args := m.Called(adminID, memberIDs, groupName, len(opts))
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Conversation), args.Error(1)
}

func (m *MockChatService) SendMessage(ctx context.Context, conversationID, senderID uint, content string) (*models.Message, error) {
	args := m.Called(conversationID, senderID, content)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Message), args.Error(1)
}

func (m *MockChatService) GetConversationMessages(ctx context.Context, conversationID uint, limit int) ([]models.Message, error) {
	args := m.Called(conversationID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Message), args.Error(1)
}

func (m *MockChatService) MarkMessageRead(ctx context.Context, messageID, userID uint) error {
	args := m.Called(messageID, userID)
	return args.Error(0)
}

func (m *MockChatService) UpdateTypingStatus(ctx context.Context, conversationID, userID uint, isTyping bool) error {
	args := m.Called(conversationID, userID, isTyping)
	return args.Error(0)
}

func (m *MockChatService) GetUserConversations(ctx context.Context, userID uint, page, pageSize int) (*models.ConversationsPage, error) {
	args := m.Called(userID, page, pageSize)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.ConversationsPage), args.Error(1)
}

func (m *MockChatService) UnreadCount(ctx context.Context, conversationID, userID uint) (int64, error) {
	args := m.Called(conversationID, userID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockChatService) ParticipantIDs(ctx context.Context, conversationID uint) ([]uint, error) {
	args := m.Called(conversationID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]uint), args.Error(1)
}
