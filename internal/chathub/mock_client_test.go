package chathub_test

import (
	"context"
	"sync"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/mock"

	"talk2me/backend/internal/models"
)

type MockClient struct {
	userID      string
	RecvChannel chan models.Delivery

	mu     sync.Mutex
	closed bool
}

func newMockClient(userID string) *MockClient {
	return &MockClient{
		userID:      userID,
		RecvChannel: make(chan models.Delivery, 10),
	}
}

func (c *MockClient) GetUserID() string {
	return c.userID
}

func (c *MockClient) GetSendChannel() chan<- models.Delivery {
	return c.RecvChannel
}

func (c *MockClient) Run() {
	// Not needed for testing
}

func (c *MockClient) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed = true
}

func (c *MockClient) IsClosed() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.closed
}

// MockChat implements chathub.ChatCommands.
type MockChat struct {
	mock.Mock
}

func (m *MockChat) UpdateTypingStatus(ctx context.Context, conversationID, userID uint, isTyping bool) error {
	args := m.Called(conversationID, userID, isTyping)
	return args.Error(0)
}

func (m *MockChat) MarkMessageRead(ctx context.Context, messageID, userID uint) error {
	args := m.Called(messageID, userID)
	return args.Error(0)
}

func (m *MockChat) ParticipantIDs(ctx context.Context, conversationID uint) ([]uint, error) {
	args := m.Called(conversationID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]uint), args.Error(1)
}

// MockRedis implements chathub.Publisher.
type MockRedis struct {
	mock.Mock
}

func (m *MockRedis) Publish(ctx context.Context, channel string, message interface{}) *redis.IntCmd {
	args := m.Called(channel, message)
	return redis.NewIntResult(1, args.Error(0))
}

func (m *MockRedis) Ping(ctx context.Context) *redis.StatusCmd {
	args := m.Called()
	return redis.NewStatusResult("PONG", args.Error(0))
}
