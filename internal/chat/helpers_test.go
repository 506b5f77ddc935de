package chat_test

import (
	"context"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"talk2me/backend/internal/chat"
	"talk2me/backend/internal/models"
	"talk2me/backend/internal/storage"
	"talk2me/backend/internal/storage/storagetest"
)

// MockRelay records what the engine hands to the transport.
type MockRelay struct {
	mock.Mock
}

func (m *MockRelay) Publish(topic string, payload []byte, userID, clientType string) error {
	args := m.Called(topic, payload, userID, clientType)
	return args.Error(0)
}

// tickingClock returns strictly increasing timestamps, one second apart.
type tickingClock struct {
	mu  sync.Mutex
	now time.Time
}

func newClock() *tickingClock {
	return &tickingClock{now: time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)}
}

func (c *tickingClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(time.Second)
	return c.now
}

type fixture struct {
	db    *gorm.DB
	store *storage.Service
	svc   *chat.Service
	relay *MockRelay
	clock *tickingClock
	users []models.User
}

// newFixture creates a fresh store with the given users and an engine over it.
// The relay accepts any publish unless the test sets its own expectations first.
func newFixture(t *testing.T, names ...string) *fixture {
	t.Helper()

	db := storagetest.NewDB(t)
	f := &fixture{
		db:    db,
		store: storage.NewStorageService(db),
		relay: new(MockRelay),
		clock: newClock(),
	}
	f.users = storagetest.CreateUsers(t, db, names...)
	f.svc = chat.NewService(f.store,
		chat.WithRelay(f.relay),
		chat.WithClock(f.clock.Now),
		chat.WithLogger(log.New(io.Discard)),
	)
	return f
}

func (f *fixture) acceptRelay() {
	f.relay.On("Publish", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(nil)
}

func (f *fixture) private(t *testing.T, a, b int) *models.Conversation {
	t.Helper()
	conv, err := f.svc.GetOrCreateConversation(context.Background(), f.users[a].ID, f.users[b].ID)
	require.NoError(t, err)
	return conv
}

func (f *fixture) count(t *testing.T, model any, query string, args ...any) int64 {
	t.Helper()
	var n int64
	q := f.db.Model(model)
	if query != "" {
		q = q.Where(query, args...)
	}
	require.NoError(t, q.Count(&n).Error)
	return n
}
