// Package chat holds the conversation and message rules: private conversation
// lookup-or-create, group creation, message send with the conversation summary,
// read receipts, typing state and the per-user conversation feed.
package chat

import (
	"time"

	"github.com/charmbracelet/log"

	"talk2me/backend/internal/storage"
)

// Relay mirrors chat events onto a publish/subscribe transport.
// Publish must not block; a returned error is logged and otherwise ignored.
type Relay interface {
	Publish(topic string, payload []byte, userID, clientType string) error
}

type Option func(*Service)

func WithRelay(r Relay) Option {
	return func(s *Service) { s.relay = r }
}

func WithLogger(l *log.Logger) Option {
	return func(s *Service) { s.log = l }
}

// WithClock overrides the source of server-assigned timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// Service - рушій чату. Безпечний для конкурентного використання:
// уся координація відбувається через транзакції сховища.
type Service struct {
	store storage.Storage
	relay Relay
	log   *log.Logger
	now   func() time.Time
}

func NewService(store storage.Storage, opts ...Option) *Service {
	s := &Service{
		store: store,
		log:   log.Default().WithPrefix("chat"),
		now:   func() time.Time { return time.Now().UTC().Truncate(time.Microsecond) },
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}
