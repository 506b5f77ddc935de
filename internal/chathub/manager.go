package chathub

import (
	"context"
	"strconv"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"talk2me/backend/internal/models"
)

// ChatCommands is the part of the chat engine the hub calls into.
type ChatCommands interface {
	UpdateTypingStatus(ctx context.Context, conversationID, userID uint, isTyping bool) error
	MarkMessageRead(ctx context.Context, messageID, userID uint) error
	ParticipantIDs(ctx context.Context, conversationID uint) ([]uint, error)
}

type routed struct {
	recipients []string
	delivery   models.Delivery
}

// ManagerService тримає підключених клієнтів і розсилає їм події з Redis.
type ManagerService struct {
	mu      sync.RWMutex
	Clients map[string]map[Client]struct{}

	RegisterCh   chan Client
	UnregisterCh chan Client
	deliverCh    chan routed
	done         chan struct{}

	chat        ChatCommands
	topicPrefix string
	log         *log.Logger
}

func NewManagerService(commands ChatCommands, topicPrefix string, logger *log.Logger) *ManagerService {
	if logger == nil {
		logger = log.Default().WithPrefix("hub")
	}
	return &ManagerService{
		Clients:      make(map[string]map[Client]struct{}),
		RegisterCh:   make(chan Client),
		UnregisterCh: make(chan Client),
		deliverCh:    make(chan routed, 256),
		done:         make(chan struct{}),
		chat:         commands,
		topicPrefix:  topicPrefix,
		log:          logger,
	}
}

// Register передає клієнта головному циклу.
func (m *ManagerService) Register(c Client) {
	select {
	case m.RegisterCh <- c:
	case <-m.done:
		c.Close()
	}
}

func (m *ManagerService) Unregister(c Client) {
	select {
	case m.UnregisterCh <- c:
	case <-m.done:
	}
}

// IsConnected reports whether userID has at least one live connection.
func (m *ManagerService) IsConnected(userID string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.Clients[userID]) > 0
}

// Run is the hub's main loop. It owns Clients; other goroutines only read them.
func (m *ManagerService) Run(ctx context.Context) {
	defer func() {
		close(m.done)
		m.mu.Lock()
		for userID, conns := range m.Clients {
			for c := range conns {
				c.Close()
			}
			delete(m.Clients, userID)
		}
		m.mu.Unlock()
	}()

	for {
		select {
		case <-ctx.Done():
			return

		case c := <-m.RegisterCh:
			m.mu.Lock()
			conns, ok := m.Clients[c.GetUserID()]
			if !ok {
				conns = make(map[Client]struct{})
				m.Clients[c.GetUserID()] = conns
			}
			conns[c] = struct{}{}
			m.mu.Unlock()
			m.log.Debug("client registered", "user_id", c.GetUserID())

		case c := <-m.UnregisterCh:
			m.remove(c)

		case r := <-m.deliverCh:
			m.dispatch(r)
		}
	}
}

func (m *ManagerService) remove(c Client) {
	m.mu.Lock()
	defer m.mu.Unlock()

	conns, ok := m.Clients[c.GetUserID()]
	if !ok {
		return
	}
	if _, ok := conns[c]; !ok {
		return
	}
	delete(conns, c)
	if len(conns) == 0 {
		delete(m.Clients, c.GetUserID())
	}
	c.Close()
	m.log.Debug("client unregistered", "user_id", c.GetUserID())
}

func (m *ManagerService) dispatch(r routed) {
	var slow []Client

	m.mu.RLock()
	for _, userID := range r.recipients {
		for c := range m.Clients[userID] {
			select {
			case c.GetSendChannel() <- r.delivery:
			default:
				// повільний клієнт: від'єднуємо
				slow = append(slow, c)
			}
		}
	}
	m.mu.RUnlock()

	for _, c := range slow {
		m.log.Warn("client too slow, disconnecting", "user_id", c.GetUserID())
		m.remove(c)
	}
}

// HandleCommand виконує команду, надіслану клієнтом через WebSocket.
func (m *ManagerService) HandleCommand(userID string, cmd ClientCommand) {
	uid, err := strconv.ParseUint(userID, 10, 64)
	if err != nil {
		m.log.Warn("command from client with non-numeric user id", "user_id", userID)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	switch cmd.Type {
	case "typing":
		err = m.chat.UpdateTypingStatus(ctx, cmd.ConversationID, uint(uid), cmd.IsTyping)
	case "read":
		err = m.chat.MarkMessageRead(ctx, cmd.MessageID, uint(uid))
	default:
		m.log.Debug("unknown client command", "user_id", userID, "type", cmd.Type)
		return
	}
	if err != nil {
		m.log.Warn("client command failed", "user_id", userID, "type", cmd.Type, "err", err)
	}
}
