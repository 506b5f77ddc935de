package storage

import (
	"context"
	"time"

	"gorm.io/gorm"

	"talk2me/backend/internal/models"
)

// Repository is CRUD-level access to the chat relations. It carries no business rules.
type Repository interface {
	CreateUser(ctx context.Context, user *models.User) error
	GetUser(ctx context.Context, id uint) (*models.User, error)
	CountUsers(ctx context.Context, ids []uint) (int64, error)
	CreateLoginProvider(ctx context.Context, lp *models.LoginProvider) error
	GetLoginProvider(ctx context.Context, userID uint) (*models.LoginProvider, error)

	FindPrivateConversation(ctx context.Context, pairKey string) (*models.Conversation, error)
	GetConversation(ctx context.Context, id uint) (*models.Conversation, error)
	LockConversation(ctx context.Context, id uint) (*models.Conversation, error)
	CreateConversation(ctx context.Context, conv *models.Conversation) error
	CreateGroup(ctx context.Context, group *models.Group) error

	AddParticipants(ctx context.Context, participants []models.Participant) error
	GetParticipant(ctx context.Context, conversationID, userID uint) (*models.Participant, error)
	ListParticipantIDs(ctx context.Context, conversationID uint) ([]uint, error)
	UpdateTypingStatus(ctx context.Context, conversationID, userID uint, isTyping bool, at *time.Time) (int64, error)

	CreateMessage(ctx context.Context, msg *models.Message) error
	GetMessage(ctx context.Context, id uint) (*models.Message, error)
	ListMessages(ctx context.Context, conversationID uint, limit int) ([]models.Message, error)
	UpdateConversationSummary(ctx context.Context, conversationID uint, content string, senderID uint, at time.Time) error
	CreateReadReceipt(ctx context.Context, receipt *models.ReadReceipt) error
	CountUnread(ctx context.Context, conversationID, userID uint) (int64, error)

	ListConversationFeed(ctx context.Context, userID uint, limit, offset int) ([]models.FeedRow, error)
	CountUserConversations(ctx context.Context, userID uint) (int64, error)
}

// Storage is a Repository that can also run a unit of work atomically.
type Storage interface {
	Repository
	// Transaction runs fn against a Repository bound to one store transaction.
	// A non-nil error from fn rolls everything back.
	Transaction(ctx context.Context, fn func(repo Repository) error) error
}

// Service реалізує Storage поверх GORM.
type Service struct {
	DB *gorm.DB
}

// NewStorageService Constructor
func NewStorageService(db *gorm.DB) *Service {
	return &Service{DB: db}
}

func (s *Service) Transaction(ctx context.Context, fn func(repo Repository) error) error {
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&Service{DB: tx})
	})
	return translateError(err)
}

func (s *Service) db(ctx context.Context) *gorm.DB {
	return s.DB.WithContext(ctx)
}
