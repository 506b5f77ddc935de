package storage

import (
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"talk2me/backend/internal/models"
)

func preloadMembers(db *gorm.DB) *gorm.DB {
	return db.Preload("Participants", func(db *gorm.DB) *gorm.DB {
		return db.Order("user_id")
	}).Preload("Group")
}

// FindPrivateConversation шукає приватну розмову за канонічним ключем пари.
func (s *Service) FindPrivateConversation(ctx context.Context, pairKey string) (*models.Conversation, error) {
	var conv models.Conversation
	err := preloadMembers(s.db(ctx)).
		Where("type = ? AND pair_key = ?", models.ConversationPrivate, pairKey).
		First(&conv).Error
	if err != nil {
		return nil, translateError(err)
	}
	return &conv, nil
}

func (s *Service) GetConversation(ctx context.Context, id uint) (*models.Conversation, error) {
	var conv models.Conversation
	if err := preloadMembers(s.db(ctx)).First(&conv, id).Error; err != nil {
		return nil, translateError(err)
	}
	return &conv, nil
}

// LockConversation reads the conversation row with FOR UPDATE so that
// concurrent senders serialize on the summary columns. Only meaningful inside Transaction.
func (s *Service) LockConversation(ctx context.Context, id uint) (*models.Conversation, error) {
	var conv models.Conversation
	err := s.db(ctx).Clauses(clause.Locking{Strength: "UPDATE"}).First(&conv, id).Error
	if err != nil {
		return nil, translateError(err)
	}
	return &conv, nil
}

func (s *Service) CreateConversation(ctx context.Context, conv *models.Conversation) error {
	return translateError(s.db(ctx).Omit(clause.Associations).Create(conv).Error)
}

func (s *Service) CreateGroup(ctx context.Context, group *models.Group) error {
	return translateError(s.db(ctx).Omit(clause.Associations).Create(group).Error)
}

func (s *Service) AddParticipants(ctx context.Context, participants []models.Participant) error {
	if len(participants) == 0 {
		return nil
	}
	return translateError(s.db(ctx).Omit(clause.Associations).Create(&participants).Error)
}

func (s *Service) GetParticipant(ctx context.Context, conversationID, userID uint) (*models.Participant, error) {
	var p models.Participant
	err := s.db(ctx).
		Where("conversation_id = ? AND user_id = ?", conversationID, userID).
		First(&p).Error
	if err != nil {
		return nil, translateError(err)
	}
	return &p, nil
}

func (s *Service) ListParticipantIDs(ctx context.Context, conversationID uint) ([]uint, error) {
	var ids []uint
	err := s.db(ctx).Model(&models.Participant{}).
		Where("conversation_id = ?", conversationID).
		Order("user_id").
		Pluck("user_id", &ids).Error
	return ids, translateError(err)
}

// UpdateTypingStatus перезаписує прапорець набору одним UPDATE.
// Повертає кількість змінених рядків: 0 означає, що учасника немає.
func (s *Service) UpdateTypingStatus(ctx context.Context, conversationID, userID uint, isTyping bool, at *time.Time) (int64, error) {
	res := s.db(ctx).Model(&models.Participant{}).
		Where("conversation_id = ? AND user_id = ?", conversationID, userID).
		Updates(map[string]any{
			"is_typing":      isTyping,
			"last_typing_at": at,
		})
	return res.RowsAffected, translateError(res.Error)
}
