package storage

import (
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"talk2me/backend/internal/models"
)

func (s *Service) CreateMessage(ctx context.Context, msg *models.Message) error {
	return translateError(s.db(ctx).Omit(clause.Associations).Create(msg).Error)
}

func (s *Service) GetMessage(ctx context.Context, id uint) (*models.Message, error) {
	var msg models.Message
	if err := s.db(ctx).First(&msg, id).Error; err != nil {
		return nil, translateError(err)
	}
	return &msg, nil
}

// ListMessages returns the newest messages first, with sender and read receipts loaded.
func (s *Service) ListMessages(ctx context.Context, conversationID uint, limit int) ([]models.Message, error) {
	var msgs []models.Message
	err := s.db(ctx).
		Preload("Sender").
		Preload("ReadBy", func(db *gorm.DB) *gorm.DB {
			return db.Order("read_at, user_id")
		}).
		Where("conversation_id = ?", conversationID).
		Order("sent_at DESC").
		Order("id DESC").
		Limit(limit).
		Find(&msgs).Error
	return msgs, translateError(err)
}

func (s *Service) UpdateConversationSummary(ctx context.Context, conversationID uint, content string, senderID uint, at time.Time) error {
	res := s.db(ctx).Model(&models.Conversation{}).
		Where("id = ?", conversationID).
		Updates(map[string]any{
			"last_message_at":        at,
			"last_message_content":   content,
			"last_message_sender_id": senderID,
		})
	if res.Error != nil {
		return translateError(res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// CreateReadReceipt вставляє квитанцію; повторне прочитання нічого не змінює.
func (s *Service) CreateReadReceipt(ctx context.Context, receipt *models.ReadReceipt) error {
	err := s.db(ctx).
		Omit(clause.Associations).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(receipt).Error
	return translateError(err)
}

func (s *Service) CountUnread(ctx context.Context, conversationID, userID uint) (int64, error) {
	var n int64
	err := s.db(ctx).Model(&models.Message{}).
		Where("conversation_id = ?", conversationID).
		Where("NOT EXISTS (SELECT 1 FROM read_receipts r WHERE r.message_id = messages.id AND r.user_id = ?)", userID).
		Count(&n).Error
	return n, translateError(err)
}
