package chat

import (
	"context"
	"errors"
	"strings"
	"unicode/utf8"

	"talk2me/backend/internal/config"
	"talk2me/backend/internal/models"
	"talk2me/backend/internal/storage"
)

// SendMessage stores a message and rewrites the conversation summary in the
// same transaction. The relay is notified only after commit.
func (s *Service) SendMessage(ctx context.Context, conversationID, senderID uint, content string) (*models.Message, error) {
	if conversationID == 0 || senderID == 0 {
		return nil, invalid("conversation id and sender id are required")
	}
	if strings.TrimSpace(content) == "" {
		return nil, invalid("message content is empty")
	}
	if utf8.RuneCountInString(content) > config.MaxMessageLength {
		return nil, invalid("message exceeds %d characters", config.MaxMessageLength)
	}

	var (
		msg          *models.Message
		conv         *models.Conversation
		participants []uint
	)
	err := s.store.Transaction(ctx, func(repo storage.Repository) error {
		c, err := repo.LockConversation(ctx, conversationID)
		if err != nil {
			return err
		}
		if _, err := repo.GetParticipant(ctx, conversationID, senderID); err != nil {
			if errors.Is(err, storage.ErrNotFound) {
				return ErrNotAParticipant
			}
			return err
		}

		// Рядок розмови заблоковано, тож час останнього повідомлення не зменшується.
		sentAt := s.now()
		if c.LastMessageAt != nil && sentAt.Before(*c.LastMessageAt) {
			sentAt = *c.LastMessageAt
		}

		m := &models.Message{
			ConversationID: conversationID,
			SenderID:       senderID,
			Content:        content,
			Type:           models.MessageText,
			SentAt:         sentAt,
		}
		if err := repo.CreateMessage(ctx, m); err != nil {
			return err
		}
		// Квитанції з'являються лише після прочитання, зокрема й для автора.
		m.ReadBy = []models.ReadReceipt{}

		if err := repo.UpdateConversationSummary(ctx, conversationID, content, senderID, sentAt); err != nil {
			return err
		}
		c.LastMessageAt = &sentAt
		c.LastMessageContent = &m.Content
		c.LastMessageSenderID = &m.SenderID

		ids, err := repo.ListParticipantIDs(ctx, conversationID)
		if err != nil {
			return err
		}

		msg, conv, participants = m, c, ids
		return nil
	})

	switch {
	case err == nil:
	case errors.Is(err, ErrNotAParticipant):
		return nil, ErrNotAParticipant
	case errors.Is(err, storage.ErrNotFound):
		return nil, ErrConversationNotFound
	default:
		return nil, s.failure("send message", err)
	}

	s.relayMessage(conv, msg, participants)
	return msg, nil
}

// GetConversationMessages returns up to limit messages, newest first.
// limit <= 0 means the default page; larger values are capped.
func (s *Service) GetConversationMessages(ctx context.Context, conversationID uint, limit int) ([]models.Message, error) {
	if limit <= 0 {
		limit = config.DefaultMessageLimit
	}
	if limit > config.MaxMessageLimit {
		limit = config.MaxMessageLimit
	}

	if _, err := s.store.GetConversation(ctx, conversationID); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, ErrConversationNotFound
		}
		return nil, s.failure("get conversation", err)
	}

	msgs, err := s.store.ListMessages(ctx, conversationID, limit)
	if err != nil {
		return nil, s.failure("list messages", err)
	}
	return msgs, nil
}

// MarkMessageRead records a read receipt. Reading the same message twice is not an error.
func (s *Service) MarkMessageRead(ctx context.Context, messageID, userID uint) error {
	if messageID == 0 || userID == 0 {
		return invalid("message id and user id are required")
	}

	msg, err := s.store.GetMessage(ctx, messageID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return ErrMessageNotFound
		}
		return s.failure("get message", err)
	}
	if err := s.requireParticipant(ctx, msg.ConversationID, userID); err != nil {
		return err
	}

	receipt := &models.ReadReceipt{MessageID: messageID, UserID: userID, ReadAt: s.now()}
	if err := s.store.CreateReadReceipt(ctx, receipt); err != nil {
		return s.failure("create read receipt", err)
	}
	return nil
}

// UnreadCount - кількість повідомлень розмови без квитанції від userID.
func (s *Service) UnreadCount(ctx context.Context, conversationID, userID uint) (int64, error) {
	if err := s.requireParticipant(ctx, conversationID, userID); err != nil {
		return 0, err
	}
	n, err := s.store.CountUnread(ctx, conversationID, userID)
	if err != nil {
		return 0, s.failure("count unread", err)
	}
	return n, nil
}

func (s *Service) requireParticipant(ctx context.Context, conversationID, userID uint) error {
	_, err := s.store.GetParticipant(ctx, conversationID, userID)
	switch {
	case err == nil:
		return nil
	case errors.Is(err, storage.ErrNotFound):
		return ErrNotAParticipant
	default:
		return s.failure("get participant", err)
	}
}
