package chat

import (
	"context"
	"errors"

	"talk2me/backend/internal/config"
	"talk2me/backend/internal/models"
	"talk2me/backend/internal/storage"
)

// GetUserConversations returns one page of the user's conversations, most
// recently active first. Conversations without messages come last; ties are
// broken by conversation id descending.
func (s *Service) GetUserConversations(ctx context.Context, userID uint, page, pageSize int) (*models.ConversationsPage, error) {
	if page < 1 {
		return nil, invalid("page must be >= 1")
	}
	if pageSize < 1 || pageSize > config.MaxPageSize {
		return nil, invalid("page size must be between 1 and %d", config.MaxPageSize)
	}

	user, err := s.store.GetUser(ctx, userID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, invalid("unknown user id")
		}
		return nil, s.failure("get user", err)
	}

	rows, err := s.store.ListConversationFeed(ctx, userID, pageSize, (page-1)*pageSize)
	if err != nil {
		return nil, s.failure("list conversation feed", err)
	}

	var total int64
	switch {
	case len(rows) > 0:
		total = rows[0].TotalItems
	case page > 1:
		// За межами останньої сторінки рядків немає, тож рахуємо окремо.
		if total, err = s.store.CountUserConversations(ctx, userID); err != nil {
			return nil, s.failure("count conversations", err)
		}
	}

	items := make([]models.ConversationSummary, 0, len(rows))
	for _, row := range rows {
		items = append(items, s.summarize(user, row))
	}

	return &models.ConversationsPage{
		Conversations: items,
		CurrentPage:   page,
		TotalPages:    int((total + int64(pageSize) - 1) / int64(pageSize)),
		TotalItems:    total,
	}, nil
}

func (s *Service) summarize(user *models.User, row models.FeedRow) models.ConversationSummary {
	item := models.ConversationSummary{
		ConversationID:        row.ConversationID,
		LastMessage:           config.NoMessagesPreview,
		LastMessageAt:         row.LastMessageAt,
		LastMessageSenderID:   row.LastMessageSenderID,
		LastMessageSenderName: row.LastMessageSenderName,
		UnreadCount:           row.UnreadCount,
		Type:                  row.Type,
	}
	if row.LastMessageContent != nil {
		item.LastMessage = *row.LastMessageContent
	}

	if row.Type == models.ConversationGroup {
		switch {
		case row.GroupTitle != nil:
			item.Name = *row.GroupTitle
		case row.GroupName != nil:
			item.Name = *row.GroupName
		}
		count := row.ParticipantCount
		item.ParticipantCount = &count
		item.AvatarURL = row.GroupAvatarURL
		return item
	}

	if row.OtherUsername == nil {
		// Приватна розмова без другого учасника: показуємо самого користувача.
		s.log.Warn("private conversation has no other participant", "conversation_id", row.ConversationID, "user_id", user.ID)
		item.Name = user.Username
		item.AvatarURL = user.AvatarURL
		return item
	}
	item.Name = *row.OtherUsername
	item.AvatarURL = row.OtherAvatarURL
	return item
}
