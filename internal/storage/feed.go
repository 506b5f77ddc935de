package storage

import (
	"context"

	"talk2me/backend/internal/models"
)

// feedQuery builds a whole feed page in one statement so that the summary
// columns, unread counts and the total are read from the same snapshot.
const feedQuery = `
SELECT
	c.id AS conversation_id,
	c.type AS type,
	c.group_name AS group_name,
	g.title AS group_title,
	g.avatar_url AS group_avatar_url,
	(SELECT COUNT(*) FROM participants pc WHERE pc.conversation_id = c.id) AS participant_count,
	ou.username AS other_username,
	ou.avatar_url AS other_avatar_url,
	c.last_message_at AS last_message_at,
	c.last_message_content AS last_message_content,
	c.last_message_sender_id AS last_message_sender_id,
	su.username AS last_message_sender_name,
	(SELECT COUNT(*) FROM messages m
		WHERE m.conversation_id = c.id
		AND NOT EXISTS (SELECT 1 FROM read_receipts r WHERE r.message_id = m.id AND r.user_id = p.user_id)
	) AS unread_count,
	COUNT(*) OVER () AS total_items
FROM participants p
JOIN conversations c ON c.id = p.conversation_id
LEFT JOIN chat_groups g ON g.conversation_id = c.id
LEFT JOIN users ou ON c.type = 'private' AND ou.id = (
	SELECT op.user_id FROM participants op
	WHERE op.conversation_id = c.id AND op.user_id <> p.user_id
	ORDER BY op.user_id
	LIMIT 1
)
LEFT JOIN users su ON su.id = c.last_message_sender_id
WHERE p.user_id = ?
ORDER BY (c.last_message_at IS NULL) ASC, c.last_message_at DESC, c.id DESC
LIMIT ? OFFSET ?`

// ListConversationFeed повертає сторінку стрічки розмов користувача.
// Кожен рядок містить TotalItems для всієї вибірки.
func (s *Service) ListConversationFeed(ctx context.Context, userID uint, limit, offset int) ([]models.FeedRow, error) {
	var rows []models.FeedRow
	err := s.db(ctx).Raw(feedQuery, userID, limit, offset).Scan(&rows).Error
	return rows, translateError(err)
}

func (s *Service) CountUserConversations(ctx context.Context, userID uint) (int64, error) {
	var n int64
	err := s.db(ctx).Model(&models.Participant{}).Where("user_id = ?", userID).Count(&n).Error
	return n, translateError(err)
}
