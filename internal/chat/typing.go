package chat

import (
	"context"
	"time"
)

// UpdateTypingStatus overwrites the participant's typing flag. Last writer wins.
func (s *Service) UpdateTypingStatus(ctx context.Context, conversationID, userID uint, isTyping bool) error {
	if conversationID == 0 || userID == 0 {
		return invalid("conversation id and user id are required")
	}

	var at *time.Time
	if isTyping {
		now := s.now()
		at = &now
	}

	n, err := s.store.UpdateTypingStatus(ctx, conversationID, userID, isTyping, at)
	if err != nil {
		return s.failure("update typing status", err)
	}
	if n == 0 {
		return ErrNotAParticipant
	}

	conv, err := s.store.GetConversation(ctx, conversationID)
	if err != nil {
		s.log.Warn("typing status stored but not relayed", "conversation_id", conversationID, "err", err)
		return nil
	}
	s.relayTyping(conv, userID, isTyping)
	return nil
}
