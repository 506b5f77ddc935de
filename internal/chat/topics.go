package chat

import (
	"encoding/json"
	"fmt"

	"talk2me/backend/internal/config"
	"talk2me/backend/internal/models"
)

func UserTopic(userID uint) string          { return fmt.Sprintf("user/%d", userID) }
func GroupTopic(conversationID uint) string { return fmt.Sprintf("group/%d", conversationID) }
func TypingTopic(userID uint) string        { return fmt.Sprintf("typing/%d", userID) }
func GroupTypingTopic(conversationID uint) string {
	return fmt.Sprintf("group/%d/typing", conversationID)
}

// publish hands an event to the relay. Called only after commit.
func (s *Service) publish(topics []string, event any, userID uint, clientType string) {
	if s.relay == nil || len(topics) == 0 {
		return
	}
	payload, err := json.Marshal(event)
	if err != nil {
		s.log.Error("failed to encode relay event", "err", err)
		return
	}
	sender := fmt.Sprint(userID)
	for _, topic := range topics {
		if err := s.relay.Publish(topic, payload, sender, clientType); err != nil {
			s.log.Warn("relay publish failed", "topic", topic, "err", err)
		}
	}
}

func (s *Service) relayMessage(conv *models.Conversation, msg *models.Message, participantIDs []uint) {
	var topics []string
	if conv.IsPrivate() {
		for _, id := range participantIDs {
			if id != msg.SenderID {
				topics = append(topics, UserTopic(id))
			}
		}
	} else {
		topics = []string{GroupTopic(conv.ID)}
	}

	s.publish(topics, models.MessageEvent{
		Kind:           "message",
		MessageID:      msg.ID,
		ConversationID: conv.ID,
		SenderID:       msg.SenderID,
		Content:        msg.Content,
		SentAt:         msg.SentAt,
	}, msg.SenderID, config.DefaultClientType)
}

func (s *Service) relayTyping(conv *models.Conversation, userID uint, isTyping bool) {
	var topics []string
	if conv.IsPrivate() {
		for _, p := range conv.Participants {
			if p.UserID != userID {
				topics = append(topics, TypingTopic(p.UserID))
			}
		}
	} else {
		topics = []string{GroupTypingTopic(conv.ID)}
	}

	s.publish(topics, models.TypingEvent{
		Kind:           "typing",
		ConversationID: conv.ID,
		UserID:         userID,
		IsTyping:       isTyping,
	}, userID, config.TypingClientType)
}
