package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type MessageType string

const (
	MessageText   MessageType = "text"
	MessageImage  MessageType = "image"
	MessageSystem MessageType = "system"
)

// Message is immutable once stored. Order within a conversation is (sent_at, id).
type Message struct {
	ID              uint        `gorm:"primaryKey" json:"id"`
	UniqueMessageID string      `gorm:"type:varchar(36);uniqueIndex;not null" json:"uniqueMessageId"`
	ConversationID  uint        `gorm:"not null;index:idx_messages_conversation_sent,priority:1" json:"conversationId"`
	SenderID        uint        `gorm:"not null;index" json:"senderId"`
	Content         string      `gorm:"size:500;not null" json:"content"`
	Type            MessageType `gorm:"type:varchar(16);not null;default:text" json:"type"`
	SentAt          time.Time   `gorm:"not null;index:idx_messages_conversation_sent,priority:2" json:"sentAt"`

	Sender *User         `gorm:"constraint:OnDelete:CASCADE" json:"sender,omitempty"`
	ReadBy []ReadReceipt `gorm:"constraint:OnDelete:CASCADE" json:"readBy"`
}

func (m *Message) BeforeCreate(tx *gorm.DB) (err error) {
	if m.UniqueMessageID == "" {
		m.UniqueMessageID = uuid.New().String()
	}
	if m.Type == "" {
		m.Type = MessageText
	}
	return
}

// ReadReceipt фіксує, що користувач побачив повідомлення. Не більше одного на пару.
type ReadReceipt struct {
	MessageID uint      `gorm:"primaryKey;autoIncrement:false" json:"messageId"`
	UserID    uint      `gorm:"primaryKey;autoIncrement:false;index" json:"userId"`
	ReadAt    time.Time `gorm:"not null" json:"readAt"`

	User *User `gorm:"constraint:OnDelete:CASCADE" json:"-"`
}
