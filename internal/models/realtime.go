package models

import "time"

// RelayEnvelope is what the relay puts on the wire for every chat event.
type RelayEnvelope struct {
	UserID     string    `json:"userId"`
	ClientType string    `json:"clientType"`
	MessageID  string    `json:"messageId"`
	Content    string    `json:"content"`
	Timestamp  time.Time `json:"timestamp"`
}

// MessageEvent - подія нового повідомлення для доставки в реальному часі.
type MessageEvent struct {
	Kind           string    `json:"kind"` // "message"
	MessageID      uint      `json:"messageId"`
	ConversationID uint      `json:"conversationId"`
	SenderID       uint      `json:"senderId"`
	Content        string    `json:"content"`
	SentAt         time.Time `json:"sentAt"`
}

// TypingEvent - подія зміни статусу набору тексту.
type TypingEvent struct {
	Kind           string `json:"kind"` // "typing"
	ConversationID uint   `json:"conversationId"`
	UserID         uint   `json:"userId"`
	IsTyping       bool   `json:"isTyping"`
}

// Delivery is what the realtime hub writes to a connected client.
type Delivery struct {
	Topic    string        `json:"topic"`
	Envelope RelayEnvelope `json:"envelope"`
}
