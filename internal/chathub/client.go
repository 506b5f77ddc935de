package chathub

import "talk2me/backend/internal/models"

// Client is one live realtime connection of a user.
// A user may hold several connections at once (tabs, devices).
type Client interface {
	// GetUserID returns the id of the authenticated user behind the connection.
	GetUserID() string

	// GetSendChannel returns the channel the hub writes deliveries to.
	GetSendChannel() chan<- models.Delivery

	// Run starts the client's read and write pumps.
	Run()
	// Close shuts down the outgoing side of the connection.
	Close()
}

// ClientCommand is what a connected client may send upstream.
type ClientCommand struct {
	Type           string `json:"type"` // "typing", "read"
	ConversationID uint   `json:"conversationId,omitempty"`
	MessageID      uint   `json:"messageId,omitempty"`
	IsTyping       bool   `json:"isTyping,omitempty"`
}
