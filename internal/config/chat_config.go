package config

import "time"

const (
	// Messages
	MaxMessageLength    = 500
	DefaultMessageLimit = 50
	MaxMessageLimit     = 200

	// Groups
	MaxGroupNameLength   = 50
	MaxGroupTitleLength  = 100
	MaxDescriptionLength = 200
	MaxAvatarURLLength   = 200

	// Feed
	DefaultPageSize   = 20
	MaxPageSize       = 100
	NoMessagesPreview = "No messages"

	// Relay
	DefaultClientType   = "webapi"
	TypingClientType    = "typing"
	DefaultRelayBackoff = 5 * time.Second
)
