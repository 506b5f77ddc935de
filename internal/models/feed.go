package models

import "time"

// ConversationSummary is one row of a user's conversation feed.
type ConversationSummary struct {
	ConversationID        uint             `json:"conversationId"`
	Name                  string           `json:"name"`
	LastMessage           string           `json:"lastMessage"`
	LastMessageAt         *time.Time       `json:"lastMessageAt"`
	LastMessageSenderID   *uint            `json:"lastMessageSenderId"`
	LastMessageSenderName *string          `json:"lastMessageSenderName"`
	UnreadCount           int64            `json:"unreadCount"`
	Type                  ConversationType `json:"type"`
	ParticipantCount      *int64           `json:"participantCount,omitempty"`
	AvatarURL             *string          `json:"avatarUrl"`
}

type ConversationsPage struct {
	Conversations []ConversationSummary `json:"conversations"`
	CurrentPage   int                   `json:"currentPage"`
	TotalPages    int                   `json:"totalPages"`
	TotalItems    int64                 `json:"totalItems"`
}

// FeedRow is the raw projection the store returns for one feed entry.
type FeedRow struct {
	ConversationID        uint
	Type                  ConversationType
	GroupName             *string
	GroupTitle            *string
	GroupAvatarURL        *string
	ParticipantCount      int64
	OtherUsername         *string
	OtherAvatarURL        *string
	LastMessageAt         *time.Time
	LastMessageContent    *string
	LastMessageSenderID   *uint
	LastMessageSenderName *string
	UnreadCount           int64
	TotalItems            int64
}
