package models

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ConversationType string

const (
	ConversationPrivate ConversationType = "private"
	ConversationGroup   ConversationType = "group"
)

// Conversation is either a private dialog between exactly two users or a group.
// The LastMessage* columns are a denormalized summary written in the same
// transaction as the message they describe.
type Conversation struct {
	ID                   uint             `gorm:"primaryKey" json:"id"`
	UniqueConversationID string           `gorm:"type:varchar(36);uniqueIndex;not null" json:"uniqueConversationId"`
	Type                 ConversationType `gorm:"type:varchar(16);not null" json:"type"`
	GroupName            *string          `gorm:"size:50" json:"groupName,omitempty"`
	// PairKey is "<min user id>:<max user id>" for private conversations, NULL for groups.
	PairKey   *string   `gorm:"size:64;uniqueIndex" json:"-"`
	CreatedAt time.Time `json:"createdAt"`

	LastMessageAt       *time.Time `json:"lastMessageAt,omitempty"`
	LastMessageContent  *string    `gorm:"size:500" json:"lastMessageContent,omitempty"`
	LastMessageSenderID *uint      `json:"lastMessageSenderId,omitempty"`
	LastMessageSender   *User      `gorm:"foreignKey:LastMessageSenderID;constraint:OnDelete:SET NULL" json:"-"`

	Participants []Participant `gorm:"constraint:OnDelete:CASCADE" json:"participants,omitempty"`
	Messages     []Message     `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	Group        *Group        `gorm:"constraint:OnDelete:CASCADE" json:"group,omitempty"`
}

func (c *Conversation) BeforeCreate(tx *gorm.DB) (err error) {
	if c.UniqueConversationID == "" {
		c.UniqueConversationID = uuid.New().String()
	}
	return
}

// IsPrivate reports whether c is a one-to-one conversation.
func (c *Conversation) IsPrivate() bool {
	return c.Type == ConversationPrivate
}

// PairKey повертає канонічний ключ невпорядкованої пари користувачів.
func PairKey(userID1, userID2 uint) string {
	if userID1 > userID2 {
		userID1, userID2 = userID2, userID1
	}
	return fmt.Sprintf("%d:%d", userID1, userID2)
}

// Participant - членство користувача в розмові разом зі станом набору тексту.
type Participant struct {
	UserID         uint       `gorm:"primaryKey;autoIncrement:false" json:"userId"`
	ConversationID uint       `gorm:"primaryKey;autoIncrement:false;index" json:"conversationId"`
	JoinedAt       time.Time  `gorm:"not null" json:"joinedAt"`
	IsTyping       bool       `gorm:"not null;default:false" json:"isTyping"`
	LastTypingAt   *time.Time `json:"lastTypingAt,omitempty"`

	User *User `gorm:"constraint:OnDelete:CASCADE" json:"user,omitempty"`
}

// Group holds metadata of a group conversation. One row per group conversation.
type Group struct {
	ID             uint      `gorm:"primaryKey" json:"id"`
	UniqueGroupID  string    `gorm:"type:varchar(36);uniqueIndex;not null" json:"uniqueGroupId"`
	ConversationID uint      `gorm:"uniqueIndex;not null" json:"conversationId"`
	AdminID        uint      `gorm:"not null;index" json:"adminId"`
	Title          string    `gorm:"size:100;not null" json:"title"`
	Description    *string   `gorm:"size:200" json:"description,omitempty"`
	AvatarURL      *string   `gorm:"size:200" json:"avatarUrl,omitempty"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`

	Admin *User `gorm:"foreignKey:AdminID;constraint:OnDelete:RESTRICT" json:"-"`
}

func (Group) TableName() string {
	return "chat_groups"
}

func (g *Group) BeforeCreate(tx *gorm.DB) (err error) {
	if g.UniqueGroupID == "" {
		g.UniqueGroupID = uuid.New().String()
	}
	return
}
