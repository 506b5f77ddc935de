package handler

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"

	"talk2me/backend/internal/chat"
	"talk2me/backend/internal/chathub"
	"talk2me/backend/internal/localization"
	"talk2me/backend/internal/models"
)

// ChatService - операції рушія чату, які потрібні HTTP-шару.
type ChatService interface {
	CreateUser(ctx context.Context, username, email string, avatarURL *string) (*models.User, error)
	GetUser(ctx context.Context, id uint) (*models.User, error)
	LinkLoginProvider(ctx context.Context, userID uint, provider, providerID string) (*models.LoginProvider, error)

	GetOrCreateConversation(ctx context.Context, userID1, userID2 uint) (*models.Conversation, error)
	CreateGroupConversation(ctx context.Context, adminID uint, memberIDs []uint, groupName string, opts ...chat.GroupOption) (*models.Conversation, error)
	SendMessage(ctx context.Context, conversationID, senderID uint, content string) (*models.Message, error)
	GetConversationMessages(ctx context.Context, conversationID uint, limit int) ([]models.Message, error)
	MarkMessageRead(ctx context.Context, messageID, userID uint) error
	UpdateTypingStatus(ctx context.Context, conversationID, userID uint, isTyping bool) error
	GetUserConversations(ctx context.Context, userID uint, page, pageSize int) (*models.ConversationsPage, error)
	UnreadCount(ctx context.Context, conversationID, userID uint) (int64, error)
}

// Handler містить залежності HTTP-обробників.
type Handler struct {
	Chat      ChatService
	Hub       *chathub.ManagerService
	Localizer *localization.Localizer

	jwtSecret []byte
	jwtTTL    time.Duration
}

func NewHandler(svc ChatService, hub *chathub.ManagerService, localizer *localization.Localizer, jwtSecret string, jwtTTL time.Duration) *Handler {
	return &Handler{
		Chat:      svc,
		Hub:       hub,
		Localizer: localizer,
		jwtSecret: []byte(jwtSecret),
		jwtTTL:    jwtTTL,
	}
}

// Register підключає всі маршрути до r.
func (h *Handler) Register(r gin.IRouter) {
	r.GET("/health", h.Health)
	if h.Hub != nil {
		r.GET("/ws", h.ServeWebSocket)
	}

	v1 := r.Group("/api/v1")
	v1.POST("/users", h.CreateUser)
	v1.GET("/users/:userId", h.GetUser)
	v1.POST("/users/:userId/login-provider", h.LinkLoginProvider)

	c := v1.Group("/chat")
	c.POST("/conversations/private", h.GetOrCreateConversation)
	c.POST("/conversations/group", h.CreateGroupConversation)
	c.GET("/conversations/:conversationId/messages", h.GetConversationMessages)
	c.GET("/conversations/:conversationId/unread", h.UnreadCount)
	c.POST("/messages", h.SendMessage)
	c.POST("/messages/read", h.MarkMessageRead)
	c.POST("/typing", h.UpdateTypingStatus)
	c.GET("/users/:userId/conversations", h.GetUserConversations)
}

func (h *Handler) Health(c *gin.Context) {
	c.JSON(200, gin.H{"status": "ok"})
}
