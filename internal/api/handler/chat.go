package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"talk2me/backend/internal/chat"
	"talk2me/backend/internal/config"
	"talk2me/backend/internal/models"
)

type privateConversationRequest struct {
	UserID1 uint `json:"userId1" binding:"required"`
	UserID2 uint `json:"userId2" binding:"required"`
}

type groupConversationRequest struct {
	AdminID     uint    `json:"adminId" binding:"required"`
	MemberIDs   []uint  `json:"memberIds"`
	GroupName   string  `json:"groupName" binding:"required"`
	Description *string `json:"description"`
	AvatarURL   *string `json:"avatarUrl" binding:"omitempty,url"`
}

type sendMessageRequest struct {
	ConversationID uint   `json:"conversationId" binding:"required"`
	SenderID       uint   `json:"senderId" binding:"required"`
	Content        string `json:"content" binding:"required"`
}

type markReadRequest struct {
	MessageID uint `json:"messageId" binding:"required"`
	UserID    uint `json:"userId" binding:"required"`
}

type typingRequest struct {
	ConversationID uint  `json:"conversationId" binding:"required"`
	UserID         uint  `json:"userId" binding:"required"`
	IsTyping       *bool `json:"isTyping" binding:"required"`
}

type messageResponse struct {
	ID             uint      `json:"id"`
	UniqueID       string    `json:"uniqueMessageId"`
	ConversationID uint      `json:"conversationId"`
	Content        string    `json:"content"`
	SenderID       uint      `json:"senderId"`
	SenderName     string    `json:"senderName,omitempty"`
	SentAt         time.Time `json:"sentAt"`
	ReadBy         []uint    `json:"readBy"`
}

func toMessageResponse(m models.Message) messageResponse {
	resp := messageResponse{
		ID:             m.ID,
		UniqueID:       m.UniqueMessageID,
		ConversationID: m.ConversationID,
		Content:        m.Content,
		SenderID:       m.SenderID,
		SentAt:         m.SentAt,
		ReadBy:         make([]uint, 0, len(m.ReadBy)),
	}
	if m.Sender != nil {
		resp.SenderName = m.Sender.Username
	}
	for _, r := range m.ReadBy {
		resp.ReadBy = append(resp.ReadBy, r.UserID)
	}
	return resp
}

// GetOrCreateConversation POST /api/v1/chat/conversations/private
func (h *Handler) GetOrCreateConversation(c *gin.Context) {
	var req privateConversationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.badRequest(c, err.Error())
		return
	}

	conv, err := h.Chat.GetOrCreateConversation(c.Request.Context(), req.UserID1, req.UserID2)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, conv)
}

// CreateGroupConversation POST /api/v1/chat/conversations/group
func (h *Handler) CreateGroupConversation(c *gin.Context) {
	var req groupConversationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.badRequest(c, err.Error())
		return
	}

	var opts []chat.GroupOption
	if req.Description != nil {
		opts = append(opts, chat.WithDescription(*req.Description))
	}
	if req.AvatarURL != nil {
		opts = append(opts, chat.WithAvatarURL(*req.AvatarURL))
	}

	conv, err := h.Chat.CreateGroupConversation(c.Request.Context(), req.AdminID, req.MemberIDs, req.GroupName, opts...)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, conv)
}

// SendMessage POST /api/v1/chat/messages
func (h *Handler) SendMessage(c *gin.Context) {
	var req sendMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.badRequest(c, err.Error())
		return
	}

	msg, err := h.Chat.SendMessage(c.Request.Context(), req.ConversationID, req.SenderID, req.Content)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, toMessageResponse(*msg))
}

// GetConversationMessages GET /api/v1/chat/conversations/:conversationId/messages?limit=50
func (h *Handler) GetConversationMessages(c *gin.Context) {
	convID, ok := h.pathID(c, "conversationId")
	if !ok {
		return
	}
	limit, err := strconv.Atoi(c.DefaultQuery("limit", strconv.Itoa(config.DefaultMessageLimit)))
	if err != nil {
		h.badRequest(c, "limit must be a number")
		return
	}

	msgs, err := h.Chat.GetConversationMessages(c.Request.Context(), convID, limit)
	if err != nil {
		h.fail(c, err)
		return
	}

	resp := make([]messageResponse, 0, len(msgs))
	for _, m := range msgs {
		resp = append(resp, toMessageResponse(m))
	}
	c.JSON(http.StatusOK, resp)
}

// MarkMessageRead POST /api/v1/chat/messages/read
func (h *Handler) MarkMessageRead(c *gin.Context) {
	var req markReadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.badRequest(c, err.Error())
		return
	}

	if err := h.Chat.MarkMessageRead(c.Request.Context(), req.MessageID, req.UserID); err != nil {
		h.fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// UpdateTypingStatus POST /api/v1/chat/typing
func (h *Handler) UpdateTypingStatus(c *gin.Context) {
	var req typingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.badRequest(c, err.Error())
		return
	}

	if err := h.Chat.UpdateTypingStatus(c.Request.Context(), req.ConversationID, req.UserID, *req.IsTyping); err != nil {
		h.fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// GetUserConversations GET /api/v1/chat/users/:userId/conversations?page=1&pageSize=20
func (h *Handler) GetUserConversations(c *gin.Context) {
	userID, ok := h.pathID(c, "userId")
	if !ok {
		return
	}
	page, err := strconv.Atoi(c.DefaultQuery("page", "1"))
	if err != nil {
		h.badRequest(c, "page must be a number")
		return
	}
	pageSize, err := strconv.Atoi(c.DefaultQuery("pageSize", strconv.Itoa(config.DefaultPageSize)))
	if err != nil {
		h.badRequest(c, "pageSize must be a number")
		return
	}

	result, err := h.Chat.GetUserConversations(c.Request.Context(), userID, page, pageSize)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// UnreadCount GET /api/v1/chat/conversations/:conversationId/unread?userId=
func (h *Handler) UnreadCount(c *gin.Context) {
	convID, ok := h.pathID(c, "conversationId")
	if !ok {
		return
	}
	userID, err := strconv.ParseUint(c.Query("userId"), 10, 64)
	if err != nil || userID == 0 {
		h.badRequest(c, "userId must be a positive number")
		return
	}

	n, err := h.Chat.UnreadCount(c.Request.Context(), convID, uint(userID))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"conversationId": convID, "userId": userID, "unreadCount": n})
}

func (h *Handler) pathID(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		h.badRequest(c, name+" must be a positive number")
		return 0, false
	}
	return uint(id), true
}
