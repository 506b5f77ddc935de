package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type createUserRequest struct {
	Username  string  `json:"username" binding:"required,max=50"`
	Email     string  `json:"email" binding:"required,email,max=100"`
	AvatarURL *string `json:"avatarUrl" binding:"omitempty,url,max=200"`
}

type loginProviderRequest struct {
	Provider   string `json:"provider" binding:"required,max=50"`
	ProviderID string `json:"providerId" binding:"required,max=100"`
}

// CreateUser реєструє користувача та повертає JWT для WebSocket.
func (h *Handler) CreateUser(c *gin.Context) {
	var req createUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.badRequest(c, err.Error())
		return
	}

	user, err := h.Chat.CreateUser(c.Request.Context(), req.Username, req.Email, req.AvatarURL)
	if err != nil {
		h.fail(c, err)
		return
	}

	token, err := h.generateJWT(user.ID)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"user": user, "token": token})
}

func (h *Handler) GetUser(c *gin.Context) {
	userID, ok := h.pathID(c, "userId")
	if !ok {
		return
	}

	user, err := h.Chat.GetUser(c.Request.Context(), userID)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}

// LinkLoginProvider POST /api/v1/users/:userId/login-provider
func (h *Handler) LinkLoginProvider(c *gin.Context) {
	userID, ok := h.pathID(c, "userId")
	if !ok {
		return
	}
	var req loginProviderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.badRequest(c, err.Error())
		return
	}

	lp, err := h.Chat.LinkLoginProvider(c.Request.Context(), userID, req.Provider, req.ProviderID)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, lp)
}
