package handler

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"talk2me/backend/internal/chat"
	"talk2me/backend/internal/localization"
)

// errorStatus maps engine errors to an HTTP status and a message key.
func errorStatus(err error) (int, string) {
	switch {
	case errors.Is(err, chat.ErrInvalidInput):
		return http.StatusBadRequest, "error.invalid_input"
	case errors.Is(err, chat.ErrNotAParticipant):
		return http.StatusForbidden, "error.not_a_participant"
	case errors.Is(err, chat.ErrConversationNotFound):
		return http.StatusNotFound, "error.conversation_not_found"
	case errors.Is(err, chat.ErrMessageNotFound):
		return http.StatusNotFound, "error.message_not_found"
	case errors.Is(err, chat.ErrUserNotFound):
		return http.StatusNotFound, "error.user_not_found"
	case errors.Is(err, chat.ErrNotFound):
		return http.StatusNotFound, "error.not_found"
	case errors.Is(err, chat.ErrGroupCreationFailed):
		return http.StatusInternalServerError, "error.group_creation_failed"
	default:
		return http.StatusInternalServerError, "error.internal"
	}
}

// fail пише помилку у відповідь. Текст помилок сховища назовні не потрапляє.
func (h *Handler) fail(c *gin.Context, err error) {
	status, key := errorStatus(err)
	body := gin.H{"code": key, "message": h.message(c, key)}
	if status == http.StatusBadRequest {
		body["detail"] = err.Error()
	}
	c.AbortWithStatusJSON(status, gin.H{"error": body})
}

func (h *Handler) badRequest(c *gin.Context, detail string) {
	c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": gin.H{
		"code":    "error.invalid_input",
		"message": h.message(c, "error.invalid_input"),
		"detail":  detail,
	}})
}

func (h *Handler) message(c *gin.Context, key string) string {
	if h.Localizer == nil {
		return key
	}
	return h.Localizer.GetString(language(c), key)
}

// language бере першу мову з Accept-Language, наприклад "uk-UA,uk;q=0.9" -> "uk".
func language(c *gin.Context) string {
	header := c.GetHeader("Accept-Language")
	if header == "" {
		return localization.DefaultLanguage
	}
	tag := strings.TrimSpace(strings.Split(header, ",")[0])
	tag = strings.Split(tag, ";")[0]
	tag = strings.Split(tag, "-")[0]
	if tag == "" || tag == "*" {
		return localization.DefaultLanguage
	}
	return strings.ToLower(tag)
}
