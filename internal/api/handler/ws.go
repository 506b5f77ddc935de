package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"talk2me/backend/internal/chathub"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// Дозволяє з'єднання з будь-якого домену. У продакшені налаштувати!
	CheckOrigin: func(r *http.Request) bool { return true },
}

// ServeWebSocket оновлює HTTP-з'єднання до WebSocket
func (h *Handler) ServeWebSocket(c *gin.Context) {
	userID, err := h.validateToken(bearerToken(c))
	if err != nil {
		h.unauthorized(c)
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		// Upgrade вже записав відповідь
		return
	}

	client := chathub.NewWebSocketClient(h.Hub, userID, conn)
	h.Hub.Register(client)
	client.Run()
}
