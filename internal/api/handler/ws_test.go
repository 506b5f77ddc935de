package handler_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	jwt "github.com/golang-jwt/jwt/v5"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"talk2me/backend/internal/api/handler"
	"talk2me/backend/internal/chathub"
	"talk2me/backend/internal/localization"
)

func signToken(t *testing.T, secret, subject string) string {
	t.Helper()
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   subject,
		Issuer:    "talk2me-service",
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(time.Hour)),
	})
	s, err := token.SignedString([]byte(secret))
	require.NoError(t, err)
	return s
}

func setupWSServer(t *testing.T) (*httptest.Server, *chathub.ManagerService) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	localizer, err := localization.NewDefaultLocalizer()
	require.NoError(t, err)

	svc := new(MockChatService)
	hub := chathub.NewManagerService(svc, "", nil)
	ctx, cancel := context.WithCancel(context.Background())
	go hub.Run(ctx)

	r := gin.New()
	handler.NewHandler(svc, hub, localizer, testSecret, time.Hour).Register(r)
	srv := httptest.NewServer(r)
	t.Cleanup(func() {
		srv.Close()
		cancel()
	})
	return srv, hub
}

func TestServeWebSocket_Unauthorized(t *testing.T) {
	srv, _ := setupWSServer(t)

	tests := []struct {
		name string
		url  string
	}{
		{"no token", srv.URL + "/ws"},
		{"wrong secret", srv.URL + "/ws?token=" + signToken(t, "other-secret", "1")},
		{"garbage", srv.URL + "/ws?token=abc"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, err := http.Get(tt.url)
			require.NoError(t, err)
			defer resp.Body.Close()
			assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
		})
	}
}

func TestServeWebSocket_RegistersClient(t *testing.T) {
	// Arrange
	srv, hub := setupWSServer(t)
	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws"
	header := http.Header{}
	header.Set("Authorization", "Bearer "+signToken(t, testSecret, "42"))

	// Act
	conn, resp, err := websocket.DefaultDialer.Dial(url, header)
	require.NoError(t, err)
	defer resp.Body.Close()

	// Assert
	assert.Eventually(t, func() bool { return hub.IsConnected("42") }, time.Second, 10*time.Millisecond)

	require.NoError(t, conn.Close())
	assert.Eventually(t, func() bool { return !hub.IsConnected("42") }, 2*time.Second, 10*time.Millisecond)
}
