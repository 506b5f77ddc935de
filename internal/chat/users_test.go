package chat_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"talk2me/backend/internal/chat"
)

func TestCreateUser(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	avatar := "https://cdn.example.com/a.png"

	user, err := f.svc.CreateUser(ctx, " alice ", "alice@example.com", &avatar)
	require.NoError(t, err)
	assert.Equal(t, "alice", user.Username)
	assert.NotEmpty(t, user.UniqueUserID)

	_, err = f.svc.CreateUser(ctx, "alice", "other@example.com", nil)
	assert.ErrorIs(t, err, chat.ErrInvalidInput, "duplicate username")

	_, err = f.svc.CreateUser(ctx, "bob", "not-an-email", nil)
	assert.ErrorIs(t, err, chat.ErrInvalidInput)

	_, err = f.svc.CreateUser(ctx, "", "x@example.com", nil)
	assert.ErrorIs(t, err, chat.ErrInvalidInput)
}

func TestGetUser_NotFound(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.GetUser(context.Background(), 4242)

	assert.ErrorIs(t, err, chat.ErrUserNotFound)
	assert.ErrorIs(t, err, chat.ErrNotFound)
}

func TestLinkLoginProvider(t *testing.T) {
	f := newFixture(t, "alice", "bob")
	ctx := context.Background()
	alice, bob := f.users[0].ID, f.users[1].ID

	lp, err := f.svc.LinkLoginProvider(ctx, alice, "Google", "g-123")
	require.NoError(t, err)
	assert.Equal(t, "google", lp.Provider)

	again, err := f.svc.LinkLoginProvider(ctx, alice, "google", "g-123")
	require.NoError(t, err, "same binding is a no-op")
	assert.Equal(t, lp.ID, again.ID)

	_, err = f.svc.LinkLoginProvider(ctx, alice, "github", "gh-1")
	assert.ErrorIs(t, err, chat.ErrInvalidInput, "one binding per user")

	_, err = f.svc.LinkLoginProvider(ctx, bob, "google", "g-123")
	assert.ErrorIs(t, err, chat.ErrInvalidInput, "identity already linked elsewhere")

	_, err = f.svc.LinkLoginProvider(ctx, 4242, "google", "g-9")
	assert.ErrorIs(t, err, chat.ErrUserNotFound)

	user, err := f.svc.GetUser(ctx, alice)
	require.NoError(t, err)
	require.NotNil(t, user.LoginProvider)
	assert.Equal(t, "g-123", user.LoginProvider.ProviderID)
}
