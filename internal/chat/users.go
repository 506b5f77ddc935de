package chat

import (
	"context"
	"errors"
	"net/mail"
	"strings"
	"unicode/utf8"

	"talk2me/backend/internal/config"
	"talk2me/backend/internal/models"
	"talk2me/backend/internal/storage"
)

// CreateUser реєструє нового користувача.
func (s *Service) CreateUser(ctx context.Context, username, email string, avatarURL *string) (*models.User, error) {
	username = strings.TrimSpace(username)
	email = strings.TrimSpace(email)
	if username == "" || utf8.RuneCountInString(username) > 50 {
		return nil, invalid("username must be 1-50 characters")
	}
	if _, err := mail.ParseAddress(email); err != nil || len(email) > 100 {
		return nil, invalid("email is not valid")
	}
	if avatarURL != nil && len(*avatarURL) > config.MaxAvatarURLLength {
		return nil, invalid("avatar url exceeds %d characters", config.MaxAvatarURLLength)
	}

	user := &models.User{Username: username, Email: email, AvatarURL: avatarURL}
	if err := s.store.CreateUser(ctx, user); err != nil {
		if errors.Is(err, storage.ErrDuplicate) {
			return nil, invalid("username or email already taken")
		}
		return nil, s.failure("create user", err)
	}
	s.log.Info("user created", "user_id", user.ID)
	return user, nil
}

func (s *Service) GetUser(ctx context.Context, id uint) (*models.User, error) {
	user, err := s.store.GetUser(ctx, id)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, s.failure("get user", err)
	}
	return user, nil
}

// LinkLoginProvider binds an external login to the user. Repeating the same
// binding is a no-op; a user has at most one binding.
func (s *Service) LinkLoginProvider(ctx context.Context, userID uint, provider, providerID string) (*models.LoginProvider, error) {
	provider = strings.ToLower(strings.TrimSpace(provider))
	providerID = strings.TrimSpace(providerID)
	if provider == "" || len(provider) > 50 || providerID == "" || len(providerID) > 100 {
		return nil, invalid("provider and provider id are required")
	}

	if _, err := s.GetUser(ctx, userID); err != nil {
		return nil, err
	}

	existing, err := s.store.GetLoginProvider(ctx, userID)
	switch {
	case err == nil:
		if existing.Provider == provider && existing.ProviderID == providerID {
			return existing, nil
		}
		return nil, invalid("user already has a login provider")
	case !errors.Is(err, storage.ErrNotFound):
		return nil, s.failure("get login provider", err)
	}

	lp := &models.LoginProvider{UserID: userID, Provider: provider, ProviderID: providerID}
	if err := s.store.CreateLoginProvider(ctx, lp); err != nil {
		if errors.Is(err, storage.ErrDuplicate) {
			return nil, invalid("login is already linked")
		}
		return nil, s.failure("create login provider", err)
	}
	return lp, nil
}
