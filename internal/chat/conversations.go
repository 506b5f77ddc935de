package chat

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"talk2me/backend/internal/config"
	"talk2me/backend/internal/models"
	"talk2me/backend/internal/storage"
)

// GetOrCreateConversation returns the private conversation between two users,
// creating it with both participants in one transaction if it does not exist.
// Concurrent callers for the same pair all get the same conversation: the
// unique pair key makes the losing insert fail and that caller re-reads.
func (s *Service) GetOrCreateConversation(ctx context.Context, userID1, userID2 uint) (*models.Conversation, error) {
	if userID1 == 0 || userID2 == 0 {
		return nil, invalid("user ids are required")
	}
	if userID1 == userID2 {
		return nil, invalid("cannot start a private conversation with yourself")
	}

	key := models.PairKey(userID1, userID2)
	conv, err := s.store.FindPrivateConversation(ctx, key)
	if err == nil {
		return conv, nil
	}
	if !errors.Is(err, storage.ErrNotFound) {
		return nil, s.failure("find private conversation", err)
	}

	if err := s.requireUsers(ctx, userID1, userID2); err != nil {
		return nil, err
	}

	now := s.now()
	conv = &models.Conversation{
		Type:      models.ConversationPrivate,
		PairKey:   &key,
		CreatedAt: now,
	}
	err = s.store.Transaction(ctx, func(repo storage.Repository) error {
		if err := repo.CreateConversation(ctx, conv); err != nil {
			return err
		}
		conv.Participants = []models.Participant{
			{UserID: userID1, ConversationID: conv.ID, JoinedAt: now},
			{UserID: userID2, ConversationID: conv.ID, JoinedAt: now},
		}
		return repo.AddParticipants(ctx, conv.Participants)
	})

	switch {
	case err == nil:
		s.log.Info("private conversation created", "conversation_id", conv.ID, "pair", key)
		return conv, nil
	case errors.Is(err, storage.ErrDuplicate):
		// Інший запит створив розмову між нашим читанням і вставкою.
		s.log.Debug("private conversation created concurrently, re-reading", "pair", key)
		existing, ferr := s.store.FindPrivateConversation(ctx, key)
		if ferr != nil {
			return nil, s.failure("re-read private conversation", ferr)
		}
		return existing, nil
	case errors.Is(err, storage.ErrForeignKey):
		return nil, invalid("unknown user id")
	default:
		return nil, s.failure("create private conversation", err)
	}
}

type GroupOption func(*models.Group)

func WithDescription(description string) GroupOption {
	return func(g *models.Group) { g.Description = &description }
}

func WithAvatarURL(url string) GroupOption {
	return func(g *models.Group) { g.AvatarURL = &url }
}

// CreateGroupConversation creates a group conversation, its participants and
// its metadata atomically. The admin is always a member; duplicates are dropped.
func (s *Service) CreateGroupConversation(ctx context.Context, adminID uint, memberIDs []uint, groupName string, opts ...GroupOption) (*models.Conversation, error) {
	name := strings.TrimSpace(groupName)
	if adminID == 0 {
		return nil, invalid("admin id is required")
	}
	if name == "" {
		return nil, invalid("group name is required")
	}
	if utf8.RuneCountInString(name) > config.MaxGroupNameLength {
		return nil, invalid("group name exceeds %d characters", config.MaxGroupNameLength)
	}

	members := uniqueIDs(append([]uint{adminID}, memberIDs...))
	for _, id := range members {
		if id == 0 {
			return nil, invalid("member ids must be positive")
		}
	}

	now := s.now()
	group := &models.Group{
		AdminID:   adminID,
		Title:     name,
		CreatedAt: now,
		UpdatedAt: now,
	}
	for _, opt := range opts {
		opt(group)
	}
	if group.Description != nil && utf8.RuneCountInString(*group.Description) > config.MaxDescriptionLength {
		return nil, invalid("group description exceeds %d characters", config.MaxDescriptionLength)
	}
	if group.AvatarURL != nil && len(*group.AvatarURL) > config.MaxAvatarURLLength {
		return nil, invalid("avatar url exceeds %d characters", config.MaxAvatarURLLength)
	}

	if err := s.requireUsers(ctx, members...); err != nil {
		return nil, err
	}

	conv := &models.Conversation{
		Type:      models.ConversationGroup,
		GroupName: &name,
		CreatedAt: now,
	}
	err := s.store.Transaction(ctx, func(repo storage.Repository) error {
		if err := repo.CreateConversation(ctx, conv); err != nil {
			return err
		}

		conv.Participants = make([]models.Participant, 0, len(members))
		for _, id := range members {
			conv.Participants = append(conv.Participants, models.Participant{
				UserID:         id,
				ConversationID: conv.ID,
				JoinedAt:       now,
			})
		}
		if err := repo.AddParticipants(ctx, conv.Participants); err != nil {
			return err
		}

		group.ConversationID = conv.ID
		return repo.CreateGroup(ctx, group)
	})
	if err != nil {
		s.log.Error("group creation rolled back", "admin_id", adminID, "members", len(members), "err", err)
		return nil, fmt.Errorf("%w: %w", ErrGroupCreationFailed, err)
	}

	conv.Group = group
	s.log.Info("group conversation created", "conversation_id", conv.ID, "admin_id", adminID, "members", len(members))
	return conv, nil
}

// ParticipantIDs повертає id усіх учасників розмови.
func (s *Service) ParticipantIDs(ctx context.Context, conversationID uint) ([]uint, error) {
	ids, err := s.store.ListParticipantIDs(ctx, conversationID)
	if err != nil {
		return nil, s.failure("list participants", err)
	}
	return ids, nil
}

// requireUsers fails with ErrInvalidInput unless every id names an existing user.
func (s *Service) requireUsers(ctx context.Context, ids ...uint) error {
	ids = uniqueIDs(ids)
	n, err := s.store.CountUsers(ctx, ids)
	if err != nil {
		return s.failure("count users", err)
	}
	if n != int64(len(ids)) {
		return invalid("unknown user id")
	}
	return nil
}

func uniqueIDs(ids []uint) []uint {
	seen := make(map[uint]struct{}, len(ids))
	out := make([]uint, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
