package chat

import (
	"context"
	"errors"
	"fmt"
)

var (
	ErrNotFound             = errors.New("not found")
	ErrConversationNotFound = fmt.Errorf("conversation %w", ErrNotFound)
	ErrMessageNotFound      = fmt.Errorf("message %w", ErrNotFound)
	ErrUserNotFound         = fmt.Errorf("user %w", ErrNotFound)

	ErrNotAParticipant     = errors.New("user is not a participant of the conversation")
	ErrInvalidInput        = errors.New("invalid input")
	ErrTransactionFailed   = errors.New("transaction failed")
	ErrGroupCreationFailed = errors.New("failed to create group conversation")

	// ErrRelayUnavailable is reported by relays and only ever logged by the engine.
	ErrRelayUnavailable = errors.New("relay unavailable")
)

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidInput, fmt.Sprintf(format, args...))
}

// failure логує збій сховища та загортає його в ErrTransactionFailed.
func (s *Service) failure(op string, err error) error {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		s.log.Debug("operation cancelled", "op", op, "err", err)
	} else {
		s.log.Error("store failure", "op", op, "err", err)
	}
	return fmt.Errorf("%s: %w: %w", op, ErrTransactionFailed, err)
}
