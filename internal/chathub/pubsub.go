package chathub

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/redis/go-redis/v9"

	"talk2me/backend/internal/models"
)

// Subscriber is the part of *redis.Client the hub listens with.
type Subscriber interface {
	PSubscribe(ctx context.Context, channels ...string) *redis.PubSub
}

// StartPubSubListener запускає Goroutine, яка слухає Redis Pub/Sub
// і пересилає події клієнтам цього процесу.
func (m *ManagerService) StartPubSubListener(ctx context.Context, sub Subscriber) {
	go func() {
		pubsub := sub.PSubscribe(ctx,
			m.topicPrefix+"user/*",
			m.topicPrefix+"typing/*",
			m.topicPrefix+"group/*",
		)
		defer pubsub.Close()

		ch := pubsub.Channel()
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-ch:
				if !ok {
					return
				}
				if err := m.HandleRelayMessage(ctx, msg.Channel, msg.Payload); err != nil {
					m.log.Warn("dropping relay message", "channel", msg.Channel, "err", err)
				}
			}
		}
	}()
}

// HandleRelayMessage resolves who should receive a relayed event and queues
// it for the main loop.
func (m *ManagerService) HandleRelayMessage(ctx context.Context, channel, payload string) error {
	var env models.RelayEnvelope
	if err := json.Unmarshal([]byte(payload), &env); err != nil {
		return fmt.Errorf("decode envelope: %w", err)
	}

	topic := strings.TrimPrefix(channel, m.topicPrefix)
	recipients, err := m.recipients(ctx, topic, env.UserID)
	if err != nil {
		return err
	}
	if len(recipients) == 0 {
		return nil
	}

	select {
	case m.deliverCh <- routed{recipients: recipients, delivery: models.Delivery{Topic: topic, Envelope: env}}:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	case <-m.done:
		return nil
	}
}

// recipients maps a topic to user ids:
//
//	user/{id}, typing/{id}           -> that user
//	group/{id}, group/{id}/typing    -> every participant but the sender
func (m *ManagerService) recipients(ctx context.Context, topic, senderID string) ([]string, error) {
	parts := strings.Split(topic, "/")
	switch {
	case len(parts) == 2 && (parts[0] == "user" || parts[0] == "typing"):
		if _, err := strconv.ParseUint(parts[1], 10, 64); err != nil {
			return nil, fmt.Errorf("bad topic %q", topic)
		}
		return []string{parts[1]}, nil

	case parts[0] == "group" && (len(parts) == 2 || (len(parts) == 3 && parts[2] == "typing")):
		convID, err := strconv.ParseUint(parts[1], 10, 64)
		if err != nil {
			return nil, fmt.Errorf("bad topic %q", topic)
		}
		ids, err := m.chat.ParticipantIDs(ctx, uint(convID))
		if err != nil {
			return nil, err
		}
		out := make([]string, 0, len(ids))
		for _, id := range ids {
			if s := strconv.FormatUint(uint64(id), 10); s != senderID {
				out = append(out, s)
			}
		}
		return out, nil
	}
	return nil, fmt.Errorf("unknown topic %q", topic)
}
