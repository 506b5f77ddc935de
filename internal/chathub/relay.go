package chathub

import (
	"context"
	"encoding/json"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"talk2me/backend/internal/chat"
	"talk2me/backend/internal/config"
	"talk2me/backend/internal/models"
)

// Publisher is the part of *redis.Client the relay needs.
type Publisher interface {
	Publish(ctx context.Context, channel string, message interface{}) *redis.IntCmd
	Ping(ctx context.Context) *redis.StatusCmd
}

type RelayConfig struct {
	TopicPrefix string
	QueueSize   int
	Backoff     time.Duration
	MaxAttempts int
}

type outbound struct {
	topic    string
	envelope models.RelayEnvelope
}

// RedisRelay публікує події чату в Redis Pub/Sub.
// Publish лише ставить подію в чергу; доставкою займається Run.
type RedisRelay struct {
	client  Publisher
	cfg     RelayConfig
	queue   chan outbound
	stopped atomic.Bool
	log     *log.Logger
}

func NewRedisRelay(client Publisher, cfg RelayConfig, logger *log.Logger) *RedisRelay {
	if cfg.QueueSize <= 0 {
		cfg.QueueSize = 1024
	}
	if cfg.Backoff <= 0 {
		cfg.Backoff = config.DefaultRelayBackoff
	}
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = 1
	}
	if logger == nil {
		logger = log.Default().WithPrefix("relay")
	}
	return &RedisRelay{
		client: client,
		cfg:    cfg,
		queue:  make(chan outbound, cfg.QueueSize),
		log:    logger,
	}
}

// Publish never blocks. A full queue or a stopped relay drops the event.
func (r *RedisRelay) Publish(topic string, payload []byte, userID, clientType string) error {
	if r.stopped.Load() {
		return fmt.Errorf("%w: relay stopped", chat.ErrRelayUnavailable)
	}
	if clientType == "" {
		clientType = config.DefaultClientType
	}

	out := outbound{
		topic: r.cfg.TopicPrefix + topic,
		envelope: models.RelayEnvelope{
			UserID:     userID,
			ClientType: clientType,
			MessageID:  uuid.NewString(),
			Content:    string(payload),
			Timestamp:  time.Now().UTC(),
		},
	}

	select {
	case r.queue <- out:
		return nil
	default:
		return fmt.Errorf("%w: queue full", chat.ErrRelayUnavailable)
	}
}

// Run delivers queued events until ctx is cancelled.
func (r *RedisRelay) Run(ctx context.Context) {
	r.log.Info("relay started", "prefix", r.cfg.TopicPrefix, "queue", r.cfg.QueueSize)
	defer r.stopped.Store(true)

	for {
		select {
		case <-ctx.Done():
			r.log.Info("relay stopped", "pending", len(r.queue))
			return
		case out := <-r.queue:
			r.deliver(ctx, out)
		}
	}
}

func (r *RedisRelay) deliver(ctx context.Context, out outbound) {
	data, err := json.Marshal(out.envelope)
	if err != nil {
		r.log.Error("failed to encode envelope", "topic", out.topic, "err", err)
		return
	}

	attempt := 0
	op := func() error {
		attempt++
		if attempt > 1 {
			// перепідключення: пул go-redis відновить з'єднання на PING
			if err := r.client.Ping(ctx).Err(); err != nil {
				return err
			}
		}
		return r.client.Publish(ctx, out.topic, data).Err()
	}

	policy := backoff.WithContext(
		backoff.WithMaxRetries(backoff.NewConstantBackOff(r.cfg.Backoff), uint64(r.cfg.MaxAttempts-1)),
		ctx,
	)
	notify := func(err error, wait time.Duration) {
		r.log.Warn("relay publish failed, retrying", "topic", out.topic, "retry_in", wait, "err", err)
	}

	if err := backoff.RetryNotify(op, policy, notify); err != nil {
		r.log.Error("relay event dropped", "topic", out.topic, "attempts", attempt, "err", err)
	}
}

// NopRelay is used when realtime delivery is switched off.
type NopRelay struct{}

func (NopRelay) Publish(string, []byte, string, string) error { return nil }
