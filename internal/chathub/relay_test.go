package chathub_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"talk2me/backend/internal/chat"
	"talk2me/backend/internal/chathub"
	"talk2me/backend/internal/models"
)

func newRelay(client chathub.Publisher, cfg chathub.RelayConfig) *chathub.RedisRelay {
	return chathub.NewRedisRelay(client, cfg, log.New(io.Discard))
}

func runRelay(t *testing.T, r *chathub.RedisRelay) context.CancelFunc {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	go r.Run(ctx)
	return cancel
}

func TestRedisRelay_PublishesEnvelope(t *testing.T) {
	// Arrange
	rdb := new(MockRedis)
	published := make(chan []byte, 1)
	rdb.On("Publish", "talk2me:user/2", mock.Anything).Return(nil).Run(func(args mock.Arguments) {
		published <- args.Get(1).([]byte)
	})
	relay := newRelay(rdb, chathub.RelayConfig{TopicPrefix: "talk2me:", QueueSize: 4, Backoff: time.Millisecond, MaxAttempts: 3})
	runRelay(t, relay)

	// Act
	err := relay.Publish("user/2", []byte(`{"kind":"message"}`), "1", "")

	// Assert
	require.NoError(t, err)
	select {
	case data := <-published:
		var env models.RelayEnvelope
		require.NoError(t, json.Unmarshal(data, &env))
		assert.Equal(t, "1", env.UserID)
		assert.Equal(t, "webapi", env.ClientType, "client type defaults to webapi")
		assert.Equal(t, `{"kind":"message"}`, env.Content)
		assert.NotEmpty(t, env.MessageID)
		assert.False(t, env.Timestamp.IsZero())
	case <-time.After(time.Second):
		t.Fatal("relay did not publish")
	}
	rdb.AssertNotCalled(t, "Ping")
}

func TestRedisRelay_RetriesWithReconnect(t *testing.T) {
	rdb := new(MockRedis)
	rdb.On("Publish", "typing/2", mock.Anything).Return(errors.New("connection reset")).Once()
	rdb.On("Ping").Return(nil).Once()
	delivered := make(chan struct{})
	rdb.On("Publish", "typing/2", mock.Anything).Return(nil).Once().Run(func(mock.Arguments) {
		close(delivered)
	})
	relay := newRelay(rdb, chathub.RelayConfig{QueueSize: 4, Backoff: time.Millisecond, MaxAttempts: 3})
	runRelay(t, relay)

	require.NoError(t, relay.Publish("typing/2", []byte(`{}`), "1", "typing"))

	select {
	case <-delivered:
	case <-time.After(time.Second):
		t.Fatal("relay did not retry")
	}
	rdb.AssertExpectations(t)
}

func TestRedisRelay_DropsAfterMaxAttempts(t *testing.T) {
	rdb := new(MockRedis)
	rdb.On("Publish", "user/2", mock.Anything).Return(errors.New("down"))
	rdb.On("Ping").Return(errors.New("down"))
	delivered := make(chan struct{}, 1)
	rdb.On("Publish", "user/3", mock.Anything).Return(nil).Run(func(mock.Arguments) {
		delivered <- struct{}{}
	})
	relay := newRelay(rdb, chathub.RelayConfig{QueueSize: 4, Backoff: time.Millisecond, MaxAttempts: 3})
	runRelay(t, relay)

	require.NoError(t, relay.Publish("user/2", []byte(`{}`), "1", ""))
	require.NoError(t, relay.Publish("user/3", []byte(`{}`), "1", ""))

	select {
	case <-delivered:
	case <-time.After(time.Second):
		t.Fatal("later event was not delivered after the first one was dropped")
	}
	rdb.AssertNumberOfCalls(t, "Publish", 2)
	rdb.AssertNumberOfCalls(t, "Ping", 2)
}

func TestRedisRelay_FullQueueDoesNotBlock(t *testing.T) {
	relay := newRelay(new(MockRedis), chathub.RelayConfig{QueueSize: 1, Backoff: time.Millisecond})

	require.NoError(t, relay.Publish("user/2", nil, "1", ""))

	done := make(chan error, 1)
	go func() { done <- relay.Publish("user/2", nil, "1", "") }()

	select {
	case err := <-done:
		assert.ErrorIs(t, err, chat.ErrRelayUnavailable)
	case <-time.After(time.Second):
		t.Fatal("Publish blocked on a full queue")
	}
}

func TestRedisRelay_StoppedRelayRejects(t *testing.T) {
	relay := newRelay(new(MockRedis), chathub.RelayConfig{QueueSize: 1})
	ctx, cancel := context.WithCancel(context.Background())
	stopped := make(chan struct{})
	go func() {
		relay.Run(ctx)
		close(stopped)
	}()

	cancel()
	<-stopped

	assert.ErrorIs(t, relay.Publish("user/2", nil, "1", ""), chat.ErrRelayUnavailable)
}

func TestNopRelay(t *testing.T) {
	var r chat.Relay = chathub.NopRelay{}
	assert.NoError(t, r.Publish("user/1", []byte("x"), "2", "webapi"))
}
