package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/errgroup"

	"talk2me/backend/internal/api/handler"
	"talk2me/backend/internal/chat"
	"talk2me/backend/internal/chathub"
	"talk2me/backend/internal/config"
	"talk2me/backend/internal/localization"
	"talk2me/backend/internal/storage"
)

func main() {
	logger := log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		TimeFormat:      time.DateTime,
		Prefix:          "talk2me",
	})
	log.SetDefault(logger)

	cfg, envLoaded, err := config.Load()
	if err != nil {
		log.Fatal("invalid configuration", "err", err)
	}
	if !envLoaded {
		log.Warn("no .env file found, using process environment")
	}
	if level, err := log.ParseLevel(cfg.LogLevel); err == nil {
		log.SetLevel(level)
	}

	log.Info("Starting talk2me backend...", "env", cfg.Env, "driver", cfg.DBDriver)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg); err != nil {
		log.Fatal("server stopped", "err", err)
	}
	log.Info("server stopped")
}

func run(ctx context.Context, cfg *config.Config) error {
	// 1. Сховище та міграції
	db, err := storage.Open(cfg.DBDriver, cfg.DBDSN)
	if err != nil {
		return err
	}
	if err := storage.Migrate(db); err != nil {
		return err
	}
	store := storage.NewStorageService(db)

	// 2. Redis та relay
	g, ctx := errgroup.WithContext(ctx)

	var relay chat.Relay = chathub.NopRelay{}
	var rdb *redis.Client
	if cfg.RelayEnabled {
		rdb = redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		defer rdb.Close()

		// Недоступний Redis не зупиняє сервіс: relay сам перепідключиться.
		if err := rdb.Ping(ctx).Err(); err != nil {
			log.Warn("redis is not reachable yet", "addr", cfg.RedisAddr, "err", err)
		}

		redisRelay := chathub.NewRedisRelay(rdb, chathub.RelayConfig{
			TopicPrefix: cfg.RelayTopicPrefix,
			QueueSize:   cfg.RelayQueueSize,
			Backoff:     cfg.RelayBackoff,
			MaxAttempts: cfg.RelayMaxAttempts,
		}, log.Default().WithPrefix("relay"))
		g.Go(func() error {
			redisRelay.Run(ctx)
			return nil
		})
		relay = redisRelay
	} else {
		log.Info("realtime relay disabled")
	}

	// 3. Рушій чату та хаб
	svc := chat.NewService(store,
		chat.WithRelay(relay),
		chat.WithLogger(log.Default().WithPrefix("chat")),
	)

	var hub *chathub.ManagerService
	if rdb != nil {
		hub = chathub.NewManagerService(svc, cfg.RelayTopicPrefix, log.Default().WithPrefix("hub"))
		hub.StartPubSubListener(ctx, rdb)
		g.Go(func() error {
			hub.Run(ctx)
			return nil
		})
	}

	localizer, err := localization.NewDefaultLocalizer()
	if err != nil {
		return err
	}

	// 4. Налаштування Gin та роутингу
	gin.SetMode(cfg.GinMode)
	r := gin.New()
	r.Use(gin.Logger(), gin.Recovery())

	h := handler.NewHandler(svc, hub, localizer, cfg.JWTSecret, cfg.JWTTTL)
	if cfg.RateLimitRPS > 0 {
		r.Use(h.RateLimitMiddleware(cfg.RateLimitRPS))
	}
	h.Register(r)

	server := &http.Server{
		Addr:           cfg.HTTPAddr,
		Handler:        r,
		ReadTimeout:    10 * time.Second,
		WriteTimeout:   10 * time.Second,
		MaxHeaderBytes: 1 << 20,
	}

	g.Go(func() error {
		log.Info("listening", "addr", cfg.HTTPAddr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})

	return g.Wait()
}
