package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/thereayou/messagings/internal/broadcast"
	"github.com/thereayou/messagings/internal/config"
	"github.com/thereayou/messagings/internal/database"
	"github.com/thereayou/messagings/internal/handlers"
	"github.com/thereayou/messagings/internal/metrics"
	"github.com/thereayou/messagings/internal/middleware"
	"github.com/thereayou/messagings/internal/services"
	ws "github.com/thereayou/messagings/internal/websocket"
	"github.com/thereayou/messagings/pkg/auth"
	"go.uber.org/zap"
)

const shutdownTimeout = 10 * time.Second

type Server struct {
	Router     *gin.Engine
	DB         *database.Database
	Redis      *redis.Client
	JWTManager *auth.JWTManager
	Hub        *ws.Hub

	cfg   *config.Config
	log   *zap.Logger
	relay *broadcast.RedisBroadcaster
}

func NewServer(ctx context.Context, cfg *config.Config, log *zap.Logger) (*Server, error) {
	metrics.Init()

	dbConn, err := database.Connect(ctx, cfg.Postgres, log)
	if err != nil {
		return nil, fmt.Errorf("postgres connect failed: %w", err)
	}

	rdb, err := connectRedis(ctx, cfg.Redis, cfg.Postgres.ConnectRetry, log)
	if err != nil {
		return nil, err
	}

	jwtMgr := auth.NewJWTManager(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)
	hub := ws.NewHub(log)

	s := &Server{
		DB:         dbConn,
		Redis:      rdb,
		JWTManager: jwtMgr,
		Hub:        hub,
		cfg:        cfg,
		log:        log,
	}

	var broadcaster services.Broadcaster
	switch cfg.Broadcast.Driver {
	case "pusher":
		broadcaster = broadcast.NewPusherBroadcaster(cfg.Broadcast.Pusher, cfg.Broadcast.Timeout)
	default:
		s.relay = broadcast.NewRedisBroadcaster(rdb, log)
		broadcaster = s.relay
	}

	gate := services.Gate{EnforceMembership: cfg.Chat.EnforceMembership}
	users := services.NewUserService(dbConn, gate)
	messagings := services.NewMessagingService(dbConn, gate)
	notifier := services.NewNotifier(broadcaster, services.NotifierConfig{
		ChannelPrefix: cfg.Broadcast.ChannelPrefix,
		EventName:     cfg.Broadcast.EventName,
		Timeout:       cfg.Broadcast.Timeout,
	})
	messages := services.NewMessageService(dbConn, messagings, notifier, log)
	authService := services.NewAuthService(dbConn, jwtMgr, rdb)

	h := Handlers{
		Auth:      handlers.NewAuthHandler(authService, log),
		User:      handlers.NewUserHandler(users, log),
		Messaging: handlers.NewMessagingHandler(messagings, users, log),
		Message:   handlers.NewMessageHandler(messages, users, log),
		WebSocket: handlers.NewWebSocketHandler(hub, handlers.NewSubscriptionAuthorizer(users, messagings, notifier), log),
	}

	gin.SetMode(cfg.Server.Mode)
	router := gin.New()
	router.Use(
		middleware.Recovery(log),
		middleware.Logger(log),
		middleware.RateLimit(rdb, cfg.RateLimit.QPS, log),
	)
	APIEndpoints(router, h, jwtMgr, rdb)
	s.Router = router

	return s, nil
}

// connectRedis ждёт, пока Redis станет доступен
func connectRedis(ctx context.Context, cfg config.RedisConfig, maxWait time.Duration, log *zap.Logger) (*redis.Client, error) {
	redisOpts, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("invalid redis url: %w", err)
	}
	rdb := redis.NewClient(redisOpts)

	b := backoff.NewExponentialBackOff()
	b.MaxElapsedTime = maxWait
	ping := func() error {
		return rdb.Ping(ctx).Err()
	}
	notify := func(err error, wait time.Duration) {
		log.Warn("redis not ready, retrying", zap.Error(err), zap.Duration("wait", wait))
	}
	if err := backoff.RetryNotify(ping, backoff.WithContext(b, ctx), notify); err != nil {
		rdb.Close()
		return nil, fmt.Errorf("redis connect failed: %w", err)
	}
	return rdb, nil
}

// Run обслуживает HTTP до отмены ctx, затем корректно останавливается
func (s *Server) Run(ctx context.Context) error {
	go s.Hub.Run()

	if s.relay != nil {
		pattern := s.cfg.Broadcast.ChannelPrefix + "*"
		go func() {
			if err := s.relay.Relay(ctx, pattern, s.Hub); err != nil {
				s.log.Error("redis relay stopped", zap.Error(err))
			}
		}()
	}

	httpServer := &http.Server{
		Addr:    ":" + strconv.Itoa(s.cfg.Server.Port),
		Handler: s.Router,
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.Info("server starting", zap.Int("port", s.cfg.Server.Port))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err, ok := <-errCh:
		if ok {
			s.close()
			return err
		}
	case <-ctx.Done():
	}

	s.log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	err := httpServer.Shutdown(shutdownCtx)
	s.close()
	return err
}

func (s *Server) close() {
	s.Hub.Stop()
	if err := s.Redis.Close(); err != nil {
		s.log.Warn("redis close", zap.Error(err))
	}
	if err := s.DB.Close(); err != nil {
		s.log.Warn("postgres close", zap.Error(err))
	}
}
