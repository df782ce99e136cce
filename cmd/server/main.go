package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"

	"github.com/thereayou/messagings/internal/config"
	"github.com/thereayou/messagings/internal/logger"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	zl, err := logger.New(cfg.Log.Development)
	if err != nil {
		log.Fatalf("init logger: %v", err)
	}
	defer zl.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	srv, err := NewServer(ctx, cfg, zl)
	if err != nil {
		zl.Fatal("server init failed", zap.Error(err))
	}

	if err := srv.Run(ctx); err != nil {
		zl.Fatal("server run error", zap.Error(err))
	}
}
