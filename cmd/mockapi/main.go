package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/example/storefront/pkg/config"
	"github.com/example/storefront/pkg/logging"
	"github.com/example/storefront/pkg/mockapi"
	"go.uber.org/zap"
)

func main() {
	configPath := flag.String("config", "config/config.yaml", "path to config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		panic(fmt.Sprintf("Failed to load config: %v", err))
	}

	logger, err := logging.New(cfg.Log)
	if err != nil {
		panic(fmt.Sprintf("Failed to create logger: %v", err))
	}
	defer logger.Sync()

	logger.Info("Starting storefront mock API",
		zap.String("host", cfg.Server.Host),
		zap.Int("port", cfg.Server.Port))

	store := mockapi.NewStore()
	store.Seed()

	var tokens mockapi.TokenStore
	if cfg.Redis.Addr != "" {
		redisTokens := mockapi.NewRedisTokens(&cfg.Redis)
		if err := redisTokens.Ping(context.Background()); err != nil {
			logger.Warn("Redis connection failed, falling back to in-memory sessions", zap.Error(err))
			redisTokens.Close()
			tokens = mockapi.NewMemoryTokens()
		} else {
			logger.Info("Redis connected successfully", zap.String("addr", cfg.Redis.Addr))
			tokens = redisTokens
		}
	} else {
		tokens = mockapi.NewMemoryTokens()
	}
	defer tokens.Close()

	server := mockapi.NewServer(store, tokens, logger.Named("http"))

	serverErr := make(chan error, 1)
	go func() {
		if err := server.Start(cfg.Server.Addr()); err != nil {
			serverErr <- err
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

	select {
	case <-sigCh:
		logger.Info("Received shutdown signal")
	case err := <-serverErr:
		logger.Fatal("Server error", zap.Error(err))
	}

	logger.Info("Mock API stopped")
}
