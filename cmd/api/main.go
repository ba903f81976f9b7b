package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/cookpress/backend/config"
	"github.com/cookpress/backend/internal/cache"
	"github.com/cookpress/backend/internal/router"
	"github.com/cookpress/backend/internal/server"
	"github.com/cookpress/backend/internal/service"
	"github.com/cookpress/backend/internal/store"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	groqClient, err := service.NewGroqClient(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize inference client: %v", err)
	}
	extractor := service.NewExtractionService(groqClient)

	// Redis and S3 are optional; the service degrades rather than refusing
	// to start.
	var redisClient *redis.Client
	if cfg.RateLimitEnabled() {
		redisClient, err = cache.NewRedisClient(cfg)
		if err != nil {
			log.Printf("Redis unavailable, rate limiting disabled: %v", err)
			redisClient = nil
		}
	}

	var share *service.ShareService
	if cfg.ShareEnabled() {
		s3Config, err := config.NewS3Config(context.Background(), cfg)
		if err != nil {
			log.Printf("S3 unavailable, sharing disabled: %v", err)
		} else {
			share = service.NewShareService(s3Config)
		}
	}

	sessions := store.NewSessions(cfg.SessionTTL)
	engine := router.Setup(cfg, sessions, extractor, share, redisClient)
	srv := server.New(cfg, engine, sessions)

	errChan := make(chan error, 1)
	go func() {
		log.Println("Starting server...")
		errChan <- srv.Start()
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errChan:
		if err != nil {
			log.Fatalf("Server error: %v", err)
		}
	case sig := <-quit:
		log.Printf("Received signal: %v", sig)
	}

	log.Println("Shutting down server...")
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("Server shutdown error: %v", err)
	}
	log.Println("Server stopped")
}
