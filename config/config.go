package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all configuration for the application
type Config struct {
	// Server configuration
	ServerHost string
	ServerPort string

	// Inference provider (Groq-compatible chat completions API)
	GroqAPIKey      string
	GroqAPIURL      string
	GroqTextModel   string
	GroqVisionModel string
	// InferenceTimeout bounds the one blocking call in the pipeline.
	InferenceTimeout time.Duration

	// Session configuration
	JWTSecret  string
	SessionTTL time.Duration

	// Redis configuration (rate limiting; optional)
	RedisHost     string
	RedisPort     string
	RedisPassword string
	RedisDB       int
	RedisURL      string

	// S3 configuration (cookbook sharing; optional)
	S3Bucket  string
	AWSRegion string

	// CookbookTitle is the collection-level heading on exports.
	CookbookTitle string
}

// Load creates a Config from environment variables, applying defaults for
// everything that is safe to default.
func Load() (*Config, error) {
	cfg := &Config{
		ServerHost:       envOr("SERVER_HOST", "0.0.0.0"),
		ServerPort:       envOr("SERVER_PORT", "8080"),
		GroqAPIURL:       envOr("GROQ_API_URL", "https://api.groq.com/openai/v1/chat/completions"),
		GroqTextModel:    envOr("GROQ_TEXT_MODEL", "llama-3.1-8b-instant"),
		GroqVisionModel:  envOr("GROQ_VISION_MODEL", "llama-3.2-11b-vision-preview"),
		InferenceTimeout: durationOr("INFERENCE_TIMEOUT", 60*time.Second),
		JWTSecret:        os.Getenv("JWT_SECRET"),
		SessionTTL:       durationOr("SESSION_TTL", 4*time.Hour),
		RedisHost:        os.Getenv("REDIS_HOST"),
		RedisPort:        envOr("REDIS_PORT", "6379"),
		RedisPassword:    os.Getenv("REDIS_PASSWORD"),
		RedisURL:         os.Getenv("REDIS_URL"),
		S3Bucket:         os.Getenv("S3_BUCKET_NAME"),
		AWSRegion:        os.Getenv("AWS_REGION"),
		CookbookTitle:    envOr("COOKBOOK_TITLE", "My Personal Cookbook"),
	}

	if dbStr := os.Getenv("REDIS_DB"); dbStr != "" {
		db, err := strconv.Atoi(dbStr)
		if err != nil {
			return nil, fmt.Errorf("invalid REDIS_DB %q: %w", dbStr, err)
		}
		cfg.RedisDB = db
	}

	key, err := loadAPIKey()
	if err != nil {
		return nil, err
	}
	cfg.GroqAPIKey = key

	if err := Validate(cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return cfg, nil
}

// loadAPIKey reads the inference API key from the environment or, as in
// containerized deployments, from a secret file.
func loadAPIKey() (string, error) {
	if key := os.Getenv("GROQ_API_KEY"); key != "" {
		return key, nil
	}

	keyFile := os.Getenv("GROQ_API_KEY_FILE")
	if keyFile == "" {
		// Tests and local tooling run without a provider.
		if GetEnvironment() != Production {
			return "", nil
		}
		return "", fmt.Errorf("GROQ_API_KEY or GROQ_API_KEY_FILE must be set")
	}

	keyBytes, err := os.ReadFile(keyFile)
	if err != nil {
		return "", fmt.Errorf("failed to read API key file: %w", err)
	}
	key := strings.TrimSpace(string(keyBytes))
	if key == "" {
		return "", fmt.Errorf("API key file is empty")
	}
	return key, nil
}

func envOr(name, fallback string) string {
	if v := os.Getenv(name); v != "" {
		return v
	}
	return fallback
}

func durationOr(name string, fallback time.Duration) time.Duration {
	v := os.Getenv(name)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return fallback
	}
	return d
}
