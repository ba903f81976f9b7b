package config

import (
	"fmt"
	"strings"
)

// Validate checks that the configuration is usable for the current
// environment. Development and test runs may omit the inference provider
// and session secret; production may not.
func Validate(cfg *Config) error {
	var errs []string

	if cfg.ServerPort == "" {
		errs = append(errs, "server port must not be empty")
	}
	if cfg.InferenceTimeout <= 0 {
		errs = append(errs, "inference timeout must be positive")
	}
	if cfg.SessionTTL <= 0 {
		errs = append(errs, "session TTL must be positive")
	}

	if IsProduction() {
		if cfg.GroqAPIKey == "" {
			errs = append(errs, "GROQ_API_KEY is required in production")
		}
		if cfg.JWTSecret == "" {
			errs = append(errs, "JWT_SECRET is required in production")
		}
	}

	// Sharing needs both halves of the S3 configuration.
	if cfg.S3Bucket != "" && cfg.AWSRegion == "" {
		errs = append(errs, "AWS_REGION is required when S3_BUCKET_NAME is set")
	}

	if len(errs) > 0 {
		return fmt.Errorf("configuration validation failed:\n%s", strings.Join(errs, "\n"))
	}
	return nil
}

// ShareEnabled reports whether cookbook sharing to S3 is configured.
func (c *Config) ShareEnabled() bool {
	return c.S3Bucket != ""
}

// RateLimitEnabled reports whether the Redis-backed rate limiter is
// configured.
func (c *Config) RateLimitEnabled() bool {
	return c.RedisHost != "" || c.RedisURL != ""
}
