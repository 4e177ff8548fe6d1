package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds application configuration loaded from environment variables.
type Config struct {
	HTTPPort          string
	AppMode           string
	FiberPrefork      bool
	ShopifyAPIVersion string
	ShopifyPageSize   int
	ShopifyMaxRecords int
	SupabaseURL       string
	SupabaseKey       string
	MailchimpClientID string
	MailchimpSecret   string
	MailchimpRedirect string
	WorkerBufferSize  int
	WorkerBatchSize   int
	WorkerFlushEvery  time.Duration
}

// Load reads configuration from environment variables with sane defaults.
func Load() (*Config, error) {
	cfg := &Config{
		HTTPPort:          getEnv("HTTP_PORT", ":8080"),
		AppMode:           strings.ToLower(getEnv("APP_MODE", "dev")),
		FiberPrefork:      parseBoolEnv("FIBER_PREFORK", false),
		ShopifyAPIVersion: getEnv("SHOPIFY_API_VERSION", "2024-07"),
		ShopifyPageSize:   parseIntEnv("SHOPIFY_PAGE_SIZE", 250),
		ShopifyMaxRecords: parseIntEnv("SHOPIFY_MAX_RECORDS", 1000),
		MailchimpClientID: os.Getenv("MAILCHIMP_CLIENT_ID"),
		MailchimpSecret:   os.Getenv("MAILCHIMP_CLIENT_SECRET"),
		MailchimpRedirect: os.Getenv("MAILCHIMP_REDIRECT_URI"),
		WorkerBufferSize:  parseIntEnv("WORKER_BUFFER_SIZE", 1024),
		WorkerBatchSize:   parseIntEnv("WORKER_BATCH_SIZE", 100),
		WorkerFlushEvery:  parseDurationEnv("WORKER_FLUSH_EVERY", 5*time.Second),
	}

	cfg.SupabaseURL = os.Getenv("SUPABASE_URL")
	if cfg.SupabaseURL == "" {
		return nil, fmt.Errorf("SUPABASE_URL is required")
	}
	cfg.SupabaseKey = os.Getenv("SUPABASE_SERVICE_KEY")
	if cfg.SupabaseKey == "" {
		return nil, fmt.Errorf("SUPABASE_SERVICE_KEY is required")
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func parseBoolEnv(key string, fallback bool) bool {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(val)
	if err != nil {
		return fallback
	}
	return parsed
}

func parseIntEnv(key string, fallback int) int {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(val)
	if err != nil {
		return fallback
	}
	return parsed
}

func parseDurationEnv(key string, fallback time.Duration) time.Duration {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	parsed, err := time.ParseDuration(val)
	if err != nil {
		return fallback
	}
	return parsed
}
