package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/courtside-app/backend/brackets"
	"github.com/joho/godotenv"
)

type Config struct {
	DatabaseURL  string
	JWTSecretKey string
	ServerPort   int

	R2AccountID       string
	R2AccessKeyID     string
	R2SecretAccessKey string
	R2BucketName      string
	R2PublicBaseURL   string

	RateLimitMax        int
	RateLimitWindow     time.Duration
	RateLimitTrustProxy bool

	AdvancementPolicy brackets.AdvancementPolicy
}

// Load reads configuration from environment variables. A .env file is loaded
// first when present; a missing file is not an error.
func Load() (*Config, error) {
	_ = godotenv.Load()

	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		return nil, fmt.Errorf("DATABASE_URL environment variable is not set")
	}

	jwtKey := os.Getenv("JWT_SECRET_KEY")
	if jwtKey == "" {
		return nil, fmt.Errorf("JWT_SECRET_KEY environment variable is not set")
	}

	portStr := os.Getenv("SERVER_PORT")
	if portStr == "" {
		portStr = "8080"
	}
	port, err := strconv.Atoi(portStr)
	if err != nil {
		return nil, fmt.Errorf("invalid SERVER_PORT environment variable: %w", err)
	}
	if port <= 0 || port > 65535 {
		return nil, fmt.Errorf("SERVER_PORT must be between 1 and 65535, got %d", port)
	}

	rateLimitMax := 120
	if v := os.Getenv("RATE_LIMIT_MAX"); v != "" {
		rateLimitMax, err = strconv.Atoi(v)
		if err != nil || rateLimitMax < 0 {
			return nil, fmt.Errorf("invalid RATE_LIMIT_MAX environment variable: %q", v)
		}
	}

	rateLimitWindow := time.Minute
	if v := os.Getenv("RATE_LIMIT_WINDOW"); v != "" {
		rateLimitWindow, err = time.ParseDuration(v)
		if err != nil || rateLimitWindow <= 0 {
			return nil, fmt.Errorf("invalid RATE_LIMIT_WINDOW environment variable: %q", v)
		}
	}

	rateLimitTrustProxy := false
	if v := os.Getenv("RATE_LIMIT_TRUST_PROXY"); v != "" {
		rateLimitTrustProxy, err = strconv.ParseBool(v)
		if err != nil {
			return nil, fmt.Errorf("invalid RATE_LIMIT_TRUST_PROXY environment variable: %q", v)
		}
	}

	policy, err := brackets.ParseAdvancementPolicy(os.Getenv("ADVANCEMENT_POLICY"))
	if err != nil {
		return nil, fmt.Errorf("invalid ADVANCEMENT_POLICY environment variable: %w", err)
	}

	return &Config{
		DatabaseURL:  dbURL,
		JWTSecretKey: jwtKey,
		ServerPort:   port,

		R2AccountID:       os.Getenv("R2_ACCOUNT_ID"),
		R2AccessKeyID:     os.Getenv("R2_ACCESS_KEY_ID"),
		R2SecretAccessKey: os.Getenv("R2_SECRET_ACCESS_KEY"),
		R2BucketName:      os.Getenv("R2_BUCKET_NAME"),
		R2PublicBaseURL:   os.Getenv("R2_PUBLIC_BASE_URL"),

		RateLimitMax:        rateLimitMax,
		RateLimitWindow:     rateLimitWindow,
		RateLimitTrustProxy: rateLimitTrustProxy,

		AdvancementPolicy: policy,
	}, nil
}

// R2Configured reports whether every Cloudflare R2 credential is present.
// Logo upload is disabled when storage is not configured.
func (c *Config) R2Configured() bool {
	return c.R2AccountID != "" &&
		c.R2AccessKeyID != "" &&
		c.R2SecretAccessKey != "" &&
		c.R2BucketName != "" &&
		c.R2PublicBaseURL != ""
}
