package config

import (
	"fmt"
	"os"
	"strings"
	"time"
)

const (
	defaultDatabaseURL  = "sqlite://ridemarket.db"
	defaultHTTPAddr     = ":8080"
	defaultJWTSecret    = "change-me-jwt-secret"
	defaultJWTTTL       = "168h"
	defaultSeatHoldTTL  = "5m"
	defaultRateLimit    = "60"
	defaultRateWindow   = "1m"
	defaultPaytmEnv     = "STAGING"
	defaultPaytmWebsite = "WEBSTAGING"
)

type Config struct {
	AppEnv      string
	HTTPAddr    string
	DatabaseURL string

	JWTSecret string
	JWTTTL    time.Duration

	RedisAddr     string
	RedisPassword string
	SeatHoldTTL   time.Duration
	RateLimit     int
	RateWindow    time.Duration

	PaytmMID         string
	PaytmKey         string
	PaytmWebsite     string
	PaytmEnv         string
	PaytmCallbackURL string

	StripeSecretKey     string
	StripeWebhookSecret string
	StripeSuccessURL    string
	StripeCancelURL     string
}

func Load() (*Config, error) {
	cfg := &Config{}

	appEnv := strings.TrimSpace(os.Getenv("APP_ENV"))
	if appEnv == "" {
		appEnv = strings.TrimSpace(os.Getenv("ENV"))
	}
	if appEnv == "" {
		appEnv = "dev"
	}
	cfg.AppEnv = strings.ToLower(appEnv)

	cfg.HTTPAddr = strings.TrimSpace(getEnv("HTTP_ADDR", defaultHTTPAddr))
	cfg.DatabaseURL = strings.TrimSpace(getEnv("DATABASE_URL", defaultDatabaseURL))
	cfg.JWTSecret = strings.TrimSpace(getEnv("JWT_SECRET", defaultJWTSecret))

	var err error
	cfg.JWTTTL, err = parseDurationEnv("JWT_TTL", defaultJWTTTL)
	if err != nil {
		return nil, err
	}

	cfg.RedisAddr = strings.TrimSpace(os.Getenv("REDIS_ADDR"))
	cfg.RedisPassword = os.Getenv("REDIS_PASSWORD")

	cfg.SeatHoldTTL, err = parseDurationEnv("SEAT_HOLD_TTL", defaultSeatHoldTTL)
	if err != nil {
		return nil, err
	}

	cfg.RateLimit, err = parseIntEnv("RATE_LIMIT", defaultRateLimit)
	if err != nil {
		return nil, err
	}
	cfg.RateWindow, err = parseDurationEnv("RATE_WINDOW", defaultRateWindow)
	if err != nil {
		return nil, err
	}

	cfg.PaytmMID = strings.TrimSpace(os.Getenv("PAYTM_MID"))
	cfg.PaytmKey = strings.TrimSpace(os.Getenv("PAYTM_MERCHANT_KEY"))
	cfg.PaytmWebsite = strings.TrimSpace(getEnv("PAYTM_WEBSITE", defaultPaytmWebsite))
	cfg.PaytmEnv = strings.ToUpper(strings.TrimSpace(getEnv("PAYTM_ENV", defaultPaytmEnv)))
	cfg.PaytmCallbackURL = strings.TrimSpace(os.Getenv("PAYTM_CALLBACK_URL"))

	cfg.StripeSecretKey = strings.TrimSpace(os.Getenv("STRIPE_SECRET_KEY"))
	cfg.StripeWebhookSecret = strings.TrimSpace(os.Getenv("STRIPE_WEBHOOK_SECRET"))
	cfg.StripeSuccessURL = strings.TrimSpace(os.Getenv("STRIPE_SUCCESS_URL"))
	cfg.StripeCancelURL = strings.TrimSpace(os.Getenv("STRIPE_CANCEL_URL"))

	if err := validateConfig(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

func validateConfig(cfg *Config) error {
	if cfg.JWTTTL <= 0 {
		return fmt.Errorf("JWT_TTL must be > 0")
	}
	if cfg.SeatHoldTTL <= 0 {
		return fmt.Errorf("SEAT_HOLD_TTL must be > 0")
	}
	if cfg.RateLimit <= 0 {
		return fmt.Errorf("RATE_LIMIT must be > 0")
	}
	if cfg.RateWindow <= 0 {
		return fmt.Errorf("RATE_WINDOW must be > 0")
	}
	if cfg.DatabaseURL == "" {
		return fmt.Errorf("DATABASE_URL must not be empty")
	}

	if isProdLike(cfg.AppEnv) {
		if isEmptyOrDefault(cfg.JWTSecret, defaultJWTSecret) {
			return fmt.Errorf("in prod/release JWT_SECRET must be set and not default")
		}
		if cfg.PaytmEnv == "PROD" && (cfg.PaytmMID == "" || cfg.PaytmKey == "") {
			return fmt.Errorf("PAYTM_MID and PAYTM_MERCHANT_KEY must be set when PAYTM_ENV=PROD")
		}
	}

	return nil
}

func isProdLike(env string) bool {
	env = strings.ToLower(strings.TrimSpace(env))
	return env == "prod" || env == "production" || env == "release"
}

func isEmptyOrDefault(v, def string) bool {
	trimmed := strings.TrimSpace(v)
	return trimmed == "" || trimmed == def
}

func parseDurationEnv(name, fallback string) (time.Duration, error) {
	value := strings.TrimSpace(getEnv(name, fallback))
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s value %q: %w", name, value, err)
	}
	return d, nil
}

func parseIntEnv(name, fallback string) (int, error) {
	value := strings.TrimSpace(getEnv(name, fallback))
	var n int
	if _, err := fmt.Sscanf(value, "%d", &n); err != nil {
		return 0, fmt.Errorf("invalid %s value %q: %w", name, value, err)
	}
	return n, nil
}

func getEnv(name, fallback string) string {
	if v := os.Getenv(name); v != "" {
		return v
	}
	return fallback
}
