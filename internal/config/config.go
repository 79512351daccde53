package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"
)

type Config struct {
	Port        string
	DatabaseURL string
	JWTSecret   string

	// Game timing. RoundDuration is the hard length of one full round;
	// the sampled crash always lands strictly inside it.
	RoundDuration     time.Duration
	TickInterval      time.Duration
	CountdownInterval time.Duration
	MinCrashSeconds   int
	MaxCrashSeconds   int

	// Price oracle.
	PriceAPIURL   string
	PriceCacheTTL time.Duration
	PriceTimeout  time.Duration
}

func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Info("no .env file found, using environment")
	}

	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		return nil, fmt.Errorf("DATABASE_URL environment variable is required")
	}

	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		return nil, fmt.Errorf("JWT_SECRET environment variable is required")
	}

	cfg := &Config{
		Port:              getEnvOrDefault("PORT", "8080"),
		DatabaseURL:       dbURL,
		JWTSecret:         secret,
		RoundDuration:     getDurationOrDefault("ROUND_DURATION", 10*time.Second),
		TickInterval:      getDurationOrDefault("TICK_INTERVAL", 500*time.Millisecond),
		CountdownInterval: getDurationOrDefault("COUNTDOWN_INTERVAL", time.Second),
		MinCrashSeconds:   getIntOrDefault("MIN_CRASH_SECONDS", 1),
		MaxCrashSeconds:   getIntOrDefault("MAX_CRASH_SECONDS", 9),
		PriceAPIURL:       getEnvOrDefault("PRICE_API_URL", "https://api.coingecko.com/api/v3/simple/price"),
		PriceCacheTTL:     getDurationOrDefault("PRICE_CACHE_TTL", 10*time.Second),
		PriceTimeout:      getDurationOrDefault("PRICE_TIMEOUT", 5*time.Second),
	}

	if cfg.MinCrashSeconds < 1 || cfg.MaxCrashSeconds < cfg.MinCrashSeconds {
		return nil, fmt.Errorf("invalid crash window [%d, %d]", cfg.MinCrashSeconds, cfg.MaxCrashSeconds)
	}
	if time.Duration(cfg.MaxCrashSeconds)*time.Second >= cfg.RoundDuration {
		return nil, fmt.Errorf("MAX_CRASH_SECONDS (%d) must be shorter than ROUND_DURATION (%v)", cfg.MaxCrashSeconds, cfg.RoundDuration)
	}

	return cfg, nil
}

func getEnvOrDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getIntOrDefault(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
		log.Warnf("invalid value for %s, using default", key)
	}
	return def
}

func getDurationOrDefault(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
		log.Warnf("invalid value for %s, using default", key)
	}
	return def
}
