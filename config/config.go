package config

import (
	"fmt"
	"os"
	"strconv"
	"sync"
	"time"

	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"
)

// Config holds all application configuration
type Config struct {
	// HTTP configuration
	HTTPAddr       string
	RateLimitRPS   float64 // requests per second per caller, 0 disables limiting
	RateLimitBurst int

	// Database configuration. An empty DatabaseURL keeps the ledger in memory.
	DatabaseURL  string
	DatabaseName string

	// Discord configuration. An empty token disables the bot.
	DiscordToken   string
	DiscordGuildID string

	// Game configuration
	WinProbability float64
	BasePayout     int64
	BonusPayout    int64

	// Price feed configuration
	QuoteURL     string
	QuoteTimeout time.Duration
	QuoteRefresh string // cron spec

	// Logging
	LogLevel string

	// Environment
	Environment string // "development", "production" or "test"
}

// DefaultQuoteURL asks CoinGecko for wrapped BTC and ETH prices in USD
const DefaultQuoteURL = "https://api.coingecko.com/api/v3/simple/price?ids=wrapped-bitcoin,weth&vs_currencies=usd"

var (
	instance *Config
	once     sync.Once
)

// Get returns the global configuration instance
func Get() *Config {
	once.Do(func() {
		var err error
		instance, err = Load()
		if err != nil {
			panic(fmt.Sprintf("failed to load config: %v", err))
		}
	})
	return instance
}

// Load reads configuration from the environment, after merging a .env file if present
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.WithError(err).Warn("Failed to read .env file")
	}

	config := &Config{
		HTTPAddr:       getEnv("HTTP_ADDR", ":8080"),
		RateLimitRPS:   10,
		RateLimitBurst: 20,

		DatabaseURL:  os.Getenv("DATABASE_URL"),
		DatabaseName: os.Getenv("DATABASE_NAME"),

		DiscordToken:   os.Getenv("DISCORD_TOKEN"),
		DiscordGuildID: os.Getenv("DISCORD_GUILD_ID"),

		WinProbability: 0.5,
		BasePayout:     1,
		BonusPayout:    4,

		QuoteURL:     getEnv("QUOTE_URL", DefaultQuoteURL),
		QuoteTimeout: 5 * time.Second,
		QuoteRefresh: getEnv("QUOTE_REFRESH", "@every 1m"),

		LogLevel:    getEnv("LOG_LEVEL", "info"),
		Environment: getEnv("ENVIRONMENT", "development"),
	}

	var err error
	if config.RateLimitRPS, err = parseFloat("RATE_LIMIT_RPS", config.RateLimitRPS); err != nil {
		return nil, err
	}
	if config.RateLimitBurst, err = parseInt("RATE_LIMIT_BURST", config.RateLimitBurst); err != nil {
		return nil, err
	}
	if config.WinProbability, err = parseFloat("PLAY_WIN_PROBABILITY", config.WinProbability); err != nil {
		return nil, err
	}
	if config.BasePayout, err = parseInt64("PLAY_BASE_PAYOUT", config.BasePayout); err != nil {
		return nil, err
	}
	if config.BonusPayout, err = parseInt64("PLAY_BONUS_PAYOUT", config.BonusPayout); err != nil {
		return nil, err
	}
	if timeout := os.Getenv("QUOTE_TIMEOUT"); timeout != "" {
		if config.QuoteTimeout, err = time.ParseDuration(timeout); err != nil {
			return nil, fmt.Errorf("invalid QUOTE_TIMEOUT: %w", err)
		}
	}

	// Validate
	if config.WinProbability < 0 || config.WinProbability > 1 {
		return nil, fmt.Errorf("PLAY_WIN_PROBABILITY must be between 0 and 1")
	}
	if config.BasePayout < 0 || config.BonusPayout < 0 {
		return nil, fmt.Errorf("play payouts must not be negative")
	}
	if config.BasePayout+config.BonusPayout <= 0 {
		return nil, fmt.Errorf("a play must pay out at least one point")
	}
	if config.RateLimitRPS < 0 || config.RateLimitBurst < 0 {
		return nil, fmt.Errorf("rate limits must not be negative")
	}

	return config, nil
}

// UsesPostgres reports whether a database is configured
func (c *Config) UsesPostgres() bool {
	return c.DatabaseURL != ""
}

// BotEnabled reports whether the Discord adapter should start
func (c *Config) BotEnabled() bool {
	return c.DiscordToken != ""
}

// IsProduction reports whether the service runs in production
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func parseFloat(key string, fallback float64) (float64, error) {
	value := os.Getenv(key)
	if value == "" {
		return fallback, nil
	}
	parsed, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return parsed, nil
}

func parseInt64(key string, fallback int64) (int64, error) {
	value := os.Getenv(key)
	if value == "" {
		return fallback, nil
	}
	parsed, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return parsed, nil
}

func parseInt(key string, fallback int) (int, error) {
	parsed, err := parseInt64(key, int64(fallback))
	return int(parsed), err
}
