package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	for _, key := range []string{
		"HTTP_ADDR", "DATABASE_URL", "DISCORD_TOKEN", "QUOTE_URL", "QUOTE_TIMEOUT",
		"PLAY_WIN_PROBABILITY", "PLAY_BASE_PAYOUT", "PLAY_BONUS_PAYOUT",
		"RATE_LIMIT_RPS", "RATE_LIMIT_BURST", "ENVIRONMENT",
	} {
		t.Setenv(key, "")
	}

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.HTTPAddr)
	assert.False(t, cfg.UsesPostgres())
	assert.False(t, cfg.BotEnabled())
	assert.Equal(t, 0.5, cfg.WinProbability)
	assert.Equal(t, int64(1), cfg.BasePayout)
	assert.Equal(t, int64(4), cfg.BonusPayout)
	assert.Equal(t, DefaultQuoteURL, cfg.QuoteURL)
	assert.Equal(t, 5*time.Second, cfg.QuoteTimeout)
	assert.Equal(t, "development", cfg.Environment)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost:5432")
	t.Setenv("DISCORD_TOKEN", "token")
	t.Setenv("PLAY_WIN_PROBABILITY", "0.25")
	t.Setenv("PLAY_BONUS_PAYOUT", "9")
	t.Setenv("QUOTE_TIMEOUT", "750ms")
	t.Setenv("RATE_LIMIT_BURST", "3")
	t.Setenv("ENVIRONMENT", "production")

	cfg, err := Load()
	require.NoError(t, err)

	assert.True(t, cfg.UsesPostgres())
	assert.True(t, cfg.BotEnabled())
	assert.True(t, cfg.IsProduction())
	assert.Equal(t, 0.25, cfg.WinProbability)
	assert.Equal(t, int64(9), cfg.BonusPayout)
	assert.Equal(t, 750*time.Millisecond, cfg.QuoteTimeout)
	assert.Equal(t, 3, cfg.RateLimitBurst)
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		key   string
		value string
	}{
		{"PLAY_WIN_PROBABILITY", "1.5"},
		{"PLAY_WIN_PROBABILITY", "half"},
		{"PLAY_BASE_PAYOUT", "-1"},
		{"QUOTE_TIMEOUT", "soon"},
		{"RATE_LIMIT_RPS", "-2"},
	}

	for _, tt := range tests {
		t.Run(tt.key+"="+tt.value, func(t *testing.T) {
			t.Setenv(tt.key, tt.value)
			_, err := Load()
			assert.Error(t, err)
		})
	}
}
