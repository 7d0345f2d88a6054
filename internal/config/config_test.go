package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadDefaults(t *testing.T) {
	for _, key := range []string{"PAGINATION_MODE", "SCORE_THRESHOLD", "SESSION_TTL", "NARRATION_ENABLED", "PAGE_SIZE"} {
		t.Setenv(key, "")
		os.Unsetenv(key)
	}

	cfg := Load()

	assert.Equal(t, "shown", cfg.Search.PaginationMode)
	assert.InDelta(t, 0.70, cfg.Search.ScoreThreshold, 1e-9)
	assert.Equal(t, 20, cfg.Search.DefaultLimit)
	assert.Equal(t, 10, cfg.Search.DefaultShowCount)
	assert.Equal(t, 5, cfg.Search.PageSize)
	assert.Equal(t, time.Hour, cfg.Session.TTL)
	assert.True(t, cfg.Ai.NarrationEnabled)
	assert.Equal(t, 20*time.Second, cfg.Timeouts.Router)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("PAGINATION_MODE", "Cursor")
	t.Setenv("SCORE_THRESHOLD", "0.72")
	t.Setenv("SESSION_TTL", "30m")
	t.Setenv("EMBED_TIMEOUT", "5")
	t.Setenv("NARRATION_ENABLED", "false")
	t.Setenv("GO_ENV", "production")

	cfg := Load()

	assert.Equal(t, "cursor", cfg.Search.PaginationMode)
	assert.InDelta(t, 0.72, cfg.Search.ScoreThreshold, 1e-9)
	assert.Equal(t, 30*time.Minute, cfg.Session.TTL)
	assert.Equal(t, 5*time.Second, cfg.Timeouts.Embed)
	assert.False(t, cfg.Ai.NarrationEnabled)
	assert.True(t, cfg.IsProduction())
}

func TestGetEnvAsDurationFallback(t *testing.T) {
	t.Setenv("SOME_TIMEOUT", "soon")
	assert.Equal(t, 3*time.Second, getEnvAsDuration("SOME_TIMEOUT", 3*time.Second))
}
