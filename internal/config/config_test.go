package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aliskhannn/mindgrowth-bot/internal/gamification"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("TELEGRAM_API_TOKEN", "token")
	t.Setenv("DATABASE_URL", "postgres://localhost/mindgrowth")
	t.Setenv("REDIS_URL", "")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "local", cfg.Env)
	assert.Equal(t, ":8080", cfg.HTTP.Addr)
	assert.Equal(t, 30*time.Second, cfg.DB.MaxConnLifetime)
	assert.Equal(t, 24*time.Hour, cfg.Redis.TTL)
	assert.Equal(t, "0 18 * * *", cfg.Reminders.Schedule)
	assert.Empty(t, cfg.Redis.URL)

	rules, err := cfg.Rules()
	require.NoError(t, err)
	assert.Equal(t, gamification.DefaultRules(), rules)

	loc, err := cfg.Location()
	require.NoError(t, err)
	assert.Equal(t, time.UTC, loc)
}

func TestLoad_EnvironmentOverrides(t *testing.T) {
	t.Setenv("TELEGRAM_API_TOKEN", "token")
	t.Setenv("DATABASE_URL", "postgres://localhost/mindgrowth")
	t.Setenv("APP_ENV", "production")
	t.Setenv("TIMEZONE", "UTC+3")
	t.Setenv("GAMIFICATION_LESSON_XP", "120")
	t.Setenv("GAMIFICATION_MAX_FREEZES", "3")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "production", cfg.Env)

	rules, err := cfg.Rules()
	require.NoError(t, err)
	assert.Equal(t, 120, rules.LessonXP)
	assert.Equal(t, 3, rules.MaxFreezes)

	loc, err := cfg.Location()
	require.NoError(t, err)
	_, offset := time.Now().In(loc).Zone()
	assert.Equal(t, 3*3600, offset)
}

func TestLoad_MissingSecrets(t *testing.T) {
	t.Setenv("TELEGRAM_API_TOKEN", "")
	t.Setenv("DATABASE_URL", "postgres://localhost/mindgrowth")

	_, err := Load()
	assert.ErrorIs(t, err, ErrMissingEnvironmentVariables)

	t.Setenv("TELEGRAM_API_TOKEN", "token")
	t.Setenv("DATABASE_URL", "")

	_, err = Load()
	assert.ErrorIs(t, err, ErrMissingEnvironmentVariables)
}

func TestConfig_RulesRejectsInvalidTuning(t *testing.T) {
	cfg := &Config{Gamification: Gamification{LessonXP: -1}}

	_, err := cfg.Rules()
	assert.Error(t, err)
}
