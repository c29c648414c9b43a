package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/aliskhannn/mindgrowth-bot/internal/gamification"
)

var ErrMissingEnvironmentVariables = errors.New("missing required environment variables")

// Config holds application configuration loaded from files and environment variables.
type Config struct {
	Env              string       `mapstructure:"env"`          // current application environment (local, dev, production etc)
	TelegramAPIToken string       `mapstructure:"-"`            // Telegram API token loaded from environment
	Timezone         string       `mapstructure:"timezone"`     // IANA name or UTC offset used for calendar days
	LessonsPath      string       `mapstructure:"lessons_path"` // path to JSON file with the lesson catalog
	BadgesPath       string       `mapstructure:"badges_path"`  // path to YAML file with the badge catalog
	HTTP             HTTP         `mapstructure:"http"`
	DB               DB           `mapstructure:"database"` // database configuration section
	Redis            Redis        `mapstructure:"redis"`
	Reminders        Reminders    `mapstructure:"reminders"`
	Gamification     Gamification `mapstructure:"gamification"`
}

// HTTP configures the Mini App API server.
type HTTP struct {
	Addr            string        `mapstructure:"addr"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

// DB contains database-related configuration parameters.
type DB struct {
	URL             string        `mapstructure:"-"`                 // database connection string loaded from environment
	MaxConnections  int           `mapstructure:"max_connections"`   // maximum number of open connections in the pool
	MaxConnLifetime time.Duration `mapstructure:"max_conn_lifetime"` // maximum lifetime of a single connection
}

// DSN returns the database connection string if it is configured.
func (db DB) DSN() (string, error) {
	if db.URL == "" {
		return "", ErrMissingEnvironmentVariables
	}
	return db.URL, nil
}

// Redis configures the optional snapshot cache. An empty URL disables it.
type Redis struct {
	URL string        `mapstructure:"-"`
	TTL time.Duration `mapstructure:"ttl"`
}

// Reminders configures the daily check-in reminder job.
type Reminders struct {
	Enabled  bool   `mapstructure:"enabled"`
	Schedule string `mapstructure:"schedule"` // cron expression in Timezone
	Workers  int    `mapstructure:"workers"`
}

// Gamification holds every tunable of the progress engine.
type Gamification struct {
	LessonXP        int      `mapstructure:"lesson_xp"`
	QuizMaxXP       int      `mapstructure:"quiz_max_xp"`
	PracticeXP      int      `mapstructure:"practice_xp"`
	CheckInXP       int      `mapstructure:"checkin_xp"`
	MaxFreezes      int      `mapstructure:"max_freezes"`
	FreezeResetDays int      `mapstructure:"freeze_reset_days"`
	MetricsWindow   int      `mapstructure:"metrics_window"`
	StreakTarget    int      `mapstructure:"streak_target"`
	SleepMinHours   float64  `mapstructure:"sleep_min_hours"`
	SleepMaxHours   float64  `mapstructure:"sleep_max_hours"`
	Wellness        Wellness `mapstructure:"wellness"`
}

// Wellness holds the weights of the wellness score terms.
type Wellness struct {
	EmotionalWeight   float64 `mapstructure:"emotional_weight"`
	ConsistencyWeight float64 `mapstructure:"consistency_weight"`
}

// Rules converts the gamification section into engine rules.
func (c *Config) Rules() (gamification.Rules, error) {
	g := c.Gamification
	rules := gamification.Rules{
		LessonXP:        g.LessonXP,
		QuizMaxXP:       g.QuizMaxXP,
		PracticeXP:      g.PracticeXP,
		CheckInXP:       g.CheckInXP,
		MaxFreezes:      g.MaxFreezes,
		FreezeResetDays: g.FreezeResetDays,
		MetricsWindow:   g.MetricsWindow,
		StreakTarget:    g.StreakTarget,
		SleepMinHours:   g.SleepMinHours,
		SleepMaxHours:   g.SleepMaxHours,
		Wellness: gamification.WellnessWeights{
			Emotional:   g.Wellness.EmotionalWeight,
			Consistency: g.Wellness.ConsistencyWeight,
		},
	}
	if err := rules.Validate(); err != nil {
		return gamification.Rules{}, fmt.Errorf("invalid gamification config: %w", err)
	}
	return rules, nil
}

// Location returns the configured time zone.
func (c *Config) Location() (*time.Location, error) {
	return parseLocation(c.Timezone)
}

// Load reads configuration from config files and environment variables.
func Load() (*Config, error) {
	// Values from .env never override variables that are already set.
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("error loading .env file: %w", err)
	}

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("./config")

	setDefaults(v)

	// Configure environment variable handling and key mapping.
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_")) // map nested keys to ENV style names
	v.AutomaticEnv()

	// Bind explicit environment variables to configuration keys.
	_ = v.BindEnv("telegram_api_token", "TELEGRAM_API_TOKEN")
	_ = v.BindEnv("database_url", "DATABASE_URL")
	_ = v.BindEnv("redis_url", "REDIS_URL")
	_ = v.BindEnv("env", "APP_ENV")

	// Try to read configuration file if present.
	if err := v.ReadInConfig(); err != nil {
		var fileLookupErr viper.ConfigFileNotFoundError
		if !errors.As(err, &fileLookupErr) {
			return nil, fmt.Errorf("error loading config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshalling config: %w", err)
	}

	// Load sensitive values from environment variables.
	cfg.TelegramAPIToken = v.GetString("telegram_api_token")
	if cfg.TelegramAPIToken == "" {
		return nil, fmt.Errorf("%w: TELEGRAM_API_TOKEN", ErrMissingEnvironmentVariables)
	}

	cfg.DB.URL = v.GetString("database_url")
	if cfg.DB.URL == "" {
		return nil, fmt.Errorf("%w: DATABASE_URL", ErrMissingEnvironmentVariables)
	}

	cfg.Redis.URL = v.GetString("redis_url")

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	rules := gamification.DefaultRules()

	v.SetDefault("env", "local")
	v.SetDefault("timezone", "UTC")
	v.SetDefault("lessons_path", "assets/data/lessons.json")
	v.SetDefault("badges_path", "assets/data/badges.yaml")

	v.SetDefault("http.addr", ":8080")
	v.SetDefault("http.shutdown_timeout", "10s")

	v.SetDefault("database.max_connections", 20)
	v.SetDefault("database.max_conn_lifetime", "30s")

	v.SetDefault("redis.ttl", "24h")

	v.SetDefault("reminders.enabled", true)
	v.SetDefault("reminders.schedule", "0 18 * * *")
	v.SetDefault("reminders.workers", 8)

	v.SetDefault("gamification.lesson_xp", rules.LessonXP)
	v.SetDefault("gamification.quiz_max_xp", rules.QuizMaxXP)
	v.SetDefault("gamification.practice_xp", rules.PracticeXP)
	v.SetDefault("gamification.checkin_xp", rules.CheckInXP)
	v.SetDefault("gamification.max_freezes", rules.MaxFreezes)
	v.SetDefault("gamification.freeze_reset_days", rules.FreezeResetDays)
	v.SetDefault("gamification.metrics_window", rules.MetricsWindow)
	v.SetDefault("gamification.streak_target", rules.StreakTarget)
	v.SetDefault("gamification.sleep_min_hours", rules.SleepMinHours)
	v.SetDefault("gamification.sleep_max_hours", rules.SleepMaxHours)
	v.SetDefault("gamification.wellness.emotional_weight", rules.Wellness.Emotional)
	v.SetDefault("gamification.wellness.consistency_weight", rules.Wellness.Consistency)
}
