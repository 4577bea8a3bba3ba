package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config aggregates runtime configuration for the bot.
type Config struct {
	App      AppConfig
	Postgres PostgresConfig
	Redis    RedisConfig
	Logger   LoggerConfig
	Discord  DiscordConfig
	Feedback FeedbackConfig
}

// AppConfig controls the ops HTTP surface.
type AppConfig struct {
	Name                  string
	Env                   string
	Host                  string
	Port                  string
	Version               string
	RequestTimeoutSeconds int
}

// PostgresConfig holds DB connection values.
type PostgresConfig struct {
	DSN            string
	MaxConns       int32
	MinConns       int32
	RunMigrations  bool
	ConnMaxIdleSec int32
	ConnMaxLifeSec int32
}

// RedisConfig holds Redis connection values. When Enabled is false the
// feedback session store stays in process memory.
type RedisConfig struct {
	Enabled  bool
	Addr     string
	Password string
	DB       int
}

// LoggerConfig configures logging behavior.
type LoggerConfig struct {
	Level string
}

// DiscordConfig identifies the gateway connection and the fixed channels and
// roles the bot acts on.
type DiscordConfig struct {
	Token                string
	GuildID              string
	FormsChannelID       string
	ResultsChannelID     string
	ConsoleChannelID     string
	WelcomeChannelID     string
	StaffRoleID          string
	WhitelistedRoleID    string
	ConsoleCommandPrefix string
	WhitelistAddCommand  string
	WhitelistRemoveCmd   string
}

// FeedbackConfig controls the feedback correlation window.
type FeedbackConfig struct {
	TTLHours         int
	SweepIntervalMin int
}

// Load reads configuration from environment variables, applying defaults where possible.
func Load() (*Config, error) {
	_ = godotenv.Load()

	redisDB, err := strconv.Atoi(getEnv("REDIS_DB", "0"))
	if err != nil {
		return nil, fmt.Errorf("invalid REDIS_DB: %w", err)
	}

	cfg := &Config{
		App: AppConfig{
			Name:                  getEnv("APP_NAME", "gatekeeper"),
			Env:                   getEnv("APP_ENV", "development"),
			Host:                  getEnv("APP_HOST", "0.0.0.0"),
			Port:                  getEnv("APP_PORT", "8080"),
			Version:               getEnv("APP_VERSION", "dev"),
			RequestTimeoutSeconds: getEnvAsInt("HTTP_REQUEST_TIMEOUT_SECONDS", 30),
		},
		Postgres: PostgresConfig{
			DSN:            os.Getenv("POSTGRES_DSN"),
			MaxConns:       int32(getEnvAsInt("POSTGRES_MAX_CONNS", 10)),
			MinConns:       int32(getEnvAsInt("POSTGRES_MIN_CONNS", 2)),
			RunMigrations:  getEnvAsBool("POSTGRES_RUN_MIGRATIONS", true),
			ConnMaxIdleSec: int32(getEnvAsInt("POSTGRES_CONN_MAX_IDLE_SECONDS", 30)),
			ConnMaxLifeSec: int32(getEnvAsInt("POSTGRES_CONN_MAX_LIFE_SECONDS", 300)),
		},
		Redis: RedisConfig{
			Enabled:  getEnvAsBool("REDIS_ENABLED", false),
			Addr:     getEnv("REDIS_ADDR", "127.0.0.1:6379"),
			Password: os.Getenv("REDIS_PASSWORD"),
			DB:       redisDB,
		},
		Logger: LoggerConfig{
			Level: getEnv("LOG_LEVEL", "info"),
		},
		Discord: DiscordConfig{
			Token:                os.Getenv("DISCORD_TOKEN"),
			GuildID:              os.Getenv("GUILD_ID"),
			FormsChannelID:       os.Getenv("FORMS_CHANNEL_ID"),
			ResultsChannelID:     os.Getenv("PUBLIC_RESULTS_CHANNEL_ID"),
			ConsoleChannelID:     os.Getenv("CONSOLE_CHANNEL_ID"),
			WelcomeChannelID:     os.Getenv("WELCOME_CHANNEL_ID"),
			StaffRoleID:          os.Getenv("STAFF_ROLE_ID"),
			WhitelistedRoleID:    os.Getenv("WHITELISTED_ROLE_ID"),
			ConsoleCommandPrefix: getEnv("CONSOLE_COMMAND_PREFIX", ""),
			WhitelistAddCommand:  getEnv("WHITELIST_COMMAND_TEMPLATE", "whitelist add {ign}"),
			WhitelistRemoveCmd:   getEnv("WHITELIST_REMOVE_TEMPLATE", "whitelist remove {ign}"),
		},
		Feedback: FeedbackConfig{
			TTLHours:         getEnvAsInt("FEEDBACK_TTL_HOURS", 24),
			SweepIntervalMin: getEnvAsInt("FEEDBACK_SWEEP_INTERVAL_MINUTES", 15),
		},
	}

	if cfg.Discord.Token == "" {
		return nil, fmt.Errorf("DISCORD_TOKEN is required")
	}

	return cfg, nil
}

// Addr returns the ops HTTP bind address.
func (a AppConfig) Addr() string {
	return fmt.Sprintf("%s:%s", a.Host, a.Port)
}

// RequestTimeout returns the configured request timeout duration.
func (a AppConfig) RequestTimeout() time.Duration {
	if a.RequestTimeoutSeconds <= 0 {
		return 0
	}
	return time.Duration(a.RequestTimeoutSeconds) * time.Second
}

// TTL returns the feedback session time-to-live.
func (f FeedbackConfig) TTL() time.Duration {
	if f.TTLHours <= 0 {
		return 24 * time.Hour
	}
	return time.Duration(f.TTLHours) * time.Hour
}

// SweepInterval returns how often expired sessions are evicted.
func (f FeedbackConfig) SweepInterval() time.Duration {
	if f.SweepIntervalMin <= 0 {
		return 15 * time.Minute
	}
	return time.Duration(f.SweepIntervalMin) * time.Minute
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
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

func getEnvAsBool(key string, fallback bool) bool {
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
