package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Server    ServerConfig
	Postgres  PostgresConfig
	Redis     RedisConfig
	Cache     CacheConfig
	YouTube   YouTubeConfig
	Instagram InstagramConfig
	Gemini    GeminiConfig
	OpenAI    OpenAIConfig
	Logging   LoggingConfig
}

type ServerConfig struct {
	Addr            string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration
	RatePerMinute   int
	RateBurst       int
}

type PostgresConfig struct {
	Host        string
	Port        int
	User        string
	Password    string
	Database    string
	SSLMode     string
	AutoMigrate bool
}

// URL returns the connection URL used by the migration runner.
func (p PostgresConfig) URL() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		p.User, p.Password, p.Host, p.Port, p.Database, p.SSLMode)
}

type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
	Enabled  bool
}

type CacheConfig struct {
	SnapshotTTL  time.Duration
	ChannelIDTTL time.Duration
}

type YouTubeConfig struct {
	APIKey          string
	CredentialsFile string
}

// Enabled reports whether any YouTube credential is configured.
func (y YouTubeConfig) Enabled() bool {
	return y.APIKey != "" || y.CredentialsFile != ""
}

type InstagramConfig struct {
	AccessToken       string
	BusinessAccountID string
	GraphVersion      string
	RequestsPerMinute int
}

type GeminiConfig struct {
	APIKey string
	Model  string
}

type OpenAIConfig struct {
	APIKey         string
	Model          string
	EnableFallback bool
}

type LoggingConfig struct {
	Level  string
	File   string
	Format string
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		Server: ServerConfig{
			Addr:            getEnv("SERVER_ADDR", ":8080"),
			ReadTimeout:     getEnvDuration("SERVER_READ_TIMEOUT", 15*time.Second),
			WriteTimeout:    getEnvDuration("SERVER_WRITE_TIMEOUT", 3*time.Minute),
			ShutdownTimeout: getEnvDuration("SERVER_SHUTDOWN_TIMEOUT", 10*time.Second),
			RatePerMinute:   getEnvInt("SERVER_RATE_PER_MINUTE", 30),
			RateBurst:       getEnvInt("SERVER_RATE_BURST", 10),
		},
		Postgres: PostgresConfig{
			Host:        getEnv("POSTGRES_HOST", "localhost"),
			Port:        getEnvInt("POSTGRES_PORT", 5432),
			User:        getEnv("POSTGRES_USER", "zenith"),
			Password:    getEnv("POSTGRES_PASSWORD", ""),
			Database:    getEnv("POSTGRES_DB", "zenith"),
			SSLMode:     getEnv("POSTGRES_SSLMODE", "disable"),
			AutoMigrate: getEnvBool("POSTGRES_AUTO_MIGRATE", true),
		},
		Redis: RedisConfig{
			Host:     getEnv("REDIS_HOST", "localhost"),
			Port:     getEnvInt("REDIS_PORT", 6379),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvInt("REDIS_DB", 0),
			Enabled:  getEnvBool("REDIS_ENABLED", true),
		},
		Cache: CacheConfig{
			SnapshotTTL:  getEnvDuration("CACHE_SNAPSHOT_TTL", 10*time.Minute),
			ChannelIDTTL: getEnvDuration("CACHE_CHANNEL_ID_TTL", 7*24*time.Hour),
		},
		YouTube: YouTubeConfig{
			APIKey:          getEnv("YOUTUBE_API_KEY", ""),
			CredentialsFile: getEnv("YOUTUBE_CREDENTIALS_FILE", ""),
		},
		Instagram: InstagramConfig{
			AccessToken:       getEnv("INSTAGRAM_ACCESS_TOKEN", ""),
			BusinessAccountID: getEnv("INSTAGRAM_BUSINESS_ACCOUNT_ID", ""),
			GraphVersion:      getEnv("INSTAGRAM_GRAPH_VERSION", "v21.0"),
			RequestsPerMinute: getEnvInt("INSTAGRAM_REQUESTS_PER_MINUTE", 60),
		},
		Gemini: GeminiConfig{
			APIKey: getEnv("GOOGLE_GEMINI_API_KEY", getEnv("GEMINI_API_KEY", "")),
			Model:  getEnv("GEMINI_MODEL", "gemini-2.5-flash"),
		},
		OpenAI: OpenAIConfig{
			APIKey:         getEnv("OPENAI_API_KEY", ""),
			Model:          getEnv("OPENAI_MODEL", "gpt-5-mini"),
			EnableFallback: getEnvBool("OPENAI_ENABLE_FALLBACK", true),
		},
		Logging: LoggingConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			File:   getEnv("LOG_FILE", ""),
			Format: getEnv("LOG_FORMAT", "console"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

func (c *Config) Validate() error {
	if c.Postgres.Host == "" {
		return fmt.Errorf("POSTGRES_HOST is required")
	}
	if c.Postgres.Database == "" {
		return fmt.Errorf("POSTGRES_DB is required")
	}
	if c.Gemini.APIKey == "" {
		return fmt.Errorf("GOOGLE_GEMINI_API_KEY is required")
	}
	if c.Instagram.AccessToken != "" && c.Instagram.BusinessAccountID == "" {
		return fmt.Errorf("INSTAGRAM_BUSINESS_ACCOUNT_ID is required when INSTAGRAM_ACCESS_TOKEN is set")
	}
	if c.Server.RatePerMinute < 0 || c.Server.RateBurst < 0 {
		return fmt.Errorf("SERVER_RATE_PER_MINUTE and SERVER_RATE_BURST must not be negative")
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return defaultValue
}

// getEnvDuration accepts Go duration strings ("90s") or a bare number of seconds.
func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return defaultValue
	}
	if d, err := time.ParseDuration(value); err == nil {
		return d
	}
	if seconds, err := strconv.Atoi(value); err == nil {
		return time.Duration(seconds) * time.Second
	}
	return defaultValue
}
