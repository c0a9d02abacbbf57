package config

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"

	"github.com/kapu/hololive-wiki-scraper/internal/constants"
)

type Config struct {
	Wiki     WikiConfig
	Output   OutputConfig
	Roster   RosterConfig
	Redis    RedisConfig
	Postgres PostgresConfig
	Logging  LoggingConfig
}

type WikiConfig struct {
	BaseURL        string
	UserAgent      string
	Timeout        time.Duration
	RetryDelay     time.Duration
	TabberStrategy string
}

type OutputConfig struct {
	Root string
}

type RosterConfig struct {
	File string
}

type RedisConfig struct {
	Enabled  bool
	Host     string
	Port     int
	Password string
	DB       int
}

type PostgresConfig struct {
	Enabled  bool
	Host     string
	Port     int
	User     string
	Password string
	Database string
}

type LoggingConfig struct {
	Level string
	File  string
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		Wiki: WikiConfig{
			BaseURL:        getEnv("WIKI_BASE_URL", constants.WikiConfig.BaseURL),
			UserAgent:      getEnv("WIKI_USER_AGENT", constants.WikiConfig.UserAgent),
			Timeout:        time.Duration(getEnvInt("WIKI_TIMEOUT_SECONDS", int(constants.WikiConfig.RequestTimeout/time.Second))) * time.Second,
			RetryDelay:     time.Duration(getEnvInt("DOWNLOAD_RETRY_DELAY_MS", int(constants.DownloadRetryConfig.Delay/time.Millisecond))) * time.Millisecond,
			TabberStrategy: getEnv("OUTFIT_TABBER_STRATEGY", constants.TabberStrategy.Content),
		},
		Output: OutputConfig{
			Root: getEnv("OUTPUT_ROOT", constants.OutputConfig.Root),
		},
		Roster: RosterConfig{
			File: getEnv("ROSTER_FILE", ""),
		},
		Redis: RedisConfig{
			Enabled:  getEnvBool("REDIS_ENABLED", false),
			Host:     getEnv("REDIS_HOST", "localhost"),
			Port:     getEnvInt("REDIS_PORT", 6379),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvInt("REDIS_DB", 0),
		},
		Postgres: PostgresConfig{
			Enabled:  getEnvBool("POSTGRES_ENABLED", false),
			Host:     getEnv("POSTGRES_HOST", "localhost"),
			Port:     getEnvInt("POSTGRES_PORT", 5432),
			User:     getEnv("POSTGRES_USER", "holo_user"),
			Password: getEnv("POSTGRES_PASSWORD", ""),
			Database: getEnv("POSTGRES_DB", "holo_wiki_db"),
		},
		Logging: LoggingConfig{
			Level: getEnv("LOG_LEVEL", "info"),
			File:  getEnv("LOG_FILE", ""),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

func (c *Config) Validate() error {
	if c.Wiki.BaseURL == "" {
		return fmt.Errorf("WIKI_BASE_URL is required")
	}
	u, err := url.Parse(c.Wiki.BaseURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("WIKI_BASE_URL must be an absolute http(s) URL: %q", c.Wiki.BaseURL)
	}
	if c.Wiki.Timeout <= 0 {
		return fmt.Errorf("WIKI_TIMEOUT_SECONDS must be positive")
	}
	if c.Wiki.RetryDelay < 0 {
		return fmt.Errorf("DOWNLOAD_RETRY_DELAY_MS must not be negative")
	}
	if c.Wiki.TabberStrategy != constants.TabberStrategy.Content && c.Wiki.TabberStrategy != constants.TabberStrategy.Legacy {
		return fmt.Errorf("OUTFIT_TABBER_STRATEGY must be %q or %q, got %q",
			constants.TabberStrategy.Content, constants.TabberStrategy.Legacy, c.Wiki.TabberStrategy)
	}
	if c.Output.Root == "" {
		return fmt.Errorf("OUTPUT_ROOT is required")
	}
	if c.Redis.Enabled && c.Redis.Host == "" {
		return fmt.Errorf("REDIS_HOST is required when REDIS_ENABLED is set")
	}
	if c.Postgres.Enabled && c.Postgres.Host == "" {
		return fmt.Errorf("POSTGRES_HOST is required when POSTGRES_ENABLED is set")
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
