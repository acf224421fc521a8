package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

const (
	DedupMemory = "memory"
	DedupRedis  = "redis"
)

type Config struct {
	Env string

	DBHost      string
	DBPort      string
	DBUser      string
	DBPassword  string
	DBName      string
	DBSSLMode   string
	DatabaseURL string

	DBMaxOpenConns    int
	DBMaxIdleConns    int
	DBConnMaxLifetime time.Duration
	AutoMigrate       bool

	ServerPort string

	DebounceWindow time.Duration
	DedupBackend   string
	RedisAddr      string

	LogLevel slog.Level
}

// Load reads an optional .env file and then the environment. Variables
// already set in the environment win over the file.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to read .env: %w", err)
	}

	cfg := &Config{
		Env:         getEnv("APP_ENV", "development"),
		DBHost:      getEnv("PGHOST", "localhost"),
		DBPort:      getEnv("PGPORT", "5432"),
		DBUser:      getEnv("PGUSER", "postgres"),
		DBPassword:  os.Getenv("PGPASSWORD"),
		DBName:      getEnv("PGDATABASE", "bank_transfer"),
		DBSSLMode:   getEnv("PGSSLMODE", "disable"),
		DatabaseURL: os.Getenv("DATABASE_URL"),
		ServerPort:  getEnv("SERVER_PORT", "3000"),
		RedisAddr:   getEnv("REDIS_ADDR", "localhost:6379"),
	}

	var err error
	if cfg.DBMaxOpenConns, err = getInt("DB_MAX_OPEN_CONNS", 25); err != nil {
		return nil, err
	}
	if cfg.DBMaxIdleConns, err = getInt("DB_MAX_IDLE_CONNS", 25); err != nil {
		return nil, err
	}
	if cfg.DBConnMaxLifetime, err = getDuration("DB_CONN_MAX_LIFETIME", 5*time.Minute); err != nil {
		return nil, err
	}
	if cfg.DebounceWindow, err = getDuration("DEBOUNCE_WINDOW", 5*time.Second); err != nil {
		return nil, err
	}
	if cfg.AutoMigrate, err = getBool("AUTO_MIGRATE", true); err != nil {
		return nil, err
	}

	cfg.DedupBackend = getEnv("DEDUP_BACKEND", DedupMemory)
	if cfg.DedupBackend != DedupMemory && cfg.DedupBackend != DedupRedis {
		return nil, fmt.Errorf("DEDUP_BACKEND must be %q or %q, got %q", DedupMemory, DedupRedis, cfg.DedupBackend)
	}

	defaultLevel := "debug"
	if cfg.IsProduction() {
		defaultLevel = "info"
	}
	if err := cfg.LogLevel.UnmarshalText([]byte(getEnv("LOG_LEVEL", defaultLevel))); err != nil {
		return nil, fmt.Errorf("invalid LOG_LEVEL: %w", err)
	}

	return cfg, nil
}

func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

// GetDBConnectionString returns DATABASE_URL in production when it is set,
// otherwise a lib/pq keyword DSN built from the PG* settings.
func (c *Config) GetDBConnectionString() string {
	if c.IsProduction() && c.DatabaseURL != "" {
		return c.DatabaseURL
	}
	dsn := fmt.Sprintf("host=%s port=%s user=%s dbname=%s sslmode=%s",
		c.DBHost, c.DBPort, c.DBUser, c.DBName, c.DBSSLMode)
	if c.DBPassword != "" {
		dsn += " password=" + c.DBPassword
	}
	return dsn
}

func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}

func getInt(key string, fallback int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return n, nil
}

func getDuration(key string, fallback time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return d, nil
}

func getBool(key string, fallback bool) (bool, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, fmt.Errorf("invalid %s: %w", key, err)
	}
	return b, nil
}
