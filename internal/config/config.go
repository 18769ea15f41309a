package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"golang.org/x/crypto/bcrypt"
)

// Storage backends
const (
	StorageMemory   = "memory"
	StorageRedis    = "redis"
	StoragePostgres = "postgres"
	StorageSQLite   = "sqlite"
)

// Config holds server configuration read from the environment
type Config struct {
	Host string
	Port int

	StorageType string
	RedisURL    string
	DatabaseURL string
	SQLitePath  string

	GameRecordsDir string

	BcryptCost   int
	StoreTimeout time.Duration

	// TrustedProxyHeader names the forwarded-address header set by the
	// reverse proxy; empty means use the peer address only
	TrustedProxyHeader string
	CORSAllowedOrigins []string
}

// Default returns the configuration used when nothing is set
func Default() Config {
	return Config{
		Port:               5000,
		StorageType:        StorageMemory,
		SQLitePath:         "solitaire.db",
		GameRecordsDir:     "data",
		BcryptCost:         bcrypt.DefaultCost,
		StoreTimeout:       5 * time.Second,
		TrustedProxyHeader: "X-Forwarded-For",
		CORSAllowedOrigins: []string{"*"},
	}
}

// Load reads configuration from the environment, after loading any of the
// given .env files that exist
func Load(envFiles ...string) (Config, error) {
	for _, f := range envFiles {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, os.ErrNotExist) {
			return Config{}, fmt.Errorf("load %s: %w", f, err)
		}
	}

	cfg := Default()
	cfg.Host = os.Getenv("HOST")
	cfg.StorageType = getEnvOrDefault("STORAGE_TYPE", cfg.StorageType)
	cfg.RedisURL = os.Getenv("REDIS_URL")
	cfg.DatabaseURL = os.Getenv("DATABASE_URL")
	cfg.SQLitePath = getEnvOrDefault("SQLITE_PATH", cfg.SQLitePath)
	cfg.GameRecordsDir = getEnvOrDefault("GAME_RECORDS_DIR", cfg.GameRecordsDir)

	if v, ok := os.LookupEnv("TRUSTED_PROXY_HEADER"); ok {
		cfg.TrustedProxyHeader = v
	}
	if v := os.Getenv("CORS_ALLOWED_ORIGINS"); v != "" {
		cfg.CORSAllowedOrigins = splitList(v)
	}

	var err error
	if cfg.Port, err = getEnvInt("PORT", cfg.Port); err != nil {
		return Config{}, err
	}
	if cfg.BcryptCost, err = getEnvInt("BCRYPT_COST", cfg.BcryptCost); err != nil {
		return Config{}, err
	}
	if v := os.Getenv("STORE_TIMEOUT"); v != "" {
		if cfg.StoreTimeout, err = time.ParseDuration(v); err != nil {
			return Config{}, fmt.Errorf("STORE_TIMEOUT: %w", err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks that the selected storage backend has what it needs
func (c Config) Validate() error {
	switch c.StorageType {
	case StorageMemory:
	case StorageRedis:
		if c.RedisURL == "" {
			return errors.New("REDIS_URL required when STORAGE_TYPE=redis")
		}
	case StoragePostgres:
		if c.DatabaseURL == "" {
			return errors.New("DATABASE_URL required when STORAGE_TYPE=postgres")
		}
	case StorageSQLite:
		if c.SQLitePath == "" {
			return errors.New("SQLITE_PATH required when STORAGE_TYPE=sqlite")
		}
	default:
		return fmt.Errorf("invalid STORAGE_TYPE %q", c.StorageType)
	}

	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("invalid PORT %d", c.Port)
	}
	if c.BcryptCost < bcrypt.MinCost || c.BcryptCost > bcrypt.MaxCost {
		return fmt.Errorf("BCRYPT_COST must be between %d and %d", bcrypt.MinCost, bcrypt.MaxCost)
	}
	if c.StoreTimeout <= 0 {
		return errors.New("STORE_TIMEOUT must be positive")
	}
	return nil
}

func getEnvOrDefault(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) (int, error) {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal, nil
	}
	n, err := strconv.Atoi(val)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return n, nil
}

func splitList(v string) []string {
	var out []string
	for _, part := range strings.Split(v, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
