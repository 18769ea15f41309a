package cli

import (
	"errors"
	"os"
)

// Config holds CLI configuration
type Config struct {
	ServerURL string
	Username  string
	Output    string
}

// DefaultConfig returns a Config with default values
func DefaultConfig() *Config {
	return &Config{
		ServerURL: getEnvOrDefault("SOLITAIRE_SERVER", "http://localhost:5000"),
		Username:  os.Getenv("SOLITAIRE_USER"),
		Output:    "text",
	}
}

// RequireUsername returns the configured username or an error naming the flag
func (c *Config) RequireUsername() (string, error) {
	if c.Username == "" {
		return "", errors.New("--user is required (or set SOLITAIRE_USER)")
	}
	return c.Username, nil
}

func getEnvOrDefault(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}
