package sql

import "time"

// Driver names accepted by Open
const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

// Config holds relational store connection settings
type Config struct {
	// Driver selects the dialect ("postgres" or "sqlite")
	Driver string
	// DSN is the connection string (postgres URL or sqlite file path)
	DSN string

	// Pool settings (ignored for sqlite, which is limited to one connection)
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

// DefaultConfig returns sensible defaults for the relational store
func DefaultConfig() Config {
	return Config{
		Driver:          DriverSQLite,
		DSN:             "solitaire.db",
		MaxOpenConns:    10,
		MaxIdleConns:    2,
		ConnMaxLifetime: 30 * time.Minute,
	}
}
