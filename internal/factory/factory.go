package factory

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"golang.org/x/crypto/bcrypt"

	"github.com/mcoot/solitaire-server/internal/config"
	"github.com/mcoot/solitaire-server/internal/credential"
	"github.com/mcoot/solitaire-server/internal/dependencies/clock"
	"github.com/mcoot/solitaire-server/internal/dependencies/random"
	"github.com/mcoot/solitaire-server/internal/services/auth"
	"github.com/mcoot/solitaire-server/internal/services/records"
	"github.com/mcoot/solitaire-server/internal/services/stats"
	"github.com/mcoot/solitaire-server/internal/storage"
	"github.com/mcoot/solitaire-server/internal/storage/files"
	"github.com/mcoot/solitaire-server/internal/storage/memory"
	redisstorage "github.com/mcoot/solitaire-server/internal/storage/redis"
	sqlstorage "github.com/mcoot/solitaire-server/internal/storage/sql"
)

// App contains all wired application components
type App struct {
	// Storage
	Accounts    storage.AccountStore
	GameRecords storage.GameRecordStore

	// External dependencies
	Clock  clock.Clock
	Random random.Random
	Hasher *credential.Hasher

	// Services
	AuthService   *auth.Service
	StatsLedger   *stats.Ledger
	RecordService *records.Service
}

// New creates a new application with all dependencies wired.
// A nil logger discards output.
func New(ctx context.Context, cfg config.Config, logger *slog.Logger) (*App, error) {
	if logger == nil {
		logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}

	accounts, err := newAccountStore(ctx, cfg)
	if err != nil {
		return nil, err
	}

	gameRecords, err := files.NewOS(cfg.GameRecordsDir)
	if err != nil {
		_ = accounts.Close()
		return nil, err
	}

	cost := cfg.BcryptCost
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}

	app := newWithDependencies(accounts, gameRecords, credential.NewHasher(cost), clock.New(), random.New(), logger)

	logger.Info("application wired",
		slog.String("storage", storageType(cfg)),
		slog.String("records_dir", cfg.GameRecordsDir),
	)
	return app, nil
}

// Close releases the account store connection
func (a *App) Close() error {
	return a.Accounts.Close()
}

func newAccountStore(ctx context.Context, cfg config.Config) (storage.AccountStore, error) {
	switch storageType(cfg) {
	case config.StorageMemory:
		return memory.New(), nil
	case config.StorageRedis:
		if cfg.RedisURL == "" {
			return nil, errors.New("redis URL required for redis storage")
		}
		redisCfg := redisstorage.DefaultConfig()
		redisCfg.URL = cfg.RedisURL
		store, err := redisstorage.New(redisCfg)
		if err != nil {
			return nil, fmt.Errorf("connect redis: %w", err)
		}
		return store, nil
	case config.StoragePostgres:
		if cfg.DatabaseURL == "" {
			return nil, errors.New("database URL required for postgres storage")
		}
		sqlCfg := sqlstorage.DefaultConfig()
		sqlCfg.Driver = sqlstorage.DriverPostgres
		sqlCfg.DSN = cfg.DatabaseURL
		return openSQL(ctx, sqlCfg)
	case config.StorageSQLite:
		sqlCfg := sqlstorage.DefaultConfig()
		sqlCfg.Driver = sqlstorage.DriverSQLite
		if cfg.SQLitePath != "" {
			sqlCfg.DSN = cfg.SQLitePath
		}
		return openSQL(ctx, sqlCfg)
	default:
		return nil, fmt.Errorf("invalid storage type %q", cfg.StorageType)
	}
}

func openSQL(ctx context.Context, cfg sqlstorage.Config) (storage.AccountStore, error) {
	store, err := sqlstorage.Open(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", cfg.Driver, err)
	}
	return store, nil
}

func storageType(cfg config.Config) string {
	if cfg.StorageType == "" {
		return config.StorageMemory
	}
	return cfg.StorageType
}

// newWithDependencies creates an App with the given dependencies (useful for testing)
func newWithDependencies(accounts storage.AccountStore, gameRecords storage.GameRecordStore, hasher *credential.Hasher, clk clock.Clock, rnd random.Random, logger *slog.Logger) *App {
	authService := auth.New(accounts, hasher, clk, logger)
	statsLedger := stats.New(authService, accounts, clk, logger)
	recordService := records.New(gameRecords, clk, rnd, logger)

	return &App{
		Accounts:      accounts,
		GameRecords:   gameRecords,
		Clock:         clk,
		Random:        rnd,
		Hasher:        hasher,
		AuthService:   authService,
		StatsLedger:   statsLedger,
		RecordService: recordService,
	}
}
