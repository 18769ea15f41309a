// Package sql is a relational account store on top of gorm, usable with
// postgres in production and sqlite for local runs and tests.
package sql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/mcoot/solitaire-server/internal/model"
	"github.com/mcoot/solitaire-server/internal/storage"
)

// Storage is a gorm-backed implementation of the account store
type Storage struct {
	db *gorm.DB
}

// Open connects to the configured database and ensures the accounts table exists
func Open(ctx context.Context, cfg Config) (*Storage, error) {
	var dialector gorm.Dialector
	switch cfg.Driver {
	case DriverPostgres:
		dialector = postgres.Open(cfg.DSN)
	case DriverSQLite:
		dialector = sqlite.Open(cfg.DSN)
	default:
		return nil, fmt.Errorf("unsupported sql driver %q", cfg.Driver)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	if cfg.Driver == DriverSQLite {
		// sqlite allows a single writer; serialize through one connection
		sqlDB.SetMaxOpenConns(1)
	} else {
		sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
		sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
		sqlDB.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	}

	if err := sqlDB.PingContext(ctx); err != nil {
		_ = sqlDB.Close()
		return nil, err
	}

	s := NewWithDB(db)
	if err := s.EnsureSchema(ctx); err != nil {
		_ = sqlDB.Close()
		return nil, err
	}
	return s, nil
}

// NewWithDB creates a storage around an existing gorm handle (for testing)
func NewWithDB(db *gorm.DB) *Storage {
	return &Storage{db: db}
}

// EnsureSchema creates the accounts table and its indexes if missing
func (s *Storage) EnsureSchema(ctx context.Context) error {
	return s.db.WithContext(ctx).AutoMigrate(&accountRow{})
}

// Close closes the underlying connection pool
func (s *Storage) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// Ensure Storage implements the interface
var _ storage.AccountStore = (*Storage)(nil)

func (s *Storage) CreateAccount(ctx context.Context, acct *model.Account) error {
	// The unique index on username makes the insert itself the uniqueness check
	err := s.db.WithContext(ctx).Create(rowFromModel(acct)).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return model.ErrDuplicateUsername
	}
	return err
}

func (s *Storage) GetAccountByUsername(ctx context.Context, username string) (*model.Account, error) {
	return findByUsername(s.db.WithContext(ctx), username)
}

func (s *Storage) GetAccountByAddress(ctx context.Context, address string) (*model.Account, error) {
	var row accountRow
	err := s.db.WithContext(ctx).
		Where("bound_address = ?", address).
		Order("bound_at DESC").
		First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, model.ErrNoBoundAccount
	}
	if err != nil {
		return nil, err
	}
	return row.toModel(), nil
}

func (s *Storage) SetBoundAddress(ctx context.Context, username string, address *string, at time.Time) (*model.Account, error) {
	// UTC keeps bound_at ordering consistent for sqlite's text timestamps
	at = at.UTC()
	updates := map[string]any{
		"bound_address": nil,
		"bound_at":      nil,
		"updated_at":    at,
	}
	if address != nil {
		updates["bound_address"] = *address
		updates["bound_at"] = at
	}
	return s.updateAndReload(ctx, username, func(tx *gorm.DB) *gorm.DB {
		return tx.Updates(updates)
	})
}

func (s *Storage) IncrementWins(ctx context.Context, username string, at time.Time) (*model.Account, error) {
	return s.increment(ctx, username, "win_count", at)
}

func (s *Storage) IncrementLosses(ctx context.Context, username string, at time.Time) (*model.Account, error) {
	return s.increment(ctx, username, "loss_count", at)
}

func (s *Storage) CountAccounts(ctx context.Context) (int64, error) {
	var n int64
	err := s.db.WithContext(ctx).Model(&accountRow{}).Count(&n).Error
	return n, err
}

// increment issues a single UPDATE ... SET col = col + 1
func (s *Storage) increment(ctx context.Context, username, column string, at time.Time) (*model.Account, error) {
	return s.updateAndReload(ctx, username, func(tx *gorm.DB) *gorm.DB {
		return tx.Updates(map[string]any{
			column:       gorm.Expr(column+" + ?", 1),
			"updated_at": at.UTC(),
		})
	})
}

// updateAndReload applies update to the named account and reads it back in
// the same transaction
func (s *Storage) updateAndReload(ctx context.Context, username string, update func(tx *gorm.DB) *gorm.DB) (*model.Account, error) {
	var acct *model.Account
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := update(tx.Model(&accountRow{}).Where("username = ?", username))
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return model.ErrUnknownUser
		}

		var err error
		acct, err = findByUsername(tx, username)
		return err
	})
	if err != nil {
		return nil, err
	}
	return acct, nil
}

func findByUsername(db *gorm.DB, username string) (*model.Account, error) {
	var row accountRow
	err := db.Where("username = ?", username).First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, model.ErrUnknownUser
	}
	if err != nil {
		return nil, err
	}
	return row.toModel(), nil
}
