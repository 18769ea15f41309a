package storage

import (
	"context"
	"time"

	"github.com/mcoot/solitaire-server/internal/model"
)

// AccountStore defines persistence for accounts.
// Every mutation is a single atomic operation in the backing store.
type AccountStore interface {
	// CreateAccount inserts a new account, failing with model.ErrDuplicateUsername
	// if the username is already taken
	CreateAccount(ctx context.Context, account *model.Account) error
	GetAccountByUsername(ctx context.Context, username string) (*model.Account, error)
	// GetAccountByAddress returns the most recently bound account for address,
	// or model.ErrNoBoundAccount
	GetAccountByAddress(ctx context.Context, address string) (*model.Account, error)
	// SetBoundAddress binds the account to address, or unbinds it when address is nil
	SetBoundAddress(ctx context.Context, username string, address *string, at time.Time) (*model.Account, error)
	// IncrementWins and IncrementLosses add one to a counter and stamp UpdatedAt with at
	IncrementWins(ctx context.Context, username string, at time.Time) (*model.Account, error)
	IncrementLosses(ctx context.Context, username string, at time.Time) (*model.Account, error)
	CountAccounts(ctx context.Context) (int64, error)

	Close() error
}

// GameRecordStore defines persistence for completed game records
type GameRecordStore interface {
	// SaveGameRecord stores data and returns the name it was stored under
	SaveGameRecord(ctx context.Context, data []byte, at time.Time) (string, error)
	ListGameRecords(ctx context.Context) ([]string, error)
	GetGameRecord(ctx context.Context, name string) ([]byte, error)
}
