package stats

import (
	"context"
	"log/slog"

	"github.com/mcoot/solitaire-server/internal/dependencies/clock"
	"github.com/mcoot/solitaire-server/internal/model"
	"github.com/mcoot/solitaire-server/internal/storage"
)

// Authorizer confirms that a caller may act for an account
type Authorizer interface {
	Authorize(ctx context.Context, username, address string) (*model.Account, error)
}

// Ledger records game results against accounts.
// Results are not idempotent: each successful call counts once.
type Ledger struct {
	auth     Authorizer
	accounts storage.AccountStore
	clock    clock.Clock
	logger   *slog.Logger
}

// New creates a new Ledger
func New(auth Authorizer, accounts storage.AccountStore, clock clock.Clock, logger *slog.Logger) *Ledger {
	return &Ledger{
		auth:     auth,
		accounts: accounts,
		clock:    clock,
		logger:   logger,
	}
}

// RecordWin adds one win for an account bound to address
func (l *Ledger) RecordWin(ctx context.Context, username, address string) (*model.Account, error) {
	if _, err := l.auth.Authorize(ctx, username, address); err != nil {
		return nil, err
	}

	account, err := l.accounts.IncrementWins(ctx, username, l.clock.Now())
	if err != nil {
		l.logFailure("win", username, err)
		return nil, err
	}

	l.logger.Info("win recorded",
		slog.String("username", username),
		slog.Int64("wins", account.WinCount),
	)
	return account, nil
}

// RecordLoss adds one loss for an account bound to address
func (l *Ledger) RecordLoss(ctx context.Context, username, address string) (*model.Account, error) {
	if _, err := l.auth.Authorize(ctx, username, address); err != nil {
		return nil, err
	}

	account, err := l.accounts.IncrementLosses(ctx, username, l.clock.Now())
	if err != nil {
		l.logFailure("loss", username, err)
		return nil, err
	}

	l.logger.Info("loss recorded",
		slog.String("username", username),
		slog.Int64("losses", account.LossCount),
	)
	return account, nil
}

func (l *Ledger) logFailure(result, username string, err error) {
	l.logger.Error("failed to record result",
		slog.String("result", result),
		slog.String("username", username),
		slog.String("error", err.Error()),
	)
}
