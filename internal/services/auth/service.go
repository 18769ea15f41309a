// Package auth registers accounts and ties them to client network addresses.
//
// Identity after login is the caller's observed address, not a credential.
// Anyone sharing that address (NAT, proxy) or able to forge the forwarded
// header passes Authorize. This is the intended model for the solitaire client
// and is kept deliberately weak; a token-based scheme would replace it rather
// than extend it.
package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/mcoot/solitaire-server/internal/credential"
	"github.com/mcoot/solitaire-server/internal/dependencies/clock"
	"github.com/mcoot/solitaire-server/internal/model"
	"github.com/mcoot/solitaire-server/internal/storage"
)

// Connection is what AutoConnect hands back: who is bound and their stats
type Connection struct {
	Username string
	Stats    model.Stats
}

// Service handles registration and address-based sessions
type Service struct {
	accounts storage.AccountStore
	hasher   *credential.Hasher
	clock    clock.Clock
	logger   *slog.Logger
}

// New creates a new auth Service
func New(accounts storage.AccountStore, hasher *credential.Hasher, clock clock.Clock, logger *slog.Logger) *Service {
	return &Service{
		accounts: accounts,
		hasher:   hasher,
		clock:    clock,
		logger:   logger,
	}
}

// Register creates an account with a hashed password
func (s *Service) Register(ctx context.Context, username, password string) (*model.Account, error) {
	if username == "" {
		return nil, model.Required("username")
	}
	if len(username) > model.MaxUsernameLength {
		return nil, model.TooLong("username", model.MaxUsernameLength)
	}
	if password == "" {
		return nil, model.Required("password")
	}
	if len(password) > model.MaxPasswordBytes {
		return nil, model.TooLong("password", model.MaxPasswordBytes)
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		s.logFailure("hash password", username, err)
		return nil, err
	}

	id, err := uuid.NewV7()
	if err != nil {
		return nil, fmt.Errorf("generate account id: %w", err)
	}

	now := s.clock.Now()
	account := &model.Account{
		ID:           model.AccountID(id.String()),
		Username:     username,
		PasswordHash: hash,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.accounts.CreateAccount(ctx, account); err != nil {
		s.logFailure("create account", username, err)
		return nil, err
	}

	s.logger.Info("account registered",
		slog.String("account_id", string(account.ID)),
		slog.String("username", username),
	)

	return account, nil
}

// Login verifies credentials and binds the account to address,
// replacing any previous binding
func (s *Service) Login(ctx context.Context, username, password, address string) (model.Stats, error) {
	if username == "" {
		return model.Stats{}, model.Required("username")
	}
	if password == "" {
		return model.Stats{}, model.Required("password")
	}
	if address == "" {
		return model.Stats{}, model.Required("address")
	}

	account, err := s.accounts.GetAccountByUsername(ctx, username)
	if err != nil {
		s.logFailure("login", username, err)
		return model.Stats{}, err
	}

	ok, err := s.hasher.Verify(password, account.PasswordHash)
	if err != nil {
		s.logFailure("verify password", username, err)
		return model.Stats{}, err
	}
	if !ok {
		return model.Stats{}, model.ErrInvalidCredentials
	}

	account, err = s.accounts.SetBoundAddress(ctx, username, &address, s.clock.Now())
	if err != nil {
		s.logFailure("bind address", username, err)
		return model.Stats{}, err
	}

	s.logger.Info("account bound",
		slog.String("username", username),
		slog.String("address", address),
	)

	return account.Stats(), nil
}

// AutoConnect resolves the account bound to address
func (s *Service) AutoConnect(ctx context.Context, address string) (*Connection, error) {
	if address == "" {
		return nil, model.ErrNoBoundAccount
	}

	account, err := s.accounts.GetAccountByAddress(ctx, address)
	if err != nil {
		if !isExpected(err) {
			s.logger.Error("auth operation failed",
				slog.String("operation", "autoconnect"),
				slog.String("address", address),
				slog.String("error", err.Error()),
			)
		}
		return nil, err
	}

	return &Connection{
		Username: account.Username,
		Stats:    account.Stats(),
	}, nil
}

// Logout clears the account's binding. It does not check where the request
// comes from.
func (s *Service) Logout(ctx context.Context, username string) error {
	if username == "" {
		return model.Required("username")
	}

	if _, err := s.accounts.SetBoundAddress(ctx, username, nil, s.clock.Now()); err != nil {
		s.logFailure("logout", username, err)
		return err
	}

	s.logger.Info("account unbound", slog.String("username", username))
	return nil
}

// Authorize checks that the account is bound to address
func (s *Service) Authorize(ctx context.Context, username, address string) (*model.Account, error) {
	if username == "" {
		return nil, model.Required("username")
	}

	account, err := s.accounts.GetAccountByUsername(ctx, username)
	if err != nil {
		s.logFailure("authorize", username, err)
		return nil, err
	}

	if address == "" || !account.BoundTo(address) {
		s.logger.Warn("address mismatch",
			slog.String("username", username),
			slog.String("address", address),
		)
		return nil, model.ErrAddressMismatch
	}

	return account, nil
}

// logFailure records store and hashing failures at Error. Caller-facing
// outcomes such as an unknown user are left to the HTTP layer.
func (s *Service) logFailure(operation, username string, err error) {
	if isExpected(err) {
		return
	}
	s.logger.Error("auth operation failed",
		slog.String("operation", operation),
		slog.String("username", username),
		slog.String("error", err.Error()),
	)
}

func isExpected(err error) bool {
	var verr *model.ValidationError
	return errors.As(err, &verr) ||
		errors.Is(err, model.ErrUnknownUser) ||
		errors.Is(err, model.ErrDuplicateUsername) ||
		errors.Is(err, model.ErrNoBoundAccount)
}
