package memory

import (
	"context"
	"sync"
	"time"

	"github.com/mcoot/solitaire-server/internal/model"
	"github.com/mcoot/solitaire-server/internal/storage"
)

// Storage is an in-memory implementation of the account store
type Storage struct {
	mu       sync.RWMutex
	accounts map[string]*account
}

type account struct {
	model.Account
	boundAt time.Time
}

// New creates a new in-memory storage instance
func New() *Storage {
	return &Storage{
		accounts: make(map[string]*account),
	}
}

// Ensure Storage implements the interface
var _ storage.AccountStore = (*Storage)(nil)

func (s *Storage) CreateAccount(ctx context.Context, acct *model.Account) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.accounts[acct.Username]; ok {
		return model.ErrDuplicateUsername
	}
	s.accounts[acct.Username] = &account{Account: copyAccount(acct)}
	return nil
}

func (s *Storage) GetAccountByUsername(ctx context.Context, username string) (*model.Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	a, ok := s.accounts[username]
	if !ok {
		return nil, model.ErrUnknownUser
	}
	out := copyAccount(&a.Account)
	return &out, nil
}

func (s *Storage) GetAccountByAddress(ctx context.Context, address string) (*model.Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var latest *account
	for _, a := range s.accounts {
		if !a.BoundTo(address) {
			continue
		}
		if latest == nil || a.boundAt.After(latest.boundAt) {
			latest = a
		}
	}
	if latest == nil {
		return nil, model.ErrNoBoundAccount
	}
	out := copyAccount(&latest.Account)
	return &out, nil
}

func (s *Storage) SetBoundAddress(ctx context.Context, username string, address *string, at time.Time) (*model.Account, error) {
	return s.update(username, at, func(a *account) {
		if address == nil {
			a.BoundAddress = nil
			a.boundAt = time.Time{}
			return
		}
		addr := *address
		a.BoundAddress = &addr
		a.boundAt = at
	})
}

func (s *Storage) IncrementWins(ctx context.Context, username string, at time.Time) (*model.Account, error) {
	return s.update(username, at, func(a *account) { a.WinCount++ })
}

func (s *Storage) IncrementLosses(ctx context.Context, username string, at time.Time) (*model.Account, error) {
	return s.update(username, at, func(a *account) { a.LossCount++ })
}

func (s *Storage) CountAccounts(ctx context.Context) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return int64(len(s.accounts)), nil
}

// Close is a no-op for in-memory storage
func (s *Storage) Close() error {
	return nil
}

func (s *Storage) update(username string, at time.Time, fn func(a *account)) (*model.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.accounts[username]
	if !ok {
		return nil, model.ErrUnknownUser
	}
	fn(a)
	a.UpdatedAt = at
	out := copyAccount(&a.Account)
	return &out, nil
}

// copyAccount detaches pointer fields so callers can't mutate stored state
func copyAccount(a *model.Account) model.Account {
	out := *a
	if a.BoundAddress != nil {
		addr := *a.BoundAddress
		out.BoundAddress = &addr
	}
	if a.BestTime != nil {
		bt := *a.BestTime
		out.BestTime = &bt
	}
	return out
}
