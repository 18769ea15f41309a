// Package storagetest holds a conformance suite run against every AccountStore backend.
package storagetest

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/mcoot/solitaire-server/internal/model"
	"github.com/mcoot/solitaire-server/internal/storage"
)

// AccountStoreSuite exercises the AccountStore contract.
// Backends embed it and set NewStore in SetupTest.
type AccountStoreSuite struct {
	suite.Suite
	Store storage.AccountStore
	Ctx   context.Context
	Now   time.Time
}

// Init prepares the suite with a fresh store
func (s *AccountStoreSuite) Init(store storage.AccountStore) {
	s.Store = store
	s.Ctx = context.Background()
	s.Now = time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
}

func (s *AccountStoreSuite) newAccount(username string) *model.Account {
	return &model.Account{
		ID:           model.AccountID("acct-" + username),
		Username:     username,
		PasswordHash: "hash-" + username,
		CreatedAt:    s.Now,
		UpdatedAt:    s.Now,
	}
}

func (s *AccountStoreSuite) create(username string) {
	s.Require().NoError(s.Store.CreateAccount(s.Ctx, s.newAccount(username)))
}

func addr(a string) *string {
	return &a
}

// Create / get

func (s *AccountStoreSuite) TestCreateAndGetAccount() {
	s.create("alice")

	acct, err := s.Store.GetAccountByUsername(s.Ctx, "alice")
	s.Require().NoError(err)
	s.Equal(model.AccountID("acct-alice"), acct.ID)
	s.Equal("alice", acct.Username)
	s.Equal("hash-alice", acct.PasswordHash)
	s.Nil(acct.BoundAddress)
	s.Zero(acct.WinCount)
	s.Zero(acct.LossCount)
	s.Nil(acct.BestTime)
}

func (s *AccountStoreSuite) TestCreateDuplicateUsernameFails() {
	s.create("alice")

	err := s.Store.CreateAccount(s.Ctx, s.newAccount("alice"))
	s.ErrorIs(err, model.ErrDuplicateUsername)

	count, err := s.Store.CountAccounts(s.Ctx)
	s.Require().NoError(err)
	s.Equal(int64(1), count)
}

func (s *AccountStoreSuite) TestUsernamesAreCaseSensitive() {
	s.create("alice")
	s.create("Alice")

	count, err := s.Store.CountAccounts(s.Ctx)
	s.Require().NoError(err)
	s.Equal(int64(2), count)
}

func (s *AccountStoreSuite) TestConcurrentCreateOnlyOneSucceeds() {
	const n = 8
	var wg sync.WaitGroup
	errs := make(chan error, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			acct := s.newAccount("alice")
			acct.ID = model.AccountID(fmt.Sprintf("acct-%d", i))
			errs <- s.Store.CreateAccount(s.Ctx, acct)
		}(i)
	}
	wg.Wait()
	close(errs)

	succeeded := 0
	for err := range errs {
		if err == nil {
			succeeded++
			continue
		}
		s.ErrorIs(err, model.ErrDuplicateUsername)
	}
	s.Equal(1, succeeded)

	count, err := s.Store.CountAccounts(s.Ctx)
	s.Require().NoError(err)
	s.Equal(int64(1), count)
}

func (s *AccountStoreSuite) TestGetUnknownAccount() {
	_, err := s.Store.GetAccountByUsername(s.Ctx, "nobody")
	s.ErrorIs(err, model.ErrUnknownUser)
}

// Binding

func (s *AccountStoreSuite) TestBindAndLookupByAddress() {
	s.create("alice")

	acct, err := s.Store.SetBoundAddress(s.Ctx, "alice", addr("10.0.0.1"), s.Now)
	s.Require().NoError(err)
	s.Require().NotNil(acct.BoundAddress)
	s.Equal("10.0.0.1", *acct.BoundAddress)

	found, err := s.Store.GetAccountByAddress(s.Ctx, "10.0.0.1")
	s.Require().NoError(err)
	s.Equal("alice", found.Username)
}

func (s *AccountStoreSuite) TestRebindMovesAddress() {
	s.create("alice")
	_, err := s.Store.SetBoundAddress(s.Ctx, "alice", addr("10.0.0.1"), s.Now)
	s.Require().NoError(err)
	_, err = s.Store.SetBoundAddress(s.Ctx, "alice", addr("10.0.0.2"), s.Now.Add(time.Minute))
	s.Require().NoError(err)

	_, err = s.Store.GetAccountByAddress(s.Ctx, "10.0.0.1")
	s.ErrorIs(err, model.ErrNoBoundAccount)

	found, err := s.Store.GetAccountByAddress(s.Ctx, "10.0.0.2")
	s.Require().NoError(err)
	s.Equal("alice", found.Username)
}

func (s *AccountStoreSuite) TestUnbindClearsAddress() {
	s.create("alice")
	_, err := s.Store.SetBoundAddress(s.Ctx, "alice", addr("10.0.0.1"), s.Now)
	s.Require().NoError(err)

	acct, err := s.Store.SetBoundAddress(s.Ctx, "alice", nil, s.Now)
	s.Require().NoError(err)
	s.Nil(acct.BoundAddress)

	_, err = s.Store.GetAccountByAddress(s.Ctx, "10.0.0.1")
	s.ErrorIs(err, model.ErrNoBoundAccount)
}

func (s *AccountStoreSuite) TestSharedAddressResolvesToMostRecentBinding() {
	s.create("alice")
	s.create("bob")
	_, err := s.Store.SetBoundAddress(s.Ctx, "alice", addr("10.0.0.1"), s.Now)
	s.Require().NoError(err)
	_, err = s.Store.SetBoundAddress(s.Ctx, "bob", addr("10.0.0.1"), s.Now.Add(time.Minute))
	s.Require().NoError(err)

	found, err := s.Store.GetAccountByAddress(s.Ctx, "10.0.0.1")
	s.Require().NoError(err)
	s.Equal("bob", found.Username)

	// alice keeps her own binding
	alice, err := s.Store.GetAccountByUsername(s.Ctx, "alice")
	s.Require().NoError(err)
	s.True(alice.BoundTo("10.0.0.1"))

	// once bob leaves, the address falls back to alice
	_, err = s.Store.SetBoundAddress(s.Ctx, "bob", nil, s.Now.Add(2*time.Minute))
	s.Require().NoError(err)
	found, err = s.Store.GetAccountByAddress(s.Ctx, "10.0.0.1")
	s.Require().NoError(err)
	s.Equal("alice", found.Username)
}

func (s *AccountStoreSuite) TestBindUnknownAccount() {
	_, err := s.Store.SetBoundAddress(s.Ctx, "nobody", addr("10.0.0.1"), s.Now)
	s.ErrorIs(err, model.ErrUnknownUser)
}

// Counters

func (s *AccountStoreSuite) TestIncrementWinsAndLosses() {
	s.create("alice")

	acct, err := s.Store.IncrementWins(s.Ctx, "alice", s.Now)
	s.Require().NoError(err)
	s.Equal(int64(1), acct.WinCount)
	s.Equal(int64(0), acct.LossCount)

	acct, err = s.Store.IncrementLosses(s.Ctx, "alice", s.Now)
	s.Require().NoError(err)
	s.Equal(int64(1), acct.WinCount)
	s.Equal(int64(1), acct.LossCount)
}

func (s *AccountStoreSuite) TestIncrementStampsUpdatedAt() {
	s.create("alice")
	later := s.Now.Add(time.Hour)

	acct, err := s.Store.IncrementWins(s.Ctx, "alice", later)
	s.Require().NoError(err)
	s.True(acct.UpdatedAt.Equal(later), "updated_at %v", acct.UpdatedAt)

	acct, err = s.Store.GetAccountByUsername(s.Ctx, "alice")
	s.Require().NoError(err)
	s.True(acct.UpdatedAt.Equal(later), "updated_at %v", acct.UpdatedAt)

	evenLater := later.Add(time.Minute)
	acct, err = s.Store.IncrementLosses(s.Ctx, "alice", evenLater)
	s.Require().NoError(err)
	s.True(acct.UpdatedAt.Equal(evenLater), "updated_at %v", acct.UpdatedAt)
}

func (s *AccountStoreSuite) TestIncrementUnknownAccount() {
	_, err := s.Store.IncrementWins(s.Ctx, "nobody", s.Now)
	s.ErrorIs(err, model.ErrUnknownUser)

	_, err = s.Store.IncrementLosses(s.Ctx, "nobody", s.Now)
	s.ErrorIs(err, model.ErrUnknownUser)

	count, err := s.Store.CountAccounts(s.Ctx)
	s.Require().NoError(err)
	s.Zero(count)
}

func (s *AccountStoreSuite) TestConcurrentIncrementsAreNotLost() {
	s.create("alice")

	const n = 25
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			_, err := s.Store.IncrementWins(s.Ctx, "alice", s.Now)
			s.NoError(err)
		}()
		go func() {
			defer wg.Done()
			_, err := s.Store.IncrementLosses(s.Ctx, "alice", s.Now)
			s.NoError(err)
		}()
	}
	wg.Wait()

	acct, err := s.Store.GetAccountByUsername(s.Ctx, "alice")
	s.Require().NoError(err)
	s.Equal(int64(n), acct.WinCount)
	s.Equal(int64(n), acct.LossCount)
}

func (s *AccountStoreSuite) TestIncrementKeepsBinding() {
	s.create("alice")
	_, err := s.Store.SetBoundAddress(s.Ctx, "alice", addr("10.0.0.1"), s.Now)
	s.Require().NoError(err)

	acct, err := s.Store.IncrementWins(s.Ctx, "alice", s.Now)
	s.Require().NoError(err)
	s.True(acct.BoundTo("10.0.0.1"))
}
