package memory

import (
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/mcoot/solitaire-server/internal/model"
	"github.com/mcoot/solitaire-server/internal/storage/storagetest"
)

type StorageSuite struct {
	storagetest.AccountStoreSuite
	storage *Storage
}

func TestStorageSuite(t *testing.T) {
	suite.Run(t, new(StorageSuite))
}

func (s *StorageSuite) SetupTest() {
	s.storage = New()
	s.Init(s.storage)
}

func (s *StorageSuite) TestReturnedAccountIsDetached() {
	s.Require().NoError(s.storage.CreateAccount(s.Ctx, &model.Account{ID: "a1", Username: "alice"}))
	addr := "10.0.0.1"
	_, err := s.storage.SetBoundAddress(s.Ctx, "alice", &addr, s.Now)
	s.Require().NoError(err)

	acct, err := s.storage.GetAccountByUsername(s.Ctx, "alice")
	s.Require().NoError(err)
	*acct.BoundAddress = "tampered"
	acct.WinCount = 99

	again, err := s.storage.GetAccountByUsername(s.Ctx, "alice")
	s.Require().NoError(err)
	s.Equal("10.0.0.1", *again.BoundAddress)
	s.Zero(again.WinCount)
}
