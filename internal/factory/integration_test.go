package factory

import (
	"context"
	"encoding/json"
	"path/filepath"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"golang.org/x/crypto/bcrypt"

	"github.com/mcoot/solitaire-server/internal/config"
	"github.com/mcoot/solitaire-server/internal/model"
)

const (
	homeAddr   = "203.0.113.10"
	officeAddr = "198.51.100.7"
)

type IntegrationSuite struct {
	suite.Suite
	app *TestApp
	ctx context.Context
}

func TestIntegrationSuite(t *testing.T) {
	suite.Run(t, new(IntegrationSuite))
}

func (s *IntegrationSuite) SetupTest() {
	s.app = NewTestApp()
	s.ctx = context.Background()
}

// Test: register, play from one address, move to another, log out
func (s *IntegrationSuite) TestSessionAndStatsFlow() {
	// Step 1: Register and log in from home
	_, err := s.app.AuthService.Register(s.ctx, "alice", "secret")
	s.Require().NoError(err)

	stats, err := s.app.AuthService.Login(s.ctx, "alice", "secret", homeAddr)
	s.Require().NoError(err)
	s.Equal(model.Stats{}, stats)

	// Step 2: Record results from home
	_, err = s.app.StatsLedger.RecordWin(s.ctx, "alice", homeAddr)
	s.Require().NoError(err)
	_, err = s.app.StatsLedger.RecordWin(s.ctx, "alice", homeAddr)
	s.Require().NoError(err)
	account, err := s.app.StatsLedger.RecordLoss(s.ctx, "alice", homeAddr)
	s.Require().NoError(err)
	s.EqualValues(2, account.WinCount)
	s.EqualValues(1, account.LossCount)

	// Step 3: Returning client at home is recognised
	conn, err := s.app.AuthService.AutoConnect(s.ctx, homeAddr)
	s.Require().NoError(err)
	s.Equal("alice", conn.Username)
	s.EqualValues(2, conn.Stats.Wins)

	// Step 4: Results from elsewhere are refused
	_, err = s.app.StatsLedger.RecordWin(s.ctx, "alice", officeAddr)
	s.ErrorIs(err, model.ErrAddressMismatch)

	// Step 5: Logging in at the office moves the binding
	s.app.MockClock.Advance(time.Hour)
	stats, err = s.app.AuthService.Login(s.ctx, "alice", "secret", officeAddr)
	s.Require().NoError(err)
	s.EqualValues(2, stats.Wins)

	_, err = s.app.AuthService.AutoConnect(s.ctx, homeAddr)
	s.ErrorIs(err, model.ErrNoBoundAccount)
	_, err = s.app.StatsLedger.RecordLoss(s.ctx, "alice", homeAddr)
	s.ErrorIs(err, model.ErrAddressMismatch)

	// Step 6: Logout ends the session everywhere
	s.Require().NoError(s.app.AuthService.Logout(s.ctx, "alice"))
	_, err = s.app.AuthService.AutoConnect(s.ctx, officeAddr)
	s.ErrorIs(err, model.ErrNoBoundAccount)
	_, err = s.app.StatsLedger.RecordWin(s.ctx, "alice", officeAddr)
	s.ErrorIs(err, model.ErrAddressMismatch)

	// Counters survived every transition
	account, err = s.app.Accounts.GetAccountByUsername(s.ctx, "alice")
	s.Require().NoError(err)
	s.EqualValues(2, account.WinCount)
	s.EqualValues(1, account.LossCount)
}

// Test: game records are saved by time and served back at random
func (s *IntegrationSuite) TestGameRecordsFlow() {
	_, err := s.app.RecordService.Random(s.ctx)
	s.ErrorIs(err, model.ErrNoGameRecords)

	first, err := s.app.RecordService.Save(s.ctx, []byte(`{"moves":3}`))
	s.Require().NoError(err)
	s.app.MockClock.Advance(time.Second)
	second, err := s.app.RecordService.Save(s.ctx, []byte(`{"moves":7}`))
	s.Require().NoError(err)
	s.NotEqual(first, second)

	s.app.MockRandom.QueueIntn(1)
	record, err := s.app.RecordService.Random(s.ctx)
	s.Require().NoError(err)
	s.Equal(second, record.File)

	var data struct{ Moves int }
	s.Require().NoError(json.Unmarshal(record.Data, &data))
	s.Equal(7, data.Moves)
}

// Test: accounts and stats do not depend on the record store
func (s *IntegrationSuite) TestRecordsIndependentOfAccounts() {
	_, err := s.app.RecordService.Save(s.ctx, []byte(`[1,2,3]`))
	s.Require().NoError(err)

	n, err := s.app.Accounts.CountAccounts(s.ctx)
	s.Require().NoError(err)
	s.Zero(n)
}

func TestNewWiresEachBackend(t *testing.T) {
	mr := miniredis.RunT(t)

	backends := map[string]func(cfg *config.Config){
		config.StorageMemory: func(cfg *config.Config) {},
		config.StorageSQLite: func(cfg *config.Config) {
			cfg.SQLitePath = filepath.Join(t.TempDir(), "solitaire.db")
		},
		config.StorageRedis: func(cfg *config.Config) {
			cfg.RedisURL = "redis://" + mr.Addr()
		},
	}

	for storageType, configure := range backends {
		t.Run(storageType, func(t *testing.T) {
			cfg := config.Default()
			cfg.StorageType = storageType
			cfg.GameRecordsDir = filepath.Join(t.TempDir(), "records")
			cfg.BcryptCost = bcrypt.MinCost
			configure(&cfg)

			app, err := New(context.Background(), cfg, nil)
			require.NoError(t, err)
			defer func() { _ = app.Close() }()

			ctx := context.Background()
			_, err = app.AuthService.Register(ctx, "bob", "pw")
			require.NoError(t, err)
			_, err = app.AuthService.Login(ctx, "bob", "pw", homeAddr)
			require.NoError(t, err)

			account, err := app.StatsLedger.RecordWin(ctx, "bob", homeAddr)
			require.NoError(t, err)
			assert.EqualValues(t, 1, account.WinCount)

			_, err = app.RecordService.Save(ctx, []byte(`{}`))
			assert.NoError(t, err)
		})
	}
}

func TestNewRejectsUnknownStorage(t *testing.T) {
	cfg := config.Default()
	cfg.StorageType = "mongo"
	cfg.GameRecordsDir = t.TempDir()

	_, err := New(context.Background(), cfg, nil)
	assert.Error(t, err)
}

func TestNewFailsWhenRedisUnreachable(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	addr := mr.Addr()
	mr.Close()

	cfg := config.Default()
	cfg.StorageType = config.StorageRedis
	cfg.RedisURL = "redis://" + addr
	cfg.GameRecordsDir = t.TempDir()

	_, err = New(context.Background(), cfg, nil)
	assert.Error(t, err)
}
