package cli_test

import (
	"bytes"
	"encoding/json"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"github.com/mcoot/solitaire-server/internal/api"
	"github.com/mcoot/solitaire-server/internal/cli"
	"github.com/mcoot/solitaire-server/internal/factory"
	"github.com/mcoot/solitaire-server/internal/testutil"
)

type CLISuite struct {
	suite.Suite
	app    *factory.TestApp
	server *httptest.Server
}

func TestCLISuite(t *testing.T) {
	suite.Run(t, new(CLISuite))
}

func (s *CLISuite) SetupTest() {
	s.app = factory.NewTestApp()
	s.server = httptest.NewServer(api.NewRouter(api.RouterConfig{
		Logger:        testutil.NopLogger(),
		AuthService:   s.app.AuthService,
		StatsLedger:   s.app.StatsLedger,
		RecordService: s.app.RecordService,
	}))
}

func (s *CLISuite) TearDownTest() {
	s.server.Close()
}

// run executes the CLI with JSON output and returns stdout
func (s *CLISuite) run(args ...string) (string, error) {
	cmd := cli.NewRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs(append([]string{"--server", s.server.URL, "--output", "json"}, args...))
	err := cmd.Execute()
	return out.String(), err
}

func (s *CLISuite) TestHealth() {
	out, err := s.run("health")
	s.Require().NoError(err)
	s.JSONEq(`{"on":true}`, out)
}

func (s *CLISuite) TestAccountFlow() {
	out, err := s.run("--user", "alice", "register", "--pass", "secret")
	s.Require().NoError(err)

	var account cli.Account
	s.Require().NoError(json.Unmarshal([]byte(out), &account))
	s.Equal("alice", account.Username)
	s.NotEmpty(account.ID)

	_, err = s.run("--user", "alice", "login", "--pass", "secret")
	s.Require().NoError(err)

	_, err = s.run("--user", "alice", "win")
	s.Require().NoError(err)
	out, err = s.run("--user", "alice", "loss")
	s.Require().NoError(err)
	s.JSONEq(`{"username":"alice","wins":1,"losses":1,"best_time":null}`, out)

	out, err = s.run("autoconnect")
	s.Require().NoError(err)
	s.Contains(out, `"username": "alice"`)

	_, err = s.run("--user", "alice", "logout")
	s.Require().NoError(err)

	_, err = s.run("autoconnect")
	s.Require().Error(err)
	s.Contains(err.Error(), "NO_BOUND_ACCOUNT")
}

func (s *CLISuite) TestWrongPassword() {
	_, err := s.run("--user", "alice", "register", "--pass", "secret")
	s.Require().NoError(err)

	_, err = s.run("--user", "alice", "login", "--pass", "nope")
	s.Require().Error(err)
	s.Contains(err.Error(), "INVALID_CREDENTIALS")
}

func (s *CLISuite) TestWinRequiresUser() {
	_, err := s.run("win")
	s.Require().Error(err)
	s.Contains(err.Error(), "--user")
}

func (s *CLISuite) TestGames() {
	_, err := s.run("games", "random")
	s.Require().Error(err)
	s.Contains(err.Error(), "NO_GAME_RECORDS")

	path := filepath.Join(s.T().TempDir(), "game.json")
	s.Require().NoError(os.WriteFile(path, []byte(`{"moves":42}`), 0o600))

	out, err := s.run("games", "record", path)
	s.Require().NoError(err)
	s.Contains(out, ".json")

	out, err = s.run("games", "random")
	s.Require().NoError(err)
	var record cli.GameRecord
	s.Require().NoError(json.Unmarshal([]byte(out), &record))
	s.JSONEq(`{"moves":42}`, string(record.Data))
}

func TestOutputText(t *testing.T) {
	var buf bytes.Buffer
	best := 93.5
	cli.NewOutput("text", &buf).Print(cli.AccountSummary{
		Username: "alice",
		Stats:    cli.Stats{Wins: 3, Losses: 1, BestTime: &best},
	})

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 4)
	assert.Equal(t, "Account: alice", lines[0])
	assert.Equal(t, "Wins: 3", lines[1])
	assert.Equal(t, "Best time: 93.5s", lines[3])
}
