package e2e_test

import (
	"context"
	"encoding/json"
	"net"
	"net/http"
	"os"
	"os/exec"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/mcoot/solitaire-server/internal/api"
	"github.com/mcoot/solitaire-server/internal/config"
	"github.com/mcoot/solitaire-server/internal/factory"
	"github.com/mcoot/solitaire-server/internal/testutil"
)

// cliRunner manages CLI binary execution
type cliRunner struct {
	binaryPath string
	serverURL  string
}

func newCLIRunner(t *testing.T, serverURL string) *cliRunner {
	t.Helper()

	// Find project root (where go.mod is)
	projectRoot := findProjectRoot(t)

	// Build the CLI binary
	binaryPath := filepath.Join(t.TempDir(), "solitaire-test")
	cmd := exec.Command("go", "build", "-o", binaryPath, "./cmd/solitaire")
	cmd.Dir = projectRoot
	output, err := cmd.CombinedOutput()
	require.NoError(t, err, "failed to build CLI: %s", string(output))

	return &cliRunner{
		binaryPath: binaryPath,
		serverURL:  serverURL,
	}
}

func (r *cliRunner) run(args ...string) (string, error) {
	fullArgs := append([]string{
		"--server", r.serverURL,
		"--output", "json",
	}, args...)

	cmd := exec.Command(r.binaryPath, fullArgs...)
	cmd.Env = append(os.Environ(), "SOLITAIRE_USER=")
	output, err := cmd.CombinedOutput()
	return string(output), err
}

func findProjectRoot(t *testing.T) string {
	t.Helper()

	dir, err := os.Getwd()
	require.NoError(t, err)

	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			t.Fatal("could not find project root (go.mod)")
		}
		dir = parent
	}
}

// startTestServer runs the full server stack on a free port
func startTestServer(t *testing.T, storageType string) string {
	t.Helper()

	// Find a free port
	listener, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := listener.Addr().String()
	require.NoError(t, listener.Close())

	cfg := config.Default()
	cfg.StorageType = storageType
	cfg.SQLitePath = filepath.Join(t.TempDir(), "solitaire.db")
	cfg.GameRecordsDir = filepath.Join(t.TempDir(), "data")
	cfg.BcryptCost = bcrypt.MinCost

	app, err := factory.New(context.Background(), cfg, nil)
	require.NoError(t, err)

	router := api.NewRouter(api.RouterConfig{
		Logger:             testutil.NopLogger(),
		AuthService:        app.AuthService,
		StatsLedger:        app.StatsLedger,
		RecordService:      app.RecordService,
		TrustedProxyHeader: cfg.TrustedProxyHeader,
		CORSAllowedOrigins: cfg.CORSAllowedOrigins,
		StoreTimeout:       cfg.StoreTimeout,
	})

	server := &http.Server{
		Addr:    addr,
		Handler: router,
	}

	// Start server
	go func() {
		if err := server.ListenAndServe(); err != http.ErrServerClosed {
			t.Logf("server error: %v", err)
		}
	}()

	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = server.Shutdown(ctx)
		_ = app.Close()
	})

	// Wait for server to be ready
	serverURL := "http://" + addr
	waitForServer(t, serverURL+"/api/v1/health")
	return serverURL
}

func waitForServer(t *testing.T, url string) {
	t.Helper()

	client := &http.Client{Timeout: 100 * time.Millisecond}
	deadline := time.Now().Add(5 * time.Second)

	for time.Now().Before(deadline) {
		resp, err := client.Get(url)
		if err == nil {
			_ = resp.Body.Close()
			if resp.StatusCode == http.StatusOK {
				return
			}
		}
		time.Sleep(50 * time.Millisecond)
	}

	t.Fatal("server did not become ready in time")
}

// Response types for JSON parsing
type summaryResponse struct {
	Username string   `json:"username"`
	Wins     int64    `json:"wins"`
	Losses   int64    `json:"losses"`
	BestTime *float64 `json:"best_time"`
}

type gameRecordResponse struct {
	File string          `json:"file"`
	Data json.RawMessage `json:"data"`
}

func TestCLIFullSession(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping e2e test in short mode")
	}

	for _, storageType := range []string{config.StorageMemory, config.StorageSQLite} {
		t.Run(storageType, func(t *testing.T) {
			serverURL := startTestServer(t, storageType)
			cli := newCLIRunner(t, serverURL)

			out, err := cli.run("health")
			require.NoError(t, err, out)
			assert.JSONEq(t, `{"on":true}`, out)

			out, err = cli.run("--user", "alice", "register", "--pass", "secret")
			require.NoError(t, err, out)

			out, err = cli.run("--user", "alice", "register", "--pass", "other")
			require.Error(t, err)
			assert.Contains(t, out, "USERNAME_EXISTS")

			out, err = cli.run("--user", "alice", "login", "--pass", "secret")
			require.NoError(t, err, out)

			for i := 0; i < 3; i++ {
				out, err = cli.run("--user", "alice", "win")
				require.NoError(t, err, out)
			}
			out, err = cli.run("--user", "alice", "loss")
			require.NoError(t, err, out)

			var summary summaryResponse
			require.NoError(t, json.Unmarshal([]byte(out), &summary))
			assert.EqualValues(t, 3, summary.Wins)
			assert.EqualValues(t, 1, summary.Losses)
			assert.Nil(t, summary.BestTime)

			out, err = cli.run("autoconnect")
			require.NoError(t, err, out)
			require.NoError(t, json.Unmarshal([]byte(out), &summary))
			assert.Equal(t, "alice", summary.Username)

			out, err = cli.run("--user", "alice", "logout")
			require.NoError(t, err, out)

			out, err = cli.run("--user", "alice", "win")
			require.Error(t, err)
			assert.Contains(t, out, "ADDRESS_MISMATCH")
		})
	}
}

func TestCLIGameRecords(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping e2e test in short mode")
	}

	serverURL := startTestServer(t, config.StorageMemory)
	cli := newCLIRunner(t, serverURL)

	out, err := cli.run("games", "random")
	require.Error(t, err)
	assert.Contains(t, out, "NO_GAME_RECORDS")

	path := filepath.Join(t.TempDir(), "game.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"deck":[12,7,33],"won":false}`), 0o600))

	out, err = cli.run("games", "record", path)
	require.NoError(t, err, out)

	out, err = cli.run("games", "random")
	require.NoError(t, err, out)

	var record gameRecordResponse
	require.NoError(t, json.Unmarshal([]byte(out), &record))
	assert.JSONEq(t, `{"deck":[12,7,33],"won":false}`, string(record.Data))
}
