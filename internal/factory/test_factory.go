package factory

import (
	"time"

	"github.com/spf13/afero"
	"golang.org/x/crypto/bcrypt"

	"github.com/mcoot/solitaire-server/internal/credential"
	"github.com/mcoot/solitaire-server/internal/dependencies/mocks"
	"github.com/mcoot/solitaire-server/internal/storage/files"
	"github.com/mcoot/solitaire-server/internal/storage/memory"
	"github.com/mcoot/solitaire-server/internal/testutil"
)

// TestRecordsDir is where the test app keeps game records on its in-memory filesystem
const TestRecordsDir = "data"

// TestApp extends App with test-specific helpers
type TestApp struct {
	*App

	// Mocks for test control
	MockClock  *mocks.MockClock
	MockRandom *mocks.MockRandom

	// FS backs the game record store
	FS afero.Fs
}

// NewTestApp creates an App configured for testing with mocked dependencies,
// in-memory storage and the cheapest bcrypt cost
func NewTestApp() *TestApp {
	fs := afero.NewMemMapFs()
	gameRecords, err := files.New(fs, TestRecordsDir)
	if err != nil {
		panic(err)
	}

	mockClock := mocks.NewMockClock(time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC))
	mockRandom := mocks.NewMockRandom()

	app := newWithDependencies(memory.New(), gameRecords, credential.NewHasher(bcrypt.MinCost), mockClock, mockRandom, testutil.NopLogger())

	return &TestApp{
		App:        app,
		MockClock:  mockClock,
		MockRandom: mockRandom,
		FS:         fs,
	}
}
