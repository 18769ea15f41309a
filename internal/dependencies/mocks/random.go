package mocks

import (
	"sync"

	"github.com/mcoot/solitaire-server/internal/dependencies/random"
)

// MockRandom returns queued indexes, then 0
type MockRandom struct {
	mu      sync.Mutex
	results []int
	// Calls records the n passed to each Intn call
	Calls []int
}

// Ensure MockRandom implements Random
var _ random.Random = (*MockRandom)(nil)

// NewMockRandom creates a new MockRandom
func NewMockRandom() *MockRandom {
	return &MockRandom{}
}

// Intn returns the next queued result, or 0 if none remaining
func (r *MockRandom) Intn(n int) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Calls = append(r.Calls, n)
	if len(r.results) == 0 {
		return 0
	}
	result := r.results[0]
	r.results = r.results[1:]
	return result
}

// QueueIntn adds values to the Intn result queue
func (r *MockRandom) QueueIntn(values ...int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.results = append(r.results, values...)
}
