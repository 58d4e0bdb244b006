package mocks

import (
	"sync"

	"github.com/mcoot/colormatch/internal/dependencies/random"
)

// MockRandom replays scripted draws: queued Intn values become refill
// colours and star bonuses, queued strings become session IDs. Once a
// queue runs dry it defers to Fallback, or returns zero values without one.
type MockRandom struct {
	mu       sync.Mutex
	ints     []int
	strings  []string
	Fallback random.Random
}

var _ random.Random = (*MockRandom)(nil)

func NewMockRandom() *MockRandom {
	return &MockRandom{}
}

// NewMockRandomWithFallback scripts only the draws a test cares about and
// lets fallback fill the board around them.
func NewMockRandomWithFallback(fallback random.Random) *MockRandom {
	return &MockRandom{Fallback: fallback}
}

func (r *MockRandom) Intn(n int) int {
	r.mu.Lock()
	if len(r.ints) > 0 {
		v := r.ints[0]
		r.ints = r.ints[1:]
		r.mu.Unlock()
		return v
	}
	r.mu.Unlock()
	if r.Fallback != nil {
		return r.Fallback.Intn(n)
	}
	return 0
}

func (r *MockRandom) String(length int, alphabet string) string {
	r.mu.Lock()
	if len(r.strings) > 0 {
		v := r.strings[0]
		r.strings = r.strings[1:]
		r.mu.Unlock()
		return v
	}
	r.mu.Unlock()
	if r.Fallback != nil {
		return r.Fallback.String(length, alphabet)
	}
	return ""
}

func (r *MockRandom) QueueIntn(values ...int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.ints = append(r.ints, values...)
}

func (r *MockRandom) QueueString(values ...string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.strings = append(r.strings, values...)
}

// Remaining is the number of queued Intn draws not yet consumed.
func (r *MockRandom) Remaining() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.ints)
}
