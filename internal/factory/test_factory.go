package factory

import (
	"io"
	"log/slog"
	"time"

	"github.com/mcoot/colormatch/internal/config"
	"github.com/mcoot/colormatch/internal/dependencies/mocks"
	"github.com/mcoot/colormatch/internal/dependencies/random"
	"github.com/mcoot/colormatch/internal/services/auth"
	"github.com/mcoot/colormatch/internal/storage/memory"
)

// TestSeed seeds the fallback random source of a TestApp
const TestSeed = 7

// TestApp extends App with test-specific helpers
type TestApp struct {
	*App

	// Mocks for test control
	MockClock  *mocks.MockClock
	MockRandom *mocks.MockRandom
}

// NewTestApp creates an App configured for testing with mocked dependencies.
// Unqueued random values come from a seeded source so grids are reproducible.
func NewTestApp() *TestApp {
	return NewTestAppWithRules(config.DefaultRules())
}

// NewTestAppWithRules is NewTestApp with custom game rules
func NewTestAppWithRules(rules config.Rules) *TestApp {
	store := memory.New()
	mockClock := mocks.NewMockClock(time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC))
	mockRandom := mocks.NewMockRandomWithFallback(random.NewSeeded(TestSeed))
	logger := slog.New(slog.NewJSONHandler(io.Discard, nil))

	app := newWithDependencies(store, mockClock, mockRandom, rules, auth.DefaultConfig(), logger)

	return &TestApp{
		App:        app,
		MockClock:  mockClock,
		MockRandom: mockRandom,
	}
}
