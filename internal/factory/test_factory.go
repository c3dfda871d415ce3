package factory

import (
	"time"

	"github.com/mcoot/parityagent-go/internal/config"
	"github.com/mcoot/parityagent-go/internal/dependencies/mocks"
	"github.com/mcoot/parityagent-go/internal/storage/memory"
	"github.com/mcoot/parityagent-go/internal/strategy"
	"github.com/mcoot/parityagent-go/internal/testutil"
)

// TestApp extends App with test-specific helpers
type TestApp struct {
	*App

	// Mocks for test control
	MockClock  *mocks.MockClock
	MockRandom *mocks.MockRandom
}

// NewTestApp creates an App configured for testing with mocked dependencies
func NewTestApp() *TestApp {
	store := memory.New()
	mockClock := mocks.NewMockClock(time.Date(2025, 1, 15, 10, 30, 0, 0, time.UTC))
	mockRandom := mocks.NewMockRandom()

	cfg := config.Config{
		PlayerID:    "P01",
		DisplayName: "Test Player",
		MaxHistory:  100,
	}

	app, err := newWithDependencies(cfg, strategy.ModeRandom, nil, store, mockClock, mockRandom, testutil.NopLogger())
	if err != nil {
		panic(err)
	}

	return &TestApp{
		App:        app,
		MockClock:  mockClock,
		MockRandom: mockRandom,
	}
}
