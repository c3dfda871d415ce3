// Package factory wires the agent's components together.
package factory

import (
	"errors"
	"io"
	"log/slog"

	"github.com/mcoot/parityagent-go/internal/api/handler"
	"github.com/mcoot/parityagent-go/internal/config"
	"github.com/mcoot/parityagent-go/internal/dependencies/clock"
	"github.com/mcoot/parityagent-go/internal/dependencies/random"
	"github.com/mcoot/parityagent-go/internal/model"
	"github.com/mcoot/parityagent-go/internal/protocol"
	"github.com/mcoot/parityagent-go/internal/reasoning"
	"github.com/mcoot/parityagent-go/internal/registration"
	"github.com/mcoot/parityagent-go/internal/state"
	"github.com/mcoot/parityagent-go/internal/storage"
	"github.com/mcoot/parityagent-go/internal/storage/memory"
	redisstorage "github.com/mcoot/parityagent-go/internal/storage/redis"
	"github.com/mcoot/parityagent-go/internal/strategy"
	"github.com/mcoot/parityagent-go/internal/timestamp"
)

// Storage type constants
const (
	StorageTypeMemory = "memory"
	StorageTypeRedis  = "redis"
)

// App contains all wired application components
type App struct {
	// Storage
	Storage storage.Storage

	// External dependencies
	Clock  clock.Clock
	Random random.Random

	// Components
	Timestamps   *timestamp.Authority
	Builder      *protocol.Builder
	Tracker      *state.Tracker
	Engine       *strategy.Engine
	Tools        *handler.Tools
	Registration *registration.Client
}

// New creates a new application with all dependencies wired
func New(cfg config.Config, logger *slog.Logger) (*App, error) {
	// Use no-op logger if not provided
	if logger == nil {
		logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}

	// Create storage based on type
	var store storage.Storage
	storageType := cfg.StorageType
	if storageType == "" {
		storageType = StorageTypeMemory
	}

	switch storageType {
	case StorageTypeMemory:
		store = memory.New()
	case StorageTypeRedis:
		if cfg.RedisURL == "" {
			return nil, errors.New("REDIS_URL required when STORAGE_TYPE is redis")
		}
		redisCfg := redisstorage.DefaultConfig()
		redisCfg.URL = cfg.RedisURL
		redisStore, err := redisstorage.New(redisCfg)
		if err != nil {
			return nil, err
		}
		store = redisStore
	default:
		return nil, errors.New("invalid STORAGE_TYPE: must be 'memory' or 'redis'")
	}

	mode, err := strategy.ParseMode(cfg.StrategyMode)
	if err != nil {
		return nil, err
	}

	// Reasoning client, only for modes that use it. Hybrid degrades to
	// random when no API key is configured; llm requires one.
	var reasoner reasoning.Client
	if mode != strategy.ModeRandom {
		openaiCfg := reasoning.DefaultOpenAIConfig()
		openaiCfg.APIKey = cfg.OpenAIAPIKey
		openaiCfg.Model = cfg.OpenAIModel

		client, err := reasoning.NewOpenAIClient(openaiCfg, logger)
		switch {
		case err == nil:
			reasoner = client
		case mode == strategy.ModeHybrid && errors.Is(err, model.ErrReasoningUnavailable):
			logger.Warn("reasoning unavailable, degrading to random strategy",
				slog.String("error", err.Error()))
			mode = strategy.ModeRandom
		default:
			return nil, err
		}
	}

	clk := clock.New()
	rnd := random.New()

	return newWithDependencies(cfg, mode, reasoner, store, clk, rnd, logger)
}

// newWithDependencies creates an App with the given dependencies (useful for testing)
func newWithDependencies(
	cfg config.Config,
	mode strategy.Mode,
	reasoner reasoning.Client,
	store storage.Storage,
	clk clock.Clock,
	rnd random.Random,
	logger *slog.Logger,
) (*App, error) {
	timestamps := timestamp.New(clk)

	builder, err := protocol.NewBuilder(model.PlayerID(cfg.PlayerID), timestamps)
	if err != nil {
		return nil, err
	}

	tracker, err := state.NewTracker(state.Config{
		PlayerID:    model.PlayerID(cfg.PlayerID),
		DisplayName: cfg.DisplayName,
		MaxHistory:  cfg.MaxHistory,
	}, timestamps, store, logger)
	if err != nil {
		return nil, err
	}

	engine, err := strategy.NewEngine(strategy.Config{Mode: mode}, reasoner, rnd, logger)
	if err != nil {
		return nil, err
	}

	tools := handler.NewTools(tracker, engine, builder, rnd, logger)

	regClient := registration.NewClient(registration.Config{
		ManagerURL:  cfg.LeagueManagerURL,
		CallbackURL: cfg.CallbackURL,
	}, builder, cfg.DisplayName, logger)

	return &App{
		Storage:      store,
		Clock:        clk,
		Random:       rnd,
		Timestamps:   timestamps,
		Builder:      builder,
		Tracker:      tracker,
		Engine:       engine,
		Tools:        tools,
		Registration: regClient,
	}, nil
}
