package strategy_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/mcoot/parityagent-go/internal/dependencies/mocks"
	"github.com/mcoot/parityagent-go/internal/dependencies/random"
	"github.com/mcoot/parityagent-go/internal/model"
	"github.com/mcoot/parityagent-go/internal/reasoning"
	"github.com/mcoot/parityagent-go/internal/strategy"
	"github.com/mcoot/parityagent-go/internal/testutil"
)

// stubReasoner is a controllable reasoning client for tests
type stubReasoner struct {
	decision reasoning.Decision
	err      error
	// block makes Reason wait until the context is cancelled
	block bool
	calls int
}

func (s *stubReasoner) Reason(ctx context.Context, prompt string) (reasoning.Decision, error) {
	s.calls++
	if s.block {
		<-ctx.Done()
		return reasoning.Decision{}, ctx.Err()
	}
	return s.decision, s.err
}

type EngineSuite struct {
	suite.Suite
	mockRandom *mocks.MockRandom
}

func TestEngineSuite(t *testing.T) {
	suite.Run(t, new(EngineSuite))
}

func (s *EngineSuite) SetupTest() {
	s.mockRandom = mocks.NewMockRandom()
}

func (s *EngineSuite) newEngine(cfg strategy.Config, client reasoning.Client) *strategy.Engine {
	engine, err := strategy.NewEngine(cfg, client, s.mockRandom, testutil.NopLogger())
	s.Require().NoError(err)
	return engine
}

func (s *EngineSuite) TestNewEngine_UnknownMode() {
	_, err := strategy.NewEngine(strategy.Config{Mode: "clever"}, nil, s.mockRandom, testutil.NopLogger())
	s.ErrorIs(err, model.ErrUnknownStrategyMode)
}

func (s *EngineSuite) TestNewEngine_WaitBoundMustLeaveMargin() {
	_, err := strategy.NewEngine(strategy.Config{
		Mode:      strategy.ModeHybrid,
		WaitBound: 29 * time.Second,
	}, &stubReasoner{}, s.mockRandom, testutil.NopLogger())
	s.ErrorIs(err, model.ErrNoDeadlineMargin)

	// 25s under a 30s deadline with 2s margin is fine
	_, err = strategy.NewEngine(strategy.Config{
		Mode:      strategy.ModeHybrid,
		WaitBound: 25 * time.Second,
	}, &stubReasoner{}, s.mockRandom, testutil.NopLogger())
	s.NoError(err)
}

func (s *EngineSuite) TestNewEngine_ReasoningModesRequireClient() {
	for _, mode := range []strategy.Mode{strategy.ModeLLM, strategy.ModeHybrid} {
		_, err := strategy.NewEngine(strategy.Config{Mode: mode}, nil, s.mockRandom, testutil.NopLogger())
		s.ErrorIs(err, model.ErrReasoningUnavailable, "mode %s", mode)
	}

	// Random mode needs no reasoning capability
	_, err := strategy.NewEngine(strategy.Config{Mode: strategy.ModeRandom}, nil, s.mockRandom, testutil.NopLogger())
	s.NoError(err)
}

func (s *EngineSuite) TestRandomMode_MappedDraws() {
	engine := s.newEngine(strategy.Config{Mode: strategy.ModeRandom}, nil)

	s.mockRandom.QueueIntn(0, 1)

	choice, err := engine.ChooseParity(context.Background(), strategy.Context{})
	s.NoError(err)
	s.Equal(model.ChoiceEven, choice)

	choice, err = engine.ChooseParity(context.Background(), strategy.Context{})
	s.NoError(err)
	s.Equal(model.ChoiceOdd, choice)
}

func (s *EngineSuite) TestRandomMode_AlwaysCanonicalAndNonDegenerate() {
	engine, err := strategy.NewEngine(strategy.Config{Mode: strategy.ModeRandom}, nil, random.New(), testutil.NopLogger())
	s.Require().NoError(err)

	counts := map[model.Choice]int{}
	for i := 0; i < 1000; i++ {
		choice, err := engine.ChooseParity(context.Background(), strategy.Context{})
		s.Require().NoError(err)
		s.Require().True(choice.Valid(), "choice %q not canonical", choice)
		counts[choice]++
	}

	// With p=0.5 per draw, either side vanishing across 1000 draws would
	// be astronomically unlikely; a loose bound keeps the test stable.
	s.Greater(counts[model.ChoiceEven], 50)
	s.Greater(counts[model.ChoiceOdd], 50)
}

func (s *EngineSuite) TestHybrid_UsesReasoningWhenItSucceeds() {
	stub := &stubReasoner{decision: reasoning.Decision{Choice: model.ChoiceOdd, Justification: "variety"}}
	engine := s.newEngine(strategy.Config{Mode: strategy.ModeHybrid}, stub)

	choice, err := engine.ChooseParity(context.Background(), strategy.Context{Opponent: "P02"})
	s.NoError(err)
	s.Equal(model.ChoiceOdd, choice)
	s.Equal(1, stub.calls)
}

func (s *EngineSuite) TestHybrid_FallsBackOnError() {
	stub := &stubReasoner{err: errors.New("service unavailable")}
	engine := s.newEngine(strategy.Config{Mode: strategy.ModeHybrid}, stub)

	s.mockRandom.QueueIntn(0)
	choice, err := engine.ChooseParity(context.Background(), strategy.Context{})
	s.NoError(err)
	s.Equal(model.ChoiceEven, choice)
}

func (s *EngineSuite) TestHybrid_FallsBackOnInvalidAnswer() {
	stub := &stubReasoner{decision: reasoning.Decision{Choice: "Even"}}
	engine := s.newEngine(strategy.Config{Mode: strategy.ModeHybrid}, stub)

	s.mockRandom.QueueIntn(1)
	choice, err := engine.ChooseParity(context.Background(), strategy.Context{})
	s.NoError(err)
	s.Equal(model.ChoiceOdd, choice)
}

func (s *EngineSuite) TestHybrid_BoundedWaitOnStalledService() {
	stub := &stubReasoner{block: true}
	engine := s.newEngine(strategy.Config{
		Mode:           strategy.ModeHybrid,
		WaitBound:      2 * time.Second,
		ChoiceDeadline: 5 * time.Second,
		DeadlineMargin: time.Second,
	}, stub)

	s.mockRandom.QueueIntn(0)

	start := time.Now()
	choice, err := engine.ChooseParity(context.Background(), strategy.Context{})
	elapsed := time.Since(start)

	s.NoError(err)
	s.True(choice.Valid())
	s.Less(elapsed, 2100*time.Millisecond, "wait bound not respected")
	s.GreaterOrEqual(elapsed, 2*time.Second)
}

func (s *EngineSuite) TestLLMMode_PropagatesErrors() {
	stub := &stubReasoner{err: errors.New("boom")}
	engine := s.newEngine(strategy.Config{Mode: strategy.ModeLLM}, stub)

	_, err := engine.ChooseParity(context.Background(), strategy.Context{})
	s.Error(err)
	s.ErrorContains(err, "boom")
}

func (s *EngineSuite) TestLLMMode_PropagatesTimeout() {
	stub := &stubReasoner{block: true}
	engine := s.newEngine(strategy.Config{
		Mode:           strategy.ModeLLM,
		WaitBound:      50 * time.Millisecond,
		ChoiceDeadline: 500 * time.Millisecond,
		DeadlineMargin: 100 * time.Millisecond,
	}, stub)

	_, err := engine.ChooseParity(context.Background(), strategy.Context{})
	s.ErrorIs(err, context.DeadlineExceeded)
}

func TestParseMode(t *testing.T) {
	for _, valid := range []string{"random", "llm", "hybrid"} {
		mode, err := strategy.ParseMode(valid)
		if err != nil {
			t.Fatalf("ParseMode(%q) returned error: %v", valid, err)
		}
		if string(mode) != valid {
			t.Fatalf("ParseMode(%q) = %q", valid, mode)
		}
	}

	if _, err := strategy.ParseMode("Random"); !errors.Is(err, model.ErrUnknownStrategyMode) {
		t.Fatalf("expected ErrUnknownStrategyMode, got %v", err)
	}
}
