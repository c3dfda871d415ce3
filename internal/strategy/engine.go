// Package strategy produces parity choices under a hard deadline.
//
// The game is pure chance, so no strategy changes the expected win rate.
// The engineering value is elsewhere: the engine must always return a
// canonical choice before the caller's protocol deadline, no matter what
// the external reasoning service does.
package strategy

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/mcoot/parityagent-go/internal/dependencies/random"
	"github.com/mcoot/parityagent-go/internal/model"
	"github.com/mcoot/parityagent-go/internal/reasoning"
)

// Mode selects how the engine produces a choice
type Mode string

const (
	// ModeRandom draws uniformly at random. No external calls, no
	// suspension; this is the reliability baseline.
	ModeRandom Mode = "random"
	// ModeLLM always consults the reasoning service and propagates its
	// failures. Use only to exercise or measure the reasoning path.
	ModeLLM Mode = "llm"
	// ModeHybrid consults the reasoning service under a bounded wait and
	// silently falls back to a random draw on timeout, error, or an
	// invalid answer. Recommended default.
	ModeHybrid Mode = "hybrid"
)

// ParseMode converts a string into a Mode
func ParseMode(s string) (Mode, error) {
	switch Mode(s) {
	case ModeRandom, ModeLLM, ModeHybrid:
		return Mode(s), nil
	default:
		return "", fmt.Errorf("%w: %q (must be random, llm, or hybrid)", model.ErrUnknownStrategyMode, s)
	}
}

// Default timing constants. The wait bound must sit under the choice
// deadline with enough margin to cover message construction and transport.
const (
	DefaultChoiceDeadline = 30 * time.Second
	DefaultWaitBound      = 25 * time.Second
	DefaultDeadlineMargin = 2 * time.Second
)

// Config holds engine configuration, fixed at construction
type Config struct {
	Mode Mode
	// WaitBound is the maximum time spent waiting on the reasoning
	// service before timing out. Defaults to 25s.
	WaitBound time.Duration
	// ChoiceDeadline is the external response deadline the caller must
	// meet for the choice operation. Defaults to 30s.
	ChoiceDeadline time.Duration
	// DeadlineMargin is the minimum gap required between WaitBound and
	// ChoiceDeadline. Defaults to 2s.
	DeadlineMargin time.Duration
}

// Context is the decision context for a single choice
type Context struct {
	Opponent  model.PlayerID
	Standings map[model.PlayerID]int
	History   []model.MatchRecord
	Deadline  string
}

// Engine produces parity choices per the configured mode
type Engine struct {
	mode      Mode
	waitBound time.Duration
	client    reasoning.Client
	random    random.Random
	logger    *slog.Logger
}

// NewEngine creates a decision engine. Construction fails loudly on a
// wait bound that does not leave the required margin under the choice
// deadline, and on a reasoning mode without a reasoning client: both are
// configuration errors that would otherwise surface as protocol
// violations mid-tournament.
func NewEngine(cfg Config, client reasoning.Client, rnd random.Random, logger *slog.Logger) (*Engine, error) {
	if _, err := ParseMode(string(cfg.Mode)); err != nil {
		return nil, err
	}
	if cfg.WaitBound == 0 {
		cfg.WaitBound = DefaultWaitBound
	}
	if cfg.ChoiceDeadline == 0 {
		cfg.ChoiceDeadline = DefaultChoiceDeadline
	}
	if cfg.DeadlineMargin == 0 {
		cfg.DeadlineMargin = DefaultDeadlineMargin
	}

	if cfg.WaitBound > cfg.ChoiceDeadline-cfg.DeadlineMargin {
		return nil, fmt.Errorf("%w: wait bound %s with deadline %s requires margin %s",
			model.ErrNoDeadlineMargin, cfg.WaitBound, cfg.ChoiceDeadline, cfg.DeadlineMargin)
	}

	if cfg.Mode != ModeRandom && client == nil {
		return nil, fmt.Errorf("%w: mode %q requires a reasoning client", model.ErrReasoningUnavailable, cfg.Mode)
	}

	return &Engine{
		mode:      cfg.Mode,
		waitBound: cfg.WaitBound,
		client:    client,
		random:    rnd,
		logger:    logger.With(slog.String("component", "strategy-engine")),
	}, nil
}

// Mode returns the engine's configured mode
func (e *Engine) Mode() Mode {
	return e.mode
}

// ChooseParity produces a canonical parity choice for the given context.
// The returned value is always a member of the canonical set; only
// ModeLLM ever returns an error.
func (e *Engine) ChooseParity(ctx context.Context, decCtx Context) (model.Choice, error) {
	if e.mode == ModeRandom {
		return e.randomChoice(), nil
	}

	decision, err := e.reasonBounded(ctx, decCtx)
	if err == nil && decision.Choice.Valid() {
		return decision.Choice, nil
	}

	if err == nil {
		// Reasoning client violated its contract; treat as a failure.
		err = fmt.Errorf("%w: %q", model.ErrInvalidChoice, decision.Choice)
	}

	if e.mode == ModeLLM {
		return "", fmt.Errorf("reasoning choice failed: %w", err)
	}

	e.logger.Warn("reasoning failed, falling back to random draw",
		slog.String("opponent", string(decCtx.Opponent)),
		slog.String("error", err.Error()),
	)
	return e.randomChoice(), nil
}

// reasonBounded races the reasoning call against the wait bound. On
// expiry the in-flight call is abandoned; a late result is discarded via
// the buffered channel and can never influence engine output.
func (e *Engine) reasonBounded(ctx context.Context, decCtx Context) (reasoning.Decision, error) {
	waitCtx, cancel := context.WithTimeout(ctx, e.waitBound)
	defer cancel()

	type outcome struct {
		decision reasoning.Decision
		err      error
	}
	ch := make(chan outcome, 1)

	go func() {
		decision, err := e.client.Reason(waitCtx, FormatPrompt(decCtx))
		ch <- outcome{decision, err}
	}()

	select {
	case res := <-ch:
		return res.decision, res.err
	case <-waitCtx.Done():
		return reasoning.Decision{}, fmt.Errorf("reasoning wait bound exceeded: %w", waitCtx.Err())
	}
}

func (e *Engine) randomChoice() model.Choice {
	choices := model.Choices()
	return choices[e.random.Intn(len(choices))]
}
