// Package state tracks a player's authentication, statistics, and match
// history across a tournament run.
package state

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"github.com/mcoot/parityagent-go/internal/model"
	"github.com/mcoot/parityagent-go/internal/storage"
	"github.com/mcoot/parityagent-go/internal/timestamp"
)

// DefaultMaxHistory bounds the match history when no limit is configured
const DefaultMaxHistory = 100

// Config holds tracker configuration
type Config struct {
	PlayerID    model.PlayerID
	DisplayName string
	// MaxHistory bounds the match history; the oldest record is evicted
	// first. Defaults to DefaultMaxHistory.
	MaxHistory int
}

// Tracker is the single shared mutable resource in the agent. All
// mutations hold the lock for their full duration, so every ApplyResult
// is atomic from a caller's point of view: counters and history are
// never observable in a partially updated state.
type Tracker struct {
	playerID    model.PlayerID
	displayName string
	maxHistory  int
	timestamps  *timestamp.Authority
	store       storage.Storage
	logger      *slog.Logger

	mu         sync.RWMutex
	authToken  string
	registered bool
	stats      model.Stats
	history    []model.MatchRecord
}

// NewTracker creates a state tracker. store may be nil, in which case no
// snapshots are persisted.
func NewTracker(cfg Config, timestamps *timestamp.Authority, store storage.Storage, logger *slog.Logger) (*Tracker, error) {
	if cfg.PlayerID == "" {
		return nil, model.ErrEmptyPlayerID
	}
	if cfg.DisplayName == "" {
		cfg.DisplayName = "Player"
	}
	if cfg.MaxHistory <= 0 {
		cfg.MaxHistory = DefaultMaxHistory
	}

	return &Tracker{
		playerID:    cfg.PlayerID,
		displayName: cfg.DisplayName,
		maxHistory:  cfg.MaxHistory,
		timestamps:  timestamps,
		store:       store,
		logger:      logger.With(slog.String("component", "state-tracker")),
	}, nil
}

// PlayerID returns the immutable player identifier
func (t *Tracker) PlayerID() model.PlayerID {
	return t.playerID
}

// DisplayName returns the player's display name
func (t *Tracker) DisplayName() string {
	return t.displayName
}

// AuthToken returns the stored token, or empty if unregistered
func (t *Tracker) AuthToken() string {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.authToken
}

// Registered reports whether a token has been stored
func (t *Tracker) Registered() bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.registered
}

// SetAuthToken stores the registration token and marks the player
// registered. Idempotent.
func (t *Tracker) SetAuthToken(ctx context.Context, token string) {
	t.mu.Lock()
	t.authToken = token
	t.registered = true
	snapshot := t.snapshotLocked()
	t.mu.Unlock()

	t.persist(ctx, snapshot)
}

// ApplyResult records a completed match: classifies the outcome, updates
// the counters, and appends to the bounded history. Missing ancillary
// fields never cause a result to be dropped; an absent opponent id is
// recorded as the "unknown" sentinel.
func (t *Tracker) ApplyResult(ctx context.Context, result model.MatchResult) model.MatchRecord {
	opponentID := result.OpponentID
	if opponentID == "" {
		opponentID = model.OpponentUnknown
	}

	playerChoice := result.Choices[t.playerID]
	if playerChoice == "" {
		playerChoice = "unknown"
	}
	opponentChoice := result.Choices[opponentID]
	if opponentChoice == "" {
		opponentChoice = "unknown"
	}

	outcome := model.ClassifyOutcome(t.playerID, result.Winner)

	record := model.MatchRecord{
		MatchID:        result.MatchID,
		OpponentID:     opponentID,
		PlayerChoice:   playerChoice,
		OpponentChoice: opponentChoice,
		DrawnNumber:    result.DrawnNumber,
		Result:         outcome,
		PointsEarned:   outcome.Points(),
		Timestamp:      t.timestamps.Now(),
	}

	t.mu.Lock()
	switch outcome {
	case model.OutcomeWin:
		t.stats.Wins++
	case model.OutcomeDraw:
		t.stats.Draws++
	case model.OutcomeLoss:
		t.stats.Losses++
	}
	t.stats.TotalPoints += record.PointsEarned
	t.stats.TotalMatches++

	t.history = append(t.history, record)
	if len(t.history) > t.maxHistory {
		t.history = t.history[len(t.history)-t.maxHistory:]
	}
	snapshot := t.snapshotLocked()
	t.mu.Unlock()

	t.logger.Info("match result applied",
		slog.String("match_id", record.MatchID),
		slog.String("result", string(record.Result)),
		slog.Int("points_earned", record.PointsEarned),
		slog.Int("total_matches", snapshot.Stats.TotalMatches),
	)

	t.persist(ctx, snapshot)

	return record
}

// Stats returns a copy of the current counters
func (t *Tracker) Stats() model.Stats {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.stats
}

// WinRate returns wins / total matches, or 0.0 before any match
func (t *Tracker) WinRate() float64 {
	t.mu.RLock()
	defer t.mu.RUnlock()
	if t.stats.TotalMatches == 0 {
		return 0.0
	}
	return float64(t.stats.Wins) / float64(t.stats.TotalMatches)
}

// History returns the most recent limit records in chronological order.
// A non-positive limit returns the full history.
func (t *Tracker) History(limit int) []model.MatchRecord {
	t.mu.RLock()
	defer t.mu.RUnlock()

	records := t.history
	if limit > 0 && len(records) > limit {
		records = records[len(records)-limit:]
	}

	out := make([]model.MatchRecord, len(records))
	copy(out, records)
	return out
}

// OpponentHistory returns all records against the given opponent in
// chronological order
func (t *Tracker) OpponentHistory(opponentID model.PlayerID) []model.MatchRecord {
	t.mu.RLock()
	defer t.mu.RUnlock()

	var out []model.MatchRecord
	for _, record := range t.history {
		if record.OpponentID == opponentID {
			out = append(out, record)
		}
	}
	return out
}

// Snapshot returns a serializable copy of the full state
func (t *Tracker) Snapshot() model.Snapshot {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.snapshotLocked()
}

// Restore loads a previously persisted snapshot, if any. A missing
// snapshot is not an error; a fresh tracker simply starts empty.
func (t *Tracker) Restore(ctx context.Context) error {
	if t.store == nil {
		return nil
	}

	snapshot, err := t.store.GetSnapshot(ctx, t.playerID)
	if err != nil {
		if errors.Is(err, model.ErrSnapshotNotFound) {
			return nil
		}
		return err
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	t.authToken = snapshot.AuthToken
	t.registered = snapshot.Registered
	t.stats = snapshot.Stats
	t.history = make([]model.MatchRecord, len(snapshot.MatchHistory))
	copy(t.history, snapshot.MatchHistory)
	return nil
}

// snapshotLocked builds a snapshot; callers must hold at least the read lock
func (t *Tracker) snapshotLocked() model.Snapshot {
	history := make([]model.MatchRecord, len(t.history))
	copy(history, t.history)

	return model.Snapshot{
		PlayerID:     t.playerID,
		DisplayName:  t.displayName,
		AuthToken:    t.authToken,
		Registered:   t.registered,
		Stats:        t.stats,
		MatchHistory: history,
		LastUpdated:  t.timestamps.Now(),
	}
}

// persist saves a snapshot best-effort; a failed save never fails the
// protocol operation that triggered it
func (t *Tracker) persist(ctx context.Context, snapshot model.Snapshot) {
	if t.store == nil {
		return
	}
	if err := t.store.SaveSnapshot(ctx, &snapshot); err != nil {
		t.logger.Warn("failed to persist state snapshot", slog.String("error", err.Error()))
	}
}
