package state

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/mcoot/parityagent-go/internal/dependencies/mocks"
	"github.com/mcoot/parityagent-go/internal/model"
	"github.com/mcoot/parityagent-go/internal/storage/memory"
	"github.com/mcoot/parityagent-go/internal/testutil"
	"github.com/mcoot/parityagent-go/internal/timestamp"
)

type TrackerSuite struct {
	suite.Suite
	clock   *mocks.MockClock
	store   *memory.Storage
	tracker *Tracker
	ctx     context.Context
}

func TestTrackerSuite(t *testing.T) {
	suite.Run(t, new(TrackerSuite))
}

func (s *TrackerSuite) SetupTest() {
	s.clock = mocks.NewMockClock(time.Date(2025, 1, 15, 10, 30, 0, 0, time.UTC))
	s.store = memory.New()
	s.ctx = context.Background()

	tracker, err := NewTracker(
		Config{PlayerID: "P01", DisplayName: "Test Player"},
		timestamp.New(s.clock),
		s.store,
		testutil.NopLogger(),
	)
	s.Require().NoError(err)
	s.tracker = tracker
}

func (s *TrackerSuite) winFor(matchID string) model.MatchResult {
	winner := model.PlayerID("P01")
	return model.MatchResult{
		MatchID:     matchID,
		Winner:      &winner,
		DrawnNumber: 4,
		Choices:     map[model.PlayerID]string{"P01": "even", "P02": "odd"},
		OpponentID:  "P02",
	}
}

func (s *TrackerSuite) lossFor(matchID string) model.MatchResult {
	winner := model.PlayerID("P02")
	return model.MatchResult{
		MatchID:     matchID,
		Winner:      &winner,
		DrawnNumber: 7,
		Choices:     map[model.PlayerID]string{"P01": "even", "P02": "odd"},
		OpponentID:  "P02",
	}
}

func (s *TrackerSuite) TestNewTrackerRequiresPlayerID() {
	_, err := NewTracker(Config{}, timestamp.New(s.clock), nil, testutil.NopLogger())
	s.ErrorIs(err, model.ErrEmptyPlayerID)
}

func (s *TrackerSuite) TestSetAuthTokenIsIdempotent() {
	s.False(s.tracker.Registered())

	s.tracker.SetAuthToken(s.ctx, "tok-abc")
	s.True(s.tracker.Registered())
	s.Equal("tok-abc", s.tracker.AuthToken())

	s.tracker.SetAuthToken(s.ctx, "tok-abc")
	s.True(s.tracker.Registered())
	s.Equal("tok-abc", s.tracker.AuthToken())
}

func (s *TrackerSuite) TestApplyWinUpdatesCounters() {
	record := s.tracker.ApplyResult(s.ctx, s.winFor("m1"))

	s.Equal(model.OutcomeWin, record.Result)
	s.Equal(3, record.PointsEarned)
	s.Equal("even", record.PlayerChoice)
	s.Equal("odd", record.OpponentChoice)

	stats := s.tracker.Stats()
	s.Equal(1, stats.Wins)
	s.Equal(3, stats.TotalPoints)
	s.Equal(1, stats.TotalMatches)
}

func (s *TrackerSuite) TestApplyDrawWhenNoWinner() {
	record := s.tracker.ApplyResult(s.ctx, model.MatchResult{
		MatchID:     "m1",
		Winner:      nil,
		DrawnNumber: 2,
		OpponentID:  "P02",
	})

	s.Equal(model.OutcomeDraw, record.Result)
	s.Equal(1, record.PointsEarned)
	s.Equal(1, s.tracker.Stats().Draws)
}

func (s *TrackerSuite) TestMissingFieldsRecordedAsUnknown() {
	winner := model.PlayerID("P99")
	record := s.tracker.ApplyResult(s.ctx, model.MatchResult{
		MatchID: "m1",
		Winner:  &winner,
	})

	s.Equal(model.OpponentUnknown, record.OpponentID)
	s.Equal("unknown", record.PlayerChoice)
	s.Equal("unknown", record.OpponentChoice)
	s.Equal(model.OutcomeLoss, record.Result)
}

func (s *TrackerSuite) TestStatsAccumulateAcrossResults() {
	s.tracker.ApplyResult(s.ctx, s.winFor("m1"))
	s.tracker.ApplyResult(s.ctx, s.winFor("m2"))
	s.tracker.ApplyResult(s.ctx, s.lossFor("m3"))
	s.tracker.ApplyResult(s.ctx, model.MatchResult{MatchID: "m4", OpponentID: "P03"})

	stats := s.tracker.Stats()
	s.Equal(2, stats.Wins)
	s.Equal(1, stats.Draws)
	s.Equal(1, stats.Losses)
	s.Equal(4, stats.TotalMatches)
	s.Equal(2*3+1, stats.TotalPoints)
}

func (s *TrackerSuite) TestWinRate() {
	s.Equal(0.0, s.tracker.WinRate())

	s.tracker.ApplyResult(s.ctx, s.winFor("m1"))
	s.tracker.ApplyResult(s.ctx, s.lossFor("m2"))

	s.InDelta(0.5, s.tracker.WinRate(), 1e-9)
}

func (s *TrackerSuite) TestHistoryEviction() {
	tracker, err := NewTracker(
		Config{PlayerID: "P01", MaxHistory: 5},
		timestamp.New(s.clock),
		nil,
		testutil.NopLogger(),
	)
	s.Require().NoError(err)

	for i := 1; i <= 10; i++ {
		tracker.ApplyResult(s.ctx, s.winFor("m"+string(rune('0'+i/10))+string(rune('0'+i%10))))
	}

	history := tracker.History(0)
	s.Require().Len(history, 5)
	s.Equal("m06", history[0].MatchID)
	s.Equal("m10", history[4].MatchID)

	// Stats still count every match despite eviction
	s.Equal(10, tracker.Stats().TotalMatches)
}

func (s *TrackerSuite) TestHistoryLimit() {
	for _, id := range []string{"m1", "m2", "m3"} {
		s.tracker.ApplyResult(s.ctx, s.winFor(id))
	}

	recent := s.tracker.History(2)
	s.Require().Len(recent, 2)
	s.Equal("m2", recent[0].MatchID)
	s.Equal("m3", recent[1].MatchID)
}

func (s *TrackerSuite) TestOpponentHistory() {
	s.tracker.ApplyResult(s.ctx, s.winFor("m1"))
	other := s.winFor("m2")
	other.OpponentID = "P03"
	other.Choices = map[model.PlayerID]string{"P01": "even", "P03": "odd"}
	s.tracker.ApplyResult(s.ctx, other)
	s.tracker.ApplyResult(s.ctx, s.lossFor("m3"))

	against := s.tracker.OpponentHistory("P02")
	s.Require().Len(against, 2)
	s.Equal("m1", against[0].MatchID)
	s.Equal("m3", against[1].MatchID)
}

func (s *TrackerSuite) TestSnapshotPersistedAndRestored() {
	s.tracker.SetAuthToken(s.ctx, "tok-abc")
	s.tracker.ApplyResult(s.ctx, s.winFor("m1"))

	fresh, err := NewTracker(
		Config{PlayerID: "P01", DisplayName: "Test Player"},
		timestamp.New(s.clock),
		s.store,
		testutil.NopLogger(),
	)
	s.Require().NoError(err)
	s.Require().NoError(fresh.Restore(s.ctx))

	s.True(fresh.Registered())
	s.Equal("tok-abc", fresh.AuthToken())
	s.Equal(1, fresh.Stats().Wins)
	s.Require().Len(fresh.History(0), 1)
	s.Equal("m1", fresh.History(0)[0].MatchID)
}

func (s *TrackerSuite) TestRestoreWithNoSnapshotIsNoop() {
	err := s.tracker.Restore(s.ctx)
	s.NoError(err)
	s.False(s.tracker.Registered())
	s.Equal(0, s.tracker.Stats().TotalMatches)
}
