package memory

import (
	"context"
	"sync"

	"github.com/mcoot/parityagent-go/internal/model"
	"github.com/mcoot/parityagent-go/internal/storage"
)

// Storage is an in-memory implementation of the storage interface
type Storage struct {
	mu sync.RWMutex

	snapshots map[model.PlayerID]*model.Snapshot
}

// New creates a new in-memory storage instance
func New() *Storage {
	return &Storage{
		snapshots: make(map[model.PlayerID]*model.Snapshot),
	}
}

// Ensure Storage implements the interface
var _ storage.Storage = (*Storage)(nil)

func (s *Storage) SaveSnapshot(ctx context.Context, snapshot *model.Snapshot) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	stored := *snapshot
	stored.MatchHistory = make([]model.MatchRecord, len(snapshot.MatchHistory))
	copy(stored.MatchHistory, snapshot.MatchHistory)

	s.snapshots[snapshot.PlayerID] = &stored
	return nil
}

func (s *Storage) GetSnapshot(ctx context.Context, playerID model.PlayerID) (*model.Snapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snapshot, ok := s.snapshots[playerID]
	if !ok {
		return nil, model.ErrSnapshotNotFound
	}

	out := *snapshot
	out.MatchHistory = make([]model.MatchRecord, len(snapshot.MatchHistory))
	copy(out.MatchHistory, snapshot.MatchHistory)
	return &out, nil
}

func (s *Storage) DeleteSnapshot(ctx context.Context, playerID model.PlayerID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.snapshots, playerID)
	return nil
}
