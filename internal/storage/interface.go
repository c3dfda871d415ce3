package storage

import (
	"context"

	"github.com/mcoot/parityagent-go/internal/model"
)

// Storage defines the interface for state persistence
type Storage interface {
	// Snapshot operations
	SaveSnapshot(ctx context.Context, snapshot *model.Snapshot) error
	GetSnapshot(ctx context.Context, playerID model.PlayerID) (*model.Snapshot, error)
	DeleteSnapshot(ctx context.Context, playerID model.PlayerID) error
}
