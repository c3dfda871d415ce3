package redis

import (
	"fmt"

	"github.com/mcoot/parityagent-go/internal/model"
)

// Key prefix for all agent data
const keyPrefix = "parityagent"

// snapshotKey returns the Redis key for a player's state snapshot
func snapshotKey(playerID model.PlayerID) string {
	return fmt.Sprintf("%s:snapshot:%s", keyPrefix, playerID)
}
