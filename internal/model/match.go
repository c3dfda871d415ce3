package model

// OpponentUnknown is the sentinel opponent id recorded when a result
// message arrives without one. Results are never dropped over a missing
// ancillary field.
const OpponentUnknown PlayerID = "unknown"

// MatchRecord is a single completed match from this player's perspective.
// Records are immutable once appended to the tracker's history.
type MatchRecord struct {
	MatchID        string   `json:"match_id"`
	OpponentID     PlayerID `json:"opponent_id"`
	PlayerChoice   string   `json:"player_choice"`
	OpponentChoice string   `json:"opponent_choice"`
	DrawnNumber    int      `json:"drawn_number"`
	Result         Outcome  `json:"result"`
	PointsEarned   int      `json:"points_earned"`
	Timestamp      string   `json:"timestamp"`
}

// MatchResult is the referee's report of a completed match, as delivered
// by the notify_match_result call. Winner is nil for a draw.
type MatchResult struct {
	MatchID     string              `json:"match_id"`
	Winner      *PlayerID           `json:"winner"`
	DrawnNumber int                 `json:"drawn_number"`
	Choices     map[PlayerID]string `json:"choices"`
	OpponentID  PlayerID            `json:"opponent_id"`
}

// Snapshot is the serialized form of a player's state, used for optional
// persistence. It is a convenience export, not required for correctness.
type Snapshot struct {
	PlayerID     PlayerID      `json:"player_id"`
	DisplayName  string        `json:"display_name"`
	AuthToken    string        `json:"auth_token,omitempty"`
	Registered   bool          `json:"registered"`
	Stats        Stats         `json:"stats"`
	MatchHistory []MatchRecord `json:"match_history"`
	LastUpdated  string        `json:"last_updated"`
}
