package model

// PlayerID uniquely identifies a player in the league
type PlayerID string

// Choice is a parity choice on the wire. The protocol only accepts the
// canonical lowercase values; anything else is rejected before sending.
type Choice string

const (
	ChoiceEven Choice = "even"
	ChoiceOdd  Choice = "odd"
)

// Valid reports whether the choice is one of the two canonical values
func (c Choice) Valid() bool {
	return c == ChoiceEven || c == ChoiceOdd
}

// Choices returns the canonical set of valid parity choices
func Choices() [2]Choice {
	return [2]Choice{ChoiceEven, ChoiceOdd}
}

// Outcome classifies a completed match from this player's perspective
type Outcome string

const (
	OutcomeWin  Outcome = "win"
	OutcomeDraw Outcome = "draw"
	OutcomeLoss Outcome = "loss"
)

// Points returns the league points earned for the outcome:
// 3 for a win, 1 for a draw, 0 for a loss
func (o Outcome) Points() int {
	switch o {
	case OutcomeWin:
		return 3
	case OutcomeDraw:
		return 1
	default:
		return 0
	}
}

// ClassifyOutcome determines the outcome for self given the reported winner.
// A nil winner means the match was a draw.
func ClassifyOutcome(self PlayerID, winner *PlayerID) Outcome {
	switch {
	case winner == nil:
		return OutcomeDraw
	case *winner == self:
		return OutcomeWin
	default:
		return OutcomeLoss
	}
}

// Stats holds a player's cumulative league statistics
type Stats struct {
	Wins         int `json:"wins"`
	Draws        int `json:"draws"`
	Losses       int `json:"losses"`
	TotalPoints  int `json:"total_points"`
	TotalMatches int `json:"total_matches"`
}
