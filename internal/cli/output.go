package cli

import (
	"encoding/json"
	"fmt"
	"os"
)

// Output handles formatting output based on the configured format
type Output struct {
	format string
}

// NewOutput creates a new Output formatter
func NewOutput(format string) *Output {
	return &Output{format: format}
}

// Print outputs data in the configured format
func (o *Output) Print(data any) {
	if o.format == "json" {
		o.printJSON(data)
	} else {
		o.printText(data)
	}
}

// PrintError outputs an error
func (o *Output) PrintError(err error) {
	if o.format == "json" {
		errData := map[string]any{
			"error": map[string]string{
				"message": err.Error(),
			},
		}
		data, _ := json.Marshal(errData)
		fmt.Fprintln(os.Stderr, string(data))
	} else {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
	}
}

func (o *Output) printJSON(data any) {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	_ = enc.Encode(data)
}

func (o *Output) printText(data any) {
	switch v := data.(type) {
	case InfoResult:
		o.printInfo(v)
	case StatsResult:
		o.printStats(v)
	case HealthResult:
		o.printHealth(v)
	default:
		// Fallback to JSON for unknown types
		o.printJSON(data)
	}
}

// Stats response type (matches the agent's stats payload)
type Stats struct {
	Wins         int `json:"wins"`
	Draws        int `json:"draws"`
	Losses       int `json:"losses"`
	TotalPoints  int `json:"total_points"`
	TotalMatches int `json:"total_matches"`
}

// InfoResult response type
type InfoResult struct {
	Status       string `json:"status"`
	Service      string `json:"service"`
	PlayerID     string `json:"player_id"`
	DisplayName  string `json:"display_name"`
	Registered   bool   `json:"registered"`
	StrategyMode string `json:"strategy_mode"`
	Stats        Stats  `json:"stats"`
}

// StatsResult response type
type StatsResult struct {
	PlayerID     string  `json:"player_id"`
	DisplayName  string  `json:"display_name"`
	Stats        Stats   `json:"stats"`
	WinRate      float64 `json:"win_rate"`
	TotalMatches int     `json:"total_matches"`
}

// HealthResult response type
type HealthResult struct {
	Status string `json:"status"`
}

func (o *Output) printInfo(i InfoResult) {
	registeredStr := "no"
	if i.Registered {
		registeredStr = "yes"
	}
	fmt.Printf("Player: %s (%s)\n", i.DisplayName, i.PlayerID)
	fmt.Printf("Status: %s\n", i.Status)
	fmt.Printf("Registered: %s\n", registeredStr)
	fmt.Printf("Strategy: %s\n", i.StrategyMode)
	o.printStatsBlock(i.Stats)
}

func (o *Output) printStats(s StatsResult) {
	fmt.Printf("Player: %s (%s)\n", s.DisplayName, s.PlayerID)
	o.printStatsBlock(s.Stats)
	fmt.Printf("Win Rate: %.1f%%\n", s.WinRate*100)
}

func (o *Output) printStatsBlock(s Stats) {
	fmt.Printf("Record: %dW / %dD / %dL over %d matches\n", s.Wins, s.Draws, s.Losses, s.TotalMatches)
	fmt.Printf("Points: %d\n", s.TotalPoints)
}

func (o *Output) printHealth(h HealthResult) {
	fmt.Printf("Status: %s\n", h.Status)
}
