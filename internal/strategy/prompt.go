package strategy

import (
	"fmt"
	"sort"
	"strings"

	"github.com/mcoot/parityagent-go/internal/model"
)

// historyLimit caps the number of recent matches included in the prompt
const historyLimit = 5

// FormatPrompt renders a decision context into the natural-language
// description sent to the reasoning service
func FormatPrompt(c Context) string {
	var b strings.Builder

	b.WriteString("Make your parity choice for the current match.\n\n")

	opponent := string(c.Opponent)
	if opponent == "" {
		opponent = "unknown"
	}
	fmt.Fprintf(&b, "**Opponent:** %s\n\n", opponent)

	if len(c.Standings) > 0 {
		b.WriteString("**Current Standings:**\n")
		for _, entry := range rankStandings(c.Standings) {
			fmt.Fprintf(&b, "- %s: %d points\n", entry.player, entry.points)
		}
		b.WriteString("\n")
	}

	if len(c.History) > 0 {
		b.WriteString("**Recent Match History:**\n")
		recent := c.History
		if len(recent) > historyLimit {
			recent = recent[len(recent)-historyLimit:]
		}
		for i, match := range recent {
			fmt.Fprintf(&b, "%d. vs %s: You chose %s, result: %s\n",
				i+1, match.OpponentID, match.PlayerChoice, match.Result)
		}
		b.WriteString("\n")
	}

	b.WriteString("Choose 'even' or 'odd' and explain your reasoning.")

	return b.String()
}

type standingEntry struct {
	player string
	points int
}

// rankStandings orders standings by points descending, breaking ties by
// player id so the prompt is deterministic
func rankStandings(standings map[model.PlayerID]int) []standingEntry {
	entries := make([]standingEntry, 0, len(standings))
	for player, points := range standings {
		entries = append(entries, standingEntry{string(player), points})
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].points != entries[j].points {
			return entries[i].points > entries[j].points
		}
		return entries[i].player < entries[j].player
	})
	return entries
}
