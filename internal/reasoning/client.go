// Package reasoning abstracts the external reasoning service consulted by
// the strategy engine. The external shape is never trusted directly: every
// answer is validated against the canonical choice set before use.
package reasoning

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/mcoot/parityagent-go/internal/model"
)

// Decision is a validated answer from the reasoning service
type Decision struct {
	Choice        model.Choice `json:"choice"`
	Justification string       `json:"reasoning"`
}

// Client is the capability interface for an external reasoning service.
// Implementations must honor context cancellation: callers race Reason
// against a deadline and abandon the call on expiry.
type Client interface {
	Reason(ctx context.Context, prompt string) (Decision, error)
}

// ParseDecision extracts a Decision from a raw model response. It accepts
// plain JSON or JSON inside a fenced code block, normalizes the choice to
// lowercase, and rejects anything outside the canonical set.
func ParseDecision(raw string) (Decision, error) {
	text := strings.TrimSpace(raw)
	text = strings.TrimPrefix(text, "```json")
	text = strings.TrimPrefix(text, "```")
	text = strings.TrimSuffix(text, "```")
	text = strings.TrimSpace(text)

	var decision Decision
	if err := json.Unmarshal([]byte(text), &decision); err != nil {
		return Decision{}, fmt.Errorf("decode reasoning response: %w", err)
	}

	decision.Choice = model.Choice(strings.ToLower(strings.TrimSpace(string(decision.Choice))))
	if !decision.Choice.Valid() {
		return Decision{}, fmt.Errorf("%w: reasoning service returned %q", model.ErrInvalidChoice, decision.Choice)
	}

	return decision, nil
}
