// Package timestamp is the single source of protocol timestamps.
//
// Every outbound league.v2 timestamp must be UTC with a literal 'Z' suffix;
// a local-timezone offset anywhere in a message is a protocol violation.
// Centralizing generation here is the defense against that class of bug, so
// no other package formats its own wall-clock strings.
package timestamp

import (
	"fmt"
	"regexp"
	"time"

	"github.com/mcoot/parityagent-go/internal/dependencies/clock"
	"github.com/mcoot/parityagent-go/internal/model"
)

// Layout is the wire format for league.v2 timestamps: ISO-8601 UTC with
// microsecond precision and a 'Z' suffix
const Layout = "2006-01-02T15:04:05.000000Z07:00"

// pattern matches ISO-8601 timestamps with a 'Z' suffix and optional
// fractional seconds. Numeric offsets like "+02:00" do not match.
var pattern = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}T\d{2}:\d{2}:\d{2}(\.\d+)?Z$`)

// Authority generates and validates protocol timestamps
type Authority struct {
	clock clock.Clock
}

// New creates a timestamp Authority backed by the given clock
func New(clk clock.Clock) *Authority {
	return &Authority{clock: clk}
}

// Now returns the current instant as a UTC wire timestamp
func (a *Authority) Now() string {
	return a.clock.Now().UTC().Format(Layout)
}

// Validate reports whether s is a well-formed wire timestamp.
// An empty string is a caller-contract violation and returns an error
// rather than false.
func (a *Authority) Validate(s string) (bool, error) {
	if s == "" {
		return false, model.ErrEmptyTimestamp
	}
	if !pattern.MatchString(s) {
		return false, nil
	}
	if _, err := time.Parse(time.RFC3339Nano, s); err != nil {
		return false, nil
	}
	return true, nil
}

// Parse converts a wire timestamp into a UTC time.Time
func (a *Authority) Parse(s string) (time.Time, error) {
	ok, err := a.Validate(s)
	if err != nil {
		return time.Time{}, err
	}
	if !ok {
		return time.Time{}, fmt.Errorf("%w: %q", model.ErrInvalidTimestamp, s)
	}
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q", model.ErrInvalidTimestamp, s)
	}
	return t.UTC(), nil
}

// IsExpired reports whether more than timeout has elapsed since start,
// measured against the authority's clock
func (a *Authority) IsExpired(start string, timeout time.Duration) (bool, error) {
	return a.isExpiredAt(start, timeout, a.clock.Now())
}

// IsExpiredAt is IsExpired against an explicit reference timestamp
func (a *Authority) IsExpiredAt(start string, timeout time.Duration, reference string) (bool, error) {
	ref, err := a.Parse(reference)
	if err != nil {
		return false, fmt.Errorf("reference time: %w", err)
	}
	return a.isExpiredAt(start, timeout, ref)
}

func (a *Authority) isExpiredAt(start string, timeout time.Duration, reference time.Time) (bool, error) {
	if timeout < 0 {
		return false, model.ErrNegativeTimeout
	}
	startAt, err := a.Parse(start)
	if err != nil {
		return false, err
	}
	return reference.Sub(startAt) > timeout, nil
}

// SecondsUntilDeadline returns the seconds remaining before start+timeout,
// measured against the authority's clock. Negative means overdue.
func (a *Authority) SecondsUntilDeadline(start string, timeout time.Duration) (float64, error) {
	return a.secondsUntilDeadlineAt(start, timeout, a.clock.Now())
}

// SecondsUntilDeadlineAt is SecondsUntilDeadline against an explicit
// reference timestamp
func (a *Authority) SecondsUntilDeadlineAt(start string, timeout time.Duration, reference string) (float64, error) {
	ref, err := a.Parse(reference)
	if err != nil {
		return 0, fmt.Errorf("reference time: %w", err)
	}
	return a.secondsUntilDeadlineAt(start, timeout, ref)
}

func (a *Authority) secondsUntilDeadlineAt(start string, timeout time.Duration, reference time.Time) (float64, error) {
	if timeout < 0 {
		return 0, model.ErrNegativeTimeout
	}
	startAt, err := a.Parse(start)
	if err != nil {
		return 0, err
	}
	elapsed := reference.Sub(startAt)
	return (timeout - elapsed).Seconds(), nil
}
