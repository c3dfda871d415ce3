package model

import "errors"

// Common errors used across the application
var (
	// Identity errors
	ErrEmptyPlayerID = errors.New("player id cannot be empty")

	// Protocol errors
	ErrAuthTokenNotSet = errors.New("auth token not set")
	ErrInvalidChoice   = errors.New("invalid parity choice")

	// Timestamp errors
	ErrEmptyTimestamp   = errors.New("timestamp cannot be empty")
	ErrInvalidTimestamp = errors.New("invalid timestamp")
	ErrNegativeTimeout  = errors.New("timeout must be non-negative")

	// Strategy errors
	ErrUnknownStrategyMode  = errors.New("unknown strategy mode")
	ErrReasoningUnavailable = errors.New("reasoning client not configured")
	ErrNoDeadlineMargin     = errors.New("reasoning wait bound leaves no deadline margin")

	// Storage errors
	ErrSnapshotNotFound = errors.New("snapshot not found")

	// Registration errors
	ErrRegistrationFailed = errors.New("registration failed")
)
