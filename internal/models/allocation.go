package models

import "github.com/shopspring/decimal"

// CostAllocation is one participant's share of one event's cost.
//
// The full set of rows for an event is replaced atomically on every
// recomputation; rows are never patched individually. Exactly one row
// exists per paying participant. Non-payers have no row, except an
// excluded groom who is attending, who gets an explicit zero row.
type CostAllocation struct {
	EventID       string
	ParticipantID string

	// Amount is the computed share, kept at full decimal precision.
	// Rounding is a display concern only.
	Amount decimal.Decimal

	// Note is a human-readable explanation of how the amount came to be
	// (e.g., "even split of $1500 among 5" or "rate covers groom's seat").
	Note string
}
