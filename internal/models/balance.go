package models

import "github.com/shopspring/decimal"

// Balance is the derived owed/paid/remaining view for one participant.
// It is computed at read time from CostAllocation rows and confirmed
// Payments and is never stored.
type Balance struct {
	ParticipantID string
	Name          string

	// TotalOwed is the sum of the participant's allocation amounts
	// across all events.
	TotalOwed decimal.Decimal

	// TotalPaid is the sum of the participant's confirmed payments.
	TotalPaid decimal.Decimal

	// Remaining is TotalOwed - TotalPaid. Negative means overpaid;
	// it is surfaced as-is, never clamped.
	Remaining decimal.Decimal
}
