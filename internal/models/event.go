package models

import "github.com/shopspring/decimal"

// SplitType determines how an event's cost is divided.
type SplitType string

const (
	// SplitEven divides TotalCost (a group total) equally among payers.
	SplitEven SplitType = "even"

	// SplitFixed charges TotalCost as a flat per-person rate. When the
	// groom is excluded but attending, the rate is grossed up so the
	// group absorbs his seat.
	SplitFixed SplitType = "fixed"

	// SplitCustom marks the event as admin-authored: the engine never
	// touches its allocation rows.
	SplitCustom SplitType = "custom"
)

// Valid reports whether t is one of the known split types.
func (t SplitType) Valid() bool {
	switch t {
	case SplitEven, SplitFixed, SplitCustom:
		return true
	}
	return false
}

// Event represents a scheduled activity on the trip.
type Event struct {
	// ID is the unique identifier for the event (UUID format).
	ID string

	// Title is the human-readable name (e.g., "Go-karting", "Dinner").
	Title string

	// TotalCost is the event cost. For even splits it is the group
	// total; for fixed splits it is the per-person rate. Always >= 0.
	TotalCost decimal.Decimal

	// SplitType selects the allocation mode.
	SplitType SplitType

	// IsMandatory makes attendance implicit: every trip-confirmed
	// participant attends. Optional events go by RSVP instead.
	IsMandatory bool

	// ExcludeGroom keeps the groom off the bill for this event.
	// Defaults to true on creation.
	ExcludeGroom bool

	// StartsAt is the Unix timestamp the event begins (0 if unscheduled).
	StartsAt int64

	// CreatedAt is the Unix timestamp when the event was created.
	CreatedAt int64
}

// AutoSplit reports whether the engine owns this event's allocation rows.
// Custom events are admin-authored and zero-cost events need no rows.
func (e *Event) AutoSplit() bool {
	return e.SplitType != SplitCustom && e.TotalCost.IsPositive()
}
