package models

import "github.com/shopspring/decimal"

// PaymentStatus is the settlement state of a payment.
// Only confirmed payments count toward a participant's balance.
type PaymentStatus string

const (
	PaymentPending   PaymentStatus = "pending"
	PaymentConfirmed PaymentStatus = "confirmed"
	PaymentRejected  PaymentStatus = "rejected"
)

// Valid reports whether s is one of the known payment statuses.
func (s PaymentStatus) Valid() bool {
	switch s {
	case PaymentPending, PaymentConfirmed, PaymentRejected:
		return true
	}
	return false
}

// CanTransitionTo reports whether a payment may move from s to next.
// Payments start pending and settle exactly once.
func (s PaymentStatus) CanTransitionTo(next PaymentStatus) bool {
	return s == PaymentPending && (next == PaymentConfirmed || next == PaymentRejected)
}

// Payment records money a participant handed over toward their balance.
type Payment struct {
	// ID is the unique identifier for the payment (UUID format).
	ID string

	// ParticipantID is who paid.
	ParticipantID string

	// EventID optionally ties the payment to a specific event.
	// Empty when the payment is against the overall balance.
	EventID string

	// Amount is the paid amount.
	Amount decimal.Decimal

	// Status starts pending; an admin confirms or rejects it.
	Status PaymentStatus

	// Note is an optional description (e.g., "bank transfer 03/14").
	Note string

	// CreatedAt is the Unix timestamp when the payment was recorded.
	CreatedAt int64
}
