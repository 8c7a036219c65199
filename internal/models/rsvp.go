package models

// RSVPStatus is a participant's answer for one optional event.
type RSVPStatus string

const (
	RSVPPending   RSVPStatus = "pending"
	RSVPConfirmed RSVPStatus = "confirmed"
	RSVPDeclined  RSVPStatus = "declined"
	RSVPMaybe     RSVPStatus = "maybe"
)

// Valid reports whether s is one of the known RSVP statuses.
func (s RSVPStatus) Valid() bool {
	switch s {
	case RSVPPending, RSVPConfirmed, RSVPDeclined, RSVPMaybe:
		return true
	}
	return false
}

// RSVP records a participant's answer for an optional event.
// Exactly one row exists per (participant, event) pair; changes upsert it.
type RSVP struct {
	ParticipantID string
	EventID       string
	Status        RSVPStatus

	// UpdatedAt is the Unix timestamp of the latest upsert.
	UpdatedAt int64
}
