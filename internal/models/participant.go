package models

// TripStatus is a participant's standing for the trip as a whole.
// Mandatory events charge everyone whose status is confirmed.
type TripStatus string

const (
	TripInvited   TripStatus = "invited"
	TripConfirmed TripStatus = "confirmed"
	TripDeclined  TripStatus = "declined"
	TripMaybe     TripStatus = "maybe"
)

// Valid reports whether s is one of the known trip statuses.
func (s TripStatus) Valid() bool {
	switch s {
	case TripInvited, TripConfirmed, TripDeclined, TripMaybe:
		return true
	}
	return false
}

// Participant represents a registered member of the trip roster.
//
// At most one participant has IsGroom set at a time; the store enforces
// this at the write boundary (see Store.SetGroom).
type Participant struct {
	// ID is the unique identifier for the participant (UUID format).
	ID string

	// Name is the display name.
	Name string

	// Email is the login email (unique).
	Email string

	// PasswordHash is the bcrypt hash of the participant's password.
	// Never serialized to API responses.
	PasswordHash string

	// TripStatus is the participant's standing for the whole trip.
	// New registrations start as invited.
	TripStatus TripStatus

	// IsGroom marks the guest of honor. The groom can be excluded from
	// paying per event via Event.ExcludeGroom.
	IsGroom bool

	// IsAdmin grants event CRUD, payment confirmation, and override rights.
	IsAdmin bool

	// CreatedAt is the Unix timestamp when the participant registered.
	CreatedAt int64
}
