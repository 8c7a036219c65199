// Package allocation implements the cost allocation engine: deciding who
// is financially responsible for an event, what each payer's share is, and
// keeping the persisted allocation rows consistent as attendance changes.
package allocation

import "github.com/mpetrov/stagtrip/internal/models"

// PayerSet is the result of resolving who pays for an event.
type PayerSet struct {
	// Payers are the participants who get a nonzero-eligible share,
	// ordered as they appeared in the roster.
	Payers []models.Participant

	// GroomAttending is true when the groom is attending the event but
	// excluded from paying. In fixed mode the remaining payers absorb
	// his seat; in every mode he still gets an explicit zero row.
	GroomAttending bool
}

// ResolvePayers determines the set of participants financially responsible
// for an event.
//
// Mandatory events charge every trip-confirmed participant. Optional events
// charge participants with a confirmed RSVP (rsvps maps participant ID to
// RSVP status for this event). If the event excludes the groom and he is in
// the attending set, he is removed from the payers and tracked separately.
//
// An empty payer set is a valid outcome, not an error; callers treat it as
// "nobody is charged".
func ResolvePayers(event *models.Event, roster []models.Participant, rsvps map[string]models.RSVPStatus) PayerSet {
	var set PayerSet
	for _, p := range roster {
		attending := false
		if event.IsMandatory {
			attending = p.TripStatus == models.TripConfirmed
		} else {
			attending = rsvps[p.ID] == models.RSVPConfirmed
		}
		if !attending {
			continue
		}
		if event.ExcludeGroom && p.IsGroom {
			set.GroomAttending = true
			continue
		}
		set.Payers = append(set.Payers, p)
	}
	return set
}
