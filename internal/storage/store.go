// Package storage provides abstractions for persistent data storage.
package storage

import (
	"context"
	"errors"

	"github.com/mpetrov/stagtrip/internal/models"
)

// ErrNotFound is returned when a requested row does not exist.
// Callers that trigger work speculatively (e.g. recomputation) treat it
// as a no-op rather than a failure.
var ErrNotFound = errors.New("not found")

// ErrInvalidTransition is returned when a payment status change is not
// allowed (payments settle exactly once, from pending).
var ErrInvalidTransition = errors.New("invalid status transition")

// Store defines the persistence operations for the trip. The abstraction
// allows swapping storage backends (SQLite, PostgreSQL, etc.) without
// changing the engine or service layers.
type Store interface {
	// CreateParticipant persists a new participant, assigning an ID if
	// the field is empty.
	CreateParticipant(ctx context.Context, p *models.Participant) error

	// GetParticipant retrieves a participant by ID.
	GetParticipant(ctx context.Context, id string) (*models.Participant, error)

	// GetParticipantByEmail retrieves a participant by login email.
	GetParticipantByEmail(ctx context.Context, email string) (*models.Participant, error)

	// ListParticipants returns the full roster ordered by name.
	ListParticipants(ctx context.Context) ([]models.Participant, error)

	// UpdateTripStatus sets a participant's trip-wide status.
	UpdateTripStatus(ctx context.Context, id string, status models.TripStatus) error

	// SetGroom makes the given participant the groom, atomically clearing
	// the flag from whoever held it. At most one groom exists at a time;
	// this is the only write path for the flag.
	SetGroom(ctx context.Context, id string) error

	// SetAdmin grants or revokes admin rights.
	SetAdmin(ctx context.Context, id string, isAdmin bool) error

	// DeleteParticipant removes a participant; their RSVP, allocation,
	// and payment rows cascade.
	DeleteParticipant(ctx context.Context, id string) error

	// CreateEvent persists a new event, assigning an ID if empty.
	CreateEvent(ctx context.Context, e *models.Event) error

	// GetEvent retrieves an event by ID.
	GetEvent(ctx context.Context, id string) (*models.Event, error)

	// UpdateEvent updates an existing event's configuration.
	UpdateEvent(ctx context.Context, e *models.Event) error

	// DeleteEvent removes an event; its RSVP and allocation rows cascade.
	DeleteEvent(ctx context.Context, id string) error

	// ListEvents returns all events ordered by start time.
	ListEvents(ctx context.Context) ([]models.Event, error)

	// ListAutoSplitEvents returns the events whose allocation rows the
	// engine owns: even/fixed split with nonzero cost.
	ListAutoSplitEvents(ctx context.Context) ([]models.Event, error)

	// UpsertRSVP inserts or updates the single RSVP row for the
	// (participant, event) pair.
	UpsertRSVP(ctx context.Context, r *models.RSVP) error

	// ListEventRSVPs returns participant ID -> RSVP status for one event.
	ListEventRSVPs(ctx context.Context, eventID string) (map[string]models.RSVPStatus, error)

	// ReplaceAllocations atomically replaces the full allocation row set
	// for an event in one transaction: delete everything, insert rows.
	// An empty/nil rows slice clears the event's allocations.
	ReplaceAllocations(ctx context.Context, eventID string, rows []models.CostAllocation) error

	// ListEventAllocations returns an event's rows ordered by participant ID.
	ListEventAllocations(ctx context.Context, eventID string) ([]models.CostAllocation, error)

	// ListParticipantAllocations returns one participant's rows across
	// all events.
	ListParticipantAllocations(ctx context.Context, participantID string) ([]models.CostAllocation, error)

	// ListAllocations returns every allocation row.
	ListAllocations(ctx context.Context) ([]models.CostAllocation, error)

	// CreatePayment persists a new payment, assigning an ID if empty.
	CreatePayment(ctx context.Context, p *models.Payment) error

	// GetPayment retrieves a payment by ID.
	GetPayment(ctx context.Context, id string) (*models.Payment, error)

	// UpdatePaymentStatus transitions a payment's status. Only
	// pending -> confirmed/rejected is allowed; anything else returns
	// ErrInvalidTransition.
	UpdatePaymentStatus(ctx context.Context, id string, status models.PaymentStatus) error

	// ListParticipantPayments returns one participant's payments.
	ListParticipantPayments(ctx context.Context, participantID string) ([]models.Payment, error)

	// ListConfirmedPayments returns every confirmed payment.
	ListConfirmedPayments(ctx context.Context) ([]models.Payment, error)

	// Close releases any resources held by the store.
	Close() error
}
