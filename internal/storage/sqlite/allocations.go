package sqlite

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/mpetrov/stagtrip/internal/models"
)

// UpsertRSVP inserts or updates the single RSVP row for the
// (participant, event) pair.
func (s *SQLiteStore) UpsertRSVP(ctx context.Context, r *models.RSVP) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO rsvps (participant_id, event_id, status, updated_at)
		 VALUES (?, ?, ?, ?)
		 ON CONFLICT (participant_id, event_id)
		 DO UPDATE SET status = excluded.status, updated_at = excluded.updated_at`,
		r.ParticipantID, r.EventID, string(r.Status), r.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert rsvp: %w", err)
	}
	return nil
}

// ListEventRSVPs returns participant ID -> RSVP status for one event.
func (s *SQLiteStore) ListEventRSVPs(ctx context.Context, eventID string) (map[string]models.RSVPStatus, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT participant_id, status FROM rsvps WHERE event_id = ?",
		eventID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list rsvps: %w", err)
	}
	defer rows.Close()

	rsvps := make(map[string]models.RSVPStatus)
	for rows.Next() {
		var participantID, status string
		if err := rows.Scan(&participantID, &status); err != nil {
			return nil, fmt.Errorf("failed to scan rsvp: %w", err)
		}
		rsvps[participantID] = models.RSVPStatus(status)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate rsvps: %w", err)
	}
	return rsvps, nil
}

// ReplaceAllocations atomically replaces an event's full allocation row
// set: delete everything for the event, insert the new rows, all in one
// transaction. A nil rows slice clears the event's allocations.
func (s *SQLiteStore) ReplaceAllocations(ctx context.Context, eventID string, rows []models.CostAllocation) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, "DELETE FROM cost_allocations WHERE event_id = ?", eventID); err != nil {
		return fmt.Errorf("failed to clear allocations: %w", err)
	}

	for _, row := range rows {
		_, err := tx.ExecContext(ctx,
			"INSERT INTO cost_allocations (event_id, participant_id, amount, note) VALUES (?, ?, ?, ?)",
			eventID, row.ParticipantID, row.Amount.String(), row.Note,
		)
		if err != nil {
			return fmt.Errorf("failed to insert allocation: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// ListEventAllocations returns an event's allocation rows ordered by
// participant ID.
func (s *SQLiteStore) ListEventAllocations(ctx context.Context, eventID string) ([]models.CostAllocation, error) {
	return s.listAllocations(ctx,
		`SELECT event_id, participant_id, amount, note FROM cost_allocations
		 WHERE event_id = ? ORDER BY participant_id`,
		eventID,
	)
}

// ListParticipantAllocations returns one participant's allocation rows
// across all events.
func (s *SQLiteStore) ListParticipantAllocations(ctx context.Context, participantID string) ([]models.CostAllocation, error) {
	return s.listAllocations(ctx,
		`SELECT event_id, participant_id, amount, note FROM cost_allocations
		 WHERE participant_id = ? ORDER BY event_id`,
		participantID,
	)
}

// ListAllocations returns every allocation row.
func (s *SQLiteStore) ListAllocations(ctx context.Context) ([]models.CostAllocation, error) {
	return s.listAllocations(ctx,
		"SELECT event_id, participant_id, amount, note FROM cost_allocations ORDER BY event_id, participant_id",
	)
}

func (s *SQLiteStore) listAllocations(ctx context.Context, query string, args ...any) ([]models.CostAllocation, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list allocations: %w", err)
	}
	defer rows.Close()

	var allocations []models.CostAllocation
	for rows.Next() {
		var a models.CostAllocation
		var amount string
		if err := rows.Scan(&a.EventID, &a.ParticipantID, &amount, &a.Note); err != nil {
			return nil, fmt.Errorf("failed to scan allocation: %w", err)
		}
		dec, err := decimal.NewFromString(amount)
		if err != nil {
			return nil, fmt.Errorf("invalid amount %q: %w", amount, err)
		}
		a.Amount = dec
		allocations = append(allocations, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate allocations: %w", err)
	}
	return allocations, nil
}
