package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/mpetrov/stagtrip/internal/models"
	"github.com/mpetrov/stagtrip/internal/storage"
)

// CreateEvent inserts a new event into the database.
func (s *SQLiteStore) CreateEvent(ctx context.Context, e *models.Event) error {
	if e.ID == "" {
		e.ID = uuid.New().String()
	}
	if e.CreatedAt == 0 {
		e.CreatedAt = time.Now().Unix()
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO events (id, title, total_cost, split_type, is_mandatory, exclude_groom, starts_at, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		e.ID, e.Title, e.TotalCost.String(), string(e.SplitType),
		boolToInt(e.IsMandatory), boolToInt(e.ExcludeGroom), e.StartsAt, e.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create event: %w", err)
	}
	return nil
}

// GetEvent retrieves an event by ID.
func (s *SQLiteStore) GetEvent(ctx context.Context, id string) (*models.Event, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, title, total_cost, split_type, is_mandatory, exclude_groom, starts_at, created_at
		 FROM events WHERE id = ?`,
		id,
	)
	e, err := scanEvent(row.Scan)
	if err == sql.ErrNoRows {
		return nil, storage.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get event: %w", err)
	}
	return e, nil
}

// UpdateEvent updates an existing event's configuration.
func (s *SQLiteStore) UpdateEvent(ctx context.Context, e *models.Event) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE events SET title = ?, total_cost = ?, split_type = ?, is_mandatory = ?, exclude_groom = ?, starts_at = ?
		 WHERE id = ?`,
		e.Title, e.TotalCost.String(), string(e.SplitType),
		boolToInt(e.IsMandatory), boolToInt(e.ExcludeGroom), e.StartsAt, e.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update event: %w", err)
	}
	return requireRow(res)
}

// DeleteEvent removes an event. RSVP and allocation rows cascade.
func (s *SQLiteStore) DeleteEvent(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM events WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to delete event: %w", err)
	}
	return requireRow(res)
}

// ListEvents returns all events ordered by start time.
func (s *SQLiteStore) ListEvents(ctx context.Context) ([]models.Event, error) {
	return s.listEvents(ctx,
		`SELECT id, title, total_cost, split_type, is_mandatory, exclude_groom, starts_at, created_at
		 FROM events ORDER BY starts_at, created_at, id`,
	)
}

// ListAutoSplitEvents returns the events whose allocation rows the engine
// owns: even or fixed split with a nonzero cost.
func (s *SQLiteStore) ListAutoSplitEvents(ctx context.Context) ([]models.Event, error) {
	return s.listEvents(ctx,
		`SELECT id, title, total_cost, split_type, is_mandatory, exclude_groom, starts_at, created_at
		 FROM events
		 WHERE split_type IN ('even', 'fixed') AND CAST(total_cost AS REAL) > 0
		 ORDER BY starts_at, created_at, id`,
	)
}

func (s *SQLiteStore) listEvents(ctx context.Context, query string) ([]models.Event, error) {
	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list events: %w", err)
	}
	defer rows.Close()

	var events []models.Event
	for rows.Next() {
		e, err := scanEvent(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("failed to scan event: %w", err)
		}
		events = append(events, *e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate events: %w", err)
	}
	return events, nil
}

// scanEvent reads one event row via the given scan function.
func scanEvent(scan func(dest ...any) error) (*models.Event, error) {
	e := &models.Event{}
	var cost, splitType string
	var mandatory, excludeGroom int

	if err := scan(&e.ID, &e.Title, &cost, &splitType, &mandatory, &excludeGroom, &e.StartsAt, &e.CreatedAt); err != nil {
		return nil, err
	}

	total, err := decimal.NewFromString(cost)
	if err != nil {
		return nil, fmt.Errorf("invalid total_cost %q: %w", cost, err)
	}
	e.TotalCost = total
	e.SplitType = models.SplitType(splitType)
	e.IsMandatory = mandatory != 0
	e.ExcludeGroom = excludeGroom != 0
	return e, nil
}
