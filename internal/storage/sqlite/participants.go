package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/mpetrov/stagtrip/internal/models"
	"github.com/mpetrov/stagtrip/internal/storage"
)

// CreateParticipant inserts a new participant into the database.
func (s *SQLiteStore) CreateParticipant(ctx context.Context, p *models.Participant) error {
	if p.ID == "" {
		p.ID = uuid.New().String()
	}
	if p.CreatedAt == 0 {
		p.CreatedAt = time.Now().Unix()
	}
	if p.TripStatus == "" {
		p.TripStatus = models.TripInvited
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO participants (id, name, email, password_hash, trip_status, is_groom, is_admin, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		p.ID, p.Name, p.Email, p.PasswordHash, string(p.TripStatus), boolToInt(p.IsGroom), boolToInt(p.IsAdmin), p.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create participant: %w", err)
	}
	return nil
}

// GetParticipant retrieves a participant by ID.
func (s *SQLiteStore) GetParticipant(ctx context.Context, id string) (*models.Participant, error) {
	return s.getParticipant(ctx, "id", id)
}

// GetParticipantByEmail retrieves a participant by their login email.
func (s *SQLiteStore) GetParticipantByEmail(ctx context.Context, email string) (*models.Participant, error) {
	return s.getParticipant(ctx, "email", email)
}

func (s *SQLiteStore) getParticipant(ctx context.Context, column, value string) (*models.Participant, error) {
	p := &models.Participant{}
	var status string
	var isGroom, isAdmin int

	err := s.db.QueryRowContext(ctx,
		`SELECT id, name, email, password_hash, trip_status, is_groom, is_admin, created_at
		 FROM participants WHERE `+column+` = ?`,
		value,
	).Scan(&p.ID, &p.Name, &p.Email, &p.PasswordHash, &status, &isGroom, &isAdmin, &p.CreatedAt)

	if err == sql.ErrNoRows {
		return nil, storage.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get participant: %w", err)
	}

	p.TripStatus = models.TripStatus(status)
	p.IsGroom = isGroom != 0
	p.IsAdmin = isAdmin != 0
	return p, nil
}

// ListParticipants returns the full roster ordered by name.
func (s *SQLiteStore) ListParticipants(ctx context.Context) ([]models.Participant, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, name, email, password_hash, trip_status, is_groom, is_admin, created_at
		 FROM participants ORDER BY name, id`,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list participants: %w", err)
	}
	defer rows.Close()

	var roster []models.Participant
	for rows.Next() {
		var p models.Participant
		var status string
		var isGroom, isAdmin int
		if err := rows.Scan(&p.ID, &p.Name, &p.Email, &p.PasswordHash, &status, &isGroom, &isAdmin, &p.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan participant: %w", err)
		}
		p.TripStatus = models.TripStatus(status)
		p.IsGroom = isGroom != 0
		p.IsAdmin = isAdmin != 0
		roster = append(roster, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate participants: %w", err)
	}
	return roster, nil
}

// UpdateTripStatus sets a participant's trip-wide status.
func (s *SQLiteStore) UpdateTripStatus(ctx context.Context, id string, status models.TripStatus) error {
	res, err := s.db.ExecContext(ctx,
		"UPDATE participants SET trip_status = ? WHERE id = ?",
		string(status), id,
	)
	if err != nil {
		return fmt.Errorf("failed to update trip status: %w", err)
	}
	return requireRow(res)
}

// SetGroom makes the given participant the groom. Clearing the old flag
// and setting the new one happen in one transaction so the "at most one
// groom" invariant holds at every commit point.
func (s *SQLiteStore) SetGroom(ctx context.Context, id string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, "UPDATE participants SET is_groom = 0 WHERE is_groom = 1"); err != nil {
		return fmt.Errorf("failed to clear groom flag: %w", err)
	}

	res, err := tx.ExecContext(ctx, "UPDATE participants SET is_groom = 1 WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to set groom flag: %w", err)
	}
	if err := requireRow(res); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// SetAdmin grants or revokes admin rights.
func (s *SQLiteStore) SetAdmin(ctx context.Context, id string, isAdmin bool) error {
	res, err := s.db.ExecContext(ctx,
		"UPDATE participants SET is_admin = ? WHERE id = ?",
		boolToInt(isAdmin), id,
	)
	if err != nil {
		return fmt.Errorf("failed to update admin flag: %w", err)
	}
	return requireRow(res)
}

// DeleteParticipant removes a participant. RSVP, allocation, and payment
// rows cascade via foreign keys.
func (s *SQLiteStore) DeleteParticipant(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM participants WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to delete participant: %w", err)
	}
	return requireRow(res)
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

// requireRow converts a zero-row update/delete into storage.ErrNotFound.
func requireRow(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read rows affected: %w", err)
	}
	if n == 0 {
		return storage.ErrNotFound
	}
	return nil
}
