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

// CreatePayment inserts a new payment into the database.
func (s *SQLiteStore) CreatePayment(ctx context.Context, p *models.Payment) error {
	if p.ID == "" {
		p.ID = uuid.New().String()
	}
	if p.CreatedAt == 0 {
		p.CreatedAt = time.Now().Unix()
	}
	if p.Status == "" {
		p.Status = models.PaymentPending
	}

	var eventID any
	if p.EventID != "" {
		eventID = p.EventID
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO payments (id, participant_id, event_id, amount, status, note, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		p.ID, p.ParticipantID, eventID, p.Amount.String(), string(p.Status), p.Note, p.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create payment: %w", err)
	}
	return nil
}

// GetPayment retrieves a payment by ID.
func (s *SQLiteStore) GetPayment(ctx context.Context, id string) (*models.Payment, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, participant_id, event_id, amount, status, note, created_at
		 FROM payments WHERE id = ?`,
		id,
	)
	p, err := scanPayment(row.Scan)
	if err == sql.ErrNoRows {
		return nil, storage.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get payment: %w", err)
	}
	return p, nil
}

// UpdatePaymentStatus transitions a payment's status. Only
// pending -> confirmed/rejected is allowed; the check and the update run
// in one transaction so a payment settles exactly once.
func (s *SQLiteStore) UpdatePaymentStatus(ctx context.Context, id string, status models.PaymentStatus) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	var current string
	err = tx.QueryRowContext(ctx, "SELECT status FROM payments WHERE id = ?", id).Scan(&current)
	if err == sql.ErrNoRows {
		return storage.ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("failed to get payment status: %w", err)
	}

	if !models.PaymentStatus(current).CanTransitionTo(status) {
		return fmt.Errorf("%w: %s -> %s", storage.ErrInvalidTransition, current, status)
	}

	if _, err := tx.ExecContext(ctx, "UPDATE payments SET status = ? WHERE id = ?", string(status), id); err != nil {
		return fmt.Errorf("failed to update payment status: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// ListParticipantPayments returns one participant's payments, newest first.
func (s *SQLiteStore) ListParticipantPayments(ctx context.Context, participantID string) ([]models.Payment, error) {
	return s.listPayments(ctx,
		`SELECT id, participant_id, event_id, amount, status, note, created_at
		 FROM payments WHERE participant_id = ? ORDER BY created_at DESC, id`,
		participantID,
	)
}

// ListConfirmedPayments returns every confirmed payment.
func (s *SQLiteStore) ListConfirmedPayments(ctx context.Context) ([]models.Payment, error) {
	return s.listPayments(ctx,
		`SELECT id, participant_id, event_id, amount, status, note, created_at
		 FROM payments WHERE status = 'confirmed' ORDER BY created_at, id`,
	)
}

func (s *SQLiteStore) listPayments(ctx context.Context, query string, args ...any) ([]models.Payment, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list payments: %w", err)
	}
	defer rows.Close()

	var payments []models.Payment
	for rows.Next() {
		p, err := scanPayment(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("failed to scan payment: %w", err)
		}
		payments = append(payments, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate payments: %w", err)
	}
	return payments, nil
}

// scanPayment reads one payment row via the given scan function.
func scanPayment(scan func(dest ...any) error) (*models.Payment, error) {
	p := &models.Payment{}
	var eventID sql.NullString
	var amount, status string

	if err := scan(&p.ID, &p.ParticipantID, &eventID, &amount, &status, &p.Note, &p.CreatedAt); err != nil {
		return nil, err
	}

	dec, err := decimal.NewFromString(amount)
	if err != nil {
		return nil, fmt.Errorf("invalid amount %q: %w", amount, err)
	}
	p.Amount = dec
	p.Status = models.PaymentStatus(status)
	if eventID.Valid {
		p.EventID = eventID.String
	}
	return p, nil
}
