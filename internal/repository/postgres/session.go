package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/swaritsharma001/welness-studio/internal/domain"
	"github.com/swaritsharma001/welness-studio/pkg/database"
	apperrors "github.com/swaritsharma001/welness-studio/pkg/errors"
)

// SessionRepository implements repository.SessionRepository using PostgreSQL.
type SessionRepository struct {
	pool database.DBTX
}

// NewSessionRepository creates a new PostgreSQL-backed booking session
// repository.
func NewSessionRepository(pool database.DBTX) *SessionRepository {
	return &SessionRepository{pool: pool}
}

const sessionColumns = `id, user_id, instructor_id, date, time, mobile, amount_total, currency, status, provider_ref, created_at, updated_at`

// Create inserts a new booking session into the database.
func (r *SessionRepository) Create(ctx context.Context, s *domain.BookingSession) error {
	query := `
		INSERT INTO booking_sessions (` + sessionColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`

	_, err := r.pool.Exec(ctx, query,
		s.ID,
		s.UserID,
		s.InstructorID,
		s.Date,
		s.Time,
		s.Mobile,
		s.AmountTotal,
		s.Currency,
		s.Status,
		s.ProviderRef,
		s.CreatedAt,
		s.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert booking session: %w", err)
	}

	return nil
}

// GetByID retrieves a session by its ID.
func (r *SessionRepository) GetByID(ctx context.Context, id string) (*domain.BookingSession, error) {
	query := `SELECT ` + sessionColumns + ` FROM booking_sessions WHERE id = $1`

	var s domain.BookingSession
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&s.ID,
		&s.UserID,
		&s.InstructorID,
		&s.Date,
		&s.Time,
		&s.Mobile,
		&s.AmountTotal,
		&s.Currency,
		&s.Status,
		&s.ProviderRef,
		&s.CreatedAt,
		&s.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("scan booking session: %w", err)
	}

	return &s, nil
}

// ListByUser returns all sessions booked by the given user, newest first.
func (r *SessionRepository) ListByUser(ctx context.Context, userID string) ([]domain.BookingSession, error) {
	query := `SELECT ` + sessionColumns + ` FROM booking_sessions WHERE user_id = $1 ORDER BY created_at DESC`

	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("query booking sessions: %w", err)
	}
	defer rows.Close()

	return collectSessions(rows)
}

// List returns all sessions, newest first.
func (r *SessionRepository) List(ctx context.Context) ([]domain.BookingSession, error) {
	query := `SELECT ` + sessionColumns + ` FROM booking_sessions ORDER BY created_at DESC`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query booking sessions: %w", err)
	}
	defer rows.Close()

	return collectSessions(rows)
}

// UpdateStatus sets the status of the given session.
func (r *SessionRepository) UpdateStatus(ctx context.Context, id, status string) error {
	query := `UPDATE booking_sessions SET status = $1, updated_at = $2 WHERE id = $3`

	ct, err := r.pool.Exec(ctx, query, status, time.Now().UTC(), id)
	if err != nil {
		return fmt.Errorf("update booking session status: %w", err)
	}

	if ct.RowsAffected() == 0 {
		return apperrors.NotFound("booking session", id)
	}

	return nil
}

// SetProviderRef records the payment provider reference for the session.
func (r *SessionRepository) SetProviderRef(ctx context.Context, id, ref string) error {
	query := `UPDATE booking_sessions SET provider_ref = $1, updated_at = $2 WHERE id = $3`

	ct, err := r.pool.Exec(ctx, query, ref, time.Now().UTC(), id)
	if err != nil {
		return fmt.Errorf("set booking session provider ref: %w", err)
	}

	if ct.RowsAffected() == 0 {
		return apperrors.NotFound("booking session", id)
	}

	return nil
}

// Delete removes a session from the database by its ID.
func (r *SessionRepository) Delete(ctx context.Context, id string) error {
	query := `DELETE FROM booking_sessions WHERE id = $1`

	ct, err := r.pool.Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("delete booking session: %w", err)
	}

	if ct.RowsAffected() == 0 {
		return apperrors.NotFound("booking session", id)
	}

	return nil
}

func collectSessions(rows pgx.Rows) ([]domain.BookingSession, error) {
	var sessions []domain.BookingSession
	for rows.Next() {
		var s domain.BookingSession
		err := rows.Scan(
			&s.ID,
			&s.UserID,
			&s.InstructorID,
			&s.Date,
			&s.Time,
			&s.Mobile,
			&s.AmountTotal,
			&s.Currency,
			&s.Status,
			&s.ProviderRef,
			&s.CreatedAt,
			&s.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan booking session row: %w", err)
		}
		sessions = append(sessions, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate booking session rows: %w", err)
	}

	return sessions, nil
}
