package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/swaritsharma001/welness-studio/internal/domain"
	"github.com/swaritsharma001/welness-studio/pkg/database"
	apperrors "github.com/swaritsharma001/welness-studio/pkg/errors"
)

// InstructorRepository implements repository.InstructorRepository using
// PostgreSQL.
type InstructorRepository struct {
	pool database.DBTX
}

// NewInstructorRepository creates a new PostgreSQL-backed instructor
// repository.
func NewInstructorRepository(pool database.DBTX) *InstructorRepository {
	return &InstructorRepository{pool: pool}
}

// Create inserts a new instructor into the database.
func (r *InstructorRepository) Create(ctx context.Context, in *domain.Instructor) error {
	query := `
		INSERT INTO instructors (id, name, price, description, image, rating, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

	_, err := r.pool.Exec(ctx, query,
		in.ID,
		in.Name,
		in.Price,
		in.Description,
		in.Image,
		in.Rating,
		in.CreatedAt,
		in.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert instructor: %w", err)
	}

	return nil
}

// GetByID retrieves an instructor by their ID.
func (r *InstructorRepository) GetByID(ctx context.Context, id string) (*domain.Instructor, error) {
	query := `
		SELECT id, name, price, description, image, rating, created_at, updated_at
		FROM instructors
		WHERE id = $1`

	var in domain.Instructor
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&in.ID,
		&in.Name,
		&in.Price,
		&in.Description,
		&in.Image,
		&in.Rating,
		&in.CreatedAt,
		&in.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("scan instructor: %w", err)
	}

	return &in, nil
}

// List returns all instructors, newest first.
func (r *InstructorRepository) List(ctx context.Context) ([]domain.Instructor, error) {
	query := `
		SELECT id, name, price, description, image, rating, created_at, updated_at
		FROM instructors
		ORDER BY created_at DESC`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query instructors: %w", err)
	}
	defer rows.Close()

	var instructors []domain.Instructor
	for rows.Next() {
		var in domain.Instructor
		if err := rows.Scan(&in.ID, &in.Name, &in.Price, &in.Description, &in.Image, &in.Rating, &in.CreatedAt, &in.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan instructor row: %w", err)
		}
		instructors = append(instructors, in)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate instructor rows: %w", err)
	}

	return instructors, nil
}

// Delete removes an instructor from the database by their ID.
func (r *InstructorRepository) Delete(ctx context.Context, id string) error {
	query := `DELETE FROM instructors WHERE id = $1`

	ct, err := r.pool.Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("delete instructor: %w", err)
	}

	if ct.RowsAffected() == 0 {
		return apperrors.NotFound("instructor", id)
	}

	return nil
}
