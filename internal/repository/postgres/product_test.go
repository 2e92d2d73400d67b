package postgres

import (
	"context"
	"testing"
	"time"

	pgxmock "github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/swaritsharma001/welness-studio/internal/domain"
	"github.com/swaritsharma001/welness-studio/pkg/database"
	apperrors "github.com/swaritsharma001/welness-studio/pkg/errors"
)

func newTestProductRepo(t *testing.T) (*ProductRepository, pgxmock.PgxPoolIface) {
	t.Helper()
	mock, err := database.NewMockPool()
	require.NoError(t, err)
	repo := NewProductRepository(mock)
	return repo, mock
}

func testProduct(id string) *domain.Product {
	now := time.Now().UTC().Truncate(time.Microsecond)
	return &domain.Product{
		ID:          id,
		Name:        "Yoga Mat",
		Description: "Non-slip mat",
		Image:       "https://img.example.com/mat.jpg",
		Price:       150,
		Category:    "equipment",
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

func productRows(products ...*domain.Product) *pgxmock.Rows {
	rows := pgxmock.NewRows([]string{"id", "name", "description", "image", "price", "category", "created_at", "updated_at"})
	for _, p := range products {
		rows.AddRow(p.ID, p.Name, p.Description, p.Image, p.Price, p.Category, p.CreatedAt, p.UpdatedAt)
	}
	return rows
}

func TestProductRepository_Create(t *testing.T) {
	repo, mock := newTestProductRepo(t)

	p := testProduct("prod-001")
	mock.ExpectExec("INSERT INTO products").
		WithArgs(p.ID, p.Name, p.Description, p.Image, p.Price, p.Category, p.CreatedAt, p.UpdatedAt).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	err := repo.Create(context.Background(), p)

	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestProductRepository_GetByIDs(t *testing.T) {
	repo, mock := newTestProductRepo(t)

	p1 := testProduct("prod-001")
	p2 := testProduct("prod-002")
	ids := []string{"prod-001", "prod-002", "prod-missing"}

	mock.ExpectQuery("SELECT id, name, description, image, price, category, created_at, updated_at").
		WithArgs(ids).
		WillReturnRows(productRows(p1, p2))

	got, err := repo.GetByIDs(context.Background(), ids)

	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "prod-001", got["prod-001"].ID)
	// Missing IDs are simply absent.
	_, ok := got["prod-missing"]
	assert.False(t, ok)
}

func TestProductRepository_GetByIDs_Empty(t *testing.T) {
	repo, _ := newTestProductRepo(t)

	got, err := repo.GetByIDs(context.Background(), nil)

	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestProductRepository_Delete_Success(t *testing.T) {
	repo, mock := newTestProductRepo(t)

	mock.ExpectExec("DELETE FROM products").
		WithArgs("prod-001").
		WillReturnResult(pgxmock.NewResult("DELETE", 1))

	err := repo.Delete(context.Background(), "prod-001")

	require.NoError(t, err)
}

func TestProductRepository_Delete_NotFound(t *testing.T) {
	repo, mock := newTestProductRepo(t)

	mock.ExpectExec("DELETE FROM products").
		WithArgs("prod-missing").
		WillReturnResult(pgxmock.NewResult("DELETE", 0))

	err := repo.Delete(context.Background(), "prod-missing")

	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}
