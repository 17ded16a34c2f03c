package database_test

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonesrussell/pricewatch/internal/database"
	"github.com/jonesrussell/pricewatch/internal/models"
)

// productColumns lists the columns returned by product SELECT queries.
var productColumns = []string{
	"id", "name", "url", "target_price", "user_email", "last_alerted_at", "created_at",
}

func newProductRepo(t *testing.T) (*database.ProductRepository, sqlmock.Sqlmock) {
	t.Helper()

	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { mockDB.Close() })

	db := sqlx.NewDb(mockDB, "postgres")
	return database.NewProductRepository(db), mock
}

func expectationsMet(t *testing.T, mock sqlmock.Sqlmock) {
	t.Helper()
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestProductRepository_Create(t *testing.T) {
	repo, mock := newProductRepo(t)
	ctx := context.Background()

	createdAt := time.Date(2026, 8, 30, 10, 0, 0, 0, time.UTC)
	mock.ExpectQuery("INSERT INTO products").
		WithArgs("A Light in the Attic", "http://books.toscrape.com/attic", 45.00, "reader@example.com").
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at"}).AddRow(int64(7), createdAt))

	product := &models.Product{
		Name:        "A Light in the Attic",
		URL:         "http://books.toscrape.com/attic",
		TargetPrice: 45.00,
		UserEmail:   "reader@example.com",
	}

	require.NoError(t, repo.Create(ctx, product))
	assert.Equal(t, int64(7), product.ID)
	assert.Equal(t, createdAt, product.CreatedAt)
	expectationsMet(t, mock)
}

func TestProductRepository_Create_DuplicateURL(t *testing.T) {
	repo, mock := newProductRepo(t)
	ctx := context.Background()

	mock.ExpectQuery("INSERT INTO products").
		WillReturnError(&pq.Error{Code: "23505", Constraint: "products_url_key"})

	err := repo.Create(ctx, &models.Product{
		Name:        "Duplicate",
		URL:         "http://books.toscrape.com/attic",
		TargetPrice: 45.00,
		UserEmail:   "reader@example.com",
	})

	require.ErrorIs(t, err, models.ErrDuplicateURL)
	expectationsMet(t, mock)
}

func TestProductRepository_Create_GenericError(t *testing.T) {
	repo, mock := newProductRepo(t)
	ctx := context.Background()

	mock.ExpectQuery("INSERT INTO products").WillReturnError(sql.ErrConnDone)

	err := repo.Create(ctx, &models.Product{
		Name: "Broken", URL: "http://example.com", TargetPrice: 1, UserEmail: "a@b.c",
	})

	require.Error(t, err)
	assert.NotErrorIs(t, err, models.ErrDuplicateURL)
	expectationsMet(t, mock)
}

func TestProductRepository_List(t *testing.T) {
	repo, mock := newProductRepo(t)
	ctx := context.Background()

	now := time.Now()
	rows := sqlmock.NewRows(productColumns).
		AddRow(int64(1), "Book A", "http://example.com/a", 10.00, "a@example.com", nil, now).
		AddRow(int64(2), "Book B", "http://example.com/b", 20.00, "b@example.com", now, now)

	mock.ExpectQuery("SELECT (.+) FROM products").WillReturnRows(rows)

	products, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, products, 2)
	assert.Equal(t, "Book A", products[0].Name)
	assert.Nil(t, products[0].LastAlertedAt)
	assert.NotNil(t, products[1].LastAlertedAt)
	expectationsMet(t, mock)
}

func TestProductRepository_List_Empty(t *testing.T) {
	repo, mock := newProductRepo(t)
	ctx := context.Background()

	mock.ExpectQuery("SELECT (.+) FROM products").
		WillReturnRows(sqlmock.NewRows(productColumns))

	products, err := repo.List(ctx)
	require.NoError(t, err)
	assert.NotNil(t, products)
	assert.Empty(t, products)
	expectationsMet(t, mock)
}

func TestProductRepository_GetByID_NotFound(t *testing.T) {
	repo, mock := newProductRepo(t)
	ctx := context.Background()

	mock.ExpectQuery("SELECT (.+) FROM products").
		WithArgs(int64(99)).
		WillReturnError(sql.ErrNoRows)

	_, err := repo.GetByID(ctx, 99)
	require.ErrorIs(t, err, models.ErrNotFound)
	expectationsMet(t, mock)
}

func TestProductRepository_MarkAlerted(t *testing.T) {
	repo, mock := newProductRepo(t)
	ctx := context.Background()
	at := time.Now()

	mock.ExpectExec("UPDATE products SET last_alerted_at").
		WithArgs(at, int64(3)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.MarkAlerted(ctx, 3, at))
	expectationsMet(t, mock)
}

func TestProductRepository_MarkAlerted_NotFound(t *testing.T) {
	repo, mock := newProductRepo(t)
	ctx := context.Background()

	mock.ExpectExec("UPDATE products SET last_alerted_at").
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.MarkAlerted(ctx, 42, time.Now())
	require.ErrorIs(t, err, models.ErrNotFound)
	expectationsMet(t, mock)
}
