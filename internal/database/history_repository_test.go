package database_test

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonesrussell/pricewatch/internal/database"
)

var historyColumns = []string{"id", "product_id", "price", "recorded_at"}

func newHistoryRepo(t *testing.T) (*database.HistoryRepository, sqlmock.Sqlmock) {
	t.Helper()

	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { mockDB.Close() })

	db := sqlx.NewDb(mockDB, "postgres")
	return database.NewHistoryRepository(db), mock
}

func TestHistoryRepository_Record(t *testing.T) {
	repo, mock := newHistoryRepo(t)
	ctx := context.Background()

	mock.ExpectExec("INSERT INTO price_history").
		WithArgs(int64(1), 9.50).
		WillReturnResult(sqlmock.NewResult(1, 1))

	require.NoError(t, repo.Record(ctx, 1, 9.50))
	expectationsMet(t, mock)
}

func TestHistoryRepository_Record_Error(t *testing.T) {
	repo, mock := newHistoryRepo(t)
	ctx := context.Background()

	mock.ExpectExec("INSERT INTO price_history").WillReturnError(sql.ErrConnDone)

	require.Error(t, repo.Record(ctx, 1, 9.50))
	expectationsMet(t, mock)
}

func TestHistoryRepository_ListByProduct_Ascending(t *testing.T) {
	repo, mock := newHistoryRepo(t)
	ctx := context.Background()

	base := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	rows := sqlmock.NewRows(historyColumns).
		AddRow(int64(1), int64(5), 12.00, base).
		AddRow(int64(2), int64(5), 11.50, base.Add(time.Hour)).
		AddRow(int64(3), int64(5), 9.99, base.Add(2*time.Hour))

	mock.ExpectQuery("SELECT (.+) FROM price_history").
		WithArgs(int64(5)).
		WillReturnRows(rows)

	points, err := repo.ListByProduct(ctx, 5)
	require.NoError(t, err)
	require.Len(t, points, 3)

	for i := 1; i < len(points); i++ {
		assert.True(t, points[i].RecordedAt.After(points[i-1].RecordedAt),
			"history must be ascending by recorded_at")
	}
	expectationsMet(t, mock)
}

func TestHistoryRepository_ListByProduct_Empty(t *testing.T) {
	repo, mock := newHistoryRepo(t)
	ctx := context.Background()

	mock.ExpectQuery("SELECT (.+) FROM price_history").
		WithArgs(int64(5)).
		WillReturnRows(sqlmock.NewRows(historyColumns))

	points, err := repo.ListByProduct(ctx, 5)
	require.NoError(t, err)
	assert.NotNil(t, points)
	assert.Empty(t, points)
	expectationsMet(t, mock)
}
