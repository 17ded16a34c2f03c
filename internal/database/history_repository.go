package database

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/jonesrussell/pricewatch/internal/models"
)

// HistoryRepository handles database operations for price observations.
type HistoryRepository struct {
	db *sqlx.DB
}

// NewHistoryRepository creates a new price history repository.
func NewHistoryRepository(db *sqlx.DB) *HistoryRepository {
	return &HistoryRepository{db: db}
}

// Record appends one price observation for a product. recorded_at is assigned
// by the database at insert time.
func (r *HistoryRepository) Record(ctx context.Context, productID int64, price float64) error {
	query := `
		INSERT INTO price_history (product_id, price)
		VALUES ($1, $2)
	`

	if _, err := r.db.ExecContext(ctx, query, productID, price); err != nil {
		return fmt.Errorf("failed to record price: %w", err)
	}

	return nil
}

// ListByProduct returns all observations for a product, ascending by
// recorded_at. Charting depends on this ordering.
func (r *HistoryRepository) ListByProduct(ctx context.Context, productID int64) ([]models.PricePoint, error) {
	var points []models.PricePoint
	query := `
		SELECT id, product_id, price, recorded_at
		FROM price_history
		WHERE product_id = $1
		ORDER BY recorded_at
	`

	if err := r.db.SelectContext(ctx, &points, query, productID); err != nil {
		return nil, fmt.Errorf("failed to list price history: %w", err)
	}

	if points == nil {
		points = []models.PricePoint{}
	}

	return points, nil
}
