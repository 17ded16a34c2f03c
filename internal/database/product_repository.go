package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/jonesrussell/pricewatch/internal/models"
)

// pqUniqueViolation is the PostgreSQL error code for unique constraint
// violations, raised on duplicate product URLs.
const pqUniqueViolation = "23505"

// ProductRepository handles database operations for tracked products.
type ProductRepository struct {
	db *sqlx.DB
}

// NewProductRepository creates a new product repository.
func NewProductRepository(db *sqlx.DB) *ProductRepository {
	return &ProductRepository{db: db}
}

// Create inserts a new tracked product and fills in its storage-assigned ID
// and creation time. A duplicate URL returns models.ErrDuplicateURL.
func (r *ProductRepository) Create(ctx context.Context, product *models.Product) error {
	query := `
		INSERT INTO products (name, url, target_price, user_email)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at
	`

	err := r.db.QueryRowContext(
		ctx,
		query,
		product.Name,
		product.URL,
		product.TargetPrice,
		product.UserEmail,
	).Scan(&product.ID, &product.CreatedAt)

	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == pqUniqueViolation {
			return models.ErrDuplicateURL
		}
		return fmt.Errorf("failed to create product: %w", err)
	}

	return nil
}

// List retrieves all tracked products in insertion order. The price check job
// and the listing endpoint both read through here.
func (r *ProductRepository) List(ctx context.Context) ([]models.Product, error) {
	var products []models.Product
	query := `
		SELECT id, name, url, target_price, user_email, last_alerted_at, created_at
		FROM products
		ORDER BY id
	`

	if err := r.db.SelectContext(ctx, &products, query); err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}

	if products == nil {
		products = []models.Product{}
	}

	return products, nil
}

// GetByID retrieves a single product. Unknown IDs return models.ErrNotFound.
func (r *ProductRepository) GetByID(ctx context.Context, id int64) (*models.Product, error) {
	var product models.Product
	query := `
		SELECT id, name, url, target_price, user_email, last_alerted_at, created_at
		FROM products
		WHERE id = $1
	`

	if err := r.db.GetContext(ctx, &product, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, models.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get product: %w", err)
	}

	return &product, nil
}

// MarkAlerted records when an alert was last sent for a product, so the job
// can suppress repeat alerts inside the cooldown window.
func (r *ProductRepository) MarkAlerted(ctx context.Context, id int64, at time.Time) error {
	query := `UPDATE products SET last_alerted_at = $1 WHERE id = $2`

	result, err := r.db.ExecContext(ctx, query, at, id)
	if err != nil {
		return fmt.Errorf("failed to mark product alerted: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return models.ErrNotFound
	}

	return nil
}
