package database

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
)

// schema defines the two tables pricewatch owns. price_history is append-only:
// rows are inserted once and never updated or deleted.
const schema = `
CREATE TABLE IF NOT EXISTS products (
	id              SERIAL PRIMARY KEY,
	name            TEXT NOT NULL,
	url             TEXT NOT NULL UNIQUE,
	target_price    NUMERIC(12,2) NOT NULL,
	user_email      TEXT NOT NULL,
	last_alerted_at TIMESTAMPTZ,
	created_at      TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS price_history (
	id          SERIAL PRIMARY KEY,
	product_id  INTEGER NOT NULL REFERENCES products(id),
	price       NUMERIC(12,2) NOT NULL CHECK (price >= 0),
	recorded_at TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE INDEX IF NOT EXISTS idx_price_history_product_recorded
	ON price_history (product_id, recorded_at);
`

// Migrate creates the pricewatch tables if they do not exist.
func Migrate(ctx context.Context, db *sqlx.DB) error {
	if _, err := db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("failed to apply schema: %w", err)
	}
	return nil
}
