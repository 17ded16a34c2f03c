// Package models defines the domain types shared across pricewatch.
package models

import "time"

// Product is a tracked product page: where to look, what price triggers an
// alert, and who gets notified.
type Product struct {
	ID            int64      `db:"id"              json:"id"`
	Name          string     `db:"name"            json:"name"`
	URL           string     `db:"url"             json:"url"`
	TargetPrice   float64    `db:"target_price"    json:"target_price"`
	UserEmail     string     `db:"user_email"      json:"user_email,omitempty"`
	LastAlertedAt *time.Time `db:"last_alerted_at" json:"last_alerted_at,omitempty"`
	CreatedAt     time.Time  `db:"created_at"      json:"created_at"`
}

// PricePoint is one observed price for a product. Rows are append-only and
// never mutated after insert.
type PricePoint struct {
	ID         int64     `db:"id"          json:"-"`
	ProductID  int64     `db:"product_id"  json:"-"`
	Price      float64   `db:"price"       json:"price"`
	RecordedAt time.Time `db:"recorded_at" json:"recorded_at"`
}
