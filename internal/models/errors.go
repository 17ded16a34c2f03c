package models

import "errors"

// Common errors
var (
	// ErrNotFound is returned when a product does not exist
	ErrNotFound = errors.New("product not found")

	// ErrDuplicateURL is returned when a product with the same URL is already tracked
	ErrDuplicateURL = errors.New("product with this URL already exists")
)
