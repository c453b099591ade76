package repository

import (
	"context"
	"errors"

	"gold-catalog/internal/model"
)

// ErrCatalog wraps every failure to read or decode the product catalog.
var ErrCatalog = errors.New("catalog unavailable")

// CatalogRepository returns the full product list in producer order.
type CatalogRepository interface {
	FindAll(ctx context.Context) ([]model.Product, error)
	// Ping reports whether the source is currently readable.
	Ping(ctx context.Context) error
}
