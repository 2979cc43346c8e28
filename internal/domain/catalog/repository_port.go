package catalog

import (
	"context"
	"errors"
)

var (
	ErrNotFound          = errors.New("catalog: not found")
	ErrInsufficientStock = errors.New("catalog: insufficient stock")
)

// Repository defines the persistence port for the catalog.
type Repository interface {
	// ListCategories returns all categories in display order.
	ListCategories(ctx context.Context) ([]Category, error)

	// ListProductsByCategory returns the products of one category.
	ListProductsByCategory(ctx context.Context, categoryID string) ([]Product, error)

	// GetProduct returns one product by id, or ErrNotFound.
	GetProduct(ctx context.Context, id string) (Product, error)

	// AdjustStock decrements (or restores, with negative delta) stock for a
	// product. A decrement past zero fails with ErrInsufficientStock; an
	// unknown product fails with ErrNotFound.
	AdjustStock(ctx context.Context, productID string, delta int) error
}
