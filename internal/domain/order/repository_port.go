package order

import (
	"context"
	"errors"
)

// Standard repository errors
var (
	ErrNotFound = errors.New("order: not found")
	ErrConflict = errors.New("order: conflict")
)

// Repository defines the persistence port for Order.
type Repository interface {
	GetByID(ctx context.Context, id string) (Order, error)
	ListByProfileID(ctx context.Context, profileID string) ([]Order, error)
	Create(ctx context.Context, o Order) (Order, error)
	Delete(ctx context.Context, id string) error
}
