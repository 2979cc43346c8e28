package coupon

import "context"

// Repository defines the persistence port for Coupon.
type Repository interface {
	// GetByCode returns the coupon for an exact code match, or ErrNotFound.
	GetByCode(ctx context.Context, code string) (Coupon, error)

	// IncrementUsage records one use of the coupon.
	IncrementUsage(ctx context.Context, code string) error
}
