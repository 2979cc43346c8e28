package cart

import "context"

// Repository is a persistence port for Cart.
//
// Storage recommendation (Firestore):
// - collection: carts
// - docId: profileId
// - fields: id, lines, createdAt, updatedAt, expiresAt
//
// TTL:
// - Configure Firestore TTL on the "expiresAt" field.
// - expiresAt is refreshed on each mutation (handled by domain via touch()).
type Repository interface {
	// GetByProfileID returns (nil, nil) when no cart exists; the
	// application layer treats nil as "empty cart".
	GetByProfileID(ctx context.Context, profileID string) (*Cart, error)

	// Upsert saves the cart (create or update) by docId=cart.ID.
	Upsert(ctx context.Context, c *Cart) error

	// DeleteByProfileID deletes the cart (e.g., after order creation).
	DeleteByProfileID(ctx context.Context, profileID string) error
}
