package account

import (
	"context"
	"errors"
)

// Standard repository errors
var (
	ErrNotFound = errors.New("account: not found")
	ErrConflict = errors.New("account: conflict")
)

// ProfileRepository defines the persistence port for Profile.
type ProfileRepository interface {
	GetByID(ctx context.Context, id string) (Profile, error)
	GetByUsername(ctx context.Context, username string) (Profile, error)
	ExistsByUsername(ctx context.Context, username string) (bool, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	Create(ctx context.Context, p Profile) (Profile, error)
}

// TokenRepository is a persistence port for AuthToken.
//
// Storage recommendation (Firestore):
// - collection: authTokens
// - docId: token string
// - TTL configured on the "expiresAt" field.
//
// Not-found policy: Get returns (AuthToken{}, ErrNotFound).
type TokenRepository interface {
	Get(ctx context.Context, token string) (AuthToken, error)
	Put(ctx context.Context, t AuthToken) error
	Delete(ctx context.Context, token string) error
}
