// Package firestore holds Firestore-backed repositories for the short-lived
// storefront state: carts and auth tokens, both reaped by Firestore TTL on
// their expiresAt fields.
package firestore

import (
	"context"
	"errors"
	"strings"

	"cloud.google.com/go/firestore"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	cartdom "termstore/internal/domain/cart"
)

const cartsCollection = "carts"

// CartRepositoryFS implements cart.Repository.
//
// Collection design:
// - collection: carts
// - docId: profileId (docId is the source of truth for Cart.ID)
// - TTL: configure Firestore TTL on "expiresAt"
type CartRepositoryFS struct {
	Client *firestore.Client
}

func NewCartRepositoryFS(client *firestore.Client) *CartRepositoryFS {
	return &CartRepositoryFS{Client: client}
}

func (r *CartRepositoryFS) col() *firestore.CollectionRef {
	return r.Client.Collection(cartsCollection)
}

// GetByProfileID returns (nil, nil) if not found (nil policy).
func (r *CartRepositoryFS) GetByProfileID(ctx context.Context, profileID string) (*cartdom.Cart, error) {
	if r == nil || r.Client == nil {
		return nil, errors.New("cart_repository_fs: firestore client is nil")
	}
	pid := strings.TrimSpace(profileID)
	if pid == "" {
		return nil, errors.New("cart_repository_fs: profileID is empty")
	}

	snap, err := r.col().Doc(pid).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, nil
		}
		return nil, err
	}

	var c cartdom.Cart
	if err := snap.DataTo(&c); err != nil {
		return nil, err
	}
	// docId is source of truth even when the doc lacks an id field
	c.ID = pid
	return &c, nil
}

// Upsert saves cart by docId=cart.ID (= profileId).
func (r *CartRepositoryFS) Upsert(ctx context.Context, c *cartdom.Cart) error {
	if r == nil || r.Client == nil {
		return errors.New("cart_repository_fs: firestore client is nil")
	}
	if c == nil || strings.TrimSpace(c.ID) == "" {
		return errors.New("cart_repository_fs: cart is nil or has empty id")
	}

	_, err := r.col().Doc(c.ID).Set(ctx, c)
	return err
}

func (r *CartRepositoryFS) DeleteByProfileID(ctx context.Context, profileID string) error {
	if r == nil || r.Client == nil {
		return errors.New("cart_repository_fs: firestore client is nil")
	}
	pid := strings.TrimSpace(profileID)
	if pid == "" {
		return errors.New("cart_repository_fs: profileID is empty")
	}

	_, err := r.col().Doc(pid).Delete(ctx)
	return err
}
