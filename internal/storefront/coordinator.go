// Package storefront owns the session/cart consistency protocol: it keeps
// the locally cached cart snapshot, the authoritative server-side cart and
// the bearer token coherent across restarts, network failures and token
// expiry. Every state-changing storefront action goes through the
// Coordinator, and it is the single place that interprets server refusals
// into the closed outcome set.
package storefront

import (
	"context"
	"log"
	"strings"
)

// Coordinator reconciles local state with the server.
//
// Concurrency: operations do not serialize against each other. Snapshot
// writes are wholesale overwrites, so after racing mutations the
// later-arriving response wins and a following LoadCart restores the
// authoritative view.
type Coordinator struct {
	api   Client
	store Store
}

// New builds a Coordinator around an API client and a local store.
func New(api Client, store Store) *Coordinator {
	return &Coordinator{api: api, store: store}
}

// Session returns the stored bearer token, if any.
func (c *Coordinator) Session() (string, bool) {
	tok, ok := c.store.Get(TokenKey)
	if !ok || strings.TrimSpace(tok) == "" {
		return "", false
	}
	return tok, true
}

// CachedCart returns the locally persisted snapshot without touching the
// network: stale-but-available state for instant render.
func (c *Coordinator) CachedCart() CartSnapshot {
	raw, ok := c.store.Get(CartKey)
	if !ok {
		return CartSnapshot{Lines: []CartLine{}}
	}
	return decodeSnapshot(raw)
}

// Login authenticates and stores the minted token.
// A failed login leaves the previous session state untouched.
func (c *Coordinator) Login(ctx context.Context, username, password string) error {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return &ValidationError{Message: "username and password are required"}
	}

	token, err := c.api.Login(ctx, username, password)
	if err != nil {
		return err
	}
	c.store.Set(TokenKey, token)
	return nil
}

// Register creates an account. It does not log in; callers follow up with
// Login on success.
func (c *Coordinator) Register(ctx context.Context, username, email, password string) error {
	username = strings.TrimSpace(username)
	email = strings.TrimSpace(email)
	if username == "" || email == "" || password == "" {
		return &ValidationError{Message: "username, email and password are required"}
	}
	return c.api.Register(ctx, username, email, password)
}

// Logout clears the session. The server-side token discard is best effort;
// local state is cleared regardless.
func (c *Coordinator) Logout(ctx context.Context) {
	if tok, ok := c.Session(); ok {
		if err := c.api.Logout(ctx, tok); err != nil {
			log.Printf("[storefront] WARN: server logout failed: %v", err)
		}
	}
	c.store.Delete(TokenKey)
}

// LoadCart fetches the authoritative cart and overwrites the local snapshot.
//
// Outcomes:
//   - no session: ErrAuthRequired, zero network calls
//   - invalid token: session cleared (nothing else), ErrAuthRequired
//   - transport failure: *NetworkError, previous snapshot untouched
func (c *Coordinator) LoadCart(ctx context.Context) (CartSnapshot, error) {
	tok, ok := c.Session()
	if !ok {
		return CartSnapshot{}, ErrAuthRequired
	}

	lines, err := c.api.Cart(ctx, tok)
	if err != nil {
		if IsAuthRequired(err) {
			c.store.Delete(TokenKey)
			return CartSnapshot{}, ErrAuthRequired
		}
		return CartSnapshot{}, err
	}

	snap := CartSnapshot{Lines: lines}
	c.persistSnapshot(snap)
	return snap, nil
}

// AddItem adds qty of productID to the cart: exactly one network call, no
// implicit retry. On success the local snapshot merges the quantity (summing
// when the product is already present) and is persisted. Rejections leave
// the snapshot unchanged; an invalid-session rejection also clears the
// session.
func (c *Coordinator) AddItem(ctx context.Context, productID string, qty int) (CartSnapshot, error) {
	productID = strings.TrimSpace(productID)
	if productID == "" {
		return CartSnapshot{}, &ValidationError{Message: "productId is required"}
	}
	if qty < 1 {
		return CartSnapshot{}, &ValidationError{Message: "quantity must be at least 1"}
	}

	tok, ok := c.Session()
	if !ok {
		return CartSnapshot{}, ErrAuthRequired
	}

	if err := c.api.AddToCart(ctx, tok, productID, qty); err != nil {
		if IsAuthRequired(err) {
			c.store.Delete(TokenKey)
			return CartSnapshot{}, ErrAuthRequired
		}
		return CartSnapshot{}, err
	}

	snap := c.CachedCart()
	snap.Merge(productID, qty)
	c.persistSnapshot(snap)
	return snap, nil
}

// RemoveItem removes the whole line for productID from server and local
// snapshot. Removing an absent line is a no-op success, so the operation is
// idempotent.
func (c *Coordinator) RemoveItem(ctx context.Context, productID string) (CartSnapshot, error) {
	productID = strings.TrimSpace(productID)
	if productID == "" {
		return CartSnapshot{}, &ValidationError{Message: "productId is required"}
	}

	tok, ok := c.Session()
	if !ok {
		return CartSnapshot{}, ErrAuthRequired
	}

	if err := c.api.RemoveFromCart(ctx, tok, productID); err != nil {
		if IsAuthRequired(err) {
			c.store.Delete(TokenKey)
			return CartSnapshot{}, ErrAuthRequired
		}
		return CartSnapshot{}, err
	}

	snap := c.CachedCart()
	snap.Drop(productID)
	c.persistSnapshot(snap)
	return snap, nil
}

// Checkout turns the cart into an order and returns the order id.
//
// An empty local snapshot short-circuits to the empty-cart rejection with no
// network call: it mirrors the known server-side refusal and saves the round
// trip. The coupon code is trimmed and omitted entirely when blank. Success
// clears the local snapshot (the server cleared its side). Coupon and
// empty-cart refusals leave snapshot and session untouched so the user may
// retry; an invalid session clears the token.
func (c *Coordinator) Checkout(ctx context.Context, couponCode string) (string, error) {
	tok, ok := c.Session()
	if !ok {
		return "", ErrAuthRequired
	}

	if c.CachedCart().Empty() {
		return "", &Rejection{Reason: ReasonEmptyCart, Message: "Cart is empty"}
	}

	orderID, err := c.api.CreateOrder(ctx, tok, strings.TrimSpace(couponCode))
	if err != nil {
		if IsAuthRequired(err) {
			c.store.Delete(TokenKey)
			return "", ErrAuthRequired
		}
		return "", err
	}

	c.store.Delete(CartKey)
	return orderID, nil
}

// Identity verifies the current session against the server.
func (c *Coordinator) Identity(ctx context.Context) (Identity, error) {
	tok, ok := c.Session()
	if !ok {
		return Identity{}, ErrAuthRequired
	}

	id, err := c.api.CheckToken(ctx, tok)
	if err != nil {
		if IsAuthRequired(err) {
			c.store.Delete(TokenKey)
			return Identity{}, ErrAuthRequired
		}
		return Identity{}, err
	}
	return id, nil
}

// Browse and ProductDetail pass through to the API; they carry no session
// or cart state.
func (c *Coordinator) Browse(ctx context.Context) ([]Category, error) {
	return c.api.CategoriesAndProducts(ctx)
}

func (c *Coordinator) ProductDetail(ctx context.Context, id string) (Product, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return Product{}, &ValidationError{Message: "product id is required"}
	}
	return c.api.Product(ctx, id)
}

func (c *Coordinator) persistSnapshot(snap CartSnapshot) {
	raw, err := snap.encode()
	if err != nil {
		log.Printf("[storefront] WARN: persist snapshot failed: %v", err)
		return
	}
	c.store.Set(CartKey, raw)
}
