package cart

import (
	"errors"
	"strings"
	"time"
)

var ErrInvalidCart = errors.New("cart: invalid")

// DefaultCartTTL is the inactivity window after which the cart becomes
// eligible for auto deletion (Firestore TTL should be configured on expiresAt).
const DefaultCartTTL = 7 * 24 * time.Hour

// Line is one product/quantity pairing in a cart.
// Uniqueness is defined by ProductID; adding the same product again
// merges quantities instead of appending a duplicate line.
type Line struct {
	ProductID string `json:"productId" firestore:"productId"`
	Qty       int    `json:"qty" firestore:"qty"`
}

// Cart is "a cart document".
//   - docId = profileId (Firestore)
//   - Lines keep insertion order
//   - ExpiresAt is refreshed on each mutation for Firestore TTL
type Cart struct {
	// ID is Firestore docId (= profileId).
	ID string `json:"id" firestore:"id"`

	Lines []Line `json:"lines" firestore:"lines"`

	CreatedAt time.Time `json:"createdAt" firestore:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt" firestore:"updatedAt"`
	ExpiresAt time.Time `json:"expiresAt" firestore:"expiresAt"`
}

// NewCart creates a new cart doc. lines can be nil (treated as empty).
func NewCart(id string, lines []Line, now time.Time) (*Cart, error) {
	c := &Cart{
		ID:        strings.TrimSpace(id),
		Lines:     cloneLines(lines),
		CreatedAt: now,
		UpdatedAt: now,
		ExpiresAt: now.Add(DefaultCartTTL),
	}
	if err := c.validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// Add increases quantity for productID. qty must be >= 1.
// An existing line keeps its position; a new product appends at the end.
func (c *Cart) Add(productID string, qty int, now time.Time) error {
	if c == nil {
		return ErrInvalidCart
	}
	pid := strings.TrimSpace(productID)
	if pid == "" || qty <= 0 {
		return ErrInvalidCart
	}

	if idx := findLineIndex(c.Lines, pid); idx >= 0 {
		c.Lines[idx].Qty += qty
	} else {
		c.Lines = append(c.Lines, Line{ProductID: pid, Qty: qty})
	}

	c.touch(now)
	return c.validate()
}

// Remove deletes the whole line for productID.
// Removing an absent line is a no-op (idempotent).
func (c *Cart) Remove(productID string, now time.Time) error {
	if c == nil {
		return ErrInvalidCart
	}
	pid := strings.TrimSpace(productID)
	if pid == "" {
		return ErrInvalidCart
	}

	if idx := findLineIndex(c.Lines, pid); idx >= 0 {
		c.Lines = append(c.Lines[:idx], c.Lines[idx+1:]...)
	}

	c.touch(now)
	return c.validate()
}

// Qty returns the quantity for productID, 0 if absent.
func (c *Cart) Qty(productID string) int {
	if c == nil {
		return 0
	}
	if idx := findLineIndex(c.Lines, strings.TrimSpace(productID)); idx >= 0 {
		return c.Lines[idx].Qty
	}
	return 0
}

// Empty reports whether the cart has no lines.
func (c *Cart) Empty() bool {
	return c == nil || len(c.Lines) == 0
}

// ConsumeAll clears the lines for order creation and returns a snapshot.
// Caller creates the order from the snapshot and persists the emptied cart
// in the same request.
func (c *Cart) ConsumeAll(now time.Time) ([]Line, error) {
	if c == nil {
		return nil, ErrInvalidCart
	}

	snap := cloneLines(c.Lines)
	c.Lines = []Line{}

	c.touch(now)
	if err := c.validate(); err != nil {
		return nil, err
	}
	return snap, nil
}

func (c *Cart) touch(now time.Time) {
	c.UpdatedAt = now
	c.ExpiresAt = now.Add(DefaultCartTTL)
}

func (c *Cart) validate() error {
	if c == nil {
		return ErrInvalidCart
	}
	if strings.TrimSpace(c.ID) == "" {
		return ErrInvalidCart
	}
	seen := make(map[string]struct{}, len(c.Lines))
	for _, ln := range c.Lines {
		if strings.TrimSpace(ln.ProductID) == "" || ln.Qty <= 0 {
			return ErrInvalidCart
		}
		if _, dup := seen[ln.ProductID]; dup {
			return ErrInvalidCart
		}
		seen[ln.ProductID] = struct{}{}
	}
	return nil
}

func findLineIndex(lines []Line, productID string) int {
	for i := range lines {
		if lines[i].ProductID == productID {
			return i
		}
	}
	return -1
}

func cloneLines(lines []Line) []Line {
	out := make([]Line, len(lines))
	copy(out, lines)
	return out
}
