package usecase

import (
	"context"
	"errors"
	"strings"

	cartdom "termstore/internal/domain/cart"
	catdom "termstore/internal/domain/catalog"
)

var (
	ErrCartInvalidArgument = errors.New("cart_usecase: invalid argument")
	ErrNotEnoughStock      = errors.New("cart_usecase: not enough stock")
)

// CartLineView is the cart read-model the storefront renders:
// one line joined with its product name and priced totals.
type CartLineView struct {
	ProductID  string
	Name       string
	Price      float64
	Qty        int
	TotalPrice float64
}

// CartUsecase coordinates server-side cart mutations and reads.
type CartUsecase struct {
	carts   cartdom.Repository
	catalog catdom.Repository
	clock   Clock
}

func NewCartUsecase(carts cartdom.Repository, catalog catdom.Repository) *CartUsecase {
	return &CartUsecase{carts: carts, catalog: catalog, clock: systemClock{}}
}

// NewCartUsecaseWithClock is useful for tests.
func NewCartUsecaseWithClock(carts cartdom.Repository, catalog catdom.Repository, clock Clock) *CartUsecase {
	if clock == nil {
		clock = systemClock{}
	}
	return &CartUsecase{carts: carts, catalog: catalog, clock: clock}
}

// AddItem merges qty of productID into the profile's cart.
// The requested quantity plus what the cart already holds must not exceed
// the product's stock.
func (uc *CartUsecase) AddItem(ctx context.Context, profileID, productID string, qty int) (*cartdom.Cart, error) {
	pid := strings.TrimSpace(profileID)
	prod := strings.TrimSpace(productID)
	if pid == "" || prod == "" || qty <= 0 {
		return nil, ErrCartInvalidArgument
	}

	p, err := uc.catalog.GetProduct(ctx, prod)
	if err != nil {
		if errors.Is(err, catdom.ErrNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, err
	}

	now := uc.clock.Now()

	c, err := uc.carts.GetByProfileID(ctx, pid)
	if err != nil {
		return nil, err
	}
	if c == nil {
		c, err = cartdom.NewCart(pid, nil, now)
		if err != nil {
			return nil, err
		}
	}

	if !p.HasStock(c.Qty(prod) + qty) {
		return nil, ErrNotEnoughStock
	}

	if err := c.Add(prod, qty, now); err != nil {
		return nil, err
	}
	if err := uc.carts.Upsert(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

// RemoveItem deletes the whole line for productID. Absent lines are a no-op.
func (uc *CartUsecase) RemoveItem(ctx context.Context, profileID, productID string) (*cartdom.Cart, error) {
	pid := strings.TrimSpace(profileID)
	prod := strings.TrimSpace(productID)
	if pid == "" || prod == "" {
		return nil, ErrCartInvalidArgument
	}

	now := uc.clock.Now()

	c, err := uc.carts.GetByProfileID(ctx, pid)
	if err != nil {
		return nil, err
	}
	if c == nil {
		c, err = cartdom.NewCart(pid, nil, now)
		if err != nil {
			return nil, err
		}
		return c, nil
	}

	if err := c.Remove(prod, now); err != nil {
		return nil, err
	}
	if err := uc.carts.Upsert(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

// Lines returns the priced cart read-model for the profile.
// Lines whose product vanished from the catalog are skipped rather than
// failing the whole read.
func (uc *CartUsecase) Lines(ctx context.Context, profileID string) ([]CartLineView, error) {
	pid := strings.TrimSpace(profileID)
	if pid == "" {
		return nil, ErrCartInvalidArgument
	}

	c, err := uc.carts.GetByProfileID(ctx, pid)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return []CartLineView{}, nil
	}

	out := make([]CartLineView, 0, len(c.Lines))
	for _, ln := range c.Lines {
		p, err := uc.catalog.GetProduct(ctx, ln.ProductID)
		if err != nil {
			if errors.Is(err, catdom.ErrNotFound) {
				continue
			}
			return nil, err
		}
		out = append(out, CartLineView{
			ProductID:  ln.ProductID,
			Name:       p.Name,
			Price:      p.Price,
			Qty:        ln.Qty,
			TotalPrice: p.Price * float64(ln.Qty),
		})
	}
	return out, nil
}
