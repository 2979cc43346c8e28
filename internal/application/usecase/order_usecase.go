package usecase

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/google/uuid"

	cartdom "termstore/internal/domain/cart"
	catdom "termstore/internal/domain/catalog"
	coupondom "termstore/internal/domain/coupon"
	orderdom "termstore/internal/domain/order"
)

var (
	ErrOrderInvalidArgument = errors.New("order_usecase: invalid argument")
	ErrCartEmpty            = errors.New("order_usecase: cart is empty")
	ErrInvalidCoupon        = errors.New("order_usecase: invalid coupon")
	ErrOrderNotFound        = errors.New("order_usecase: order not found")
	ErrOrderNotRemovable    = errors.New("order_usecase: order cannot be removed")
)

// EmailSender is an outbound port for transactional mail.
type EmailSender interface {
	Send(ctx context.Context, from, to, subject, body string) error
}

// Transactor runs fn atomically; every write inside either commits as a
// unit or rolls back together.
type Transactor interface {
	InTx(ctx context.Context, fn func(ctx context.Context) error) error
}

// OrderUsecase orchestrates "cart -> order" checkout and order removal.
type OrderUsecase struct {
	orders  orderdom.Repository
	carts   cartdom.Repository
	catalog catdom.Repository
	coupons coupondom.Repository
	clock   Clock

	// mail is optional; nil disables confirmation mail.
	mail     EmailSender
	mailFrom string

	// tx is optional; nil runs checkout writes without a transaction.
	tx Transactor
}

func NewOrderUsecase(
	orders orderdom.Repository,
	carts cartdom.Repository,
	catalog catdom.Repository,
	coupons coupondom.Repository,
) *OrderUsecase {
	return &OrderUsecase{
		orders:  orders,
		carts:   carts,
		catalog: catalog,
		coupons: coupons,
		clock:   systemClock{},
	}
}

// WithMail enables best-effort confirmation mail after checkout.
func (uc *OrderUsecase) WithMail(sender EmailSender, from string) *OrderUsecase {
	uc.mail = sender
	uc.mailFrom = strings.TrimSpace(from)
	return uc
}

// WithClock is useful for tests.
func (uc *OrderUsecase) WithClock(clock Clock) *OrderUsecase {
	if clock != nil {
		uc.clock = clock
	}
	return uc
}

// WithTransactor makes checkout writes atomic.
func (uc *OrderUsecase) WithTransactor(tx Transactor) *OrderUsecase {
	uc.tx = tx
	return uc
}

func (uc *OrderUsecase) inTx(ctx context.Context, fn func(ctx context.Context) error) error {
	if uc.tx == nil {
		return fn(ctx)
	}
	return uc.tx.InTx(ctx, fn)
}

// CreateInput carries checkout parameters.
// CouponCode is optional; blank (after trimming) means no coupon.
// Email is used for the confirmation mail when mail is configured.
type CreateInput struct {
	ProfileID  string
	CouponCode string
	Email      string
}

// Create turns the profile's cart into a pending order:
// 1) reject when the cart is empty
// 2) capture lines with current catalog prices
// 3) apply the coupon (exact code match, validity window, usage cap)
// 4) decrement stock, persist the order, consume the cart
// 5) best-effort confirmation mail
func (uc *OrderUsecase) Create(ctx context.Context, in CreateInput) (orderdom.Order, error) {
	pid := strings.TrimSpace(in.ProfileID)
	if pid == "" {
		return orderdom.Order{}, ErrOrderInvalidArgument
	}

	c, err := uc.carts.GetByProfileID(ctx, pid)
	if err != nil {
		return orderdom.Order{}, err
	}
	if c.Empty() {
		return orderdom.Order{}, ErrCartEmpty
	}

	now := uc.clock.Now()

	items := make([]orderdom.Item, 0, len(c.Lines))
	for _, ln := range c.Lines {
		p, err := uc.catalog.GetProduct(ctx, ln.ProductID)
		if err != nil {
			if errors.Is(err, catdom.ErrNotFound) {
				return orderdom.Order{}, ErrProductNotFound
			}
			return orderdom.Order{}, err
		}
		items = append(items, orderdom.Item{
			ProductID: p.ID,
			Name:      p.Name,
			Qty:       ln.Qty,
			Price:     p.Price,
		})
	}

	o, err := orderdom.NewOrder(uuid.NewString(), pid, items, now)
	if err != nil {
		return orderdom.Order{}, err
	}

	code := coupondom.Normalize(in.CouponCode)
	if code != "" {
		cp, err := uc.coupons.GetByCode(ctx, code)
		if err != nil {
			if errors.Is(err, coupondom.ErrNotFound) {
				return orderdom.Order{}, ErrInvalidCoupon
			}
			return orderdom.Order{}, err
		}
		if !cp.Valid(now) {
			return orderdom.Order{}, ErrInvalidCoupon
		}
		o.CouponCode = cp.Code
		o.TotalPrice = cp.Apply(o.TotalPrice)
	}

	// coupon usage, stock decrements and the order row commit (or roll
	// back) together
	var created orderdom.Order
	err = uc.inTx(ctx, func(ctx context.Context) error {
		if o.CouponCode != "" {
			if err := uc.coupons.IncrementUsage(ctx, o.CouponCode); err != nil {
				return err
			}
		}
		for _, it := range o.Items {
			if err := uc.catalog.AdjustStock(ctx, it.ProductID, -it.Qty); err != nil {
				if errors.Is(err, catdom.ErrInsufficientStock) {
					return ErrNotEnoughStock
				}
				if errors.Is(err, catdom.ErrNotFound) {
					return ErrProductNotFound
				}
				return err
			}
		}
		var err error
		created, err = uc.orders.Create(ctx, o)
		return err
	})
	if err != nil {
		return orderdom.Order{}, err
	}

	// consume the cart in the same request
	if _, err := c.ConsumeAll(now); err != nil {
		return orderdom.Order{}, err
	}
	if err := uc.carts.Upsert(ctx, c); err != nil {
		return orderdom.Order{}, err
	}

	uc.sendConfirmation(ctx, created, strings.TrimSpace(in.Email))

	return created, nil
}

// Remove deletes a buyer's order while it is still pending.
func (uc *OrderUsecase) Remove(ctx context.Context, orderID string) error {
	id := strings.TrimSpace(orderID)
	if id == "" {
		return ErrOrderInvalidArgument
	}

	o, err := uc.orders.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, orderdom.ErrNotFound) {
			return ErrOrderNotFound
		}
		return err
	}
	if !o.Removable() {
		return ErrOrderNotRemovable
	}
	return uc.orders.Delete(ctx, id)
}

func (uc *OrderUsecase) sendConfirmation(ctx context.Context, o orderdom.Order, to string) {
	if uc.mail == nil || uc.mailFrom == "" || to == "" {
		return
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Order %s confirmed.\n\n", o.ID)
	for _, it := range o.Items {
		fmt.Fprintf(&b, "  %s x%d  %.2f\n", it.Name, it.Qty, it.Total())
	}
	fmt.Fprintf(&b, "\nTotal: %.2f\n", o.TotalPrice)

	if err := uc.mail.Send(ctx, uc.mailFrom, to, "Your order "+o.ID, b.String()); err != nil {
		// mail failure must not fail checkout
		log.Printf("[order_uc] WARN: confirmation mail failed orderId=%s err=%v", o.ID, err)
	}
}
