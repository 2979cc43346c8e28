package usecase

import (
	"context"
	"errors"
	"maps"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	coupondom "termstore/internal/domain/coupon"
	orderdom "termstore/internal/domain/order"
)

func validCoupon(code string, typ coupondom.DiscountType, value float64) coupondom.Coupon {
	return coupondom.Coupon{
		Code:          code,
		DiscountType:  typ,
		DiscountValue: value,
		ValidFrom:     testNow.Add(-24 * time.Hour),
		ValidTo:       testNow.Add(24 * time.Hour),
	}
}

type orderFixture struct {
	uc      *OrderUsecase
	carts   *fakeCarts
	catalog *fakeCatalog
	coupons *fakeCoupons
	orders  *fakeOrders
}

func newOrderFixture(t *testing.T, coupons ...coupondom.Coupon) orderFixture {
	t.Helper()
	f := orderFixture{
		carts: newFakeCarts(),
		catalog: newFakeCatalog(
			testProduct("p1", "Mug", 10, 5),
			testProduct("p2", "Pen", 5, 5),
		),
		coupons: newFakeCoupons(coupons...),
		orders:  newFakeOrders(),
	}
	f.uc = NewOrderUsecase(f.orders, f.carts, f.catalog, f.coupons).WithClock(fixedClock{testNow})
	return f
}

func (f orderFixture) fillCart(t *testing.T, profileID string) {
	t.Helper()
	cartUC := NewCartUsecaseWithClock(f.carts, f.catalog, fixedClock{testNow})
	_, err := cartUC.AddItem(context.Background(), profileID, "p1", 2)
	require.NoError(t, err)
	_, err = cartUC.AddItem(context.Background(), profileID, "p2", 1)
	require.NoError(t, err)
}

func TestOrderCreate(t *testing.T) {
	f := newOrderFixture(t)
	f.fillCart(t, "prof-1")

	o, err := f.uc.Create(context.Background(), CreateInput{ProfileID: "prof-1"})
	require.NoError(t, err)
	assert.Equal(t, orderdom.StatusPending, o.Status)
	assert.Equal(t, 25.0, o.TotalPrice)
	require.Len(t, o.Items, 2)
	assert.Equal(t, "Mug", o.Items[0].Name)
	assert.Equal(t, 10.0, o.Items[0].Price, "order captures the price at checkout")

	// the cart was consumed in the same request
	c, err := f.carts.GetByProfileID(context.Background(), "prof-1")
	require.NoError(t, err)
	assert.True(t, c.Empty())

	// and stock was decremented
	p1, err := f.catalog.GetProduct(context.Background(), "p1")
	require.NoError(t, err)
	assert.Equal(t, 3, p1.Stock)
}

func TestOrderCreateEmptyCart(t *testing.T) {
	f := newOrderFixture(t)

	_, err := f.uc.Create(context.Background(), CreateInput{ProfileID: "prof-1"})
	require.ErrorIs(t, err, ErrCartEmpty)
}

func TestOrderCreateFixedCoupon(t *testing.T) {
	f := newOrderFixture(t, validCoupon("SAVE10", coupondom.DiscountFixed, 10))
	f.fillCart(t, "prof-1")

	o, err := f.uc.Create(context.Background(), CreateInput{ProfileID: "prof-1", CouponCode: "SAVE10"})
	require.NoError(t, err)
	assert.Equal(t, 15.0, o.TotalPrice)
	assert.Equal(t, "SAVE10", o.CouponCode)

	cp, err := f.coupons.GetByCode(context.Background(), "SAVE10")
	require.NoError(t, err)
	assert.Equal(t, 1, cp.UsedCount)
}

func TestOrderCreatePercentCoupon(t *testing.T) {
	f := newOrderFixture(t, validCoupon("HALF", coupondom.DiscountPercent, 50))
	f.fillCart(t, "prof-1")

	o, err := f.uc.Create(context.Background(), CreateInput{ProfileID: "prof-1", CouponCode: "HALF"})
	require.NoError(t, err)
	assert.Equal(t, 12.5, o.TotalPrice)
}

func TestOrderCreateDiscountFloorsAtZero(t *testing.T) {
	f := newOrderFixture(t, validCoupon("BIG", coupondom.DiscountFixed, 1000))
	f.fillCart(t, "prof-1")

	o, err := f.uc.Create(context.Background(), CreateInput{ProfileID: "prof-1", CouponCode: "BIG"})
	require.NoError(t, err)
	assert.Zero(t, o.TotalPrice)
}

func TestOrderCreateInvalidCoupon(t *testing.T) {
	expired := validCoupon("OLD", coupondom.DiscountFixed, 5)
	expired.ValidTo = testNow.Add(-time.Hour)

	capped := validCoupon("CAPPED", coupondom.DiscountFixed, 5)
	limit := 1
	capped.UsageLimit = &limit
	capped.UsedCount = 1

	f := newOrderFixture(t, expired, capped)
	f.fillCart(t, "prof-1")

	for _, code := range []string{"UNKNOWN", "OLD", "CAPPED"} {
		_, err := f.uc.Create(context.Background(), CreateInput{ProfileID: "prof-1", CouponCode: code})
		assert.ErrorIs(t, err, ErrInvalidCoupon, "code %s", code)
	}

	// a refused coupon leaves the cart intact for retry
	c, err := f.carts.GetByProfileID(context.Background(), "prof-1")
	require.NoError(t, err)
	assert.False(t, c.Empty())
}

func TestOrderCreateCouponCodesAreCaseSensitive(t *testing.T) {
	f := newOrderFixture(t, validCoupon("SAVE10", coupondom.DiscountFixed, 10))
	f.fillCart(t, "prof-1")

	_, err := f.uc.Create(context.Background(), CreateInput{ProfileID: "prof-1", CouponCode: "save10"})
	require.ErrorIs(t, err, ErrInvalidCoupon)
}

type recordingSender struct {
	sent []string
	err  error
}

func (r *recordingSender) Send(_ context.Context, _, to, _, _ string) error {
	r.sent = append(r.sent, to)
	return r.err
}

func TestOrderCreateSendsConfirmationMail(t *testing.T) {
	f := newOrderFixture(t)
	f.fillCart(t, "prof-1")

	sender := &recordingSender{}
	f.uc = f.uc.WithMail(sender, "shop@example.com")

	_, err := f.uc.Create(context.Background(), CreateInput{ProfileID: "prof-1", Email: "a@example.com"})
	require.NoError(t, err)
	assert.Equal(t, []string{"a@example.com"}, sender.sent)
}

func TestOrderCreateMailFailureDoesNotFailCheckout(t *testing.T) {
	f := newOrderFixture(t)
	f.fillCart(t, "prof-1")

	sender := &recordingSender{err: errors.New("smtp down")}
	f.uc = f.uc.WithMail(sender, "shop@example.com")

	_, err := f.uc.Create(context.Background(), CreateInput{ProfileID: "prof-1", Email: "a@example.com"})
	require.NoError(t, err)
}

// memTransactor snapshots the in-memory stores and restores them when fn
// fails, mirroring what the SQL transaction manager does in production.
type memTransactor struct {
	catalog *fakeCatalog
	coupons *fakeCoupons
	orders  *fakeOrders
}

func (m *memTransactor) InTx(ctx context.Context, fn func(ctx context.Context) error) error {
	products := maps.Clone(m.catalog.products)
	byCode := maps.Clone(m.coupons.byCode)
	byID := maps.Clone(m.orders.byID)
	if err := fn(ctx); err != nil {
		m.catalog.products = products
		m.coupons.byCode = byCode
		m.orders.byID = byID
		return err
	}
	return nil
}

func (f orderFixture) withTx() orderFixture {
	f.uc = f.uc.WithTransactor(&memTransactor{
		catalog: f.catalog,
		coupons: f.coupons,
		orders:  f.orders,
	})
	return f
}

func TestOrderCreateStockDrainedAtCheckout(t *testing.T) {
	f := newOrderFixture(t, validCoupon("SAVE10", coupondom.DiscountFixed, 10)).withTx()
	f.fillCart(t, "prof-1")

	// another buyer takes the remaining pens between cart fill and checkout
	require.NoError(t, f.catalog.AdjustStock(context.Background(), "p2", -5))

	_, err := f.uc.Create(context.Background(), CreateInput{ProfileID: "prof-1", CouponCode: "SAVE10"})
	require.ErrorIs(t, err, ErrNotEnoughStock)

	// the mug decrement and the coupon usage rolled back with the failure
	p1, err := f.catalog.GetProduct(context.Background(), "p1")
	require.NoError(t, err)
	assert.Equal(t, 5, p1.Stock)

	cp, err := f.coupons.GetByCode(context.Background(), "SAVE10")
	require.NoError(t, err)
	assert.Zero(t, cp.UsedCount)

	// no order exists and the cart survives for retry
	assert.Empty(t, f.orders.byID)
	c, err := f.carts.GetByProfileID(context.Background(), "prof-1")
	require.NoError(t, err)
	assert.False(t, c.Empty())
}

type failingOrders struct {
	*fakeOrders
	createErr error
}

func (f *failingOrders) Create(ctx context.Context, o orderdom.Order) (orderdom.Order, error) {
	if f.createErr != nil {
		return orderdom.Order{}, f.createErr
	}
	return f.fakeOrders.Create(ctx, o)
}

func TestOrderCreatePersistFailureRollsBack(t *testing.T) {
	f := newOrderFixture(t, validCoupon("SAVE10", coupondom.DiscountFixed, 10))
	orders := &failingOrders{fakeOrders: f.orders, createErr: errors.New("pg down")}
	f.uc = NewOrderUsecase(orders, f.carts, f.catalog, f.coupons).
		WithClock(fixedClock{testNow}).
		WithTransactor(&memTransactor{catalog: f.catalog, coupons: f.coupons, orders: f.orders})
	f.fillCart(t, "prof-1")

	_, err := f.uc.Create(context.Background(), CreateInput{ProfileID: "prof-1", CouponCode: "SAVE10"})
	require.Error(t, err)

	for id, want := range map[string]int{"p1": 5, "p2": 5} {
		p, err := f.catalog.GetProduct(context.Background(), id)
		require.NoError(t, err)
		assert.Equal(t, want, p.Stock, "stock restored for %s", id)
	}

	cp, err := f.coupons.GetByCode(context.Background(), "SAVE10")
	require.NoError(t, err)
	assert.Zero(t, cp.UsedCount)
	assert.Empty(t, f.orders.byID)
}

func TestOrderRemovePendingOnly(t *testing.T) {
	f := newOrderFixture(t)
	f.fillCart(t, "prof-1")

	o, err := f.uc.Create(context.Background(), CreateInput{ProfileID: "prof-1"})
	require.NoError(t, err)

	require.NoError(t, f.uc.Remove(context.Background(), o.ID))
	require.ErrorIs(t, f.uc.Remove(context.Background(), o.ID), ErrOrderNotFound)
}

func TestOrderRemoveNonPending(t *testing.T) {
	f := newOrderFixture(t)
	f.fillCart(t, "prof-1")

	o, err := f.uc.Create(context.Background(), CreateInput{ProfileID: "prof-1"})
	require.NoError(t, err)

	o.Status = orderdom.StatusShipped
	f.orders.byID[o.ID] = o

	require.ErrorIs(t, f.uc.Remove(context.Background(), o.ID), ErrOrderNotRemovable)
}
