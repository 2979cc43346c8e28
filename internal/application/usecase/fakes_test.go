package usecase

import (
	"context"
	"time"

	accdom "termstore/internal/domain/account"
	cartdom "termstore/internal/domain/cart"
	catdom "termstore/internal/domain/catalog"
	coupondom "termstore/internal/domain/coupon"
	orderdom "termstore/internal/domain/order"
)

// fixedClock pins Now for deterministic TTL and validity checks.
type fixedClock struct{ now time.Time }

func (c fixedClock) Now() time.Time { return c.now }

var testNow = time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)

// ---- account ----

type fakeProfiles struct {
	byID map[string]accdom.Profile
}

func newFakeProfiles() *fakeProfiles {
	return &fakeProfiles{byID: map[string]accdom.Profile{}}
}

func (f *fakeProfiles) GetByID(_ context.Context, id string) (accdom.Profile, error) {
	p, ok := f.byID[id]
	if !ok {
		return accdom.Profile{}, accdom.ErrNotFound
	}
	return p, nil
}

func (f *fakeProfiles) GetByUsername(_ context.Context, username string) (accdom.Profile, error) {
	for _, p := range f.byID {
		if p.Username == username {
			return p, nil
		}
	}
	return accdom.Profile{}, accdom.ErrNotFound
}

func (f *fakeProfiles) ExistsByUsername(_ context.Context, username string) (bool, error) {
	for _, p := range f.byID {
		if p.Username == username {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeProfiles) ExistsByEmail(_ context.Context, email string) (bool, error) {
	for _, p := range f.byID {
		if p.Email == email {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeProfiles) Create(_ context.Context, p accdom.Profile) (accdom.Profile, error) {
	f.byID[p.ID] = p
	return p, nil
}

type fakeTokens struct {
	byToken map[string]accdom.AuthToken
}

func newFakeTokens() *fakeTokens {
	return &fakeTokens{byToken: map[string]accdom.AuthToken{}}
}

func (f *fakeTokens) Get(_ context.Context, token string) (accdom.AuthToken, error) {
	t, ok := f.byToken[token]
	if !ok {
		return accdom.AuthToken{}, accdom.ErrNotFound
	}
	return t, nil
}

func (f *fakeTokens) Put(_ context.Context, t accdom.AuthToken) error {
	f.byToken[t.Token] = t
	return nil
}

func (f *fakeTokens) Delete(_ context.Context, token string) error {
	delete(f.byToken, token)
	return nil
}

// ---- cart ----

type fakeCarts struct {
	byProfile map[string]*cartdom.Cart
}

func newFakeCarts() *fakeCarts {
	return &fakeCarts{byProfile: map[string]*cartdom.Cart{}}
}

func (f *fakeCarts) GetByProfileID(_ context.Context, profileID string) (*cartdom.Cart, error) {
	return f.byProfile[profileID], nil
}

func (f *fakeCarts) Upsert(_ context.Context, c *cartdom.Cart) error {
	f.byProfile[c.ID] = c
	return nil
}

func (f *fakeCarts) DeleteByProfileID(_ context.Context, profileID string) error {
	delete(f.byProfile, profileID)
	return nil
}

// ---- catalog ----

type fakeCatalog struct {
	categories []catdom.Category
	products   map[string]catdom.Product
}

func newFakeCatalog(products ...catdom.Product) *fakeCatalog {
	f := &fakeCatalog{products: map[string]catdom.Product{}}
	for _, p := range products {
		f.products[p.ID] = p
	}
	return f
}

func (f *fakeCatalog) ListCategories(_ context.Context) ([]catdom.Category, error) {
	return f.categories, nil
}

func (f *fakeCatalog) ListProductsByCategory(_ context.Context, categoryID string) ([]catdom.Product, error) {
	var out []catdom.Product
	for _, p := range f.products {
		if p.CategoryID == categoryID {
			out = append(out, p)
		}
	}
	return out, nil
}

func (f *fakeCatalog) GetProduct(_ context.Context, id string) (catdom.Product, error) {
	p, ok := f.products[id]
	if !ok {
		return catdom.Product{}, catdom.ErrNotFound
	}
	return p, nil
}

func (f *fakeCatalog) AdjustStock(_ context.Context, productID string, delta int) error {
	p, ok := f.products[productID]
	if !ok {
		return catdom.ErrNotFound
	}
	if p.Stock+delta < 0 {
		return catdom.ErrInsufficientStock
	}
	p.Stock += delta
	f.products[productID] = p
	return nil
}

// ---- coupon ----

type fakeCoupons struct {
	byCode map[string]coupondom.Coupon
}

func newFakeCoupons(coupons ...coupondom.Coupon) *fakeCoupons {
	f := &fakeCoupons{byCode: map[string]coupondom.Coupon{}}
	for _, c := range coupons {
		f.byCode[c.Code] = c
	}
	return f
}

func (f *fakeCoupons) GetByCode(_ context.Context, code string) (coupondom.Coupon, error) {
	c, ok := f.byCode[code]
	if !ok {
		return coupondom.Coupon{}, coupondom.ErrNotFound
	}
	return c, nil
}

func (f *fakeCoupons) IncrementUsage(_ context.Context, code string) error {
	c, ok := f.byCode[code]
	if !ok {
		return coupondom.ErrNotFound
	}
	c.UsedCount++
	f.byCode[code] = c
	return nil
}

// ---- order ----

type fakeOrders struct {
	byID map[string]orderdom.Order
}

func newFakeOrders() *fakeOrders {
	return &fakeOrders{byID: map[string]orderdom.Order{}}
}

func (f *fakeOrders) GetByID(_ context.Context, id string) (orderdom.Order, error) {
	o, ok := f.byID[id]
	if !ok {
		return orderdom.Order{}, orderdom.ErrNotFound
	}
	return o, nil
}

func (f *fakeOrders) ListByProfileID(_ context.Context, profileID string) ([]orderdom.Order, error) {
	var out []orderdom.Order
	for _, o := range f.byID {
		if o.ProfileID == profileID {
			out = append(out, o)
		}
	}
	return out, nil
}

func (f *fakeOrders) Create(_ context.Context, o orderdom.Order) (orderdom.Order, error) {
	f.byID[o.ID] = o
	return o, nil
}

func (f *fakeOrders) Delete(_ context.Context, id string) error {
	if _, ok := f.byID[id]; !ok {
		return orderdom.ErrNotFound
	}
	delete(f.byID, id)
	return nil
}
