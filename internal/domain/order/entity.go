package order

import (
	"errors"
	"strings"
	"time"
)

// Status follows the fulfillment lifecycle. Only pending orders may be removed.
type Status string

const (
	StatusPending    Status = "pending"
	StatusProcessing Status = "processing"
	StatusShipped    Status = "shipped"
	StatusDelivered  Status = "delivered"
	StatusCanceled   Status = "canceled"
)

var (
	ErrInvalidOrder  = errors.New("order: invalid")
	ErrNotRemovable  = errors.New("order: not removable")
	ErrInvalidStatus = errors.New("order: invalid status")
)

// Item is one line captured at order time. Price is frozen at the
// product's price when the order was created.
type Item struct {
	ProductID string
	Name      string
	Qty       int
	Price     float64
}

// Total returns Price * Qty for the line.
func (it Item) Total() float64 {
	return it.Price * float64(it.Qty)
}

// Order is a placed order with its captured items.
type Order struct {
	ID         string
	ProfileID  string
	TotalPrice float64
	Status     Status
	CouponCode string
	Items      []Item
	CreatedAt  time.Time
}

// NewOrder builds a pending order from captured items.
// TotalPrice starts as the plain sum; coupon application adjusts it afterwards.
func NewOrder(id, profileID string, items []Item, now time.Time) (Order, error) {
	o := Order{
		ID:        strings.TrimSpace(id),
		ProfileID: strings.TrimSpace(profileID),
		Status:    StatusPending,
		Items:     items,
		CreatedAt: now,
	}
	if o.ID == "" || o.ProfileID == "" || len(o.Items) == 0 {
		return Order{}, ErrInvalidOrder
	}
	for _, it := range o.Items {
		if strings.TrimSpace(it.ProductID) == "" || it.Qty <= 0 || it.Price < 0 {
			return Order{}, ErrInvalidOrder
		}
		o.TotalPrice += it.Total()
	}
	return o, nil
}

// Removable reports whether the order may still be removed by the buyer.
func (o Order) Removable() bool {
	return o.Status == StatusPending
}
