package coupon

import (
	"errors"
	"strings"
	"time"
)

// DiscountType selects how DiscountValue is interpreted.
type DiscountType string

const (
	DiscountFixed   DiscountType = "fixed"
	DiscountPercent DiscountType = "percent"
)

var (
	ErrInvalidCoupon = errors.New("coupon: invalid")
	ErrNotFound      = errors.New("coupon: not found")
)

// Coupon is a discount code with a validity window and an optional usage cap.
type Coupon struct {
	Code          string
	DiscountType  DiscountType
	DiscountValue float64
	ValidFrom     time.Time
	ValidTo       time.Time

	// UsageLimit nil means unlimited.
	UsageLimit *int
	UsedCount  int
}

// Valid reports whether the coupon can be used at now.
func (c Coupon) Valid(now time.Time) bool {
	if now.Before(c.ValidFrom) || now.After(c.ValidTo) {
		return false
	}
	if c.UsageLimit != nil && c.UsedCount >= *c.UsageLimit {
		return false
	}
	return true
}

// Apply returns total after discount, floored at zero.
func (c Coupon) Apply(total float64) float64 {
	switch c.DiscountType {
	case DiscountFixed:
		total -= c.DiscountValue
	case DiscountPercent:
		total *= 1 - c.DiscountValue/100
	}
	if total < 0 {
		return 0
	}
	return total
}

// Normalize trims a user-supplied code. Codes are matched case-sensitively.
func Normalize(code string) string {
	return strings.TrimSpace(code)
}
