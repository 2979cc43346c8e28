package db

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	dbcommon "termstore/internal/adapters/out/db/common"
	coupondom "termstore/internal/domain/coupon"
)

// CouponRepositoryPG implements coupon.Repository.
type CouponRepositoryPG struct {
	DB *sql.DB
}

func NewCouponRepositoryPG(db *sql.DB) *CouponRepositoryPG {
	return &CouponRepositoryPG{DB: db}
}

func (r *CouponRepositoryPG) GetByCode(ctx context.Context, code string) (coupondom.Coupon, error) {
	run := dbcommon.GetRunner(ctx, r.DB)

	const q = `
SELECT code, discount_type, discount_value, valid_from, valid_to, usage_limit, used_count
FROM coupons
WHERE code = $1
`
	row := run.QueryRowContext(ctx, q, strings.TrimSpace(code))

	var c coupondom.Coupon
	var discountType string
	var usageLimit sql.NullInt64
	err := row.Scan(&c.Code, &discountType, &c.DiscountValue, &c.ValidFrom, &c.ValidTo, &usageLimit, &c.UsedCount)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return coupondom.Coupon{}, coupondom.ErrNotFound
		}
		return coupondom.Coupon{}, err
	}
	c.DiscountType = coupondom.DiscountType(discountType)
	if usageLimit.Valid {
		limit := int(usageLimit.Int64)
		c.UsageLimit = &limit
	}
	return c, nil
}

func (r *CouponRepositoryPG) IncrementUsage(ctx context.Context, code string) error {
	run := dbcommon.GetRunner(ctx, r.DB)

	const q = `UPDATE coupons SET used_count = used_count + 1 WHERE code = $1`
	res, err := run.ExecContext(ctx, q, strings.TrimSpace(code))
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return coupondom.ErrNotFound
	}
	return nil
}
