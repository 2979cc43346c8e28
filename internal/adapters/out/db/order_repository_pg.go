package db

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	dbcommon "termstore/internal/adapters/out/db/common"
	orderdom "termstore/internal/domain/order"
)

// OrderRepositoryPG implements order.Repository across the orders and
// order_items tables. Items are written in the same transaction as the
// order row.
type OrderRepositoryPG struct {
	DB *sql.DB
}

func NewOrderRepositoryPG(db *sql.DB) *OrderRepositoryPG {
	return &OrderRepositoryPG{DB: db}
}

func (r *OrderRepositoryPG) GetByID(ctx context.Context, id string) (orderdom.Order, error) {
	run := dbcommon.GetRunner(ctx, r.DB)

	const q = `
SELECT id, profile_id, total_price, status, coupon_code, created_at
FROM orders
WHERE id = $1
`
	row := run.QueryRowContext(ctx, q, strings.TrimSpace(id))

	o, err := scanOrder(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return orderdom.Order{}, orderdom.ErrNotFound
		}
		return orderdom.Order{}, err
	}

	items, err := r.itemsFor(ctx, run, o.ID)
	if err != nil {
		return orderdom.Order{}, err
	}
	o.Items = items
	return o, nil
}

func (r *OrderRepositoryPG) ListByProfileID(ctx context.Context, profileID string) ([]orderdom.Order, error) {
	run := dbcommon.GetRunner(ctx, r.DB)

	const q = `
SELECT id, profile_id, total_price, status, coupon_code, created_at
FROM orders
WHERE profile_id = $1
ORDER BY created_at DESC, id DESC
`
	rows, err := run.QueryContext(ctx, q, strings.TrimSpace(profileID))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []orderdom.Order
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, o)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range out {
		items, err := r.itemsFor(ctx, run, out[i].ID)
		if err != nil {
			return nil, err
		}
		out[i].Items = items
	}
	return out, nil
}

func (r *OrderRepositoryPG) Create(ctx context.Context, o orderdom.Order) (orderdom.Order, error) {
	// join the caller's transaction when one is in flight, otherwise open
	// our own so the order row and its items stay atomic
	if tx := dbcommon.TxFromCtx(ctx); tx != nil {
		if err := insertOrder(ctx, tx, o); err != nil {
			return orderdom.Order{}, err
		}
		return o, nil
	}

	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return orderdom.Order{}, err
	}
	defer tx.Rollback()

	if err := insertOrder(ctx, tx, o); err != nil {
		return orderdom.Order{}, err
	}
	if err := tx.Commit(); err != nil {
		return orderdom.Order{}, err
	}
	return o, nil
}

func insertOrder(ctx context.Context, run dbcommon.Runner, o orderdom.Order) error {
	const insOrder = `
INSERT INTO orders (id, profile_id, total_price, status, coupon_code, created_at)
VALUES ($1, $2, $3, $4, $5, $6)
`
	var couponCode any
	if o.CouponCode != "" {
		couponCode = o.CouponCode
	}
	if _, err := run.ExecContext(ctx, insOrder, o.ID, o.ProfileID, o.TotalPrice, string(o.Status), couponCode, o.CreatedAt); err != nil {
		if dbcommon.IsUniqueViolation(err) {
			return orderdom.ErrConflict
		}
		return err
	}

	const insItem = `
INSERT INTO order_items (order_id, product_id, name, quantity, price)
VALUES ($1, $2, $3, $4, $5)
`
	for _, it := range o.Items {
		if _, err := run.ExecContext(ctx, insItem, o.ID, it.ProductID, it.Name, it.Qty, it.Price); err != nil {
			return err
		}
	}
	return nil
}

func (r *OrderRepositoryPG) Delete(ctx context.Context, id string) error {
	run := dbcommon.GetRunner(ctx, r.DB)

	// order_items rows go with the order (ON DELETE CASCADE)
	const q = `DELETE FROM orders WHERE id = $1`
	res, err := run.ExecContext(ctx, q, strings.TrimSpace(id))
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return orderdom.ErrNotFound
	}
	return nil
}

func (r *OrderRepositoryPG) itemsFor(ctx context.Context, run dbcommon.Runner, orderID string) ([]orderdom.Item, error) {
	const q = `
SELECT product_id, name, quantity, price
FROM order_items
WHERE order_id = $1
ORDER BY id ASC
`
	rows, err := run.QueryContext(ctx, q, orderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []orderdom.Item
	for rows.Next() {
		var it orderdom.Item
		if err := rows.Scan(&it.ProductID, &it.Name, &it.Qty, &it.Price); err != nil {
			return nil, err
		}
		items = append(items, it)
	}
	return items, rows.Err()
}

func scanOrder(row dbcommon.RowScanner) (orderdom.Order, error) {
	var o orderdom.Order
	var status string
	var couponCode sql.NullString
	if err := row.Scan(&o.ID, &o.ProfileID, &o.TotalPrice, &status, &couponCode, &o.CreatedAt); err != nil {
		return orderdom.Order{}, err
	}
	o.Status = orderdom.Status(status)
	o.CouponCode = couponCode.String
	return o, nil
}
