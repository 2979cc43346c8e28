package db

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	dbcommon "termstore/internal/adapters/out/db/common"
	catdom "termstore/internal/domain/catalog"
)

// CatalogRepositoryPG implements catalog.Repository.
type CatalogRepositoryPG struct {
	DB *sql.DB
}

func NewCatalogRepositoryPG(db *sql.DB) *CatalogRepositoryPG {
	return &CatalogRepositoryPG{DB: db}
}

const productColumns = `id, name, description, price, stock, category_id, image_path, created_at`

func (r *CatalogRepositoryPG) ListCategories(ctx context.Context) ([]catdom.Category, error) {
	run := dbcommon.GetRunner(ctx, r.DB)

	const q = `SELECT id, name FROM categories ORDER BY name ASC, id ASC`
	rows, err := run.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []catdom.Category
	for rows.Next() {
		var c catdom.Category
		if err := rows.Scan(&c.ID, &c.Name); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (r *CatalogRepositoryPG) ListProductsByCategory(ctx context.Context, categoryID string) ([]catdom.Product, error) {
	run := dbcommon.GetRunner(ctx, r.DB)

	const q = `
SELECT ` + productColumns + `
FROM products
WHERE category_id = $1
ORDER BY created_at ASC, id ASC
`
	rows, err := run.QueryContext(ctx, q, strings.TrimSpace(categoryID))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []catdom.Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (r *CatalogRepositoryPG) GetProduct(ctx context.Context, id string) (catdom.Product, error) {
	run := dbcommon.GetRunner(ctx, r.DB)

	const q = `SELECT ` + productColumns + ` FROM products WHERE id = $1`
	row := run.QueryRowContext(ctx, q, strings.TrimSpace(id))

	p, err := scanProduct(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return catdom.Product{}, catdom.ErrNotFound
		}
		return catdom.Product{}, err
	}
	return p, nil
}

// AdjustStock applies delta to stock; the WHERE clause refuses a decrement
// past zero so concurrent checkouts cannot oversell.
func (r *CatalogRepositoryPG) AdjustStock(ctx context.Context, productID string, delta int) error {
	run := dbcommon.GetRunner(ctx, r.DB)

	const q = `
UPDATE products
SET stock = stock + $2
WHERE id = $1 AND stock + $2 >= 0
`
	pid := strings.TrimSpace(productID)
	res, err := run.ExecContext(ctx, q, pid, delta)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		// zero rows means either no such product or the guard fired
		var one int
		err := run.QueryRowContext(ctx, `SELECT 1 FROM products WHERE id = $1`, pid).Scan(&one)
		if errors.Is(err, sql.ErrNoRows) {
			return catdom.ErrNotFound
		}
		if err != nil {
			return err
		}
		return catdom.ErrInsufficientStock
	}
	return nil
}

func scanProduct(row dbcommon.RowScanner) (catdom.Product, error) {
	var p catdom.Product
	var categoryID, imagePath sql.NullString
	if err := row.Scan(&p.ID, &p.Name, &p.Description, &p.Price, &p.Stock, &categoryID, &imagePath, &p.CreatedAt); err != nil {
		return catdom.Product{}, err
	}
	p.CategoryID = categoryID.String
	p.ImagePath = imagePath.String
	return p, nil
}
