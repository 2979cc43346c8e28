// Package db holds the Postgres repositories for durable storefront data:
// profiles, catalog, coupons and orders.
package db

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	dbcommon "termstore/internal/adapters/out/db/common"
	accdom "termstore/internal/domain/account"
)

// ProfileRepositoryPG implements account.ProfileRepository.
type ProfileRepositoryPG struct {
	DB *sql.DB
}

func NewProfileRepositoryPG(db *sql.DB) *ProfileRepositoryPG {
	return &ProfileRepositoryPG{DB: db}
}

const profileColumns = `id, username, email, role, password_hash, created_at`

func (r *ProfileRepositoryPG) GetByID(ctx context.Context, id string) (accdom.Profile, error) {
	run := dbcommon.GetRunner(ctx, r.DB)

	const q = `SELECT ` + profileColumns + ` FROM profiles WHERE id = $1`
	row := run.QueryRowContext(ctx, q, strings.TrimSpace(id))

	p, err := scanProfile(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return accdom.Profile{}, accdom.ErrNotFound
		}
		return accdom.Profile{}, err
	}
	return p, nil
}

func (r *ProfileRepositoryPG) GetByUsername(ctx context.Context, username string) (accdom.Profile, error) {
	run := dbcommon.GetRunner(ctx, r.DB)

	const q = `SELECT ` + profileColumns + ` FROM profiles WHERE username = $1`
	row := run.QueryRowContext(ctx, q, strings.TrimSpace(username))

	p, err := scanProfile(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return accdom.Profile{}, accdom.ErrNotFound
		}
		return accdom.Profile{}, err
	}
	return p, nil
}

func (r *ProfileRepositoryPG) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	return r.exists(ctx, `SELECT 1 FROM profiles WHERE username = $1`, strings.TrimSpace(username))
}

func (r *ProfileRepositoryPG) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	return r.exists(ctx, `SELECT 1 FROM profiles WHERE email = $1`, strings.TrimSpace(email))
}

func (r *ProfileRepositoryPG) exists(ctx context.Context, q, arg string) (bool, error) {
	run := dbcommon.GetRunner(ctx, r.DB)

	var one int
	err := run.QueryRowContext(ctx, q, arg).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func (r *ProfileRepositoryPG) Create(ctx context.Context, p accdom.Profile) (accdom.Profile, error) {
	run := dbcommon.GetRunner(ctx, r.DB)

	const q = `
INSERT INTO profiles (id, username, email, role, password_hash, created_at)
VALUES ($1, $2, $3, $4, $5, $6)
`
	_, err := run.ExecContext(ctx, q, p.ID, p.Username, p.Email, string(p.Role), p.PasswordHash, p.CreatedAt)
	if err != nil {
		if dbcommon.IsUniqueViolation(err) {
			return accdom.Profile{}, accdom.ErrConflict
		}
		return accdom.Profile{}, err
	}
	return p, nil
}

func scanProfile(row dbcommon.RowScanner) (accdom.Profile, error) {
	var p accdom.Profile
	var role string
	if err := row.Scan(&p.ID, &p.Username, &p.Email, &role, &p.PasswordHash, &p.CreatedAt); err != nil {
		return accdom.Profile{}, err
	}
	p.Role = accdom.Role(role)
	return p, nil
}
