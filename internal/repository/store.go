package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prasetya/wholesale-coupon-guard/internal/domain"
)

// Store reads the host platform's account directory and coupon
// catalog. The guard never writes either table.
type Store interface {
	AccountByEmail(ctx context.Context, email string) (*domain.Account, error)
	CouponByCode(ctx context.Context, code string) (*domain.Coupon, error)
}

type store struct {
	pool *pgxpool.Pool
}

func New(pool *pgxpool.Pool) Store {
	return &store{pool: pool}
}

func (s *store) AccountByEmail(ctx context.Context, email string) (*domain.Account, error) {
	var account domain.Account
	err := s.pool.QueryRow(ctx,
		`SELECT id, email FROM accounts WHERE lower(email) = lower($1)`,
		email,
	).Scan(&account.ID, &account.Email)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrAccountNotFound
		}
		return nil, fmt.Errorf("query account by email: %w", err)
	}

	rows, err := s.pool.Query(ctx,
		`SELECT role FROM account_roles WHERE account_id = $1 ORDER BY role`,
		account.ID,
	)
	if err != nil {
		return nil, fmt.Errorf("query account roles: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var role string
		if err := rows.Scan(&role); err != nil {
			return nil, fmt.Errorf("scan account role: %w", err)
		}
		account.Roles = append(account.Roles, role)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate account roles: %w", err)
	}

	return &account, nil
}

func (s *store) CouponByCode(ctx context.Context, code string) (*domain.Coupon, error) {
	var coupon domain.Coupon
	err := s.pool.QueryRow(ctx,
		`SELECT code, enabled, expires_at, usage_limit, usage_count FROM coupons WHERE code = $1`,
		code,
	).Scan(&coupon.Code, &coupon.Enabled, &coupon.ExpiresAt, &coupon.UsageLimit, &coupon.UsageCount)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrCouponNotFound
		}
		return nil, fmt.Errorf("query coupon by code: %w", err)
	}
	return &coupon, nil
}
