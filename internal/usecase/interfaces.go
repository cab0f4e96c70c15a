package usecase

import (
	"context"

	"github.com/prasetya/wholesale-coupon-guard/internal/domain"
)

// CartStore exposes the per-session applied-coupon collection. Codes
// come back in cart order; removal by value is a no-op for absent
// codes.
type CartStore interface {
	AppliedCoupons(ctx context.Context, sessionID string) ([]string, error)
	ApplyCoupon(ctx context.Context, sessionID, code string) error
	RemoveCoupon(ctx context.Context, sessionID, code string) error
}

// NoticeQueue queues shopper-facing messages for one session's
// checkout page.
type NoticeQueue interface {
	AddNotice(ctx context.Context, sessionID string, notice domain.Notice) error
	Notices(ctx context.Context, sessionID string) ([]domain.Notice, error)
}

// SessionFlags is the session-scoped boolean flag store.
type SessionFlags interface {
	SetFlag(ctx context.Context, sessionID, key string, value bool) error
	Flag(ctx context.Context, sessionID, key string) (bool, error)
}

// SessionState is what the storefront session backend provides to the
// guard.
type SessionState interface {
	CartStore
	NoticeQueue
	SessionFlags
}

// RemovalPublisher receives one event per stripped coupon. Publishing
// is best effort; failures never change the checkout outcome.
type RemovalPublisher interface {
	CouponRemoved(ctx context.Context, sessionID, code, email string) error
}
