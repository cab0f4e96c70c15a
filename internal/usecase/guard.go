package usecase

import (
	"context"
	"errors"
	"fmt"

	"github.com/prasetya/wholesale-coupon-guard/internal/domain"
	"github.com/prasetya/wholesale-coupon-guard/internal/metrics"
	"github.com/prasetya/wholesale-coupon-guard/internal/platform"
	"github.com/prasetya/wholesale-coupon-guard/internal/repository"
	"github.com/rs/zerolog/log"
)

// CheckoutGuard strips applied coupons from checkouts made by
// wholesale accounts. It runs inside the checkout validation phase,
// synchronously, once per submission.
type CheckoutGuard struct {
	gate    *platform.Gate
	session SessionState
	store   repository.Store
	events  RemovalPublisher
}

func NewCheckoutGuard(gate *platform.Gate, session SessionState, store repository.Store, events RemovalPublisher) *CheckoutGuard {
	return &CheckoutGuard{
		gate:    gate,
		session: session,
		store:   store,
		events:  events,
	}
}

// ValidateCheckout walks the session's applied coupons in cart order
// and removes every coupon the billing email is not allowed to keep.
// Coupons the platform itself considers invalid are skipped; the
// host's own invalidation flow owns those. There is no early exit:
// each coupon is decided independently.
func (g *CheckoutGuard) ValidateCheckout(ctx context.Context, sub domain.CheckoutSubmission) error {
	if !g.gate.Enabled() {
		return nil
	}
	if sub.SessionID == "" {
		return domain.ErrMissingSession
	}
	metrics.CheckoutsValidated.Inc()

	codes, err := g.session.AppliedCoupons(ctx, sub.SessionID)
	if err != nil {
		return fmt.Errorf("list applied coupons: %w", err)
	}
	if len(codes) == 0 {
		return nil
	}

	email := sub.BillingEmail()
	for _, code := range codes {
		coupon, err := g.store.CouponByCode(ctx, code)
		if err != nil {
			if errors.Is(err, domain.ErrCouponNotFound) {
				continue
			}
			return fmt.Errorf("look up coupon %q: %w", code, err)
		}
		if !coupon.Valid() {
			continue
		}
		if g.couponsAllowed(ctx, email) {
			continue
		}
		if err := g.removeCoupon(ctx, sub.SessionID, code, email); err != nil {
			return err
		}
	}
	return nil
}

// couponsAllowed decides whether the resolved account may keep
// coupons. Accounts holding a restricted role are denied; emails with
// no account record are denied as well, since a guest checkout cannot
// prove it is not wholesale. Every other account is allowed.
func (g *CheckoutGuard) couponsAllowed(ctx context.Context, email string) bool {
	account, err := g.store.AccountByEmail(ctx, email)
	if err != nil {
		if !errors.Is(err, domain.ErrAccountNotFound) {
			log.Warn().Err(err).Msg("account lookup failed, denying coupons")
		}
		return false
	}
	return !account.HasRestrictedRole()
}

// removeCoupon applies the consequence of a denial: drop the code from
// the cart, queue the shopper-facing notice, and flag the session for
// a totals refresh, in that order.
func (g *CheckoutGuard) removeCoupon(ctx context.Context, sessionID, code, email string) error {
	if err := g.session.RemoveCoupon(ctx, sessionID, code); err != nil {
		return fmt.Errorf("remove coupon %q: %w", code, err)
	}
	notice := domain.Notice{Severity: domain.SeverityError, Message: domain.MsgCouponsBlocked}
	if err := g.session.AddNotice(ctx, sessionID, notice); err != nil {
		return fmt.Errorf("queue removal notice: %w", err)
	}
	if err := g.session.SetFlag(ctx, sessionID, domain.FlagRefreshTotals, true); err != nil {
		return fmt.Errorf("set totals refresh flag: %w", err)
	}

	metrics.CouponsRemoved.Inc()
	log.Info().
		Str("session_id", sessionID).
		Str("coupon", code).
		Msg("removed coupon from wholesale checkout")

	if g.events != nil {
		if err := g.events.CouponRemoved(ctx, sessionID, code, email); err != nil {
			log.Warn().Err(err).Str("coupon", code).Msg("failed to publish coupon removal event")
		}
	}
	return nil
}
