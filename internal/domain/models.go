package domain

import (
	"errors"
	"strings"
	"time"
)

var (
	ErrAccountNotFound = errors.New("no account matches this email")
	ErrCouponNotFound  = errors.New("coupon not found")
	ErrMissingSession  = errors.New("checkout submission has no session id")
)

// WholesaleRole is the account label that disqualifies a shopper from
// using discount coupons. The restricted set is a constant, not
// configuration.
const WholesaleRole = "wholesale"

var RestrictedRoles = []string{WholesaleRole}

// MsgCouponsBlocked is the shopper-facing notice queued whenever a
// coupon is stripped from a wholesale checkout.
const MsgCouponsBlocked = "Sorry, coupons are not available for wholesale customers."

// FlagRefreshTotals asks the storefront to recompute displayed cart
// totals on the next render.
const FlagRefreshTotals = "refresh_totals"

type Account struct {
	ID    int64
	Email string
	Roles []string
}

// HasRestrictedRole reports whether the account's role set intersects
// the restricted set.
func (a *Account) HasRestrictedRole() bool {
	for _, role := range a.Roles {
		for _, restricted := range RestrictedRoles {
			if role == restricted {
				return true
			}
		}
	}
	return false
}

// Coupon mirrors the host platform's own validity rules: a coupon is
// usable while it is enabled, unexpired, and under its usage cap.
type Coupon struct {
	Code       string
	Enabled    bool
	ExpiresAt  *time.Time
	UsageLimit int
	UsageCount int
}

func (c *Coupon) Valid() bool {
	if !c.Enabled {
		return false
	}
	if c.ExpiresAt != nil && !c.ExpiresAt.After(time.Now().UTC()) {
		return false
	}
	if c.UsageLimit > 0 && c.UsageCount >= c.UsageLimit {
		return false
	}
	return true
}

type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
)

// Notice is a severity-tagged message queued for display on the
// checkout page of one session.
type Notice struct {
	Severity Severity `json:"severity"`
	Message  string   `json:"message"`
}

// CheckoutSubmission is the per-request field map posted by the
// storefront during its checkout validation phase.
type CheckoutSubmission struct {
	SessionID string
	Fields    map[string]string
}

// BillingEmail returns the submitted billing email, lower-cased for
// account lookup, or "" when the field is absent. A missing field is
// not an error here; the storefront's own field validation owns that.
func (s CheckoutSubmission) BillingEmail() string {
	return strings.ToLower(strings.TrimSpace(s.Fields["billing_email"]))
}
