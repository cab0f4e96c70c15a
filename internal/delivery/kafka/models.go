package kafka

import "time"

// RemovalEvent is the outbound record produced once per coupon the
// guard strips from a checkout.
type RemovalEvent struct {
	SchemaVersion int       `json:"schema_version"`
	EventID       string    `json:"event_id"`
	SessionID     string    `json:"session_id"`
	CouponCode    string    `json:"coupon_code"`
	BillingEmail  string    `json:"billing_email,omitempty"`
	Reason        string    `json:"reason"`
	RemovedAt     time.Time `json:"removed_at"`
}
