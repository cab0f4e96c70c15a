package kafka

const (
	TopicCouponRemoved = "coupon.removed"

	ReasonWholesaleRestricted = "wholesale_restricted"

	SchemaVersion = 1
)
