package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	CheckoutsValidated = promauto.NewCounter(prometheus.CounterOpts{
		Name: "coupon_guard_checkouts_validated_total",
		Help: "Checkout submissions inspected by the coupon guard.",
	})

	CouponsRemoved = promauto.NewCounter(prometheus.CounterOpts{
		Name: "coupon_guard_coupons_removed_total",
		Help: "Coupons stripped from checkouts held by restricted accounts.",
	})
)
