// Package metrics registers the service's Prometheus collectors.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "storefront_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "route", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "storefront_http_request_duration_seconds",
			Help:    "Duration of HTTP requests",
			Buckets: []float64{0.005, 0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		},
		[]string{"method", "route", "status"},
	)

	cartOperations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "storefront_cart_operations_total",
			Help: "Total number of cart state transitions",
		},
		[]string{"action"},
	)

	ordersPlaced = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "storefront_orders_placed_total",
			Help: "Total number of checkouts by order kind and result",
		},
		[]string{"kind", "status"},
	)

	orderValue = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "storefront_order_grand_total",
			Help:    "Grand total of placed orders",
			Buckets: prometheus.ExponentialBuckets(10, 2, 10),
		},
	)
)

func RecordCartOperation(action string) {
	cartOperations.WithLabelValues(action).Inc()
}

// RecordOrder counts a checkout attempt. grandTotal is observed only for
// successful ones.
func RecordOrder(isCartOrder bool, success bool, grandTotal float64) {
	kind := "buy_now"
	if isCartOrder {
		kind = "cart"
	}

	status := "success"
	if !success {
		status = "error"
	}

	ordersPlaced.WithLabelValues(kind, status).Inc()

	if success {
		orderValue.Observe(grandTotal)
	}
}
