// Package telemetry holds Prometheus metrics for business-level
// observability: the storefront funnel from product view to order handoff.
package telemetry

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// BusinessMetrics tracks the order funnel. HTTP-level metrics live in the
// middleware package; these count domain events.
type BusinessMetrics struct {
	// Product engagement
	ProductViews *prometheus.CounterVec

	// Cart
	CartLineAdds     prometheus.Counter
	CartLineRejected *prometheus.CounterVec

	// Checkout funnel
	CheckoutOpened    prometheus.Counter
	CheckoutAbandoned prometheus.Counter

	// Orders
	OrdersSubmitted *prometheus.CounterVec
	OrderValue      prometheus.Histogram

	// Receipts
	ReceiptUploads *prometheus.CounterVec
}

// NewBusinessMetrics creates and registers the funnel metrics.
func NewBusinessMetrics(namespace string) *BusinessMetrics {
	if namespace == "" {
		namespace = "nayos"
	}

	return &BusinessMetrics{
		ProductViews: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "product_views_total",
				Help:      "Product detail views by slug",
			},
			[]string{"slug"},
		),
		CartLineAdds: promauto.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "cart_line_adds_total",
				Help:      "Configurations successfully added to a cart",
			},
		),
		CartLineRejected: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "cart_line_rejected_total",
				Help:      "Add-to-cart attempts rejected by validation",
			},
			[]string{"reason"},
		),
		CheckoutOpened: promauto.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "checkout_opened_total",
				Help:      "Checkout flows opened",
			},
		),
		CheckoutAbandoned: promauto.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "checkout_abandoned_total",
				Help:      "Checkout flows closed without submitting",
			},
		),
		OrdersSubmitted: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "orders_submitted_total",
				Help:      "Orders handed off to WhatsApp",
			},
			[]string{"payment_method", "delivery_method"},
		),
		OrderValue: promauto.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "order_value_centavos",
				Help:      "Order totals in centavos",
				Buckets:   []float64{10000, 25000, 50000, 100000, 200000, 400000, 800000},
			},
		),
		ReceiptUploads: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "receipt_uploads_total",
				Help:      "Transfer receipt uploads by outcome",
			},
			[]string{"outcome"},
		),
	}
}

// The Record helpers are nil-safe so handlers can run without metrics wired,
// as they do in tests.

func (m *BusinessMetrics) RecordProductView(slug string) {
	if m == nil {
		return
	}
	m.ProductViews.WithLabelValues(slug).Inc()
}

func (m *BusinessMetrics) RecordCartAdd() {
	if m == nil {
		return
	}
	m.CartLineAdds.Inc()
}

func (m *BusinessMetrics) RecordCartRejected(reason string) {
	if m == nil {
		return
	}
	m.CartLineRejected.WithLabelValues(reason).Inc()
}

func (m *BusinessMetrics) RecordCheckoutOpened() {
	if m == nil {
		return
	}
	m.CheckoutOpened.Inc()
}

func (m *BusinessMetrics) RecordCheckoutAbandoned() {
	if m == nil {
		return
	}
	m.CheckoutAbandoned.Inc()
}

func (m *BusinessMetrics) RecordOrderSubmitted(payment, delivery string, totalCents int64) {
	if m == nil {
		return
	}
	m.OrdersSubmitted.WithLabelValues(payment, delivery).Inc()
	m.OrderValue.Observe(float64(totalCents))
}

func (m *BusinessMetrics) RecordReceiptUpload(outcome string) {
	if m == nil {
		return
	}
	m.ReceiptUploads.WithLabelValues(outcome).Inc()
}
