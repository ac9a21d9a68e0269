package telemetry

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// BusinessMetrics holds Prometheus metrics for shop-level observability.
// All cart and order metrics carry the channel label.
type BusinessMetrics struct {
	// Cart
	CartsPickedUp  *prometheus.CounterVec
	CartItemsAdded *prometheus.CounterVec
	CartsDropped   *prometheus.CounterVec
	CouponsApplied *prometheus.CounterVec
	CartsExpired   prometheus.Counter

	// Checkout funnel
	CheckoutStep      *prometheus.CounterVec
	CheckoutCompleted *prometheus.CounterVec
	OrderValue        *prometheus.HistogramVec
	PaymentAttempts   *prometheus.CounterVec

	// Accounts
	Signups       *prometheus.CounterVec
	Logins        *prometheus.CounterVec
	EmailVerified prometheus.Counter

	// Command bus
	CommandsHandled *prometheus.CounterVec
	CommandDuration *prometheus.HistogramVec
}

// NewBusinessMetrics creates the metrics and registers them with reg.
func NewBusinessMetrics(namespace string, reg prometheus.Registerer) *BusinessMetrics {
	if namespace == "" {
		namespace = "shopapi"
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}

	factory := promauto.With(reg)
	subsystem := "business"

	return &BusinessMetrics{
		// =======================================================================
		// Cart
		// =======================================================================
		CartsPickedUp: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "carts_picked_up_total",
				Help:      "Total carts created",
			},
			[]string{"channel"},
		),
		CartItemsAdded: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "cart_items_added_total",
				Help:      "Total add to cart actions",
			},
			[]string{"channel", "kind"}, // kind: simple, variant, options
		),
		CartsDropped: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "carts_dropped_total",
				Help:      "Total carts deleted by their owner",
			},
			[]string{"channel"},
		),
		CouponsApplied: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "coupons_applied_total",
				Help:      "Total coupons applied to carts",
			},
			[]string{"channel", "promotion"},
		),
		CartsExpired: factory.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "carts_expired_total",
				Help:      "Total abandoned carts removed",
			},
		),

		// =======================================================================
		// Checkout
		// =======================================================================
		CheckoutStep: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "checkout_step_total",
				Help:      "Checkout transitions applied",
			},
			[]string{"channel", "step"},
		),
		CheckoutCompleted: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "checkout_completed_total",
				Help:      "Total orders placed",
			},
			[]string{"channel"},
		),
		OrderValue: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "order_value_minor_units",
				Help:      "Placed order totals in minor currency units",
				Buckets:   []float64{1000, 2500, 5000, 10000, 25000, 50000, 100000},
			},
			[]string{"currency"},
		),
		PaymentAttempts: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "payment_attempts_total",
				Help:      "Payment gateway calls by outcome",
			},
			[]string{"gateway", "outcome"},
		),

		// =======================================================================
		// Accounts
		// =======================================================================
		Signups: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "signups_total",
				Help:      "Total customer registrations",
			},
			[]string{"channel"},
		),
		Logins: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "logins_total",
				Help:      "Login attempts by outcome",
			},
			[]string{"outcome"},
		),
		EmailVerified: factory.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "accounts_enabled_total",
				Help:      "Total accounts enabled",
			},
		),

		// =======================================================================
		// Command bus
		// =======================================================================
		CommandsHandled: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "bus",
				Name:      "commands_total",
				Help:      "Commands handled by outcome",
			},
			[]string{"command", "outcome"},
		),
		CommandDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: "bus",
				Name:      "command_duration_seconds",
				Help:      "Command handling latency",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"command"},
		),
	}
}

// ObserveCommand records the outcome and latency of a handled command.
func (m *BusinessMetrics) ObserveCommand(name string, started time.Time, err error) {
	outcome := "success"
	if err != nil {
		outcome = "failure"
	}
	m.CommandsHandled.WithLabelValues(name, outcome).Inc()
	m.CommandDuration.WithLabelValues(name).Observe(time.Since(started).Seconds())
}
