// Package metrics exposes prometheus counters for step outcomes. The
// worker serves them on /metrics; activities record into them. A nil
// *StepMetrics is valid and records nothing, so tests can skip wiring.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"

	"order-fulfillment/types"
)

// StepMetrics counts per-step outcomes by status.
type StepMetrics struct {
	inventoryOutcomes    *prometheus.CounterVec
	paymentOutcomes      *prometheus.CounterVec
	notificationOutcomes *prometheus.CounterVec
}

// New registers the step counters with reg and returns them.
func New(reg prometheus.Registerer) *StepMetrics {
	m := &StepMetrics{
		inventoryOutcomes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "order_fulfillment_inventory_outcomes_total",
			Help: "Inventory reservation outcomes by status.",
		}, []string{"status"}),
		paymentOutcomes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "order_fulfillment_payment_outcomes_total",
			Help: "Payment authorization outcomes by status.",
		}, []string{"status"}),
		notificationOutcomes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "order_fulfillment_notification_outcomes_total",
			Help: "Notification delivery outcomes by status.",
		}, []string{"status"}),
	}
	reg.MustRegister(m.inventoryOutcomes, m.paymentOutcomes, m.notificationOutcomes)
	return m
}

// RecordInventory counts one inventory outcome.
func (m *StepMetrics) RecordInventory(status types.InventoryStatus) {
	if m == nil {
		return
	}
	m.inventoryOutcomes.WithLabelValues(string(status)).Inc()
}

// RecordPayment counts one payment outcome.
func (m *StepMetrics) RecordPayment(status types.PaymentStatus) {
	if m == nil {
		return
	}
	m.paymentOutcomes.WithLabelValues(string(status)).Inc()
}

// RecordNotification counts one notification outcome.
func (m *StepMetrics) RecordNotification(status types.NotificationStatus) {
	if m == nil {
		return
	}
	m.notificationOutcomes.WithLabelValues(string(status)).Inc()
}
