// Package activities binds the workflow's step providers to Temporal
// activities. Each step is reached only through its provider interface, so
// the probability-based simulators can be swapped for real integrations
// (or test doubles) without touching workflow code.
package activities

import (
	"context"

	"go.temporal.io/sdk/activity"

	"order-fulfillment/metrics"
	"order-fulfillment/types"
)

// InventoryProvider reserves stock for an order.
type InventoryProvider interface {
	Reserve(ctx context.Context, req types.InventoryRequest) (types.InventoryOutcome, error)
}

// PaymentProvider authorizes a charge for an order.
type PaymentProvider interface {
	Charge(ctx context.Context, req types.PaymentRequest) (types.PaymentOutcome, error)
}

// NotificationProvider delivers a customer notification.
type NotificationProvider interface {
	Send(ctx context.Context, req types.NotificationRequest) (types.NotificationOutcome, error)
}

// OrderActivities holds the step providers invoked by the order workflow.
type OrderActivities struct {
	Inventory InventoryProvider
	Payments  PaymentProvider
	Notifier  NotificationProvider
	Metrics   *metrics.StepMetrics
}

// ReserveInventory checks availability and reserves the requested quantity.
func (a *OrderActivities) ReserveInventory(ctx context.Context, req types.InventoryRequest) (types.InventoryOutcome, error) {
	logger := activity.GetLogger(ctx)
	logger.Info("checking inventory",
		"orderID", req.OrderID, "productID", req.ProductID, "quantity", req.Quantity)

	outcome, err := a.Inventory.Reserve(ctx, req)
	a.Metrics.RecordInventory(outcome.Status)

	if err != nil {
		logger.Warn("inventory check failed", "orderID", req.OrderID, "error", err)
		return outcome, err
	}
	logger.Info("inventory check complete",
		"orderID", req.OrderID, "status", outcome.Status, "stockLevel", outcome.StockLevel)
	return outcome, nil
}

// ProcessPayment authorizes a charge against the order amount.
func (a *OrderActivities) ProcessPayment(ctx context.Context, req types.PaymentRequest) (types.PaymentOutcome, error) {
	logger := activity.GetLogger(ctx)
	logger.Info("processing payment", "orderID", req.OrderID, "amount", req.TotalAmount)

	outcome, err := a.Payments.Charge(ctx, req)
	a.Metrics.RecordPayment(outcome.Status)

	if err != nil {
		logger.Warn("payment attempt failed", "orderID", req.OrderID, "error", err)
		return outcome, err
	}
	logger.Info("payment complete",
		"orderID", req.OrderID, "status", outcome.Status, "method", outcome.PaymentMethod)
	return outcome, nil
}

// SendNotification delivers the customer-facing outcome message.
func (a *OrderActivities) SendNotification(ctx context.Context, req types.NotificationRequest) (types.NotificationOutcome, error) {
	logger := activity.GetLogger(ctx)
	logger.Info("sending notification",
		"orderID", req.OrderID, "type", req.Type, "preferredChannel", req.PreferredChannel)

	outcome, err := a.Notifier.Send(ctx, req)
	a.Metrics.RecordNotification(outcome.Status)

	if err != nil {
		logger.Warn("notification attempt failed", "orderID", req.OrderID, "error", err)
		return outcome, err
	}
	logger.Info("notification complete",
		"orderID", req.OrderID, "status", outcome.Status, "channel", outcome.Channel)
	return outcome, nil
}
