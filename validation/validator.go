// Package validation checks the structural and business-rule validity of
// incoming orders. Validation is a pure function of the order: it has no
// external dependencies and is never retried.
package validation

import (
	"fmt"

	"order-fulfillment/types"
)

// maxOrderAmount is the largest total an order may carry, in currency units.
const maxOrderAmount = 10000

// ValidateOrder checks an order against all validation rules and returns
// every violation, not just the first. Item-level errors are prefixed with
// the item's 1-based position.
func ValidateOrder(order types.Order) types.ValidationResult {
	var errs []string

	if order.OrderID == "" {
		errs = append(errs, "Order ID is required")
	}
	if order.CustomerID == "" {
		errs = append(errs, "Customer ID is required")
	}

	if order.TotalAmount <= 0 {
		errs = append(errs, "Total amount must be positive")
	} else if order.TotalAmount > maxOrderAmount {
		errs = append(errs, "Total amount exceeds maximum limit of $10,000")
	}

	if len(order.Items) == 0 {
		errs = append(errs, "At least one item is required")
	}
	for i, item := range order.Items {
		errs = append(errs, validateItem(item, i+1)...)
	}

	return types.ValidationResult{Valid: len(errs) == 0, Errors: errs}
}

func validateItem(item types.OrderItem, ordinal int) []string {
	prefix := fmt.Sprintf("Item %d: ", ordinal)

	var errs []string
	if item.ProductID == "" {
		errs = append(errs, prefix+"Product ID is required")
	}
	if item.Quantity <= 0 {
		errs = append(errs, prefix+"Quantity must be positive")
	}
	if item.Price <= 0 {
		errs = append(errs, prefix+"Price must be positive")
	}
	return errs
}
