package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"order-fulfillment/types"
)

func validOrder() types.Order {
	return types.Order{
		OrderID:     "order-123",
		CustomerID:  "customer-456",
		TotalAmount: 50,
		Items: []types.OrderItem{
			{ProductID: "product-1", Quantity: 2, Price: 25},
		},
	}
}

func TestValidateOrder_Valid(t *testing.T) {
	result := ValidateOrder(validOrder())

	assert.True(t, result.Valid)
	assert.Empty(t, result.Errors)
}

func TestValidateOrder_AmountBoundaries(t *testing.T) {
	tests := []struct {
		name    string
		amount  float64
		valid   bool
		wantErr string
	}{
		{name: "exactly at limit", amount: 10000, valid: true},
		{name: "just over limit", amount: 10000.01, valid: false, wantErr: "Total amount exceeds maximum limit of $10,000"},
		{name: "zero", amount: 0, valid: false, wantErr: "Total amount must be positive"},
		{name: "negative", amount: -5, valid: false, wantErr: "Total amount must be positive"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			order := validOrder()
			order.TotalAmount = tt.amount

			result := ValidateOrder(order)

			assert.Equal(t, tt.valid, result.Valid)
			if tt.wantErr != "" {
				assert.Contains(t, result.Errors, tt.wantErr)
			}
		})
	}
}

func TestValidateOrder_MissingFields(t *testing.T) {
	result := ValidateOrder(types.Order{})

	require.False(t, result.Valid)
	assert.Contains(t, result.Errors, "Order ID is required")
	assert.Contains(t, result.Errors, "Customer ID is required")
	assert.Contains(t, result.Errors, "Total amount must be positive")
	assert.Contains(t, result.Errors, "At least one item is required")
}

func TestValidateOrder_ItemErrorsCarryOrdinal(t *testing.T) {
	order := validOrder()
	order.Items = []types.OrderItem{
		{ProductID: "product-1", Quantity: 2, Price: 25},
		{ProductID: "", Quantity: 0, Price: -1},
	}

	result := ValidateOrder(order)

	require.False(t, result.Valid)
	assert.Contains(t, result.Errors, "Item 2: Product ID is required")
	assert.Contains(t, result.Errors, "Item 2: Quantity must be positive")
	assert.Contains(t, result.Errors, "Item 2: Price must be positive")
}

func TestValidateOrder_CollectsAllViolations(t *testing.T) {
	order := types.Order{
		TotalAmount: -10,
		Items: []types.OrderItem{
			{ProductID: "", Quantity: -1, Price: 0},
		},
	}

	result := ValidateOrder(order)

	require.False(t, result.Valid)
	// order ID, customer ID, amount, plus three item errors
	assert.Len(t, result.Errors, 6)
}

func TestValidateOrder_Idempotent(t *testing.T) {
	order := validOrder()
	order.Items = append(order.Items, types.OrderItem{})

	first := ValidateOrder(order)
	second := ValidateOrder(order)

	assert.Equal(t, first, second)
}
