package simulation

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"order-fulfillment/types"
)

func fixedStock(level int) StockLevelFunc {
	return func(string, time.Time) int { return level }
}

func newInventorySimulator(cfg InventoryConfig, stock int) *InventorySimulator {
	return &InventorySimulator{
		Config: cfg,
		Rand:   &stubRand{},
		Stock:  fixedStock(stock),
	}
}

func TestReserve_Available(t *testing.T) {
	sim := newInventorySimulator(InventoryConfig{}, 10)

	outcome, err := sim.Reserve(context.Background(), types.InventoryRequest{
		OrderID:   "o1",
		ProductID: "sku1",
		Quantity:  2,
	})

	require.NoError(t, err)
	assert.Equal(t, types.InventoryAvailable, outcome.Status)
	assert.Equal(t, 2, outcome.ReservedQuantity)
	assert.Equal(t, 8, outcome.StockLevel)
	assert.Regexp(t, `^rsv_[0-9a-f-]{8}$`, outcome.ReservationID)
	assert.True(t, outcome.Available())
}

func TestReserve_ExactStockIsAvailable(t *testing.T) {
	sim := newInventorySimulator(InventoryConfig{}, 10)

	outcome, err := sim.Reserve(context.Background(), types.InventoryRequest{
		OrderID:   "o1",
		ProductID: "sku1",
		Quantity:  10,
	})

	require.NoError(t, err)
	assert.Equal(t, types.InventoryAvailable, outcome.Status)
	assert.Equal(t, 10, outcome.ReservedQuantity)
	assert.Equal(t, 0, outcome.StockLevel)
}

func TestReserve_InsufficientStock(t *testing.T) {
	sim := newInventorySimulator(InventoryConfig{}, 10)

	outcome, err := sim.Reserve(context.Background(), types.InventoryRequest{
		OrderID:   "o1",
		ProductID: "sku1",
		Quantity:  12,
	})

	require.NoError(t, err)
	assert.Equal(t, types.InventoryInsufficientStock, outcome.Status)
	assert.Equal(t, 10, outcome.StockLevel)
	assert.Equal(t, "Insufficient stock: requested 12, available 10", outcome.UnavailabilityReason)
	assert.Empty(t, outcome.ReservationID)
}

func TestReserve_OutOfStockFault(t *testing.T) {
	sim := newInventorySimulator(InventoryConfig{OutOfStockRate: 1}, 50)

	outcome, err := sim.Reserve(context.Background(), types.InventoryRequest{
		OrderID:   "o1",
		ProductID: "sku1",
		Quantity:  1,
	})

	require.NoError(t, err)
	assert.Equal(t, types.InventoryOutOfStock, outcome.Status)
	assert.Equal(t, 0, outcome.StockLevel)
	assert.Equal(t, "Product temporarily out of stock", outcome.UnavailabilityReason)
}

func TestReserve_TransientServiceError(t *testing.T) {
	sim := newInventorySimulator(InventoryConfig{ErrorRate: 1}, 50)

	outcome, err := sim.Reserve(context.Background(), types.InventoryRequest{
		OrderID:   "o1",
		ProductID: "sku1",
		Quantity:  1,
	})

	var transient *types.TransientError
	require.ErrorAs(t, err, &transient)
	assert.Equal(t, types.InventoryError, outcome.Status)
	assert.Equal(t, "Inventory system temporarily unavailable", outcome.UnavailabilityReason)
}

func TestReserve_CancelledDuringLatency(t *testing.T) {
	sim := &InventorySimulator{
		Config: InventoryConfig{MinDelay: time.Minute, MaxDelay: time.Minute},
		Rand:   &stubRand{},
		Stock:  fixedStock(10),
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := sim.Reserve(ctx, types.InventoryRequest{OrderID: "o1", ProductID: "sku1", Quantity: 1})
	assert.ErrorIs(t, err, context.Canceled)
}
