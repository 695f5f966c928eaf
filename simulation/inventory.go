package simulation

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"order-fulfillment/types"
)

// InventoryConfig holds the fault rates and latency range of the simulated
// inventory store.
type InventoryConfig struct {
	// OutOfStockRate is the probability a product is reported out of
	// stock regardless of its computed stock level.
	OutOfStockRate float64 `yaml:"out_of_stock_rate"`
	// ErrorRate is the probability of a transient service error.
	ErrorRate float64       `yaml:"error_rate"`
	MinDelay  time.Duration `yaml:"min_delay"`
	MaxDelay  time.Duration `yaml:"max_delay"`
}

// DefaultInventoryConfig returns the production simulation rates.
func DefaultInventoryConfig() InventoryConfig {
	return InventoryConfig{
		OutOfStockRate: 0.15,
		ErrorRate:      0.02,
		MinDelay:       50 * time.Millisecond,
		MaxDelay:       200 * time.Millisecond,
	}
}

// InventorySimulator models an external inventory store. Stock levels are a
// pure function of product ID and time bucket, never of shared state, so
// concurrent executions stay isolated.
type InventorySimulator struct {
	Config InventoryConfig
	Rand   Rand
	// Clock supplies the time used for stock derivation. Defaults to
	// time.Now.
	Clock func() time.Time
	// Stock overrides stock derivation. Defaults to DerivedStockLevel.
	Stock StockLevelFunc
}

// Reserve checks availability for the requested quantity and reserves it.
// Transient service errors come back as *types.TransientError so the
// caller's retry policy can engage; every other path returns a populated
// outcome with a nil error.
func (s *InventorySimulator) Reserve(ctx context.Context, req types.InventoryRequest) (types.InventoryOutcome, error) {
	if err := simulateLatency(ctx, s.Rand, s.Config.MinDelay, s.Config.MaxDelay); err != nil {
		return types.InventoryOutcome{}, err
	}

	clock := s.Clock
	if clock == nil {
		clock = time.Now
	}
	stock := s.Stock
	if stock == nil {
		stock = DerivedStockLevel
	}

	level := stock(req.ProductID, clock())

	if s.Rand.Float64() < s.Config.OutOfStockRate {
		return types.InventoryOutcome{
			Status:               types.InventoryOutOfStock,
			StockLevel:           0,
			UnavailabilityReason: "Product temporarily out of stock",
		}, nil
	}

	if req.Quantity > level {
		return types.InventoryOutcome{
			Status:     types.InventoryInsufficientStock,
			StockLevel: level,
			UnavailabilityReason: fmt.Sprintf(
				"Insufficient stock: requested %d, available %d", req.Quantity, level),
		}, nil
	}

	if s.Rand.Float64() < s.Config.ErrorRate {
		outcome := types.InventoryOutcome{
			Status:               types.InventoryError,
			StockLevel:           level,
			UnavailabilityReason: "Inventory system temporarily unavailable",
		}
		return outcome, &types.TransientError{Msg: outcome.UnavailabilityReason}
	}

	return types.InventoryOutcome{
		Status:           types.InventoryAvailable,
		ReservationID:    "rsv_" + uuid.NewString()[:8],
		ReservedQuantity: req.Quantity,
		StockLevel:       level - req.Quantity,
	}, nil
}
