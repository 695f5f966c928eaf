package simulation

import (
	"context"
	"time"

	"github.com/google/uuid"

	"order-fulfillment/types"
)

// Amount tiers driving decline rules and payment method selection.
const (
	dailyLimit        = 5000
	creditTierFloor   = 100
	transferTierFloor = 1000
)

// PaymentConfig holds the decline rates and latency range of the simulated
// payment gateway.
type PaymentConfig struct {
	// GatewayTimeoutRate is the probability of a transient gateway
	// timeout.
	GatewayTimeoutRate float64 `yaml:"gateway_timeout_rate"`
	// InsufficientFundsRate applies only to amounts over 100.
	InsufficientFundsRate float64 `yaml:"insufficient_funds_rate"`
	// CardDeclinedRate is the probability the issuer declines the card.
	CardDeclinedRate float64       `yaml:"card_declined_rate"`
	MinDelay         time.Duration `yaml:"min_delay"`
	MaxDelay         time.Duration `yaml:"max_delay"`
}

// DefaultPaymentConfig returns the production simulation rates.
func DefaultPaymentConfig() PaymentConfig {
	return PaymentConfig{
		GatewayTimeoutRate:    0.05,
		InsufficientFundsRate: 0.10,
		CardDeclinedRate:      0.05,
		MinDelay:              100 * time.Millisecond,
		MaxDelay:              300 * time.Millisecond,
	}
}

// PaymentSimulator models an external payment gateway.
type PaymentSimulator struct {
	Config PaymentConfig
	Rand   Rand
}

// Charge authorizes a payment for the order amount. Decline rules are
// evaluated in a fixed order and the first match wins; no further draws
// happen once a rule fires. Gateway timeouts come back as
// *types.TransientError so the caller's retry policy can engage; business
// declines return a populated outcome with a nil error.
func (s *PaymentSimulator) Charge(ctx context.Context, req types.PaymentRequest) (types.PaymentOutcome, error) {
	if err := simulateLatency(ctx, s.Rand, s.Config.MinDelay, s.Config.MaxDelay); err != nil {
		return types.PaymentOutcome{}, err
	}

	if req.TotalAmount > dailyLimit {
		return declined(types.DeclineLimitExceeded, "Amount exceeds daily limit"), nil
	}

	if s.Rand.Float64() < s.Config.GatewayTimeoutRate {
		outcome := declined(types.DeclineGatewayTimeout, "Payment gateway timeout")
		return outcome, &types.TransientError{Msg: outcome.ErrorMessage}
	}

	if req.TotalAmount > creditTierFloor && s.Rand.Float64() < s.Config.InsufficientFundsRate {
		return declined(types.DeclineInsufficientFund, "Insufficient funds"), nil
	}

	if s.Rand.Float64() < s.Config.CardDeclinedRate {
		return declined(types.DeclineCardDeclined, "Card declined by issuer"), nil
	}

	return types.PaymentOutcome{
		Status:        types.PaymentApproved,
		TransactionID: "txn_" + uuid.NewString()[:8],
		PaymentMethod: methodForAmount(req.TotalAmount),
	}, nil
}

func declined(code, message string) types.PaymentOutcome {
	return types.PaymentOutcome{
		Status:       types.PaymentDeclined,
		ErrorCode:    code,
		ErrorMessage: message,
	}
}

func methodForAmount(amount float64) string {
	switch {
	case amount > transferTierFloor:
		return types.MethodBankTransfer
	case amount > creditTierFloor:
		return types.MethodCreditCard
	default:
		return types.MethodDebitCard
	}
}
