package simulation

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"order-fulfillment/types"
)

// previewLimit is the maximum length of a message preview; longer messages
// are cut to 47 characters plus an ellipsis marker.
const previewLimit = 50

// deliveryErrors is the fixed pool of simulated delivery faults. Messages
// mentioning an invalid or blocked recipient are permanent; the rest are
// retryable.
var deliveryErrors = []string{
	"Temporary delivery service unavailable",
	"Rate limit exceeded, please retry later",
	"Customer email address invalid",
	"Customer phone number blocked",
	"Push notification service timeout",
	"Messaging service maintenance in progress",
}

// NotificationConfig holds the fault rate, channel reliabilities, and
// latency range of the simulated notification carrier.
type NotificationConfig struct {
	// DeliveryFaultRate is the probability a delivery attempt fails
	// outright with an error from the fixed pool.
	DeliveryFaultRate float64 `yaml:"delivery_fault_rate"`
	// Channel reliabilities: the probability the preferred channel is
	// used rather than falling back to the next one in the chain
	// (email -> sms, sms -> push, push -> email).
	EmailReliability float64       `yaml:"email_reliability"`
	SMSReliability   float64       `yaml:"sms_reliability"`
	PushReliability  float64       `yaml:"push_reliability"`
	MinDelay         time.Duration `yaml:"min_delay"`
	MaxDelay         time.Duration `yaml:"max_delay"`
}

// DefaultNotificationConfig returns the production simulation rates.
func DefaultNotificationConfig() NotificationConfig {
	return NotificationConfig{
		DeliveryFaultRate: 0.08,
		EmailReliability:  0.95,
		SMSReliability:    0.85,
		PushReliability:   0.70,
		MinDelay:          30 * time.Millisecond,
		MaxDelay:          130 * time.Millisecond,
	}
}

// NotificationSimulator models an external notification carrier.
type NotificationSimulator struct {
	Config NotificationConfig
	Rand   Rand
	// Clock supplies the sent-at timestamp. Defaults to time.Now.
	Clock func() time.Time
}

// Send delivers a customer notification. Unrecognized types and faults
// naming an invalid or blocked recipient fail permanently with a nil
// error; other faults come back as *types.TransientError so the caller's
// retry policy can engage.
func (s *NotificationSimulator) Send(ctx context.Context, req types.NotificationRequest) (types.NotificationOutcome, error) {
	if err := simulateLatency(ctx, s.Rand, s.Config.MinDelay, s.Config.MaxDelay); err != nil {
		return types.NotificationOutcome{}, err
	}

	if !knownNotificationType(req.Type) {
		return types.NotificationOutcome{
			Status:    types.NotificationFailedPermanent,
			Error:     fmt.Sprintf("Invalid notification type: %s", req.Type),
			Retryable: false,
		}, nil
	}

	if s.Rand.Float64() < s.Config.DeliveryFaultRate {
		msg := deliveryErrors[s.Rand.Intn(len(deliveryErrors))]
		retryable := !strings.Contains(msg, "invalid") && !strings.Contains(msg, "blocked")
		outcome := types.NotificationOutcome{
			Error:     msg,
			Retryable: retryable,
		}
		if retryable {
			outcome.Status = types.NotificationFailedRetryable
			return outcome, &types.TransientError{Msg: msg}
		}
		outcome.Status = types.NotificationFailedPermanent
		return outcome, nil
	}

	clock := s.Clock
	if clock == nil {
		clock = time.Now
	}

	return types.NotificationOutcome{
		Status:         types.NotificationSent,
		NotificationID: "ntf_" + uuid.NewString()[:8],
		Channel:        s.resolveChannel(req.PreferredChannel),
		SentAt:         clock(),
		MessagePreview: preview(messageContent(req)),
	}, nil
}

func knownNotificationType(t types.NotificationType) bool {
	switch t {
	case types.NotificationOrderConfirmation,
		types.NotificationOrderFailed,
		types.NotificationPaymentFailed,
		types.NotificationInventoryUnavailable,
		types.NotificationOrderCancelled,
		types.NotificationOrderShipped,
		types.NotificationOrderDelivered:
		return true
	}
	return false
}

// resolveChannel picks the actual delivery channel, falling back along the
// chain when the preferred channel is unavailable. Unknown preferences
// default to email with no fallback.
func (s *NotificationSimulator) resolveChannel(preferred string) string {
	switch preferred {
	case types.ChannelEmail:
		if s.Rand.Float64() < s.Config.EmailReliability {
			return types.ChannelEmail
		}
		return types.ChannelSMS
	case types.ChannelSMS:
		if s.Rand.Float64() < s.Config.SMSReliability {
			return types.ChannelSMS
		}
		return types.ChannelPush
	case types.ChannelPush:
		if s.Rand.Float64() < s.Config.PushReliability {
			return types.ChannelPush
		}
		return types.ChannelEmail
	default:
		return types.ChannelEmail
	}
}

func messageContent(req types.NotificationRequest) string {
	switch req.Type {
	case types.NotificationOrderConfirmation:
		return fmt.Sprintf("Your order %s has been confirmed and is being processed.", req.OrderID)
	case types.NotificationOrderFailed:
		return fmt.Sprintf("We encountered an issue processing your order %s. Please contact support.", req.OrderID)
	case types.NotificationPaymentFailed:
		return fmt.Sprintf("Payment for order %s failed. Please update your payment method.", req.OrderID)
	case types.NotificationInventoryUnavailable:
		return fmt.Sprintf("Some items in order %s are temporarily out of stock. We'll notify you when available.", req.OrderID)
	case types.NotificationOrderCancelled:
		return fmt.Sprintf("Your order %s has been cancelled as requested.", req.OrderID)
	case types.NotificationOrderShipped:
		return fmt.Sprintf("Your order %s has shipped and is on its way to you!", req.OrderID)
	case types.NotificationOrderDelivered:
		return fmt.Sprintf("Your order %s has been delivered. Thank you for your business!", req.OrderID)
	default:
		return fmt.Sprintf("Update regarding your order %s: Status is now %s", req.OrderID, req.OrderStatus)
	}
}

func preview(content string) string {
	if len(content) > previewLimit {
		return content[:previewLimit-3] + "..."
	}
	return content
}
