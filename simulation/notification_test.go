package simulation

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"order-fulfillment/types"
)

var sentAt = time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

func newNotificationSimulator(cfg NotificationConfig, r Rand) *NotificationSimulator {
	return &NotificationSimulator{
		Config: cfg,
		Rand:   r,
		Clock:  func() time.Time { return sentAt },
	}
}

func TestSend_UnknownTypeFailsPermanently(t *testing.T) {
	sim := newNotificationSimulator(NotificationConfig{}, &stubRand{})

	outcome, err := sim.Send(context.Background(), types.NotificationRequest{
		OrderID:    "o1",
		CustomerID: "c1",
		Type:       "BOGUS",
	})

	require.NoError(t, err)
	assert.Equal(t, types.NotificationFailedPermanent, outcome.Status)
	assert.False(t, outcome.Retryable)
	assert.Equal(t, "Invalid notification type: BOGUS", outcome.Error)
}

func TestSend_ShippedMessageReferencesOrder(t *testing.T) {
	sim := newNotificationSimulator(NotificationConfig{EmailReliability: 1}, &stubRand{})

	outcome, err := sim.Send(context.Background(), types.NotificationRequest{
		OrderID:          "o42",
		CustomerID:       "c1",
		Type:             types.NotificationOrderShipped,
		PreferredChannel: types.ChannelEmail,
	})

	require.NoError(t, err)
	assert.Equal(t, types.NotificationSent, outcome.Status)
	assert.Contains(t, outcome.MessagePreview, "o42")
	assert.Contains(t, outcome.MessagePreview, "shipped")
	assert.Equal(t, types.ChannelEmail, outcome.Channel)
	assert.Equal(t, sentAt, outcome.SentAt)
	assert.Regexp(t, `^ntf_[0-9a-f]{8}$`, outcome.NotificationID)
}

func TestSend_PreviewTruncatedToFiftyCharacters(t *testing.T) {
	sim := newNotificationSimulator(NotificationConfig{EmailReliability: 1}, &stubRand{})

	outcome, err := sim.Send(context.Background(), types.NotificationRequest{
		OrderID:          "order-with-a-very-long-identifier-0001",
		CustomerID:       "c1",
		Type:             types.NotificationOrderConfirmation,
		PreferredChannel: types.ChannelEmail,
	})

	require.NoError(t, err)
	assert.Len(t, outcome.MessagePreview, 50)
	assert.True(t, strings.HasSuffix(outcome.MessagePreview, "..."))
}

func TestSend_DeliveryFaults(t *testing.T) {
	tests := []struct {
		name       string
		errIndex   int
		wantStatus types.NotificationStatus
		retryable  bool
	}{
		{name: "service unavailable is retryable", errIndex: 0, wantStatus: types.NotificationFailedRetryable, retryable: true},
		{name: "invalid address is permanent", errIndex: 2, wantStatus: types.NotificationFailedPermanent, retryable: false},
		{name: "blocked number is permanent", errIndex: 3, wantStatus: types.NotificationFailedPermanent, retryable: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := &stubRand{floats: []float64{0}, ints: []int{tt.errIndex}}
			sim := newNotificationSimulator(NotificationConfig{DeliveryFaultRate: 1}, r)

			outcome, err := sim.Send(context.Background(), types.NotificationRequest{
				OrderID:          "o1",
				CustomerID:       "c1",
				Type:             types.NotificationOrderConfirmation,
				PreferredChannel: types.ChannelEmail,
			})

			assert.Equal(t, tt.wantStatus, outcome.Status)
			assert.Equal(t, tt.retryable, outcome.Retryable)
			assert.Equal(t, deliveryErrors[tt.errIndex], outcome.Error)
			if tt.retryable {
				var transient *types.TransientError
				require.ErrorAs(t, err, &transient)
			} else {
				require.NoError(t, err)
			}
		})
	}
}

func TestSend_ChannelFallback(t *testing.T) {
	tests := []struct {
		name      string
		preferred string
		cfg       NotificationConfig
		want      string
	}{
		{name: "email preferred and reliable", preferred: types.ChannelEmail, cfg: NotificationConfig{EmailReliability: 1}, want: types.ChannelEmail},
		{name: "email falls back to sms", preferred: types.ChannelEmail, cfg: NotificationConfig{}, want: types.ChannelSMS},
		{name: "sms falls back to push", preferred: types.ChannelSMS, cfg: NotificationConfig{}, want: types.ChannelPush},
		{name: "push falls back to email", preferred: types.ChannelPush, cfg: NotificationConfig{}, want: types.ChannelEmail},
		{name: "unknown preference defaults to email", preferred: "fax", cfg: NotificationConfig{PushReliability: 1}, want: types.ChannelEmail},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sim := newNotificationSimulator(tt.cfg, &stubRand{})

			outcome, err := sim.Send(context.Background(), types.NotificationRequest{
				OrderID:          "o1",
				CustomerID:       "c1",
				Type:             types.NotificationOrderConfirmation,
				PreferredChannel: tt.preferred,
			})

			require.NoError(t, err)
			assert.Equal(t, tt.want, outcome.Channel)
		})
	}
}
