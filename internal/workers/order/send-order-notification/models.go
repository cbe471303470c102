// internal/workers/order/send-order-notification/models.go
package sendordernotification

import "mandi-workers/internal/models"

type Input struct {
	Order            models.MandiOrder `json:"order"`
	NotificationType string            `json:"notificationType,omitempty"`
}

type Output struct {
	NotificationID string   `json:"notificationId"`
	Status         string   `json:"status"` // "sent", "failed", "disabled"
	Channels       []string `json:"channels"`
	Urgent         bool     `json:"urgent"`
	SentAt         string   `json:"sentAt"` // ISO 8601

	Failures []ChannelFailure `json:"failures,omitempty"`
}

// ChannelFailure records a channel that could not be delivered.
type ChannelFailure struct {
	Channel string `json:"channel"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

const (
	TypeOrderConfirmed = "order_confirmed"
)

const (
	StatusSent     = "sent"
	StatusFailed   = "failed"
	StatusDisabled = "disabled"
)

const (
	ChannelEmail = "email"
	ChannelSMS   = "sms"
)
