package notification

import (
	"context"
	"fmt"

	"dutynotify/metrics"
	"dutynotify/models"

	"firebase.google.com/go/v4/messaging"
	"go.uber.org/zap"
)

// FCMDispatcher delivers push messages through Firebase Cloud Messaging.
type FCMDispatcher struct {
	client MessagingClient
	logger *zap.Logger
}

func NewFCMDispatcher(client MessagingClient, logger *zap.Logger) (*FCMDispatcher, error) {
	if client == nil {
		return nil, fmt.Errorf("notification dispatcher initialization error: messaging client is nil")
	}
	return &FCMDispatcher{client: client, logger: logger}, nil
}

// Push sends msg to its device token.
func (d *FCMDispatcher) Push(ctx context.Context, msg models.PushMessage) error {
	if msg.Token == "" {
		return fmt.Errorf("Push: message has no device token")
	}

	fcmMsg := &messaging.Message{
		Token: msg.Token,
		Notification: &messaging.Notification{
			Title: msg.Title,
			Body:  msg.Body,
		},
		Data: msg.Data,
		Android: &messaging.AndroidConfig{
			Priority: "high",
			Notification: &messaging.AndroidNotification{
				ChannelID: "high_priority",
				Sound:     "default",
			},
		},
		APNS: &messaging.APNSConfig{
			Headers: map[string]string{
				"apns-priority":  "10",
				"apns-push-type": "alert",
			},
			Payload: &messaging.APNSPayload{
				Aps: &messaging.Aps{
					Sound: "default",
				},
			},
		},
	}

	response, err := d.client.Send(ctx, fcmMsg)
	if err != nil {
		result := "failed"
		if messaging.IsUnregistered(err) {
			result = "unregistered"
		}
		metrics.PushSendsTotal.WithLabelValues(result).Inc()
		return fmt.Errorf("Push: failed to send FCM message: %w", err)
	}

	metrics.PushSendsTotal.WithLabelValues("sent").Inc()
	d.logger.Debug("push sent", zap.String("messageId", response))
	return nil
}
