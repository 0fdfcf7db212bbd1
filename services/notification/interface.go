package notification

import (
	"context"

	"dutynotify/models"

	"firebase.google.com/go/v4/messaging"
)

// RecordWriter appends durable notification records.
type RecordWriter interface {
	Write(ctx context.Context, rec models.NotificationRecord) (string, error)
	WriteBatch(ctx context.Context, recs []models.NotificationRecord) ([]string, error)
}

// Dispatcher sends one best-effort push message.
type Dispatcher interface {
	Push(ctx context.Context, msg models.PushMessage) error
}

// MessagingClient is the subset of the FCM client used for sending.
// *messaging.Client satisfies it.
type MessagingClient interface {
	Send(ctx context.Context, message *messaging.Message) (string, error)
}
