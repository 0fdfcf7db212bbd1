package notification

import (
	"context"
	"fmt"

	"dutynotify/models"

	"go.uber.org/zap"
)

// NotifyResult reports the two independent outcomes of one notify call.
type NotifyResult struct {
	RecordID  string
	PushSent  bool
	PushError error
}

// Notifier persists a record for a user and then attempts a push to the
// user's device. Only persistence failures are returned as errors.
type Notifier struct {
	Writer     RecordWriter
	Dispatcher Dispatcher
	Logger     *zap.Logger
}

func NewNotifier(writer RecordWriter, dispatcher Dispatcher, logger *zap.Logger) *Notifier {
	return &Notifier{Writer: writer, Dispatcher: dispatcher, Logger: logger}
}

func (n *Notifier) Notify(ctx context.Context, user *models.User, title, body string, data map[string]string) (NotifyResult, error) {
	var res NotifyResult

	id, err := n.Writer.Write(ctx, models.NewNotificationRecord(user.ID, title, body))
	if err != nil {
		return res, fmt.Errorf("Notify: could not persist notification for user %s: %w", user.ID, err)
	}
	res.RecordID = id

	if !user.HasPushToken() {
		n.Logger.Debug("user has no push token, record only", zap.String("userId", user.ID))
		return res, nil
	}

	err = n.Dispatcher.Push(ctx, models.PushMessage{
		Token: user.FCMToken,
		Title: title,
		Body:  body,
		Data:  data,
	})
	if err != nil {
		res.PushError = err
		n.Logger.Warn("push delivery failed, record kept",
			zap.String("userId", user.ID),
			zap.String("recordId", id),
			zap.Error(err),
		)
		return res, nil
	}
	res.PushSent = true
	return res, nil
}
