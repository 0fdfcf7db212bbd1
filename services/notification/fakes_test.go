package notification

import (
	"context"
	"errors"
	"sync"

	"dutynotify/models"

	"firebase.google.com/go/v4/messaging"
)

type fakeWriter struct {
	mu      sync.Mutex
	records []models.NotificationRecord
	err     error
}

func (w *fakeWriter) Write(_ context.Context, rec models.NotificationRecord) (string, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.err != nil {
		return "", w.err
	}
	w.records = append(w.records, rec)
	return "rec-1", nil
}

func (w *fakeWriter) WriteBatch(_ context.Context, recs []models.NotificationRecord) ([]string, error) {
	return nil, errors.New("not used")
}

type fakeDispatcher struct {
	sent []models.PushMessage
	err  error
}

func (d *fakeDispatcher) Push(_ context.Context, msg models.PushMessage) error {
	d.sent = append(d.sent, msg)
	return d.err
}

type fakeMessaging struct {
	messages []*messaging.Message
	err      error
}

func (m *fakeMessaging) Send(_ context.Context, msg *messaging.Message) (string, error) {
	m.messages = append(m.messages, msg)
	if m.err != nil {
		return "", m.err
	}
	return "projects/p/messages/1", nil
}
