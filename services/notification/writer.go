package notification

import (
	"context"
	"fmt"

	notificationRepo "dutynotify/database/repository/notification"
	"dutynotify/metrics"
	"dutynotify/models"
)

// DefaultRecordWriter is the production RecordWriter backed by a NotificationRepository.
type DefaultRecordWriter struct {
	Repo notificationRepo.NotificationRepository
}

func NewRecordWriter(repo notificationRepo.NotificationRepository) *DefaultRecordWriter {
	return &DefaultRecordWriter{Repo: repo}
}

func (w *DefaultRecordWriter) Write(ctx context.Context, rec models.NotificationRecord) (string, error) {
	if rec.UserID == "" {
		return "", fmt.Errorf("notification record has no owning user")
	}
	id, err := w.Repo.Create(ctx, rec)
	if err != nil {
		return "", err
	}
	metrics.NotificationRecordsTotal.Inc()
	return id, nil
}

func (w *DefaultRecordWriter) WriteBatch(ctx context.Context, recs []models.NotificationRecord) ([]string, error) {
	for i, rec := range recs {
		if rec.UserID == "" {
			return nil, fmt.Errorf("notification record %d has no owning user", i)
		}
	}
	ids, err := w.Repo.CreateBatch(ctx, recs)
	if err != nil {
		return nil, err
	}
	metrics.NotificationRecordsTotal.Add(float64(len(ids)))
	return ids, nil
}
