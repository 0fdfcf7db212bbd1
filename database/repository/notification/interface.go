package notificationRepo

import (
	"context"

	"dutynotify/models"
)

// NotificationRepository persists notification records. Records are append-only here;
// the timestamp is always assigned by the store.
type NotificationRepository interface {
	// Create writes one record and returns its ID.
	Create(ctx context.Context, rec models.NotificationRecord) (string, error)
	// CreateBatch writes all records atomically: either every record is stored or none is.
	CreateBatch(ctx context.Context, recs []models.NotificationRecord) ([]string, error)
}
