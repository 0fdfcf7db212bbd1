package notificationRepo

import (
	"context"
	"fmt"

	"dutynotify/models"
	"dutynotify/utils"

	"cloud.google.com/go/firestore"
)

// FirestoreNotificationRepo implements NotificationRepository on the Firestore
// "notifications" collection. Timestamps use the serverTimestamp field transform.
type FirestoreNotificationRepo struct {
	client *firestore.Client
	coll   *firestore.CollectionRef
}

func NewFirestoreNotificationRepo(client *firestore.Client) NotificationRepository {
	return &FirestoreNotificationRepo{
		client: client,
		coll:   client.Collection(utils.NotificationsCollection),
	}
}

func (r *FirestoreNotificationRepo) Create(ctx context.Context, rec models.NotificationRecord) (string, error) {
	ref := r.coll.NewDoc()
	if _, err := ref.Create(ctx, rec); err != nil {
		return "", fmt.Errorf("failed to create notification for user %s: %w", rec.UserID, err)
	}
	return ref.ID, nil
}

// CreateBatch commits every record in one transaction.
func (r *FirestoreNotificationRepo) CreateBatch(ctx context.Context, recs []models.NotificationRecord) ([]string, error) {
	if len(recs) == 0 {
		return nil, nil
	}

	var ids []string
	err := r.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		ids = ids[:0]
		for _, rec := range recs {
			ref := r.coll.NewDoc()
			if err := tx.Create(ref, rec); err != nil {
				return err
			}
			ids = append(ids, ref.ID)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("notification batch of %d aborted: %w", len(recs), err)
	}
	return ids, nil
}
