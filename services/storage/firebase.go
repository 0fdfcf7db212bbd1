package storage

import (
	"context"
	"errors"
	"fmt"

	gcs "cloud.google.com/go/storage"
	fbstorage "firebase.google.com/go/v4/storage"
)

// FirebaseStorageService implements AssetStore using the Firebase Storage bucket.
type FirebaseStorageService struct {
	bucket *gcs.BucketHandle
}

// NewFirebaseStorageService opens bucketName, or the app's default bucket when empty.
func NewFirebaseStorageService(client *fbstorage.Client, bucketName string) (*FirebaseStorageService, error) {
	var (
		bucket *gcs.BucketHandle
		err    error
	)
	if bucketName == "" {
		bucket, err = client.DefaultBucket()
	} else {
		bucket, err = client.Bucket(bucketName)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to open storage bucket: %w", err)
	}
	return &FirebaseStorageService{bucket: bucket}, nil
}

func (s *FirebaseStorageService) Exists(ctx context.Context, key string) (bool, error) {
	_, err := s.bucket.Object(key).Attrs(ctx)
	if errors.Is(err, gcs.ErrObjectNotExist) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to read attributes: %w", err)
	}
	return true, nil
}

// Delete deletes an object from the bucket. A concurrently removed object is not an error.
func (s *FirebaseStorageService) Delete(ctx context.Context, key string) error {
	err := s.bucket.Object(key).Delete(ctx)
	if err != nil && !errors.Is(err, gcs.ErrObjectNotExist) {
		return fmt.Errorf("failed to delete file: %w", err)
	}
	return nil
}
