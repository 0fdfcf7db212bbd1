package storage

import (
	"context"
	"fmt"

	"dutynotify/utils"
)

// AssetStore is the blob store holding optional per-user assets.
type AssetStore interface {
	// Exists reports whether an object is stored under key.
	Exists(ctx context.Context, key string) (bool, error)
	// Delete removes the object stored under key.
	Delete(ctx context.Context, key string) error
}

// ProfilePictureKey is the blob key of a user's profile picture.
func ProfilePictureKey(userID string) string {
	return utils.ProfilePicturePrefix + userID
}

// DeleteIfExists deletes key when present and reports whether anything was removed.
func DeleteIfExists(ctx context.Context, store AssetStore, key string) (bool, error) {
	exists, err := store.Exists(ctx, key)
	if err != nil {
		return false, fmt.Errorf("failed to check %s: %w", key, err)
	}
	if !exists {
		return false, nil
	}
	if err := store.Delete(ctx, key); err != nil {
		return false, fmt.Errorf("failed to delete %s: %w", key, err)
	}
	return true, nil
}
