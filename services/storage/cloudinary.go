package storage

import (
	"context"
	"fmt"
	"strings"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/admin"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
)

// CloudinaryStorageService implements AssetStore on Cloudinary image assets.
// The blob key is used as the Cloudinary public ID.
type CloudinaryStorageService struct {
	cld *cloudinary.Cloudinary
}

func NewCloudinaryStorageService(cld *cloudinary.Cloudinary) *CloudinaryStorageService {
	return &CloudinaryStorageService{cld: cld}
}

func (s *CloudinaryStorageService) Exists(ctx context.Context, key string) (bool, error) {
	res, err := s.cld.Admin.Asset(ctx, admin.AssetParams{PublicID: key})
	if err != nil {
		return false, fmt.Errorf("failed to look up asset: %w", err)
	}
	if res.Error.Message != "" {
		if strings.Contains(strings.ToLower(res.Error.Message), "not found") {
			return false, nil
		}
		return false, fmt.Errorf("failed to look up asset: %s", res.Error.Message)
	}
	return res.PublicID != "", nil
}

func (s *CloudinaryStorageService) Delete(ctx context.Context, key string) error {
	res, err := s.cld.Upload.Destroy(ctx, uploader.DestroyParams{PublicID: key})
	if err != nil {
		return fmt.Errorf("failed to delete asset: %w", err)
	}
	if res.Error.Message != "" {
		return fmt.Errorf("failed to delete asset: %s", res.Error.Message)
	}
	// "not found" means another invocation already removed it.
	if res.Result != "ok" && res.Result != "not found" {
		return fmt.Errorf("unexpected destroy result %q", res.Result)
	}
	return nil
}
