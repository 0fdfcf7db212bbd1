package utils

import (
	"fmt"

	"dutynotify/config"

	"github.com/cloudinary/cloudinary-go/v2"
)

// Cloudinary initializes a Cloudinary client from configuration.
func Cloudinary(cfg config.Config) (*cloudinary.Cloudinary, error) {
	if cfg.CloudinaryCloudName == "" || cfg.CloudinaryAPIKey == "" || cfg.CloudinaryAPISecret == "" {
		return nil, fmt.Errorf("cloudinary credentials not set in configuration")
	}

	cld, err := cloudinary.NewFromParams(cfg.CloudinaryCloudName, cfg.CloudinaryAPIKey, cfg.CloudinaryAPISecret)
	if err != nil {
		return nil, fmt.Errorf("utils.Cloudinary: failed to initialize Cloudinary: %w", err)
	}
	return cld, nil
}
