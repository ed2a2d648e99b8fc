package storage

import (
	"context"
	"fmt"
	"io"
	"log"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
	"github.com/google/uuid"
)

// CloudinaryConfig holds Cloudinary credentials
type CloudinaryConfig struct {
	CloudName string
	APIKey    string
	APISecret string
	Folder    string
}

// cloudinaryUploader implements ProofUploader backed by Cloudinary
type cloudinaryUploader struct {
	cld    *cloudinary.Cloudinary
	folder string
}

// NewCloudinaryUploader creates a Cloudinary-backed proof uploader
func NewCloudinaryUploader(cfg CloudinaryConfig) (ProofUploader, error) {
	cld, err := cloudinary.NewFromParams(cfg.CloudName, cfg.APIKey, cfg.APISecret)
	if err != nil {
		return nil, fmt.Errorf("failed to init cloudinary: %w", err)
	}

	folder := cfg.Folder
	if folder == "" {
		folder = "dofesystem/kas"
	}

	return &cloudinaryUploader{cld: cld, folder: folder}, nil
}

// UploadProof uploads a proof image and returns its secure URL
func (u *cloudinaryUploader) UploadProof(ctx context.Context, file io.Reader, filename string) (string, error) {
	publicID := fmt.Sprintf("bukti-%s", uuid.New().String())

	result, err := u.cld.Upload.Upload(ctx, file, uploader.UploadParams{
		Folder:   u.folder,
		PublicID: publicID,
	})
	if err != nil {
		return "", fmt.Errorf("cloudinary upload of %s failed: %w", filename, err)
	}
	if result.Error.Message != "" {
		return "", fmt.Errorf("cloudinary upload of %s rejected: %s", filename, result.Error.Message)
	}
	if result.SecureURL == "" {
		return "", fmt.Errorf("cloudinary upload of %s returned no URL", filename)
	}

	log.Printf("✅ Proof uploaded: %s", result.SecureURL)
	return result.SecureURL, nil
}
