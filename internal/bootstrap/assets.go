package bootstrap

import (
	"context"
	"fmt"
	"log/slog"

	"cloud.google.com/go/storage"
	"google.golang.org/api/option"

	"github.com/osse101/AdventureAdmin_Go/internal/assets"
	"github.com/osse101/AdventureAdmin_Go/internal/config"
)

// Uploader is the configured asset backend plus the hook that releases it.
type Uploader struct {
	assets.Uploader
	close func() error
}

// Close releases the storage client, if any.
func (u *Uploader) Close() error {
	if u.close == nil {
		return nil
	}
	return u.close()
}

// InitializeUploader builds the asset backend named by ASSET_BACKEND. Every
// backend is wrapped so uploads are counted and logged.
func InitializeUploader(ctx context.Context, cfg *config.Config) (*Uploader, error) {
	var u Uploader

	switch cfg.AssetBackend {
	case config.AssetBackendFirebase:
		gcs, err := storage.NewClient(ctx, option.WithCredentialsJSON(cfg.FirebaseAdminJSON))
		if err != nil {
			return nil, fmt.Errorf("%s: %w", ErrMsgFailedCreateGCS, err)
		}
		u.Uploader = assets.NewFirebaseStorage(gcs, cfg.StorageBucket)
		u.close = gcs.Close

	case config.AssetBackendS3:
		s3, err := assets.NewS3Storage(ctx, assets.S3Config{
			Bucket:        cfg.S3.Bucket,
			Region:        cfg.S3.Region,
			Endpoint:      cfg.S3.Endpoint,
			AccessKey:     cfg.S3.AccessKey,
			SecretKey:     cfg.S3.SecretKey,
			PublicBaseURL: cfg.S3.PublicBaseURL,
		})
		if err != nil {
			return nil, fmt.Errorf("%s: %w", ErrMsgFailedCreateUploader, err)
		}
		u.Uploader = s3

	default:
		local, err := assets.NewLocalStorage(cfg.LocalAssetDir, cfg.PublicBaseURL)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", ErrMsgFailedCreateUploader, err)
		}
		u.Uploader = local
	}

	slog.Info(LogMsgAssetBackendReady, "backend", u.Backend())
	u.Uploader = assets.Instrumented(u.Uploader)
	return &u, nil
}

// LocalAssetDir returns the directory the server should expose under /uploads,
// or "" when assets live in a bucket.
func LocalAssetDir(cfg *config.Config) string {
	if cfg.AssetBackend == config.AssetBackendLocal {
		return cfg.LocalAssetDir
	}
	return ""
}
