package assets

import (
	"context"

	"github.com/osse101/AdventureAdmin_Go/internal/logger"
	"github.com/osse101/AdventureAdmin_Go/internal/metrics"
)

type instrumented struct {
	Uploader
}

// Instrumented wraps u so every upload is counted and logged.
func Instrumented(u Uploader) Uploader {
	return &instrumented{Uploader: u}
}

func (i *instrumented) Upload(ctx context.Context, prefix string, f File) (Object, error) {
	obj, err := i.Uploader.Upload(ctx, prefix, f)
	metrics.AssetUploads.WithLabelValues(i.Backend(), metrics.Outcome(err)).Inc()

	log := logger.FromContext(ctx)
	if err != nil {
		log.Error("Asset upload failed", "backend", i.Backend(), "field", f.Field, "filename", f.Filename, "error", err)
		return Object{}, err
	}
	log.Debug("Asset uploaded", "backend", i.Backend(), "object", obj.Name, "size", f.Size)
	return obj, nil
}
