package assets

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"time"

	"cloud.google.com/go/storage"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
)

const (
	backendFirebase = "firebase"

	// downloadTokenKey is the object metadata key Firebase Storage reads download tokens from.
	downloadTokenKey = "firebaseStorageDownloadTokens"
)

// FirebaseStorage stores assets in the project's Firebase Storage (GCS) bucket
// and hands out tokenized download URLs.
type FirebaseStorage struct {
	gcs    *storage.Client
	bucket string
	now    func() time.Time
}

func NewFirebaseStorage(gcs *storage.Client, bucket string) *FirebaseStorage {
	return &FirebaseStorage{gcs: gcs, bucket: bucket, now: time.Now}
}

func (s *FirebaseStorage) Backend() string { return backendFirebase }

func (s *FirebaseStorage) Upload(ctx context.Context, prefix string, f File) (Object, error) {
	ctx, span := otel.Tracer("adventure-admin/assets").Start(ctx, "FirebaseStorage.Upload")
	defer span.End()

	// Cancelling the context aborts the upload if the copy fails part-way.
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	name := ObjectName(prefix, f.Filename, s.now())
	token := uuid.NewString()

	w := s.gcs.Bucket(s.bucket).Object(name).If(storage.Conditions{DoesNotExist: true}).NewWriter(ctx)
	w.ContentType = contentTypeOf(f)
	w.Metadata = map[string]string{downloadTokenKey: token}

	if _, err := io.Copy(w, f.Body); err != nil {
		return Object{}, fmt.Errorf("while writing object %s: %w", name, err)
	}
	if err := w.Close(); err != nil {
		return Object{}, fmt.Errorf("while closing object writer for %s: %w", name, err)
	}

	return Object{Name: name, URL: firebaseDownloadURL(s.bucket, name, token)}, nil
}

func (s *FirebaseStorage) Delete(ctx context.Context, name string) error {
	ctx, span := otel.Tracer("adventure-admin/assets").Start(ctx, "FirebaseStorage.Delete")
	defer span.End()

	if err := s.gcs.Bucket(s.bucket).Object(name).Delete(ctx); err != nil {
		return fmt.Errorf("while deleting object %s: %w", name, err)
	}
	return nil
}

func firebaseDownloadURL(bucket, name, token string) string {
	return fmt.Sprintf("https://firebasestorage.googleapis.com/v0/b/%s/o/%s?alt=media&token=%s",
		bucket, url.PathEscape(name), token)
}
