package assets

import (
	"context"
	"fmt"
	"io"
	"mime"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Form field names that carry uploads
const (
	FieldImage          = "image"
	FieldFeaturedImages = "featuredImages"
)

const defaultContentType = "application/octet-stream"

// File is a single binary upload waiting to be stored.
type File struct {
	Field       string
	Filename    string
	ContentType string
	Size        int64
	Body        io.Reader
}

// Object is a stored asset and the public URL it is served from.
type Object struct {
	Name string
	URL  string
}

// Uploader stores binary assets and returns public URLs for them.
type Uploader interface {
	Upload(ctx context.Context, prefix string, f File) (Object, error)
	Delete(ctx context.Context, name string) error
	Backend() string
}

// ObjectName builds an object name under prefix. The random component keeps
// same-named files uploaded in the same millisecond apart.
func ObjectName(prefix, filename string, now time.Time) string {
	nonce := strings.ReplaceAll(uuid.NewString(), "-", "")[:12]
	return path.Join(prefix, fmt.Sprintf("%d_%s_%s", now.UnixMilli(), nonce, sanitizeFilename(filename)))
}

func sanitizeFilename(name string) string {
	name = filepath.Base(strings.ReplaceAll(name, "\\", "/"))
	if name == "." || name == "/" || name == "" {
		return "upload"
	}
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			return r
		case r == '.', r == '-', r == '_':
			return r
		default:
			return '_'
		}
	}, name)
}

func contentTypeOf(f File) string {
	if f.ContentType != "" {
		return f.ContentType
	}
	if ct := mime.TypeByExtension(path.Ext(f.Filename)); ct != "" {
		return ct
	}
	return defaultContentType
}
