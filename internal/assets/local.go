package assets

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"
)

const backendLocal = "local"

// LocalRoute is the URL path the server mounts local assets under.
const LocalRoute = "/uploads"

// LocalStorage writes assets to a directory served by the API itself.
// Intended for development together with the memory document store.
type LocalStorage struct {
	dir     string
	baseURL string
	now     func() time.Time
}

func NewLocalStorage(dir, publicBaseURL string) (*LocalStorage, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create asset dir %s: %w", dir, err)
	}
	return &LocalStorage{
		dir:     dir,
		baseURL: strings.TrimSuffix(publicBaseURL, "/") + LocalRoute,
		now:     time.Now,
	}, nil
}

func (s *LocalStorage) Backend() string { return backendLocal }

// Dir returns the directory assets are written to.
func (s *LocalStorage) Dir() string { return s.dir }

func (s *LocalStorage) Upload(_ context.Context, prefix string, f File) (Object, error) {
	name := ObjectName(prefix, f.Filename, s.now())
	target := filepath.Join(s.dir, filepath.FromSlash(name))

	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return Object{}, fmt.Errorf("failed to create dir for %s: %w", name, err)
	}

	// O_EXCL mirrors the does-not-exist precondition of the cloud backends.
	out, err := os.OpenFile(target, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o644)
	if err != nil {
		return Object{}, fmt.Errorf("failed to create %s: %w", name, err)
	}
	if _, err := io.Copy(out, f.Body); err != nil {
		out.Close()
		os.Remove(target)
		return Object{}, fmt.Errorf("failed to write %s: %w", name, err)
	}
	if err := out.Close(); err != nil {
		return Object{}, fmt.Errorf("failed to close %s: %w", name, err)
	}

	return Object{Name: name, URL: s.baseURL + "/" + name}, nil
}

func (s *LocalStorage) Delete(_ context.Context, name string) error {
	err := os.Remove(filepath.Join(s.dir, filepath.FromSlash(name)))
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to delete %s: %w", name, err)
	}
	return nil
}
