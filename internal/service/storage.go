package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/gfgm/gfgm/backend/internal/types"
)

// ImageUpload is an image received from a client
type ImageUpload struct {
	Filename    string
	ContentType string
	Reader      io.Reader
}

// ImageStore keeps uploaded images in a flat namespace.
// Names returned by Save are "{uuid}_{original filename}".
type ImageStore interface {
	Save(ctx context.Context, originalName string, r io.Reader) (string, error)
	Open(ctx context.Context, name string) (io.ReadCloser, error)
	Delete(ctx context.Context, name string) error
}

// StoredName builds the unique name for an uploaded file
func StoredName(originalName string) string {
	return uuid.NewString() + "_" + sanitizeFilename(originalName)
}

func sanitizeFilename(name string) string {
	base := filepath.Base(strings.ReplaceAll(name, "\\", "/"))
	var b strings.Builder
	for _, r := range base {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '.', r == '-', r == '_':
			b.WriteRune(r)
		default:
			b.WriteRune('_')
		}
	}
	out := strings.Trim(b.String(), ".")
	if out == "" {
		return "image"
	}
	return out
}

// validStoredName rejects names that could escape the storage namespace
func validStoredName(name string) bool {
	return name != "" && name != "." && name != ".." &&
		!strings.ContainsAny(name, "/\\") && !strings.Contains(name, "..")
}

// LocalImageStore writes images to a directory on disk
type LocalImageStore struct {
	dir string
}

var _ ImageStore = (*LocalImageStore)(nil)

// NewLocalImageStore creates the upload directory if needed
func NewLocalImageStore(dir string) (*LocalImageStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create upload directory %s: %w", dir, err)
	}
	return &LocalImageStore{dir: dir}, nil
}

func (s *LocalImageStore) Save(ctx context.Context, originalName string, r io.Reader) (string, error) {
	name := StoredName(originalName)
	path := filepath.Join(s.dir, name)

	f, err := os.OpenFile(path, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o644)
	if err != nil {
		return "", err
	}
	if _, err := io.Copy(f, r); err != nil {
		f.Close()
		os.Remove(path)
		return "", err
	}
	if err := f.Close(); err != nil {
		os.Remove(path)
		return "", err
	}
	return name, nil
}

func (s *LocalImageStore) Open(ctx context.Context, name string) (io.ReadCloser, error) {
	if !validStoredName(name) {
		return nil, types.NotFoundf("image %q", name)
	}
	f, err := os.Open(filepath.Join(s.dir, name))
	if errors.Is(err, os.ErrNotExist) {
		return nil, types.NotFoundf("image %q", name)
	}
	return f, err
}

// Delete removes an image; a missing file is not an error
func (s *LocalImageStore) Delete(ctx context.Context, name string) error {
	if !validStoredName(name) {
		return fmt.Errorf("invalid image name %q", name)
	}
	err := os.Remove(filepath.Join(s.dir, name))
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}
