package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/gfgm/gfgm/backend/internal/metrics"
	"github.com/gfgm/gfgm/backend/internal/types"
)

// imageFiles applies the file side of a two-phase write: new files are stored
// before the transaction, removed again if it fails, and replaced files are
// removed only after it commits.
type imageFiles struct {
	store   ImageStore
	metrics *metrics.Metrics
}

// put stores an upload and returns its name, or "" when there is nothing to store
func (f imageFiles) put(ctx context.Context, img *ImageUpload) (string, error) {
	if img == nil || img.Reader == nil {
		return "", nil
	}
	if img.Filename == "" {
		return "", types.Validationf("image filename is required")
	}
	if img.ContentType != "" && !strings.HasPrefix(img.ContentType, "image/") {
		return "", types.Validationf("unsupported image content type %q", img.ContentType)
	}
	if f.store == nil {
		return "", fmt.Errorf("%w: no image store configured", types.ErrStorage)
	}

	name, err := f.store.Save(ctx, img.Filename, img.Reader)
	if err != nil {
		f.metrics.ImageStoreError("save")
		return "", fmt.Errorf("%w: %v", types.ErrStorage, err)
	}
	return name, nil
}

// remove deletes a stored file; failures are logged and swallowed
func (f imageFiles) remove(ctx context.Context, name string) {
	if name == "" || f.store == nil {
		return
	}
	if err := f.store.Delete(context.WithoutCancel(ctx), name); err != nil {
		f.metrics.ImageStoreError("delete")
		logrus.WithError(err).WithField("image", name).Warn("failed to delete image")
	}
}

func (f imageFiles) removeRef(ctx context.Context, name *string) {
	if name != nil {
		f.remove(ctx, *name)
	}
}
