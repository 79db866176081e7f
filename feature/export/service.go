package export

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"time"

	"render-manager/core/renderer"
	"render-manager/core/storage"
	"render-manager/feature/export/models"

	"github.com/minio/minio-go/v7"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// ImageOptions are the per-request overrides of the configured defaults.
// Zero values fall back to the renderer configuration.
type ImageOptions struct {
	Format string
	Width  int
	Height int
	Scale  float64
}

// Service turns figure JSON into images via the supervised render server.
type Service struct {
	sup    *renderer.Supervisor
	client *renderer.Client
	store  storage.Client
	bucket string
	logger *zap.Logger
	db     *gorm.DB
}

// NewService creates a new export service. store and db may be nil, which
// disables uploads and history recording respectively.
func NewService(sup *renderer.Supervisor, store storage.Client, bucket string, logger *zap.Logger, db *gorm.DB) *Service {
	return &Service{
		sup:    sup,
		client: renderer.NewClient(sup),
		store:  store,
		bucket: bucket,
		logger: logger,
		db:     db,
	}
}

// Supervisor exposes the underlying render server supervisor.
func (s *Service) Supervisor() *renderer.Supervisor {
	return s.sup
}

// ToImage renders the figure and returns the image bytes and the coerced
// format. Options left at their zero value take the configured defaults.
func (s *Service) ToImage(ctx context.Context, figure any, opts ImageOptions) ([]byte, string, error) {
	cfg := s.sup.Config()

	format := opts.Format
	if format == "" {
		format = cfg.DefaultFormat()
	}
	format, err := renderer.CoerceFormat(format)
	if err != nil {
		return nil, "", err
	}

	req := renderer.Request{
		Figure: figure,
		Format: format,
		Width:  opts.Width,
		Height: opts.Height,
		Scale:  opts.Scale,
	}
	if req.Width == 0 {
		req.Width = cfg.DefaultWidth()
	}
	if req.Height == 0 {
		req.Height = cfg.DefaultHeight()
	}
	if req.Scale == 0 {
		req.Scale = cfg.DefaultScale()
	}

	start := time.Now()
	data, err := s.client.Render(ctx, req)
	s.record(req, len(data), time.Since(start), err)
	if err != nil {
		return nil, "", err
	}
	return data, format, nil
}

// WriteImage renders the figure and writes it to the given path. When no
// format is given it is inferred from the file extension; a path without an
// extension is rejected before anything is rendered.
func (s *Service) WriteImage(ctx context.Context, figure any, path string, opts ImageOptions) error {
	if opts.Format == "" {
		ext := strings.TrimPrefix(filepath.Ext(path), ".")
		if ext == "" {
			return &renderer.ConfigError{
				Property: "format",
				Detail:   "cannot infer image format from a path without an extension; pass a format explicitly",
			}
		}
		opts.Format = ext
	}

	data, _, err := s.ToImage(ctx, figure, opts)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

// Upload renders the figure and stores it under the given object name in the
// configured bucket, creating the bucket on first use.
func (s *Service) Upload(ctx context.Context, figure any, objectName string, opts ImageOptions) (string, error) {
	data, format, err := s.ToImage(ctx, figure, opts)
	if err != nil {
		return "", err
	}

	exists, err := s.store.BucketExists(ctx, s.bucket)
	if err != nil {
		return "", err
	}
	if !exists {
		if err := s.store.MakeBucket(ctx, s.bucket, minio.MakeBucketOptions{}); err != nil {
			return "", err
		}
	}

	_, err = s.store.PutObject(ctx, s.bucket, objectName,
		bytes.NewReader(data), int64(len(data)),
		minio.PutObjectOptions{ContentType: renderer.ContentTypeFor(format)})
	if err != nil {
		return "", err
	}

	s.logger.Info("Uploaded rendered image",
		zap.String("bucket", s.bucket),
		zap.String("object", objectName),
		zap.Int("bytes", len(data)),
	)
	return objectName, nil
}

// record appends a row to the render history. A nil db disables recording.
func (s *Service) record(req renderer.Request, size int, took time.Duration, renderErr error) {
	if s.db == nil {
		return
	}
	status := "ok"
	if renderErr != nil {
		status = "failed"
	}
	job := models.RenderJob{
		Format:     req.Format,
		Width:      req.Width,
		Height:     req.Height,
		Scale:      req.Scale,
		SizeBytes:  size,
		DurationMs: took.Milliseconds(),
		Status:     status,
	}
	if err := s.db.Create(&job).Error; err != nil {
		s.logger.Warn("Failed to record render history", zap.Error(err))
	}
}
