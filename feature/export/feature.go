package export

import (
	"render-manager/core/renderer"
	"render-manager/core/storage"
	"render-manager/feature/export/models"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Feature implements the loader.Feature interface.
type Feature struct {
	service *Service
	handler *Handler
}

// NewFeature creates a new Export feature.
func NewFeature(sup *renderer.Supervisor, store storage.Client, bucket string, logger *zap.Logger, db *gorm.DB) *Feature {
	svc := NewService(sup, store, bucket, logger, db)
	h := NewHandler(svc)
	return &Feature{service: svc, handler: h}
}

// Name returns the name of the feature.
func (f *Feature) Name() string {
	return "export"
}

// IsEnabled checks if the feature is enabled.
func (f *Feature) IsEnabled() bool {
	return true
}

// Load migrates the history schema and registers the feature's routes.
func (f *Feature) Load(app fiber.Router) error {
	if f.service.db != nil {
		if err := f.service.db.AutoMigrate(&models.RenderJob{}); err != nil {
			return err
		}
	}
	f.handler.RegisterRoutes(app)
	return nil
}
