package drive

import (
	"drive-manager/core/cache"
	"drive-manager/core/storage"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Feature implements the loader.Feature interface.
type Feature struct {
	service *Service
	handler *Handler
}

// NewFeature creates a new drive feature.
func NewFeature(pool *storage.Pool, db *gorm.DB, c *cache.Cache, logger *zap.Logger, opts Options) *Feature {
	svc := NewService(pool, db, c, logger, opts)
	h := NewHandler(svc)
	return &Feature{service: svc, handler: h}
}

// Name returns the name of the feature.
func (f *Feature) Name() string {
	return "drive"
}

// IsEnabled checks if the feature is enabled.
func (f *Feature) IsEnabled() bool {
	return true
}

// Load registers the feature's routes.
func (f *Feature) Load(app fiber.Router) error {
	f.handler.RegisterRoutes(app)
	return nil
}

// Service exposes the underlying drive service for CLI use.
func (f *Feature) Service() *Service {
	return f.service
}
