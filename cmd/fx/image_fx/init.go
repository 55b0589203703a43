package image_fx

import (
	"go.uber.org/fx"
	"go.uber.org/zap"
	"wayfare/internal/api/controllers"
	"wayfare/internal/infra"
	resp "wayfare/internal/models/response_models"
	"wayfare/internal/services"
	mem "wayfare/pkg/memcache"
)

var Module = fx.Provide(provideImageProvider, provideImageService, provideImageController)

func provideImageProvider(cfg infra.Config, logger *zap.Logger) services.ImageProvider {
	if cfg.ImageAPIURL == "" {
		logger.Warn("IMAGE_API_URL not set, image lookups will use placeholders")
		return nil
	}
	return services.NewHTTPImageProvider(cfg.ImageAPIURL, cfg.ImageAPIKey, 0)
}

func provideImageService(provider services.ImageProvider, cache mem.Store[resp.ImageResponse], cfg infra.Config, logger *zap.Logger) services.ImageServiceInterface {
	return services.NewImageService(provider, cache, cfg.ImageTTL, logger)
}

func provideImageController(imageService services.ImageServiceInterface) *controllers.ImageController {
	return controllers.NewImageController(imageService)
}
