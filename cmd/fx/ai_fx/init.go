package ai_fx

import (
	"context"

	"go.uber.org/fx"
	"go.uber.org/zap"
	"wayfare/internal/api/controllers"
	"wayfare/internal/infra"
	"wayfare/internal/services"
	"wayfare/pkg/utils"
)

var Module = fx.Provide(
	ProvideTextGeneratorFactory,
	ProvideAIService,
	ProvideAIController)

// ProvideTextGeneratorFactory binds the configured provider and model; the
// key itself arrives with each request.
func ProvideTextGeneratorFactory(cfg infra.Config, logger *zap.Logger) services.TextGeneratorFactory {
	logger.Info("generative fallback configured",
		zap.String("provider", cfg.AIProvider),
		zap.String("model", cfg.AIModel))

	return func(ctx context.Context, apiKey string) (utils.TextGenerator, error) {
		return utils.NewTextGenerator(ctx, cfg.AIProvider, apiKey, cfg.AIModel)
	}
}

func ProvideAIService(factory services.TextGeneratorFactory, logger *zap.Logger) services.AIServiceInterface {
	return services.NewAIService(factory, logger)
}

func ProvideAIController(aiService services.AIServiceInterface, logger *zap.Logger) *controllers.AIController {
	return controllers.NewAIController(aiService, logger)
}
