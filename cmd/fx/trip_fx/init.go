package trip_fx

import (
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"wayfare/internal/api/controllers"
	"wayfare/internal/repositories"
	"wayfare/internal/services"
)

var Module = fx.Provide(provideTripRepo, provideTripService, provideTripController)

func provideTripRepo(db *gorm.DB) repositories.TripRepository {
	return repositories.NewTripRepository(db)
}

func provideTripService(tripRepo repositories.TripRepository, logger *zap.Logger) services.TripServiceInterface {
	return services.NewTripService(tripRepo, logger)
}

func provideTripController(tripService services.TripServiceInterface, logger *zap.Logger) *controllers.TripController {
	return controllers.NewTripController(tripService, logger)
}
