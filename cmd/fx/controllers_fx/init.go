package controllers_fx

import (
	"go.uber.org/fx"
	"wayfare/internal/api/controllers"
	"wayfare/internal/api/router"
)

var Module = fx.Provide(provideControllers)

func provideControllers(
	trip *controllers.TripController,
	ai *controllers.AIController,
	image *controllers.ImageController) router.Controllers {

	return router.Controllers{Trip: trip, AI: ai, Image: image}
}
