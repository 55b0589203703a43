package router

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"wayfare/internal/api/controllers"
	"wayfare/pkg/middleware"
)

type Controllers struct {
	Trip  *controllers.TripController
	AI    *controllers.AIController
	Image *controllers.ImageController
}

func New(jwtSecret []byte, ctrl Controllers) *gin.Engine {
	r := gin.New()
	r.Use(gin.Logger())
	r.Use(gin.Recovery())
	r.Use(middleware.CORSMiddleware())
	r.Use(middleware.TraceIDMiddleware())

	RegisterRoutes(r, jwtSecret, ctrl)
	return r
}

func RegisterRoutes(r *gin.Engine, jwtSecret []byte, ctrl Controllers) {
	r.GET("/health", controllers.Health)
	r.HEAD("/health", controllers.Health)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	r.GET("/images", ctrl.Image.GetImage)
	r.POST("/ai/generate", ctrl.AI.Generate)

	tripGroup := r.Group("/trips")
	tripGroup.Use(middleware.JWTAuthMiddleware(jwtSecret))
	tripGroup.POST("", ctrl.Trip.CreateTrip)
	tripGroup.PUT("/:tripId", ctrl.Trip.UpdateTrip)
	tripGroup.GET("/:tripId", ctrl.Trip.GetTrip)
	tripGroup.PUT("/:tripId/flights", ctrl.Trip.SaveFlights)
	tripGroup.GET("/:tripId/flights", ctrl.Trip.GetFlights)
	tripGroup.PUT("/:tripId/hotel", ctrl.Trip.SaveHotel)
	tripGroup.GET("/:tripId/hotel", ctrl.Trip.GetHotel)
	tripGroup.PUT("/:tripId/schedule", ctrl.Trip.SaveSchedule)
	tripGroup.GET("/:tripId/schedule", ctrl.Trip.GetSchedule)
	tripGroup.PUT("/:tripId/budget", ctrl.Trip.SaveBudget)
	tripGroup.GET("/:tripId/budget", ctrl.Trip.GetBudget)
	tripGroup.PUT("/:tripId/packing-list", ctrl.Trip.SavePackingList)
	tripGroup.GET("/:tripId/packing-list", ctrl.Trip.GetPackingList)
	tripGroup.PUT("/:tripId/weather", ctrl.Trip.SaveWeather)
	tripGroup.GET("/:tripId/weather", ctrl.Trip.GetWeather)
	tripGroup.PUT("/:tripId/recommendations", ctrl.Trip.SaveRecommendations)
	tripGroup.GET("/:tripId/recommendations", ctrl.Trip.GetRecommendations)
}
