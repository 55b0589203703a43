package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
	req "wayfare/internal/models/request_models"
	"wayfare/internal/services"
	"wayfare/pkg/utils"
)

type TripController struct {
	tripService services.TripServiceInterface
	logger      *zap.Logger
}

func NewTripController(tripService services.TripServiceInterface, logger *zap.Logger) *TripController {
	return &TripController{
		tripService: tripService,
		logger:      logger,
	}
}

func tripIDParam(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("tripId"))
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Invalid trip ID")
		return uuid.Nil, false
	}
	return id, true
}

// CreateTrip godoc
// @Summary Create a trip
// @Description Create a trip owned by the authenticated user
// @Tags Trip
// @Accept json
// @Produce json
// @Param request body request_models.CreateTripRequest true "Trip"
// @Success 200 {object} response_models.TripResponse
// @Failure 400 {object} utils.APIResponse
// @Security BearerAuth
// @Router /trips [post]
func (t *TripController) CreateTrip(c *gin.Context) {
	var body req.CreateTripRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Invalid request format")
		return
	}

	trip, err := t.tripService.CreateTrip(c.Request.Context(), c.GetString("user_id"), body)
	if err != nil {
		utils.HandleServiceError(c, t.logger, err)
		return
	}

	utils.RespondSuccess(c, trip, "Trip created successfully")
}

// UpdateTrip godoc
// @Summary Update trip metadata
// @Tags Trip
// @Accept json
// @Produce json
// @Param tripId path string true "Trip ID"
// @Param request body request_models.UpdateTripRequest true "Trip"
// @Success 200 {object} response_models.TripResponse
// @Failure 404 {object} utils.APIResponse
// @Security BearerAuth
// @Router /trips/{tripId} [put]
func (t *TripController) UpdateTrip(c *gin.Context) {
	tripID, ok := tripIDParam(c)
	if !ok {
		return
	}
	var body req.UpdateTripRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Invalid request format")
		return
	}

	trip, err := t.tripService.UpdateTrip(c.Request.Context(), c.GetString("user_id"), tripID, body)
	if err != nil {
		utils.HandleServiceError(c, t.logger, err)
		return
	}

	utils.RespondSuccess(c, trip, "Trip updated successfully")
}

// GetTrip godoc
// @Summary Get a trip with every saved sub-resource
// @Tags Trip
// @Produce json
// @Param tripId path string true "Trip ID"
// @Success 200 {object} response_models.TripDetailResponse
// @Failure 404 {object} utils.APIResponse
// @Security BearerAuth
// @Router /trips/{tripId} [get]
func (t *TripController) GetTrip(c *gin.Context) {
	tripID, ok := tripIDParam(c)
	if !ok {
		return
	}

	trip, err := t.tripService.GetTrip(c.Request.Context(), c.GetString("user_id"), tripID)
	if err != nil {
		utils.HandleServiceError(c, t.logger, err)
		return
	}

	utils.RespondSuccess(c, trip, "Trip fetched successfully")
}

// SaveFlights godoc
// @Summary Replace the selected flights of a trip
// @Description Deletes every stored leg and inserts the given ones in one transaction, then reconciles the budget
// @Tags Trip
// @Accept json
// @Produce json
// @Param tripId path string true "Trip ID"
// @Param request body request_models.SaveFlightsRequest true "Flights"
// @Success 200 {object} response_models.BudgetResponse
// @Failure 400 {object} utils.APIResponse
// @Failure 404 {object} utils.APIResponse
// @Failure 500 {object} utils.APIResponse
// @Security BearerAuth
// @Router /trips/{tripId}/flights [put]
func (t *TripController) SaveFlights(c *gin.Context) {
	tripID, ok := tripIDParam(c)
	if !ok {
		return
	}
	var body req.SaveFlightsRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Invalid request format")
		return
	}

	budget, err := t.tripService.SaveFlights(c.Request.Context(), c.GetString("user_id"), tripID, body)
	if err != nil {
		utils.HandleServiceError(c, t.logger, err)
		return
	}

	utils.RespondSuccess(c, budget, "Flights saved successfully")
}

// GetFlights godoc
// @Summary List the selected flights of a trip, ordered by leg
// @Tags Trip
// @Produce json
// @Param tripId path string true "Trip ID"
// @Success 200 {array} response_models.FlightResponse
// @Security BearerAuth
// @Router /trips/{tripId}/flights [get]
func (t *TripController) GetFlights(c *gin.Context) {
	tripID, ok := tripIDParam(c)
	if !ok {
		return
	}

	flights, err := t.tripService.GetFlights(c.Request.Context(), c.GetString("user_id"), tripID)
	if err != nil {
		utils.HandleServiceError(c, t.logger, err)
		return
	}

	utils.RespondSuccess(c, flights, "Flights fetched successfully")
}

// SaveHotel godoc
// @Summary Upsert the selected hotel of a trip
// @Tags Trip
// @Accept json
// @Produce json
// @Param tripId path string true "Trip ID"
// @Param request body request_models.SaveHotelRequest true "Hotel"
// @Success 200 {object} response_models.BudgetResponse
// @Security BearerAuth
// @Router /trips/{tripId}/hotel [put]
func (t *TripController) SaveHotel(c *gin.Context) {
	tripID, ok := tripIDParam(c)
	if !ok {
		return
	}
	var body req.SaveHotelRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Invalid request format")
		return
	}

	budget, err := t.tripService.SaveHotel(c.Request.Context(), c.GetString("user_id"), tripID, body)
	if err != nil {
		utils.HandleServiceError(c, t.logger, err)
		return
	}

	utils.RespondSuccess(c, budget, "Hotel saved successfully")
}

// GetHotel godoc
// @Summary Get the selected hotel of a trip
// @Tags Trip
// @Produce json
// @Param tripId path string true "Trip ID"
// @Success 200 {object} db_models.SelectedHotel
// @Security BearerAuth
// @Router /trips/{tripId}/hotel [get]
func (t *TripController) GetHotel(c *gin.Context) {
	tripID, ok := tripIDParam(c)
	if !ok {
		return
	}

	hotel, err := t.tripService.GetHotel(c.Request.Context(), c.GetString("user_id"), tripID)
	if err != nil {
		utils.HandleServiceError(c, t.logger, err)
		return
	}

	utils.RespondSuccess(c, hotel, "Hotel fetched successfully")
}

// SaveSchedule godoc
// @Summary Replace the day-by-day schedule of a trip
// @Description Activities may be a list, a delimited string, an encoded JSON string or a single name
// @Tags Trip
// @Accept json
// @Produce json
// @Param tripId path string true "Trip ID"
// @Param request body request_models.SaveScheduleRequest true "Schedule"
// @Success 200 {object} response_models.BudgetResponse
// @Security BearerAuth
// @Router /trips/{tripId}/schedule [put]
func (t *TripController) SaveSchedule(c *gin.Context) {
	tripID, ok := tripIDParam(c)
	if !ok {
		return
	}
	var body req.SaveScheduleRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Invalid request format")
		return
	}

	budget, err := t.tripService.SaveSchedule(c.Request.Context(), c.GetString("user_id"), tripID, body)
	if err != nil {
		utils.HandleServiceError(c, t.logger, err)
		return
	}

	utils.RespondSuccess(c, budget, "Schedule saved successfully")
}

// GetSchedule godoc
// @Summary List the schedule days of a trip
// @Tags Trip
// @Produce json
// @Param tripId path string true "Trip ID"
// @Success 200 {array} response_models.ScheduleDayResponse
// @Security BearerAuth
// @Router /trips/{tripId}/schedule [get]
func (t *TripController) GetSchedule(c *gin.Context) {
	tripID, ok := tripIDParam(c)
	if !ok {
		return
	}

	days, err := t.tripService.GetSchedule(c.Request.Context(), c.GetString("user_id"), tripID)
	if err != nil {
		utils.HandleServiceError(c, t.logger, err)
		return
	}

	utils.RespondSuccess(c, days, "Schedule fetched successfully")
}

// SaveBudget godoc
// @Summary Set the spending limit of a trip
// @Description Planned expenses are recomputed in the same transaction
// @Tags Trip
// @Accept json
// @Produce json
// @Param tripId path string true "Trip ID"
// @Param request body request_models.SaveBudgetRequest true "Budget"
// @Success 200 {object} response_models.BudgetResponse
// @Security BearerAuth
// @Router /trips/{tripId}/budget [put]
func (t *TripController) SaveBudget(c *gin.Context) {
	tripID, ok := tripIDParam(c)
	if !ok {
		return
	}
	var body req.SaveBudgetRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Invalid request format")
		return
	}

	budget, err := t.tripService.SaveBudget(c.Request.Context(), c.GetString("user_id"), tripID, body)
	if err != nil {
		utils.HandleServiceError(c, t.logger, err)
		return
	}

	utils.RespondSuccess(c, budget, "Budget saved successfully")
}

// GetBudget godoc
// @Summary Get the budget of a trip
// @Tags Trip
// @Produce json
// @Param tripId path string true "Trip ID"
// @Success 200 {object} response_models.BudgetResponse
// @Security BearerAuth
// @Router /trips/{tripId}/budget [get]
func (t *TripController) GetBudget(c *gin.Context) {
	tripID, ok := tripIDParam(c)
	if !ok {
		return
	}

	budget, err := t.tripService.GetBudget(c.Request.Context(), c.GetString("user_id"), tripID)
	if err != nil {
		utils.HandleServiceError(c, t.logger, err)
		return
	}

	utils.RespondSuccess(c, budget, "Budget fetched successfully")
}

// SavePackingList godoc
// @Summary Upsert the packing list of a trip
// @Tags Trip
// @Accept json
// @Produce json
// @Param tripId path string true "Trip ID"
// @Param request body request_models.SavePackingListRequest true "Packing list"
// @Success 200 {object} utils.APIResponse
// @Security BearerAuth
// @Router /trips/{tripId}/packing-list [put]
func (t *TripController) SavePackingList(c *gin.Context) {
	tripID, ok := tripIDParam(c)
	if !ok {
		return
	}
	var body req.SavePackingListRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Invalid request format")
		return
	}

	if err := t.tripService.SavePackingList(c.Request.Context(), c.GetString("user_id"), tripID, body); err != nil {
		utils.HandleServiceError(c, t.logger, err)
		return
	}

	utils.RespondSuccess(c, nil, "Packing list saved successfully")
}

// GetPackingList godoc
// @Summary Get the packing list of a trip
// @Tags Trip
// @Produce json
// @Param tripId path string true "Trip ID"
// @Success 200 {object} db_models.PackingList
// @Security BearerAuth
// @Router /trips/{tripId}/packing-list [get]
func (t *TripController) GetPackingList(c *gin.Context) {
	tripID, ok := tripIDParam(c)
	if !ok {
		return
	}

	list, err := t.tripService.GetPackingList(c.Request.Context(), c.GetString("user_id"), tripID)
	if err != nil {
		utils.HandleServiceError(c, t.logger, err)
		return
	}

	utils.RespondSuccess(c, list, "Packing list fetched successfully")
}

// SaveWeather godoc
// @Summary Replace the weather forecast of a trip
// @Tags Trip
// @Accept json
// @Produce json
// @Param tripId path string true "Trip ID"
// @Param request body request_models.SaveWeatherRequest true "Weather days"
// @Success 200 {object} utils.APIResponse
// @Security BearerAuth
// @Router /trips/{tripId}/weather [put]
func (t *TripController) SaveWeather(c *gin.Context) {
	tripID, ok := tripIDParam(c)
	if !ok {
		return
	}
	var body req.SaveWeatherRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Invalid request format")
		return
	}

	if err := t.tripService.SaveWeather(c.Request.Context(), c.GetString("user_id"), tripID, body); err != nil {
		utils.HandleServiceError(c, t.logger, err)
		return
	}

	utils.RespondSuccess(c, nil, "Weather saved successfully")
}

// GetWeather godoc
// @Summary List the weather forecast of a trip
// @Tags Trip
// @Produce json
// @Param tripId path string true "Trip ID"
// @Success 200 {array} db_models.WeatherDay
// @Security BearerAuth
// @Router /trips/{tripId}/weather [get]
func (t *TripController) GetWeather(c *gin.Context) {
	tripID, ok := tripIDParam(c)
	if !ok {
		return
	}

	days, err := t.tripService.GetWeather(c.Request.Context(), c.GetString("user_id"), tripID)
	if err != nil {
		utils.HandleServiceError(c, t.logger, err)
		return
	}

	utils.RespondSuccess(c, days, "Weather fetched successfully")
}

// SaveRecommendations godoc
// @Summary Replace the recommendations of a trip
// @Tags Trip
// @Accept json
// @Produce json
// @Param tripId path string true "Trip ID"
// @Param request body request_models.SaveRecommendationsRequest true "Recommendations"
// @Success 200 {object} utils.APIResponse
// @Security BearerAuth
// @Router /trips/{tripId}/recommendations [put]
func (t *TripController) SaveRecommendations(c *gin.Context) {
	tripID, ok := tripIDParam(c)
	if !ok {
		return
	}
	var body req.SaveRecommendationsRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Invalid request format")
		return
	}

	if err := t.tripService.SaveRecommendations(c.Request.Context(), c.GetString("user_id"), tripID, body); err != nil {
		utils.HandleServiceError(c, t.logger, err)
		return
	}

	utils.RespondSuccess(c, nil, "Recommendations saved successfully")
}

// GetRecommendations godoc
// @Summary List the recommendations of a trip
// @Tags Trip
// @Produce json
// @Param tripId path string true "Trip ID"
// @Success 200 {array} db_models.Recommendation
// @Security BearerAuth
// @Router /trips/{tripId}/recommendations [get]
func (t *TripController) GetRecommendations(c *gin.Context) {
	tripID, ok := tripIDParam(c)
	if !ok {
		return
	}

	items, err := t.tripService.GetRecommendations(c.Request.Context(), c.GetString("user_id"), tripID)
	if err != nil {
		utils.HandleServiceError(c, t.logger, err)
		return
	}

	utils.RespondSuccess(c, items, "Recommendations fetched successfully")
}
