package request_models

import "wayfare/internal/normalize"

type TripType string

const (
	TripOneWay    TripType = "one-way"
	TripRoundTrip TripType = "round-trip"
	TripMultiCity TripType = "multi-city"
)

type CreateTripRequest struct {
	Origin              string   `json:"origin"`
	Destination         string   `json:"destination" validate:"required"`
	StartDate           string   `json:"start_date" validate:"required"`
	EndDate             string   `json:"end_date"`
	GroupSize           int      `json:"group_size" validate:"gte=1"`
	TotalBudget         float64  `json:"total_budget" validate:"gte=0"`
	Currency            string   `json:"currency"`
	TransportPreference string   `json:"transport_preference"`
	ActivityInterests   []string `json:"activity_interests"`
	TripType            TripType `json:"trip_type" validate:"omitempty,oneof=one-way round-trip multi-city"`
}

type UpdateTripRequest = CreateTripRequest

type FlightInput struct {
	LegNumber    int     `json:"leg_number" validate:"gte=1"`
	OfferID      string  `json:"offer_id"`
	Airline      string  `json:"airline" validate:"required"`
	FlightNumber string  `json:"flight_number"`
	Origin       string  `json:"origin" validate:"required"`
	Destination  string  `json:"destination" validate:"required"`
	DepartAt     string  `json:"depart_at"`
	ArriveAt     string  `json:"arrive_at"`
	Cabin        string  `json:"cabin"`
	Stops        int     `json:"stops" validate:"gte=0"`
	Price        float64 `json:"price" validate:"gte=0"`
	Currency     string  `json:"currency"`
	IsMock       bool    `json:"is_mock"`
}

type SaveFlightsRequest struct {
	TripType TripType      `json:"trip_type" validate:"required,oneof=one-way round-trip multi-city"`
	Flights  []FlightInput `json:"flights" validate:"required,min=1,dive"`
}

type SaveHotelRequest struct {
	OfferID       string  `json:"offer_id"`
	Name          string  `json:"name" validate:"required"`
	Address       string  `json:"address"`
	Rating        float64 `json:"rating" validate:"gte=0"`
	CheckIn       string  `json:"check_in"`
	CheckOut      string  `json:"check_out"`
	PricePerNight float64 `json:"price_per_night" validate:"gte=0"`
	TotalPrice    float64 `json:"total_price" validate:"gte=0"`
	Currency      string  `json:"currency"`
	ImageURL      string  `json:"image_url"`
	IsMock        bool    `json:"is_mock"`
}

type ScheduleDayInput struct {
	DayNumber  int                  `json:"day_number" validate:"gte=1"`
	Date       string               `json:"date"`
	Title      string               `json:"title"`
	Activities normalize.Activities `json:"activities"`
}

type SaveScheduleRequest struct {
	Days []ScheduleDayInput `json:"days" validate:"dive"`
}

type SaveBudgetRequest struct {
	TotalBudget float64 `json:"total_budget" validate:"gte=0"`
	Currency    string  `json:"currency"`
}

type PackingItemInput struct {
	Name     string `json:"name" validate:"required"`
	Category string `json:"category"`
	Quantity int    `json:"quantity" validate:"gte=0"`
	Packed   bool   `json:"packed"`
}

type SavePackingListRequest struct {
	Items []PackingItemInput `json:"items" validate:"dive"`
	Notes string             `json:"notes"`
}

type WeatherDayInput struct {
	Date          string  `json:"date" validate:"required"`
	Summary       string  `json:"summary"`
	TempHighC     float64 `json:"temp_high_c"`
	TempLowC      float64 `json:"temp_low_c"`
	PrecipPercent int     `json:"precip_percent" validate:"gte=0,lte=100"`
}

type SaveWeatherRequest struct {
	Days []WeatherDayInput `json:"days" validate:"dive"`
}

type RecommendationInput struct {
	Title       string `json:"title" validate:"required"`
	Category    string `json:"category"`
	Description string `json:"description"`
	ImageURL    string `json:"image_url"`
}

type SaveRecommendationsRequest struct {
	Items []RecommendationInput `json:"items" validate:"dive"`
}
