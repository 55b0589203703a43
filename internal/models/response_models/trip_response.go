package response_models

import (
	"sort"

	dbm "wayfare/internal/models/db_models"
	"wayfare/pkg/utils"
)

type TripResponse struct {
	ID                  string   `json:"id"`
	Origin              string   `json:"origin"`
	Destination         string   `json:"destination"`
	StartDate           string   `json:"start_date"`
	EndDate             string   `json:"end_date"`
	GroupSize           int      `json:"group_size"`
	TotalBudget         float64  `json:"total_budget"`
	Currency            string   `json:"currency"`
	TransportPreference string   `json:"transport_preference"`
	ActivityInterests   []string `json:"activity_interests"`
	TripType            string   `json:"trip_type"`
	LegCount            int      `json:"leg_count"`
}

type FlightResponse struct {
	LegNumber    int     `json:"leg_number"`
	OfferID      string  `json:"offer_id"`
	Airline      string  `json:"airline"`
	FlightNumber string  `json:"flight_number"`
	Origin       string  `json:"origin"`
	Destination  string  `json:"destination"`
	DepartAt     string  `json:"depart_at"`
	ArriveAt     string  `json:"arrive_at"`
	Cabin        string  `json:"cabin"`
	Stops        int     `json:"stops"`
	Price        float64 `json:"price"`
	Currency     string  `json:"currency"`
	IsMock       bool    `json:"is_mock"`
}

type ScheduleDayResponse struct {
	DayNumber  int                    `json:"day_number"`
	Date       string                 `json:"date"`
	Title      string                 `json:"title"`
	Activities []dbm.ScheduleActivity `json:"activities"`
	DayCost    float64                `json:"day_cost"`
}

type BudgetResponse struct {
	TotalBudget     float64 `json:"total_budget"`
	Currency        string  `json:"currency"`
	FlightCost      float64 `json:"flight_cost"`
	HotelCost       float64 `json:"hotel_cost"`
	ActivityCost    float64 `json:"activity_cost"`
	PlannedExpenses float64 `json:"planned_expenses"`
	Remaining       float64 `json:"remaining"`
}

type TripDetailResponse struct {
	Trip            TripResponse          `json:"trip"`
	Flights         []FlightResponse      `json:"flights"`
	Hotel           *dbm.SelectedHotel    `json:"hotel,omitempty"`
	Schedule        []ScheduleDayResponse `json:"schedule"`
	Budget          *BudgetResponse       `json:"budget,omitempty"`
	PackingList     *dbm.PackingList      `json:"packing_list,omitempty"`
	Weather         []dbm.WeatherDay      `json:"weather"`
	Recommendations []dbm.Recommendation  `json:"recommendations"`
}

func BuildTripResponse(t *dbm.Trip) TripResponse {
	interests := t.ActivityInterests
	if interests == nil {
		interests = []string{}
	}
	return TripResponse{
		ID:                  t.ID.String(),
		Origin:              t.Origin,
		Destination:         t.Destination,
		StartDate:           utils.FormatDate(t.StartDate),
		EndDate:             utils.FormatDate(t.EndDate),
		GroupSize:           t.GroupSize,
		TotalBudget:         t.TotalBudget,
		Currency:            t.Currency,
		TransportPreference: t.TransportPreference,
		ActivityInterests:   interests,
		TripType:            t.TripType,
		LegCount:            t.LegCount,
	}
}

func BuildFlightResponses(flights []dbm.SelectedFlight) []FlightResponse {
	out := make([]FlightResponse, 0, len(flights))
	for _, f := range flights {
		out = append(out, FlightResponse{
			LegNumber:    f.LegNumber,
			OfferID:      f.OfferID,
			Airline:      f.Airline,
			FlightNumber: f.FlightNumber,
			Origin:       f.Origin,
			Destination:  f.Destination,
			DepartAt:     formatTime(f.DepartAt),
			ArriveAt:     formatTime(f.ArriveAt),
			Cabin:        f.Cabin,
			Stops:        f.Stops,
			Price:        f.Price,
			Currency:     f.Currency,
			IsMock:       f.IsMock,
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].LegNumber < out[j].LegNumber })
	return out
}

func BuildScheduleResponses(days []dbm.ScheduleDay) []ScheduleDayResponse {
	out := make([]ScheduleDayResponse, 0, len(days))
	for _, d := range days {
		acts := []dbm.ScheduleActivity(d.Activities)
		if acts == nil {
			acts = []dbm.ScheduleActivity{}
		}
		out = append(out, ScheduleDayResponse{
			DayNumber:  d.DayNumber,
			Date:       utils.FormatDate(d.Date),
			Title:      d.Title,
			Activities: acts,
			DayCost:    d.DayCost,
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].DayNumber < out[j].DayNumber })
	return out
}

func BuildBudgetResponse(b *dbm.Budget) *BudgetResponse {
	if b == nil {
		return nil
	}
	return &BudgetResponse{
		TotalBudget:     b.TotalBudget,
		Currency:        b.Currency,
		FlightCost:      b.FlightCost,
		HotelCost:       b.HotelCost,
		ActivityCost:    b.ActivityCost,
		PlannedExpenses: b.PlannedExpenses,
		Remaining:       b.TotalBudget - b.PlannedExpenses,
	}
}

func BuildTripDetailResponse(t *dbm.Trip) *TripDetailResponse {
	weather := t.Weather
	if weather == nil {
		weather = []dbm.WeatherDay{}
	}
	recs := t.Recommendations
	if recs == nil {
		recs = []dbm.Recommendation{}
	}
	return &TripDetailResponse{
		Trip:            BuildTripResponse(t),
		Flights:         BuildFlightResponses(t.Flights),
		Hotel:           t.Hotel,
		Schedule:        BuildScheduleResponses(t.ScheduleDays),
		Budget:          BuildBudgetResponse(t.Budget),
		PackingList:     t.PackingList,
		Weather:         weather,
		Recommendations: recs,
	}
}
