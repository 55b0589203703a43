package services

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"
	dbm "wayfare/internal/models/db_models"
	req "wayfare/internal/models/request_models"
	resp "wayfare/internal/models/response_models"
	"wayfare/internal/repositories"
	"wayfare/pkg/utils"
)

type TripServiceInterface interface {
	CreateTrip(ctx context.Context, ownerID string, in req.CreateTripRequest) (*resp.TripResponse, error)
	UpdateTrip(ctx context.Context, ownerID string, tripID uuid.UUID, in req.UpdateTripRequest) (*resp.TripResponse, error)
	GetTrip(ctx context.Context, ownerID string, tripID uuid.UUID) (*resp.TripDetailResponse, error)

	SaveFlights(ctx context.Context, ownerID string, tripID uuid.UUID, in req.SaveFlightsRequest) (*resp.BudgetResponse, error)
	GetFlights(ctx context.Context, ownerID string, tripID uuid.UUID) ([]resp.FlightResponse, error)
	SaveHotel(ctx context.Context, ownerID string, tripID uuid.UUID, in req.SaveHotelRequest) (*resp.BudgetResponse, error)
	GetHotel(ctx context.Context, ownerID string, tripID uuid.UUID) (*dbm.SelectedHotel, error)
	SaveSchedule(ctx context.Context, ownerID string, tripID uuid.UUID, in req.SaveScheduleRequest) (*resp.BudgetResponse, error)
	GetSchedule(ctx context.Context, ownerID string, tripID uuid.UUID) ([]resp.ScheduleDayResponse, error)
	SaveBudget(ctx context.Context, ownerID string, tripID uuid.UUID, in req.SaveBudgetRequest) (*resp.BudgetResponse, error)
	GetBudget(ctx context.Context, ownerID string, tripID uuid.UUID) (*resp.BudgetResponse, error)
	SavePackingList(ctx context.Context, ownerID string, tripID uuid.UUID, in req.SavePackingListRequest) error
	GetPackingList(ctx context.Context, ownerID string, tripID uuid.UUID) (*dbm.PackingList, error)
	SaveWeather(ctx context.Context, ownerID string, tripID uuid.UUID, in req.SaveWeatherRequest) error
	GetWeather(ctx context.Context, ownerID string, tripID uuid.UUID) ([]dbm.WeatherDay, error)
	SaveRecommendations(ctx context.Context, ownerID string, tripID uuid.UUID, in req.SaveRecommendationsRequest) error
	GetRecommendations(ctx context.Context, ownerID string, tripID uuid.UUID) ([]dbm.Recommendation, error)
}

type TripService struct {
	tripRepo repositories.TripRepository
	logger   *zap.Logger
}

func NewTripService(tripRepo repositories.TripRepository, logger *zap.Logger) TripServiceInterface {
	return &TripService{
		tripRepo: tripRepo,
		logger:   logger,
	}
}

func (s *TripService) CreateTrip(ctx context.Context, ownerID string, in req.CreateTripRequest) (*resp.TripResponse, error) {
	if err := validateStruct(in); err != nil {
		return nil, err
	}
	trip := &dbm.Trip{OwnerID: ownerID}
	if err := applyTripFields(trip, in); err != nil {
		return nil, err
	}

	if err := s.tripRepo.CreateTrip(ctx, trip); err != nil {
		return nil, err
	}
	s.logger.Info("trip created", zap.String("trip_id", trip.ID.String()), zap.String("destination", trip.Destination))

	out := resp.BuildTripResponse(trip)
	return &out, nil
}

func (s *TripService) UpdateTrip(ctx context.Context, ownerID string, tripID uuid.UUID, in req.UpdateTripRequest) (*resp.TripResponse, error) {
	if err := validateStruct(in); err != nil {
		return nil, err
	}
	trip, err := s.ownedTrip(ctx, ownerID, tripID)
	if err != nil {
		return nil, err
	}
	if err := applyTripFields(trip, in); err != nil {
		return nil, err
	}
	if err := s.tripRepo.UpdateTrip(ctx, trip); err != nil {
		return nil, err
	}

	out := resp.BuildTripResponse(trip)
	return &out, nil
}

func (s *TripService) GetTrip(ctx context.Context, ownerID string, tripID uuid.UUID) (*resp.TripDetailResponse, error) {
	if _, err := s.ownedTrip(ctx, ownerID, tripID); err != nil {
		return nil, err
	}
	trip, err := s.tripRepo.GetTripDetails(ctx, tripID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", utils.ErrDatabaseError, err)
	}
	if trip == nil {
		return nil, utils.ErrTripNotFound
	}
	return resp.BuildTripDetailResponse(trip), nil
}

func (s *TripService) SaveFlights(ctx context.Context, ownerID string, tripID uuid.UUID, in req.SaveFlightsRequest) (*resp.BudgetResponse, error) {
	if err := validateStruct(in); err != nil {
		return nil, err
	}
	if err := ValidateLegCount(in.TripType, len(in.Flights)); err != nil {
		return nil, err
	}
	if _, err := s.ownedTrip(ctx, ownerID, tripID); err != nil {
		return nil, err
	}

	flights, err := buildFlights(in.Flights)
	if err != nil {
		return nil, err
	}

	budget, err := s.tripRepo.ReplaceFlights(ctx, tripID, string(in.TripType), flights)
	if err != nil {
		return nil, err
	}
	s.logger.Info("flights saved",
		zap.String("trip_id", tripID.String()),
		zap.String("trip_type", string(in.TripType)),
		zap.Int("legs", len(flights)))
	return resp.BuildBudgetResponse(budget), nil
}

func (s *TripService) GetFlights(ctx context.Context, ownerID string, tripID uuid.UUID) ([]resp.FlightResponse, error) {
	if _, err := s.ownedTrip(ctx, ownerID, tripID); err != nil {
		return nil, err
	}
	flights, err := s.tripRepo.ListFlights(ctx, tripID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", utils.ErrDatabaseError, err)
	}
	return resp.BuildFlightResponses(flights), nil
}

func (s *TripService) SaveHotel(ctx context.Context, ownerID string, tripID uuid.UUID, in req.SaveHotelRequest) (*resp.BudgetResponse, error) {
	if err := validateStruct(in); err != nil {
		return nil, err
	}
	if _, err := s.ownedTrip(ctx, ownerID, tripID); err != nil {
		return nil, err
	}
	hotel, err := buildHotel(in)
	if err != nil {
		return nil, err
	}

	budget, err := s.tripRepo.UpsertHotel(ctx, tripID, hotel)
	if err != nil {
		return nil, err
	}
	return resp.BuildBudgetResponse(budget), nil
}

func (s *TripService) GetHotel(ctx context.Context, ownerID string, tripID uuid.UUID) (*dbm.SelectedHotel, error) {
	if _, err := s.ownedTrip(ctx, ownerID, tripID); err != nil {
		return nil, err
	}
	hotel, err := s.tripRepo.GetHotel(ctx, tripID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", utils.ErrDatabaseError, err)
	}
	if hotel == nil {
		return nil, utils.ErrResourceNotFound
	}
	return hotel, nil
}

func (s *TripService) SaveSchedule(ctx context.Context, ownerID string, tripID uuid.UUID, in req.SaveScheduleRequest) (*resp.BudgetResponse, error) {
	if err := validateStruct(in); err != nil {
		return nil, err
	}
	if _, err := s.ownedTrip(ctx, ownerID, tripID); err != nil {
		return nil, err
	}
	days, err := buildScheduleDays(in.Days)
	if err != nil {
		return nil, err
	}

	budget, err := s.tripRepo.ReplaceSchedule(ctx, tripID, days)
	if err != nil {
		return nil, err
	}
	return resp.BuildBudgetResponse(budget), nil
}

func (s *TripService) GetSchedule(ctx context.Context, ownerID string, tripID uuid.UUID) ([]resp.ScheduleDayResponse, error) {
	if _, err := s.ownedTrip(ctx, ownerID, tripID); err != nil {
		return nil, err
	}
	days, err := s.tripRepo.ListScheduleDays(ctx, tripID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", utils.ErrDatabaseError, err)
	}
	return resp.BuildScheduleResponses(days), nil
}

func (s *TripService) SaveBudget(ctx context.Context, ownerID string, tripID uuid.UUID, in req.SaveBudgetRequest) (*resp.BudgetResponse, error) {
	if err := validateStruct(in); err != nil {
		return nil, err
	}
	if _, err := s.ownedTrip(ctx, ownerID, tripID); err != nil {
		return nil, err
	}
	budget, err := s.tripRepo.UpsertBudget(ctx, tripID, in.TotalBudget, strings.ToUpper(strings.TrimSpace(in.Currency)))
	if err != nil {
		return nil, err
	}
	return resp.BuildBudgetResponse(budget), nil
}

func (s *TripService) GetBudget(ctx context.Context, ownerID string, tripID uuid.UUID) (*resp.BudgetResponse, error) {
	if _, err := s.ownedTrip(ctx, ownerID, tripID); err != nil {
		return nil, err
	}
	budget, err := s.tripRepo.GetBudget(ctx, tripID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", utils.ErrDatabaseError, err)
	}
	if budget == nil {
		return nil, utils.ErrResourceNotFound
	}
	return resp.BuildBudgetResponse(budget), nil
}

func (s *TripService) SavePackingList(ctx context.Context, ownerID string, tripID uuid.UUID, in req.SavePackingListRequest) error {
	if err := validateStruct(in); err != nil {
		return err
	}
	if _, err := s.ownedTrip(ctx, ownerID, tripID); err != nil {
		return err
	}
	items := make([]dbm.PackingItem, 0, len(in.Items))
	for _, it := range in.Items {
		qty := it.Quantity
		if qty == 0 {
			qty = 1
		}
		items = append(items, dbm.PackingItem{
			Name:     strings.TrimSpace(it.Name),
			Category: it.Category,
			Quantity: qty,
			Packed:   it.Packed,
		})
	}
	return s.tripRepo.UpsertPackingList(ctx, tripID, &dbm.PackingList{Items: items, Notes: in.Notes})
}

func (s *TripService) GetPackingList(ctx context.Context, ownerID string, tripID uuid.UUID) (*dbm.PackingList, error) {
	if _, err := s.ownedTrip(ctx, ownerID, tripID); err != nil {
		return nil, err
	}
	list, err := s.tripRepo.GetPackingList(ctx, tripID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", utils.ErrDatabaseError, err)
	}
	if list == nil {
		return nil, utils.ErrResourceNotFound
	}
	return list, nil
}

func (s *TripService) SaveWeather(ctx context.Context, ownerID string, tripID uuid.UUID, in req.SaveWeatherRequest) error {
	if err := validateStruct(in); err != nil {
		return err
	}
	if _, err := s.ownedTrip(ctx, ownerID, tripID); err != nil {
		return err
	}
	days := make([]dbm.WeatherDay, 0, len(in.Days))
	for i, d := range in.Days {
		date, err := utils.ParseDate(d.Date)
		if err != nil {
			return utils.NewValidationError(fmt.Sprintf("days[%d].date", i), "is not a date")
		}
		days = append(days, dbm.WeatherDay{
			Date:          date,
			Summary:       d.Summary,
			TempHighC:     d.TempHighC,
			TempLowC:      d.TempLowC,
			PrecipPercent: d.PrecipPercent,
		})
	}
	return s.tripRepo.ReplaceWeather(ctx, tripID, days)
}

func (s *TripService) GetWeather(ctx context.Context, ownerID string, tripID uuid.UUID) ([]dbm.WeatherDay, error) {
	if _, err := s.ownedTrip(ctx, ownerID, tripID); err != nil {
		return nil, err
	}
	days, err := s.tripRepo.ListWeather(ctx, tripID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", utils.ErrDatabaseError, err)
	}
	return days, nil
}

func (s *TripService) SaveRecommendations(ctx context.Context, ownerID string, tripID uuid.UUID, in req.SaveRecommendationsRequest) error {
	if err := validateStruct(in); err != nil {
		return err
	}
	if _, err := s.ownedTrip(ctx, ownerID, tripID); err != nil {
		return err
	}
	items := make([]dbm.Recommendation, 0, len(in.Items))
	for _, it := range in.Items {
		items = append(items, dbm.Recommendation{
			Title:       strings.TrimSpace(it.Title),
			Category:    it.Category,
			Description: it.Description,
			ImageURL:    it.ImageURL,
		})
	}
	return s.tripRepo.ReplaceRecommendations(ctx, tripID, items)
}

func (s *TripService) GetRecommendations(ctx context.Context, ownerID string, tripID uuid.UUID) ([]dbm.Recommendation, error) {
	if _, err := s.ownedTrip(ctx, ownerID, tripID); err != nil {
		return nil, err
	}
	items, err := s.tripRepo.ListRecommendations(ctx, tripID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", utils.ErrDatabaseError, err)
	}
	return items, nil
}

// ownedTrip hides trips of other owners behind ErrTripNotFound.
func (s *TripService) ownedTrip(ctx context.Context, ownerID string, tripID uuid.UUID) (*dbm.Trip, error) {
	trip, err := s.tripRepo.GetTrip(ctx, tripID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", utils.ErrDatabaseError, err)
	}
	if trip == nil || (ownerID != "" && trip.OwnerID != ownerID) {
		return nil, utils.ErrTripNotFound
	}
	return trip, nil
}

// ValidateLegCount checks the number of legs against the trip type:
// one-way takes 1, round-trip 2, multi-city at least 2.
func ValidateLegCount(tripType req.TripType, legs int) error {
	switch tripType {
	case req.TripOneWay:
		if legs != 1 {
			return utils.NewValidationError("flights", fmt.Sprintf("one-way trip needs exactly 1 leg, got %d", legs))
		}
	case req.TripRoundTrip:
		if legs != 2 {
			return utils.NewValidationError("flights", fmt.Sprintf("round-trip needs exactly 2 legs, got %d", legs))
		}
	case req.TripMultiCity:
		if legs < 2 {
			return utils.NewValidationError("flights", fmt.Sprintf("multi-city trip needs at least 2 legs, got %d", legs))
		}
	default:
		return utils.NewValidationError("trip_type", fmt.Sprintf("unknown trip type %q", tripType))
	}
	return nil
}

func applyTripFields(trip *dbm.Trip, in req.CreateTripRequest) error {
	start, err := utils.ParseDate(in.StartDate)
	if err != nil {
		return utils.NewValidationError("start_date", "is not a date")
	}
	end, err := utils.ParseDate(in.EndDate)
	if err != nil {
		return utils.NewValidationError("end_date", "is not a date")
	}
	if !end.IsZero() && end.Before(start) {
		return utils.NewValidationError("end_date", "is before start_date")
	}

	currency := strings.ToUpper(strings.TrimSpace(in.Currency))
	if currency == "" {
		currency = "USD"
	}
	tripType := in.TripType
	if tripType == "" {
		tripType = req.TripRoundTrip
	}

	trip.Origin = strings.TrimSpace(in.Origin)
	trip.Destination = strings.TrimSpace(in.Destination)
	trip.StartDate = start
	trip.EndDate = end
	trip.GroupSize = in.GroupSize
	trip.TotalBudget = in.TotalBudget
	trip.Currency = currency
	trip.TransportPreference = in.TransportPreference
	trip.ActivityInterests = in.ActivityInterests
	trip.TripType = string(tripType)
	return nil
}

// buildFlights requires leg numbers to be exactly 1..N and returns them in order.
func buildFlights(in []req.FlightInput) ([]dbm.SelectedFlight, error) {
	seen := make(map[int]bool, len(in))
	out := make([]dbm.SelectedFlight, 0, len(in))
	for i, f := range in {
		if f.LegNumber < 1 || f.LegNumber > len(in) || seen[f.LegNumber] {
			return nil, utils.NewValidationError(fmt.Sprintf("flights[%d].leg_number", i),
				fmt.Sprintf("must be unique within 1..%d", len(in)))
		}
		seen[f.LegNumber] = true

		depart, err := utils.ParseInstant(f.DepartAt)
		if err != nil {
			return nil, utils.NewValidationError(fmt.Sprintf("flights[%d].depart_at", i), "is not a timestamp")
		}
		arrive, err := utils.ParseInstant(f.ArriveAt)
		if err != nil {
			return nil, utils.NewValidationError(fmt.Sprintf("flights[%d].arrive_at", i), "is not a timestamp")
		}

		currency := strings.ToUpper(f.Currency)
		if currency == "" {
			currency = "USD"
		}
		out = append(out, dbm.SelectedFlight{
			LegNumber:    f.LegNumber,
			OfferID:      f.OfferID,
			Airline:      f.Airline,
			FlightNumber: f.FlightNumber,
			Origin:       strings.ToUpper(f.Origin),
			Destination:  strings.ToUpper(f.Destination),
			DepartAt:     depart,
			ArriveAt:     arrive,
			Cabin:        f.Cabin,
			Stops:        f.Stops,
			Price:        f.Price,
			Currency:     currency,
			IsMock:       f.IsMock,
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].LegNumber < out[j].LegNumber })
	return out, nil
}

func buildHotel(in req.SaveHotelRequest) (*dbm.SelectedHotel, error) {
	checkIn, err := utils.ParseDate(in.CheckIn)
	if err != nil {
		return nil, utils.NewValidationError("check_in", "is not a date")
	}
	checkOut, err := utils.ParseDate(in.CheckOut)
	if err != nil {
		return nil, utils.NewValidationError("check_out", "is not a date")
	}
	if !checkIn.IsZero() && !checkOut.IsZero() && !checkOut.After(checkIn) {
		return nil, utils.NewValidationError("check_out", "must be after check_in")
	}

	nights := utils.NightsBetween(checkIn, checkOut)
	total := in.TotalPrice
	if total == 0 {
		total = in.PricePerNight * float64(nights)
	}
	currency := strings.ToUpper(in.Currency)
	if currency == "" {
		currency = "USD"
	}
	return &dbm.SelectedHotel{
		OfferID:       in.OfferID,
		Name:          strings.TrimSpace(in.Name),
		Address:       in.Address,
		Rating:        in.Rating,
		CheckIn:       checkIn,
		CheckOut:      checkOut,
		Nights:        nights,
		PricePerNight: in.PricePerNight,
		TotalPrice:    total,
		Currency:      currency,
		ImageURL:      in.ImageURL,
		IsMock:        in.IsMock,
	}, nil
}

// buildScheduleDays flattens every accepted activities shape into the stored
// list and derives day_cost from it.
func buildScheduleDays(in []req.ScheduleDayInput) ([]dbm.ScheduleDay, error) {
	seen := make(map[int]bool, len(in))
	out := make([]dbm.ScheduleDay, 0, len(in))
	for i, d := range in {
		if d.DayNumber < 1 || seen[d.DayNumber] {
			return nil, utils.NewValidationError(fmt.Sprintf("days[%d].day_number", i), "must be unique and >= 1")
		}
		seen[d.DayNumber] = true

		date, err := utils.ParseDate(d.Date)
		if err != nil {
			return nil, utils.NewValidationError(fmt.Sprintf("days[%d].date", i), "is not a date")
		}

		acts := make([]dbm.ScheduleActivity, 0, len(d.Activities.Items))
		for _, a := range d.Activities.Items {
			acts = append(acts, dbm.ScheduleActivity{
				Name:      a.Name,
				StartTime: a.StartTime,
				EndTime:   a.EndTime,
				Location:  a.Location,
				Cost:      a.Cost,
			})
		}
		out = append(out, dbm.ScheduleDay{
			DayNumber:  d.DayNumber,
			Date:       date,
			Title:      d.Title,
			Activities: acts,
			DayCost:    d.Activities.TotalCost(),
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].DayNumber < out[j].DayNumber })
	return out, nil
}
