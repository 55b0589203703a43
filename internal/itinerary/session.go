package itinerary

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"wayfare/internal/fallback"
	req "wayfare/internal/models/request_models"
	resp "wayfare/internal/models/response_models"
	"wayfare/pkg/utils"
)

type Resolver interface {
	FlightResolver
	ResolveHotels(ctx context.Context, q fallback.HotelQuery) fallback.HotelOutcome
}

// Session is the client's working copy of one trip: its flight flow, the
// last hotel search and every save routed through the save path.
type Session struct {
	tripID   string
	resolver Resolver
	save     *SavePath
	flights  *FlightController
	logger   *zap.Logger

	mu     sync.Mutex
	hotels fallback.HotelOutcome
}

func NewSession(tripID string, resolver Resolver, save *SavePath, logger *zap.Logger) *Session {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Session{
		tripID:   tripID,
		resolver: resolver,
		save:     save,
		logger:   logger.With(zap.String("trip_id", tripID)),
	}
	s.flights = NewFlightController(resolver, s, s.logger)
	return s
}

func (s *Session) TripID() string { return s.tripID }

func (s *Session) Flights() *FlightController { return s.flights }

// SaveFlights persists the complete leg selection.
func (s *Session) SaveFlights(ctx context.Context, tripType req.TripType, legs []resp.FlightOffer) (SaveReport, error) {
	return s.save.Save(ctx, s.tripID, req.KindFlights, FlightsRequest(tripType, legs))
}

func (s *Session) SearchHotels(ctx context.Context, q fallback.HotelQuery) fallback.HotelOutcome {
	out := s.resolver.ResolveHotels(ctx, q)
	s.mu.Lock()
	s.hotels = out
	s.mu.Unlock()
	return out
}

// SelectHotel saves one offer from the last hotel search.
func (s *Session) SelectHotel(ctx context.Context, offerID string) (SaveReport, error) {
	s.mu.Lock()
	var chosen *resp.HotelOffer
	for i := range s.hotels.Offers {
		if s.hotels.Offers[i].ID == offerID {
			h := s.hotels.Offers[i]
			chosen = &h
			break
		}
	}
	s.mu.Unlock()
	if chosen == nil {
		return SaveReport{Kind: req.KindHotel}, fmt.Errorf("%w: %q", ErrUnknownOffer, offerID)
	}
	return s.save.Save(ctx, s.tripID, req.KindHotel, HotelRequest(*chosen))
}

func (s *Session) UpdateTrip(ctx context.Context, in req.UpdateTripRequest) (SaveReport, error) {
	return s.save.Save(ctx, s.tripID, req.KindTrip, in)
}

func (s *Session) SaveSchedule(ctx context.Context, in req.SaveScheduleRequest) (SaveReport, error) {
	return s.save.Save(ctx, s.tripID, req.KindSchedule, in)
}

func (s *Session) SaveBudget(ctx context.Context, in req.SaveBudgetRequest) (SaveReport, error) {
	return s.save.Save(ctx, s.tripID, req.KindBudget, in)
}

func (s *Session) SavePackingList(ctx context.Context, in req.SavePackingListRequest) (SaveReport, error) {
	return s.save.Save(ctx, s.tripID, req.KindPackingList, in)
}

func (s *Session) SaveWeather(ctx context.Context, in req.SaveWeatherRequest) (SaveReport, error) {
	return s.save.Save(ctx, s.tripID, req.KindWeather, in)
}

func (s *Session) SaveRecommendations(ctx context.Context, in req.SaveRecommendationsRequest) (SaveReport, error) {
	return s.save.Save(ctx, s.tripID, req.KindRecommendations, in)
}

func HotelRequest(h resp.HotelOffer) req.SaveHotelRequest {
	return req.SaveHotelRequest{
		OfferID:       h.ID,
		Name:          h.Name,
		Address:       h.Address,
		Rating:        h.Rating,
		CheckIn:       utils.FormatDate(h.CheckIn),
		CheckOut:      utils.FormatDate(h.CheckOut),
		PricePerNight: h.PricePerNight,
		TotalPrice:    h.TotalPrice,
		Currency:      h.Currency,
		ImageURL:      h.ImageURL,
		IsMock:        h.IsMock,
	}
}

func instant(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}
