package services

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"unicode/utf8"

	"go.uber.org/zap"
	req "wayfare/internal/models/request_models"
	resp "wayfare/internal/models/response_models"
	"wayfare/internal/normalize"
	"wayfare/pkg/utils"
)

// TextGeneratorFactory builds a model client for the credential the caller sent.
type TextGeneratorFactory func(ctx context.Context, apiKey string) (utils.TextGenerator, error)

type AIServiceInterface interface {
	GenerateOffers(ctx context.Context, apiKey string, in req.GenerateRequest) (*resp.GenerateResponse, error)
}

type AIService struct {
	newGenerator TextGeneratorFactory
	logger       *zap.Logger
}

func NewAIService(newGenerator TextGeneratorFactory, logger *zap.Logger) AIServiceInterface {
	return &AIService{
		newGenerator: newGenerator,
		logger:       logger,
	}
}

// GenerateOffers asks the model for offers in the normalized shape. Output
// the parser cannot use comes back as an empty mock list, not an error.
func (s *AIService) GenerateOffers(ctx context.Context, apiKey string, in req.GenerateRequest) (*resp.GenerateResponse, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, utils.ErrMissingCredential
	}
	if in.Kind != "flights" && in.Kind != "hotels" {
		return nil, utils.NewValidationError("kind", "must be one of [flights hotels]")
	}

	gen, err := s.newGenerator(ctx, apiKey)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", utils.ErrProviderUnavailable, err)
	}
	defer gen.Close()

	text, err := gen.Generate(ctx, buildOfferPrompt(in))
	if err != nil {
		s.logger.Warn("generative provider failed", zap.String("kind", in.Kind), zap.Error(err))
		return nil, fmt.Errorf("%w: %v", utils.ErrProviderUnavailable, err)
	}

	out := &resp.GenerateResponse{Kind: in.Kind, IsMock: true}
	switch in.Kind {
	case "flights":
		offers, err := normalize.FlightOffers([]byte(text), flightDefaults(in.Params))
		if err != nil {
			s.logUnusable(in.Kind, text, err)
			offers = nil
		}
		out.Flights = markFlightsMock(offers)
	case "hotels":
		offers, err := normalize.HotelOffers([]byte(text), hotelDefaults(in.Params))
		if err != nil {
			s.logUnusable(in.Kind, text, err)
			offers = nil
		}
		out.Hotels = markHotelsMock(offers)
	}
	return out, nil
}

func (s *AIService) logUnusable(kind, text string, err error) {
	text = logSample(text, 200)
	level := s.logger.Warn
	if errors.Is(err, normalize.ErrNoJSON) {
		level = s.logger.Info
	}
	level("generative output not usable", zap.String("kind", kind), zap.String("sample", text), zap.Error(err))
}

// logSample cuts text to at most n runes.
func logSample(text string, n int) string {
	if utf8.RuneCountInString(text) <= n {
		return text
	}
	return string([]rune(text)[:n])
}

func flightDefaults(p map[string]string) normalize.FlightDefaults {
	date, _ := utils.ParseDate(p["date"])
	return normalize.FlightDefaults{
		Origin:      p["origin"],
		Destination: p["destination"],
		Date:        date,
		Cabin:       p["cabin"],
		Currency:    strings.ToUpper(p["currency"]),
		IsMock:      true,
	}
}

func hotelDefaults(p map[string]string) normalize.HotelDefaults {
	in, _ := utils.ParseDate(p["check_in"])
	out, _ := utils.ParseDate(p["check_out"])
	return normalize.HotelDefaults{
		City:     p["city"],
		CheckIn:  in,
		CheckOut: out,
		Currency: strings.ToUpper(p["currency"]),
		IsMock:   true,
	}
}

func markFlightsMock(offers []resp.FlightOffer) []resp.FlightOffer {
	if offers == nil {
		return []resp.FlightOffer{}
	}
	for i := range offers {
		offers[i].IsMock = true
	}
	return offers
}

func markHotelsMock(offers []resp.HotelOffer) []resp.HotelOffer {
	if offers == nil {
		return []resp.HotelOffer{}
	}
	for i := range offers {
		offers[i].IsMock = true
	}
	return offers
}

func buildOfferPrompt(in req.GenerateRequest) string {
	var b strings.Builder
	switch in.Kind {
	case "flights":
		b.WriteString("Suggest up to 5 realistic flight options. Return JSON only:\n")
		b.WriteString(`{"flights":[{"airline":"...","flight_number":"...","origin":"IATA","destination":"IATA","depart_at":"2025-01-01T09:00:00Z","arrive_at":"2025-01-01T11:00:00Z","stops":0,"cabin":"economy","price":0,"currency":"USD"}]}`)
	case "hotels":
		b.WriteString("Suggest up to 5 realistic hotels. Return JSON only:\n")
		b.WriteString(`{"hotels":[{"name":"...","address":"...","rating":4.0,"price_per_night":0,"currency":"USD"}]}`)
	}

	if len(in.Params) > 0 {
		keys := make([]string, 0, len(in.Params))
		for k := range in.Params {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		b.WriteString("\n\nConstraints:\n")
		for _, k := range keys {
			fmt.Fprintf(&b, "- %s: %s\n", k, in.Params[k])
		}
	}
	if q := strings.TrimSpace(in.Query); q != "" {
		fmt.Fprintf(&b, "\nUser: %s\n", q)
	}
	b.WriteString("\nJSON only:")
	return b.String()
}
