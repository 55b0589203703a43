package providers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"wayfare/internal/fallback"
	req "wayfare/internal/models/request_models"
	resp "wayfare/internal/models/response_models"
	"wayfare/pkg/utils"
)

// GenerativeClient asks the trip server's /ai/generate endpoint for offers.
// The model key is the user's own and is sent per request.
type GenerativeClient struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	logger     *zap.Logger
}

func NewGenerativeClient(baseURL, apiKey string, timeout time.Duration, logger *zap.Logger) *GenerativeClient {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &GenerativeClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: timeout},
		logger:     logger.Named("generative"),
	}
}

func (g *GenerativeClient) SearchFlights(ctx context.Context, q fallback.FlightQuery) ([]resp.FlightOffer, error) {
	out, err := g.generate(ctx, req.GenerateRequest{
		Kind:  "flights",
		Query: fmt.Sprintf("Flights from %s to %s", q.Origin, q.Destination),
		Params: map[string]string{
			"origin":      q.Origin,
			"destination": q.Destination,
			"date":        utils.FormatDate(q.Date),
			"adults":      strconv.Itoa(max(q.Adults, 1)),
			"cabin":       q.Cabin,
			"currency":    q.Currency,
		},
	})
	if err != nil {
		return nil, err
	}
	return out.Flights, nil
}

func (g *GenerativeClient) SearchHotels(ctx context.Context, q fallback.HotelQuery) ([]resp.HotelOffer, error) {
	out, err := g.generate(ctx, req.GenerateRequest{
		Kind:  "hotels",
		Query: "Hotels in " + q.City,
		Params: map[string]string{
			"city":      q.City,
			"check_in":  utils.FormatDate(q.CheckIn),
			"check_out": utils.FormatDate(q.CheckOut),
			"guests":    strconv.Itoa(max(q.Guests, 1)),
			"currency":  q.Currency,
		},
	})
	if err != nil {
		return nil, err
	}
	return out.Hotels, nil
}

func (g *GenerativeClient) generate(ctx context.Context, in req.GenerateRequest) (*resp.GenerateResponse, error) {
	if g.apiKey == "" {
		return nil, utils.ErrMissingCredential
	}
	body, err := json.Marshal(in)
	if err != nil {
		return nil, err
	}

	r, err := http.NewRequestWithContext(ctx, http.MethodPost, g.baseURL+"/ai/generate", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	r.Header.Set("Content-Type", "application/json")
	r.Header.Set("X-AI-Key", g.apiKey)

	res, err := g.httpClient.Do(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", utils.ErrProviderUnavailable, err)
	}
	defer res.Body.Close()

	raw, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: read body: %v", utils.ErrProviderUnavailable, err)
	}
	if res.StatusCode != http.StatusOK {
		g.logger.Warn("generate call failed", zap.Int("status", res.StatusCode), zap.String("kind", in.Kind))
		return nil, fmt.Errorf("%w: generate returned %d", utils.ErrProviderUnavailable, res.StatusCode)
	}

	var env struct {
		Data resp.GenerateResponse `json:"data"`
	}
	if err := json.Unmarshal(raw, &env); err != nil {
		return nil, fmt.Errorf("%w: %v", utils.ErrUnexpectedAIOutput, err)
	}
	return &env.Data, nil
}
