// Package providers holds the live search sources the fallback resolver
// chains together.
package providers

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"
	"golang.org/x/time/rate"

	"wayfare/internal/fallback"
	resp "wayfare/internal/models/response_models"
	"wayfare/internal/normalize"
	"wayfare/pkg/utils"
)

const (
	defaultTimeout  = 30 * time.Second
	flightsPath     = "/v2/shopping/flight-offers"
	hotelsPath      = "/v3/shopping/hotel-offers"
	tokenPath       = "/v1/security/oauth2/token"
	maxErrorBodyLen = 64 << 10
)

// shapeMarkers identify provider error codes that describe the query itself.
var shapeMarkers = []string{"overlap", "segment", "invalid date", "date in the past", "invalid format", "mandatory data missing"}

type PrimaryConfig struct {
	BaseURL      string
	ClientID     string
	ClientSecret string
	// RequestsPerSecond caps outbound calls. Zero means 5.
	RequestsPerSecond float64
	Timeout           time.Duration
}

// PrimaryClient talks to the flight and hotel search API using OAuth2
// client credentials.
type PrimaryClient struct {
	baseURL    string
	httpClient *http.Client
	limiter    *rate.Limiter
	logger     *zap.Logger
}

func NewPrimaryClient(cfg PrimaryConfig, logger *zap.Logger) *PrimaryClient {
	if logger == nil {
		logger = zap.NewNop()
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	rps := cfg.RequestsPerSecond
	if rps <= 0 {
		rps = 5
	}
	base := strings.TrimRight(cfg.BaseURL, "/")

	var hc *http.Client
	if cfg.ClientID != "" {
		cc := clientcredentials.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			TokenURL:     base + tokenPath,
		}
		tokenCtx := context.WithValue(context.Background(), oauth2.HTTPClient, &http.Client{Timeout: timeout})
		hc = cc.Client(tokenCtx)
		hc.Timeout = timeout
	}

	return &PrimaryClient{
		baseURL:    base,
		httpClient: hc,
		limiter:    rate.NewLimiter(rate.Limit(rps), int(rps)+1),
		logger:     logger.Named("primary"),
	}
}

func (c *PrimaryClient) SearchFlights(ctx context.Context, q fallback.FlightQuery) ([]resp.FlightOffer, error) {
	v := url.Values{}
	v.Set("originLocationCode", q.Origin)
	v.Set("destinationLocationCode", q.Destination)
	v.Set("departureDate", utils.FormatDate(q.Date))
	v.Set("adults", strconv.Itoa(max(q.Adults, 1)))
	v.Set("max", "10")
	if q.Cabin != "" {
		v.Set("travelClass", strings.ToUpper(q.Cabin))
	}
	if q.Currency != "" {
		v.Set("currencyCode", q.Currency)
	}

	body, err := c.get(ctx, flightsPath, v)
	if err != nil {
		return nil, err
	}
	offers, err := normalize.FlightOffers(body, normalize.FlightDefaults{
		Origin:      q.Origin,
		Destination: q.Destination,
		Date:        q.Date,
		Cabin:       q.Cabin,
		Currency:    q.Currency,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", utils.ErrProviderUnavailable, err)
	}
	return offers, nil
}

func (c *PrimaryClient) SearchHotels(ctx context.Context, q fallback.HotelQuery) ([]resp.HotelOffer, error) {
	v := url.Values{}
	v.Set("cityCode", q.City)
	v.Set("checkInDate", utils.FormatDate(q.CheckIn))
	v.Set("checkOutDate", utils.FormatDate(q.CheckOut))
	v.Set("adults", strconv.Itoa(max(q.Guests, 1)))
	if q.Currency != "" {
		v.Set("currency", q.Currency)
	}

	body, err := c.get(ctx, hotelsPath, v)
	if err != nil {
		return nil, err
	}
	offers, err := normalize.HotelOffers(body, normalize.HotelDefaults{
		City:     q.City,
		CheckIn:  q.CheckIn,
		CheckOut: q.CheckOut,
		Currency: q.Currency,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", utils.ErrProviderUnavailable, err)
	}
	return offers, nil
}

func (c *PrimaryClient) get(ctx context.Context, path string, query url.Values) ([]byte, error) {
	if c.httpClient == nil {
		return nil, fmt.Errorf("%w: primary provider not configured", utils.ErrProviderUnavailable)
	}
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("%w: rate limit wait: %v", utils.ErrProviderUnavailable, err)
	}

	r, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path+"?"+query.Encode(), nil)
	if err != nil {
		return nil, err
	}
	r.Header.Set("Accept", "application/json")

	start := time.Now()
	res, err := c.httpClient.Do(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", utils.ErrProviderUnavailable, err)
	}
	defer res.Body.Close()

	body, err := io.ReadAll(io.LimitReader(res.Body, 8<<20))
	if err != nil {
		return nil, fmt.Errorf("%w: read body: %v", utils.ErrProviderUnavailable, err)
	}
	c.logger.Debug("provider call",
		zap.String("path", path),
		zap.Int("status", res.StatusCode),
		zap.Duration("took", time.Since(start)))

	if res.StatusCode >= 200 && res.StatusCode < 300 {
		return body, nil
	}
	return nil, classify(res.StatusCode, body)
}

type providerError struct {
	Code   string `json:"code"`
	Title  string `json:"title"`
	Detail string `json:"detail"`
}

// classify maps a non-2xx answer onto the error taxonomy. Only a 400 or 422
// naming a problem with the query stops the fallback chain.
func classify(status int, body []byte) error {
	if len(body) > maxErrorBodyLen {
		body = body[:maxErrorBodyLen]
	}
	if status != http.StatusBadRequest && status != http.StatusUnprocessableEntity {
		return fmt.Errorf("%w: provider returned %d", utils.ErrProviderUnavailable, status)
	}

	var doc struct {
		Errors []providerError `json:"errors"`
		Error  *providerError  `json:"error"`
	}
	_ = json.Unmarshal(body, &doc)
	if doc.Error != nil {
		doc.Errors = append(doc.Errors, *doc.Error)
	}

	for _, pe := range doc.Errors {
		text := strings.ToLower(pe.Code + " " + pe.Title + " " + pe.Detail)
		for _, m := range shapeMarkers {
			if strings.Contains(text, m) {
				msg := pe.Detail
				if msg == "" {
					msg = pe.Title
				}
				code := pe.Code
				if code == "" {
					code = strings.ReplaceAll(strings.ToUpper(pe.Title), " ", "_")
				}
				return &utils.RequestShapeError{Code: code, Message: msg}
			}
		}
	}
	return fmt.Errorf("%w: provider returned %d", utils.ErrProviderUnavailable, status)
}
