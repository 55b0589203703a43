// Package tripapi is the client side of the trip server's HTTP API.
package tripapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	req "wayfare/internal/models/request_models"
	resp "wayfare/internal/models/response_models"
	"wayfare/internal/offline"
	"wayfare/pkg/utils"
)

// ErrUnreachable covers every failure where the request never got an
// answer from the server itself.
var ErrUnreachable = errors.New("trip server unreachable")

// APIError is a non-2xx answer from the server.
type APIError struct {
	Status  int
	Message string
	TraceID string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("trip server returned %d: %s", e.Status, e.Message)
}

func (e *APIError) Is(target error) bool {
	switch target {
	case ErrUnreachable:
		return e.Status == http.StatusBadGateway || e.Status == http.StatusServiceUnavailable || e.Status == http.StatusGatewayTimeout
	case utils.ErrValidation:
		return e.Status == http.StatusBadRequest
	case utils.ErrTripNotFound:
		return e.Status == http.StatusNotFound
	case utils.ErrSchemaMismatch:
		return e.Status == http.StatusInternalServerError && strings.HasPrefix(e.Message, "Schema mismatch")
	case utils.ErrDatabaseError:
		return e.Status == http.StatusInternalServerError
	}
	return false
}

type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
	probeAfter time.Duration
	logger     *zap.Logger
}

type Option func(*Client)

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

func WithLogger(l *zap.Logger) Option {
	return func(c *Client) { c.logger = l }
}

// WithProbeTimeout bounds the health check used by Reachable.
func WithProbeTimeout(d time.Duration) Option {
	return func(c *Client) { c.probeAfter = d }
}

func NewClient(baseURL, token string, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		token:      token,
		httpClient: &http.Client{Timeout: 15 * time.Second},
		probeAfter: 3 * time.Second,
		logger:     zap.NewNop(),
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// Reachable reports whether /health answers with 200 within the probe timeout.
func (c *Client) Reachable(ctx context.Context) bool {
	ctx, cancel := context.WithTimeout(ctx, c.probeAfter)
	defer cancel()

	r, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/health", nil)
	if err != nil {
		return false
	}
	res, err := c.httpClient.Do(r)
	if err != nil {
		c.logger.Debug("health probe failed", zap.Error(err))
		return false
	}
	defer res.Body.Close()
	_, _ = io.Copy(io.Discard, res.Body)
	return res.StatusCode == http.StatusOK
}

// Write sends one queued or direct write with its trace id.
func (c *Client) Write(ctx context.Context, e offline.Entry) error {
	if e.TraceID == "" {
		e.TraceID = uuid.NewString()
	}
	return c.do(ctx, http.MethodPut, "/trips/"+e.TripID+e.Kind.Path(), e.TraceID, e.Payload, nil)
}

func (c *Client) CreateTrip(ctx context.Context, in req.CreateTripRequest) (*resp.TripResponse, error) {
	body, err := json.Marshal(in)
	if err != nil {
		return nil, err
	}
	var out resp.TripResponse
	if err := c.do(ctx, http.MethodPost, "/trips", "", body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) GetTrip(ctx context.Context, tripID string) (*resp.TripDetailResponse, error) {
	var out resp.TripDetailResponse
	if err := c.do(ctx, http.MethodGet, "/trips/"+tripID, "", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) GetBudget(ctx context.Context, tripID string) (*resp.BudgetResponse, error) {
	var out resp.BudgetResponse
	if err := c.do(ctx, http.MethodGet, "/trips/"+tripID+req.KindBudget.Path(), "", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

type envelope struct {
	Status  string          `json:"status"`
	Code    int             `json:"code"`
	Message string          `json:"message"`
	TraceID string          `json:"trace_id"`
	Data    json.RawMessage `json:"data"`
}

func (c *Client) do(ctx context.Context, method, path, traceID string, body []byte, out any) error {
	var rdr io.Reader
	if body != nil {
		rdr = bytes.NewReader(body)
	}
	r, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, rdr)
	if err != nil {
		return err
	}
	r.Header.Set("Accept", "application/json")
	if body != nil {
		r.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		r.Header.Set("Authorization", "Bearer "+c.token)
	}
	if traceID != "" {
		r.Header.Set("X-Trace-ID", traceID)
	}

	res, err := c.httpClient.Do(r)
	if err != nil {
		return fmt.Errorf("%w: %s %s: %v", ErrUnreachable, method, path, err)
	}
	defer res.Body.Close()

	raw, err := io.ReadAll(res.Body)
	if err != nil {
		return fmt.Errorf("%w: read body: %v", ErrUnreachable, err)
	}

	var env envelope
	_ = json.Unmarshal(raw, &env)
	if res.StatusCode < 200 || res.StatusCode >= 300 {
		msg := env.Message
		if msg == "" {
			msg = strings.TrimSpace(string(raw))
		}
		return &APIError{Status: res.StatusCode, Message: msg, TraceID: res.Header.Get("X-Trace-ID")}
	}

	if out == nil || len(env.Data) == 0 || string(env.Data) == "null" {
		return nil
	}
	if err := json.Unmarshal(env.Data, out); err != nil {
		return fmt.Errorf("decode %s %s response: %w", method, path, err)
	}
	return nil
}
