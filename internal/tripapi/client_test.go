package tripapi

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	req "wayfare/internal/models/request_models"
	"wayfare/internal/offline"
	"wayfare/pkg/utils"
)

func TestWriteSendsPayloadToKindPath(t *testing.T) {
	var gotPath, gotAuth, gotTrace, gotMethod string
	var gotBody []byte
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod, gotPath = r.Method, r.URL.Path
		gotAuth = r.Header.Get("Authorization")
		gotTrace = r.Header.Get("X-Trace-ID")
		gotBody, _ = io.ReadAll(r.Body)
		_ = json.NewEncoder(w).Encode(utils.APIResponse{Status: "success", Code: 200})
	}))
	defer srv.Close()

	c := NewClient(srv.URL+"/", "tok")
	err := c.Write(context.Background(), offline.Entry{
		TripID:  "abc",
		Kind:    req.KindPackingList,
		Payload: json.RawMessage(`{"items":[]}`),
		TraceID: "trace-1",
	})
	require.NoError(t, err)
	assert.Equal(t, http.MethodPut, gotMethod)
	assert.Equal(t, "/trips/abc/packing-list", gotPath)
	assert.Equal(t, "Bearer tok", gotAuth)
	assert.Equal(t, "trace-1", gotTrace)
	assert.JSONEq(t, `{"items":[]}`, string(gotBody))
}

func TestErrorsAreClassified(t *testing.T) {
	cases := []struct {
		status  int
		message string
		is      error
	}{
		{http.StatusBadRequest, "validation error: flights leg numbers", utils.ErrValidation},
		{http.StatusNotFound, "Trip not found", utils.ErrTripNotFound},
		{http.StatusInternalServerError, "Schema mismatch: no such column", utils.ErrSchemaMismatch},
		{http.StatusServiceUnavailable, "down", ErrUnreachable},
	}
	for _, tc := range cases {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(tc.status)
			_ = json.NewEncoder(w).Encode(utils.APIResponse{Status: "error", Code: tc.status, Message: tc.message})
		}))
		err := NewClient(srv.URL, "").Write(context.Background(), offline.Entry{TripID: "t", Kind: req.KindHotel, Payload: json.RawMessage(`{}`)})
		srv.Close()

		assert.ErrorIs(t, err, tc.is, "status %d", tc.status)
		var apiErr *APIError
		require.True(t, errors.As(err, &apiErr))
		assert.Equal(t, tc.message, apiErr.Message)
	}
}

func TestUnreachableServer(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	c := NewClient(url, "")
	assert.False(t, c.Reachable(context.Background()))

	err := c.Write(context.Background(), offline.Entry{TripID: "t", Kind: req.KindBudget, Payload: json.RawMessage(`{}`)})
	assert.ErrorIs(t, err, ErrUnreachable)
}

func TestReachableAndDecodeData(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/health":
			w.WriteHeader(http.StatusOK)
		case "/trips/t1/budget":
			_ = json.NewEncoder(w).Encode(utils.APIResponse{
				Status: "success",
				Code:   200,
				Data:   map[string]any{"total_budget": 1000, "planned_expenses": 400, "remaining": 600},
			})
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "")
	assert.True(t, c.Reachable(context.Background()))

	b, err := c.GetBudget(context.Background(), "t1")
	require.NoError(t, err)
	assert.InDelta(t, 600.0, b.Remaining, 0.001)
	assert.InDelta(t, 400.0, b.PlannedExpenses, 0.001)
}
