package itinerary

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wayfare/internal/fallback"
	req "wayfare/internal/models/request_models"
	resp "wayfare/internal/models/response_models"
	"wayfare/pkg/utils"
)

type scriptedResolver struct {
	mu      sync.Mutex
	calls   []fallback.FlightQuery
	reject  bool
	started chan fallback.FlightQuery
	release chan struct{}
}

func (r *scriptedResolver) ResolveFlights(ctx context.Context, q fallback.FlightQuery) fallback.FlightOutcome {
	r.mu.Lock()
	r.calls = append(r.calls, q)
	started, release, reject := r.started, r.release, r.reject
	r.mu.Unlock()

	if started != nil {
		started <- q
		<-release
	}
	if reject {
		return fallback.FlightOutcome{
			Provenance: fallback.Rejected,
			Notice:     &fallback.Notice{Blocking: true, Code: "4926", Message: "Segments overlap in time"},
		}
	}
	prefix := q.Origin + "-" + q.Destination
	return fallback.FlightOutcome{
		Provenance: fallback.FromProvider,
		Offers: []resp.FlightOffer{
			{ID: prefix + "-a", Airline: "Thai AirAsia", Origin: q.Origin, Destination: q.Destination, DepartAt: q.Date.Add(7 * time.Hour), Price: 95},
			{ID: prefix + "-b", Airline: "Bangkok Airways", Origin: q.Origin, Destination: q.Destination, DepartAt: q.Date.Add(12 * time.Hour), Price: 140},
		},
	}
}

func (r *scriptedResolver) callCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.calls)
}

type capturingSaver struct {
	tripType req.TripType
	legs     []resp.FlightOffer
	err      error
	calls    int
}

func (s *capturingSaver) SaveFlights(ctx context.Context, tripType req.TripType, legs []resp.FlightOffer) (SaveReport, error) {
	s.calls++
	s.tripType = tripType
	s.legs = legs
	return SaveReport{Kind: req.KindFlights}, s.err
}

var augFifth = time.Date(2025, 8, 5, 0, 0, 0, 0, time.UTC)

func oneWay() SearchParams {
	return SearchParams{TripType: req.TripOneWay, Origin: "BKK", Destination: "HKT", DepartDate: augFifth, Adults: 1}
}

func roundTrip() SearchParams {
	return SearchParams{
		TripType:    req.TripRoundTrip,
		Origin:      "BKK",
		Destination: "HKT",
		DepartDate:  augFifth,
		ReturnDate:  augFifth.AddDate(0, 0, 4),
		Adults:      2,
	}
}

func TestOneWaySelectionCompletesAndSaves(t *testing.T) {
	res := &scriptedResolver{}
	saver := &capturingSaver{}
	c := NewFlightController(res, saver, nil)

	snap, err := c.FetchOptions(context.Background(), oneWay())
	require.NoError(t, err)
	assert.Equal(t, AwaitingSelection, snap.State)
	assert.Equal(t, 1, snap.TotalLegs)
	require.Len(t, snap.Outcome.Offers, 2)

	snap, err = c.SelectForCurrentLeg(context.Background(), "BKK-HKT-a")
	require.NoError(t, err)
	assert.Equal(t, Completed, snap.State)
	require.NotNil(t, snap.Save)
	assert.False(t, snap.Save.Queued)

	assert.Equal(t, 1, saver.calls)
	assert.Equal(t, req.TripOneWay, saver.tripType)
	payload := FlightsRequest(saver.tripType, saver.legs)
	require.Len(t, payload.Flights, 1)
	assert.Equal(t, 1, payload.Flights[0].LegNumber)
	assert.Equal(t, "2025-08-05T07:00:00Z", payload.Flights[0].DepartAt)
}

func TestRoundTripReusesCachedLegs(t *testing.T) {
	res := &scriptedResolver{}
	saver := &capturingSaver{}
	c := NewFlightController(res, saver, nil)
	ctx := context.Background()

	_, err := c.FetchOptions(ctx, roundTrip())
	require.NoError(t, err)

	snap, err := c.SelectForCurrentLeg(ctx, "BKK-HKT-a")
	require.NoError(t, err)
	assert.Equal(t, 1, snap.Leg)
	assert.Equal(t, AwaitingSelection, snap.State)
	assert.Equal(t, "HKT", snap.Outcome.Offers[0].Origin)
	assert.Equal(t, augFifth.AddDate(0, 0, 4), res.calls[1].Date)
	assert.Equal(t, 2, res.callCount())

	snap, exit := c.GoBack(ctx)
	assert.False(t, exit)
	assert.Equal(t, 0, snap.Leg)
	assert.Empty(t, snap.Selections)
	assert.Equal(t, 2, res.callCount())

	_, err = c.SelectForCurrentLeg(ctx, "BKK-HKT-b")
	require.NoError(t, err)
	assert.Equal(t, 2, res.callCount(), "return leg comes from the cache")

	snap, err = c.SelectForCurrentLeg(ctx, "HKT-BKK-a")
	require.NoError(t, err)
	assert.Equal(t, Completed, snap.State)

	payload := FlightsRequest(saver.tripType, saver.legs)
	require.Len(t, payload.Flights, 2)
	assert.Equal(t, 1, payload.Flights[0].LegNumber)
	assert.Equal(t, "BKK-HKT-b", payload.Flights[0].OfferID)
	assert.Equal(t, 2, payload.Flights[1].LegNumber)
	assert.Equal(t, "HKT-BKK-a", payload.Flights[1].OfferID)
}

func TestFetchOptionsStartsFreshSession(t *testing.T) {
	res := &scriptedResolver{}
	c := NewFlightController(res, &capturingSaver{}, nil)
	ctx := context.Background()

	_, err := c.FetchOptions(ctx, roundTrip())
	require.NoError(t, err)
	_, err = c.FetchOptions(ctx, roundTrip())
	require.NoError(t, err)
	assert.Equal(t, 2, res.callCount())
}

func TestGoBackFromFirstLegExits(t *testing.T) {
	c := NewFlightController(&scriptedResolver{}, &capturingSaver{}, nil)
	_, err := c.FetchOptions(context.Background(), oneWay())
	require.NoError(t, err)

	snap, exit := c.GoBack(context.Background())
	assert.True(t, exit)
	assert.Equal(t, Idle, snap.State)
}

func TestStaleLegResultIsDropped(t *testing.T) {
	res := &scriptedResolver{}
	c := NewFlightController(res, &capturingSaver{}, nil)
	ctx := context.Background()

	_, err := c.FetchOptions(ctx, roundTrip())
	require.NoError(t, err)

	res.mu.Lock()
	res.started = make(chan fallback.FlightQuery)
	res.release = make(chan struct{})
	res.mu.Unlock()

	done := make(chan Snapshot)
	go func() {
		snap, _ := c.SelectForCurrentLeg(ctx, "BKK-HKT-a")
		done <- snap
	}()

	q := <-res.started
	assert.Equal(t, "HKT", q.Origin)
	assert.Equal(t, SearchingLeg, c.Snapshot().State)

	_, err = c.SelectForCurrentLeg(ctx, "HKT-BKK-a")
	assert.ErrorIs(t, err, ErrNotAwaitingSelection)

	back, exit := c.GoBack(ctx)
	assert.False(t, exit)
	assert.Equal(t, 0, back.Leg)
	assert.Equal(t, AwaitingSelection, back.State)

	close(res.release)
	late := <-done
	assert.Equal(t, 0, late.Leg)

	now := c.Snapshot()
	assert.Equal(t, 0, now.Leg)
	assert.Equal(t, "BKK-HKT-a", now.Outcome.Offers[0].ID)
	_, cached := c.cache.Get(1)
	assert.False(t, cached)
}

func TestRejectedQueryBlocksSelection(t *testing.T) {
	res := &scriptedResolver{reject: true}
	c := NewFlightController(res, &capturingSaver{}, nil)

	snap, err := c.FetchOptions(context.Background(), oneWay())
	require.NoError(t, err)
	assert.Equal(t, fallback.Rejected, snap.Outcome.Provenance)
	assert.Empty(t, snap.Outcome.Offers)
	require.NotNil(t, snap.Outcome.Notice)
	assert.True(t, snap.Outcome.Notice.Blocking)

	_, err = c.SelectForCurrentLeg(context.Background(), "anything")
	assert.ErrorIs(t, err, ErrUnknownOffer)
	assert.Equal(t, 0, c.cache.Len())
}

type failingSource struct{}

func (failingSource) SearchFlights(context.Context, fallback.FlightQuery) ([]resp.FlightOffer, error) {
	return nil, errors.New("connection refused")
}

func (failingSource) SearchHotels(context.Context, fallback.HotelQuery) ([]resp.HotelOffer, error) {
	return nil, fmt.Errorf("%w: timeout", utils.ErrProviderUnavailable)
}

func TestBothTiersDownStillReachesSelection(t *testing.T) {
	r := fallback.NewResolver(failingSource{}, failingSource{})
	c := NewFlightController(r, &capturingSaver{}, nil)

	snap, err := c.FetchOptions(context.Background(), oneWay())
	require.NoError(t, err)
	assert.Equal(t, AwaitingSelection, snap.State)
	assert.Equal(t, fallback.FromStatic, snap.Outcome.Provenance)
	require.NotEmpty(t, snap.Outcome.Offers)
	for _, o := range snap.Outcome.Offers {
		assert.True(t, o.IsMock)
		assert.Equal(t, "HKT", o.Destination)
	}
}

func TestMultiCityLegs(t *testing.T) {
	p := SearchParams{
		TripType: req.TripMultiCity,
		Segments: []Segment{
			{Origin: "bkk", Destination: "sgn", Date: augFifth},
			{Origin: "SGN", Destination: "HAN", Date: augFifth.AddDate(0, 0, 3)},
			{Origin: "HAN", Destination: "BKK", Date: augFifth.AddDate(0, 0, 6)},
		},
	}
	legs, err := p.Legs()
	require.NoError(t, err)
	require.Len(t, legs, 3)
	assert.Equal(t, "BKK", legs[0].Origin)
	assert.Equal(t, "SGN", legs[0].Destination)
	assert.Equal(t, 1, legs[2].Adults)

	p.Segments = p.Segments[:1]
	_, err = p.Legs()
	assert.ErrorIs(t, err, utils.ErrValidation)

	_, err = SearchParams{TripType: req.TripOneWay, Destination: "HKT"}.Legs()
	assert.ErrorIs(t, err, utils.ErrValidation)
}

func TestLegsRequireDates(t *testing.T) {
	missingReturn := roundTrip()
	missingReturn.ReturnDate = time.Time{}
	_, err := missingReturn.Legs()
	assert.ErrorIs(t, err, utils.ErrValidation)
	assert.Contains(t, err.Error(), "return_date")

	missingDepart := oneWay()
	missingDepart.DepartDate = time.Time{}
	_, err = missingDepart.Legs()
	assert.ErrorIs(t, err, utils.ErrValidation)

	undated := SearchParams{
		TripType: req.TripMultiCity,
		Segments: []Segment{
			{Origin: "BKK", Destination: "SGN", Date: augFifth},
			{Origin: "SGN", Destination: "HAN"},
		},
	}
	_, err = undated.Legs()
	assert.ErrorIs(t, err, utils.ErrValidation)
	assert.Contains(t, err.Error(), "segments[1].date")

	s := &capturingSaver{}
	c := NewFlightController(&scriptedResolver{}, s, nil)
	_, err = c.FetchOptions(context.Background(), missingReturn)
	assert.ErrorIs(t, err, utils.ErrValidation)
	assert.Equal(t, Idle, c.Snapshot().State)
}
