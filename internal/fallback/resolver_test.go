package fallback

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	resp "wayfare/internal/models/response_models"
	"wayfare/pkg/utils"
)

type stubSource struct {
	flights []resp.FlightOffer
	hotels  []resp.HotelOffer
	err     error
	panics  bool
	block   bool
	calls   int
}

func (s *stubSource) SearchFlights(ctx context.Context, q FlightQuery) ([]resp.FlightOffer, error) {
	s.calls++
	if s.panics {
		panic("boom")
	}
	if s.block {
		<-ctx.Done()
		return nil, ctx.Err()
	}
	return s.flights, s.err
}

func (s *stubSource) SearchHotels(ctx context.Context, q HotelQuery) ([]resp.HotelOffer, error) {
	s.calls++
	return s.hotels, s.err
}

var bkkHkt = FlightQuery{Origin: "BKK", Destination: "HKT", Date: time.Date(2025, 8, 5, 0, 0, 0, 0, time.UTC)}

func TestPrimaryResultsAreReal(t *testing.T) {
	primary := &stubSource{flights: []resp.FlightOffer{{ID: "tg-1", Airline: "Thai Airways", Price: 90}}}
	generative := &stubSource{}

	out := NewResolver(primary, generative).ResolveFlights(context.Background(), bkkHkt)
	assert.Equal(t, FromProvider, out.Provenance)
	assert.False(t, out.IsMock)
	assert.False(t, out.Offers[0].IsMock)
	assert.Nil(t, out.Notice)
	assert.Zero(t, generative.calls)
}

func TestUnavailablePrimaryFallsThroughToGenerative(t *testing.T) {
	primary := &stubSource{err: utils.ErrProviderUnavailable}
	generative := &stubSource{flights: []resp.FlightOffer{{ID: "gen-1", Airline: "Bangkok Airways"}}}

	out := NewResolver(primary, generative).ResolveFlights(context.Background(), bkkHkt)
	assert.Equal(t, FromGenerative, out.Provenance)
	assert.True(t, out.IsMock)
	assert.True(t, out.Offers[0].IsMock)
	require.NotNil(t, out.Notice)
	assert.False(t, out.Notice.Blocking)
}

func TestRequestShapeErrorDoesNotFallThrough(t *testing.T) {
	primary := &stubSource{err: &utils.RequestShapeError{Code: "SEGMENT_OVERLAP", Message: "segments 1 and 2 overlap"}}
	generative := &stubSource{flights: []resp.FlightOffer{{ID: "gen-1"}}}

	out := NewResolver(primary, generative).ResolveFlights(context.Background(), bkkHkt)
	assert.Equal(t, Rejected, out.Provenance)
	assert.Empty(t, out.Offers)
	require.NotNil(t, out.Notice)
	assert.True(t, out.Notice.Blocking)
	assert.Equal(t, "SEGMENT_OVERLAP", out.Notice.Code)
	assert.Zero(t, generative.calls)
}

func TestBothTiersFailingYieldsStaticData(t *testing.T) {
	primary := &stubSource{err: errors.New("dial tcp: connection refused")}
	generative := &stubSource{flights: []resp.FlightOffer{}}

	out := NewResolver(primary, generative).ResolveFlights(context.Background(), bkkHkt)
	assert.Equal(t, FromStatic, out.Provenance)
	assert.True(t, out.IsMock)
	require.NotEmpty(t, out.Offers)
	for _, o := range out.Offers {
		assert.True(t, o.IsMock)
		assert.Equal(t, "HKT", o.Destination)
		assert.Equal(t, "THB", o.Currency)
	}

	again := NewResolver(nil, nil).ResolveFlights(context.Background(), bkkHkt)
	assert.Equal(t, out.Offers, again.Offers)
}

func TestResolverSurvivesPanicsAndTimeouts(t *testing.T) {
	out := NewResolver(&stubSource{panics: true}, &stubSource{block: true}, WithCallTimeout(20*time.Millisecond)).
		ResolveFlights(context.Background(), bkkHkt)
	assert.Equal(t, FromStatic, out.Provenance)
	assert.NotEmpty(t, out.Offers)
}

func TestResolverAlwaysReturnsOffers(t *testing.T) {
	queries := []FlightQuery{
		{},
		{Origin: "XXX", Destination: "YYY"},
		{Origin: "han", Destination: "sgn", Date: time.Date(2025, 12, 1, 0, 0, 0, 0, time.UTC), Cabin: "business"},
	}
	sources := []Source{nil, &stubSource{err: errors.New("503")}, &stubSource{}}
	for _, q := range queries {
		for _, p := range sources {
			for _, g := range sources {
				out := NewResolver(p, g).ResolveFlights(context.Background(), q)
				assert.NotEmpty(t, out.Offers)
				hotels := NewResolver(p, g).ResolveHotels(context.Background(), HotelQuery{City: q.Destination})
				assert.NotEmpty(t, hotels.Offers)
			}
		}
	}
}

func TestStaticHotelsPriceWholeStay(t *testing.T) {
	in := time.Date(2025, 8, 5, 0, 0, 0, 0, time.UTC)
	hotels := StaticHotels(HotelQuery{City: "Phuket", CheckIn: in, CheckOut: in.AddDate(0, 0, 3)})
	require.Len(t, hotels, 3)
	assert.Equal(t, "Phuket Central Hotel", hotels[0].Name)
	assert.InDelta(t, hotels[0].PricePerNight*3, hotels[0].TotalPrice, 0.01)
	assert.Equal(t, "THB", hotels[0].Currency)
}
