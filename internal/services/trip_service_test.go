package services

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
	"wayfare/internal/infra"
	req "wayfare/internal/models/request_models"
	"wayfare/internal/repositories"
	"wayfare/pkg/utils"
)

const owner = "user-1"

func newTripService(t *testing.T) TripServiceInterface {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: gormlogger.Default.LogMode(gormlogger.Silent)})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })
	require.NoError(t, infra.Migrate(db))

	return NewTripService(repositories.NewTripRepository(db), zap.NewNop())
}

func createTrip(t *testing.T, svc TripServiceInterface) uuid.UUID {
	t.Helper()
	trip, err := svc.CreateTrip(context.Background(), owner, req.CreateTripRequest{
		Origin:      "BKK",
		Destination: "Phuket",
		StartDate:   "2025-08-05",
		EndDate:     "2025-08-08",
		GroupSize:   2,
		TotalBudget: 1500,
	})
	require.NoError(t, err)
	assert.Equal(t, "USD", trip.Currency)
	assert.Equal(t, "round-trip", trip.TripType)
	return uuid.MustParse(trip.ID)
}

func flightInputs(n int) []req.FlightInput {
	out := make([]req.FlightInput, n)
	for i := range out {
		out[i] = req.FlightInput{
			LegNumber:   i + 1,
			Airline:     "Bangkok Airways",
			Origin:      "bkk",
			Destination: "hkt",
			DepartAt:    "2025-08-05T07:10:00Z",
			ArriveAt:    "2025-08-05T08:35:00Z",
			Price:       120,
		}
	}
	return out
}

func TestValidateLegCount(t *testing.T) {
	cases := []struct {
		tripType req.TripType
		legs     int
		ok       bool
	}{
		{req.TripOneWay, 1, true},
		{req.TripOneWay, 2, false},
		{req.TripRoundTrip, 2, true},
		{req.TripRoundTrip, 1, false},
		{req.TripRoundTrip, 3, false},
		{req.TripMultiCity, 2, true},
		{req.TripMultiCity, 5, true},
		{req.TripMultiCity, 1, false},
		{"zigzag", 2, false},
	}
	for _, tc := range cases {
		err := ValidateLegCount(tc.tripType, tc.legs)
		if tc.ok {
			assert.NoError(t, err, "%s with %d legs", tc.tripType, tc.legs)
		} else {
			assert.ErrorIs(t, err, utils.ErrValidation, "%s with %d legs", tc.tripType, tc.legs)
		}
	}
}

func TestSaveFlightsRejectsBadLegNumbering(t *testing.T) {
	ctx := context.Background()
	svc := newTripService(t)
	tripID := createTrip(t, svc)

	legs := flightInputs(2)
	legs[1].LegNumber = 3
	_, err := svc.SaveFlights(ctx, owner, tripID, req.SaveFlightsRequest{TripType: req.TripRoundTrip, Flights: legs})
	assert.ErrorIs(t, err, utils.ErrValidation)

	_, err = svc.SaveFlights(ctx, owner, tripID, req.SaveFlightsRequest{TripType: req.TripRoundTrip, Flights: flightInputs(1)})
	assert.ErrorIs(t, err, utils.ErrValidation)

	flights, err := svc.GetFlights(ctx, owner, tripID)
	require.NoError(t, err)
	assert.Empty(t, flights)
}

func TestSaveFlightsOrdersLegsAndReconciles(t *testing.T) {
	ctx := context.Background()
	svc := newTripService(t)
	tripID := createTrip(t, svc)

	legs := flightInputs(3)
	legs[0].LegNumber, legs[2].LegNumber = 3, 1
	budget, err := svc.SaveFlights(ctx, owner, tripID, req.SaveFlightsRequest{TripType: req.TripMultiCity, Flights: legs})
	require.NoError(t, err)
	assert.InDelta(t, 360.0, budget.FlightCost, 0.001)
	assert.InDelta(t, 1140.0, budget.Remaining, 0.001)

	flights, err := svc.GetFlights(ctx, owner, tripID)
	require.NoError(t, err)
	require.Len(t, flights, 3)
	for i, f := range flights {
		assert.Equal(t, i+1, f.LegNumber)
		assert.Equal(t, "BKK", f.Origin)
	}
}

func TestSaveHotelDerivesTotalFromNights(t *testing.T) {
	ctx := context.Background()
	svc := newTripService(t)
	tripID := createTrip(t, svc)

	budget, err := svc.SaveHotel(ctx, owner, tripID, req.SaveHotelRequest{
		Name:          "Kata Beach Resort",
		CheckIn:       "2025-08-05",
		CheckOut:      "2025-08-08",
		PricePerNight: 120,
	})
	require.NoError(t, err)
	assert.InDelta(t, 360.0, budget.HotelCost, 0.001)

	hotel, err := svc.GetHotel(ctx, owner, tripID)
	require.NoError(t, err)
	assert.Equal(t, 3, hotel.Nights)
}

func TestSaveScheduleAcceptsEveryActivitiesShape(t *testing.T) {
	ctx := context.Background()
	svc := newTripService(t)
	tripID := createTrip(t, svc)

	var body req.SaveScheduleRequest
	require.NoError(t, json.Unmarshal([]byte(`{"days":[
		{"day_number":1,"date":"2025-08-05","activities":[{"name":"Big Buddha","cost":150},{"name":"Old Town","cost":"50"}]},
		{"day_number":2,"activities":"Snorkeling, Sunset dinner"},
		{"day_number":3,"activities":"[{\"name\":\"Phi Phi tour\",\"cost\":1200}]"},
		{"day_number":4,"activities":"Beach day"}
	]}`), &body))

	budget, err := svc.SaveSchedule(ctx, owner, tripID, body)
	require.NoError(t, err)
	assert.InDelta(t, 1400.0, budget.ActivityCost, 0.001)
	assert.InDelta(t, 1400.0, budget.PlannedExpenses, 0.001)

	days, err := svc.GetSchedule(ctx, owner, tripID)
	require.NoError(t, err)
	require.Len(t, days, 4)
	assert.Len(t, days[1].Activities, 2)
	assert.Equal(t, "Phi Phi tour", days[2].Activities[0].Name)
	assert.Equal(t, "Beach day", days[3].Activities[0].Name)
}

func TestSaveScheduleRejectsDuplicateDays(t *testing.T) {
	ctx := context.Background()
	svc := newTripService(t)
	tripID := createTrip(t, svc)

	_, err := svc.SaveSchedule(ctx, owner, tripID, req.SaveScheduleRequest{Days: []req.ScheduleDayInput{
		{DayNumber: 1}, {DayNumber: 1},
	}})
	assert.ErrorIs(t, err, utils.ErrValidation)
}

func TestTripsOfOtherOwnersAreHidden(t *testing.T) {
	ctx := context.Background()
	svc := newTripService(t)
	tripID := createTrip(t, svc)

	_, err := svc.GetTrip(ctx, "someone-else", tripID)
	assert.ErrorIs(t, err, utils.ErrTripNotFound)

	_, err = svc.SaveBudget(ctx, "someone-else", tripID, req.SaveBudgetRequest{TotalBudget: 1})
	assert.ErrorIs(t, err, utils.ErrTripNotFound)
}

func TestGetTripReturnsEverySavedResource(t *testing.T) {
	ctx := context.Background()
	svc := newTripService(t)
	tripID := createTrip(t, svc)

	_, err := svc.SaveFlights(ctx, owner, tripID, req.SaveFlightsRequest{TripType: req.TripOneWay, Flights: flightInputs(1)})
	require.NoError(t, err)
	require.NoError(t, svc.SaveWeather(ctx, owner, tripID, req.SaveWeatherRequest{Days: []req.WeatherDayInput{
		{Date: "2025-08-06", Summary: "Showers", PrecipPercent: 70},
		{Date: "2025-08-05", Summary: "Sunny"},
	}}))
	require.NoError(t, svc.SavePackingList(ctx, owner, tripID, req.SavePackingListRequest{
		Items: []req.PackingItemInput{{Name: "Sunscreen"}},
	}))

	detail, err := svc.GetTrip(ctx, owner, tripID)
	require.NoError(t, err)
	assert.Equal(t, "one-way", detail.Trip.TripType)
	assert.Equal(t, 1, detail.Trip.LegCount)
	require.Len(t, detail.Weather, 2)
	assert.Equal(t, "Sunny", detail.Weather[0].Summary)
	require.NotNil(t, detail.PackingList)
	assert.Equal(t, 1, detail.PackingList.Items[0].Quantity)
	require.NotNil(t, detail.Budget)
	assert.InDelta(t, 120.0, detail.Budget.PlannedExpenses, 0.001)
}
