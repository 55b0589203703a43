package normalize

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractJSONFromChattyText(t *testing.T) {
	text := "Sure! Here are the flights:\n```json\n{\"flights\":[{\"airline\":\"Thai \\\"Smile\\\"\",\"price\":\"1,250.50\"}]}\n```\nEnjoy!"
	frag, err := ExtractJSON(text)
	require.NoError(t, err)
	assert.True(t, json.Valid(frag))
}

func TestExtractJSONSkipsBracketedProse(t *testing.T) {
	frag, err := ExtractJSON(`Options [as of today]: {"flights":[{"airline":"Thai","price":100}]}`)
	require.NoError(t, err)
	assert.JSONEq(t, `{"flights":[{"airline":"Thai","price":100}]}`, string(frag))

	frag, err = ExtractJSON(`Note {see below}: [{"name":"Kata"}]`)
	require.NoError(t, err)
	assert.JSONEq(t, `[{"name":"Kata"}]`, string(frag))
}

func TestExtractJSONRejectsPlainText(t *testing.T) {
	_, err := ExtractJSON("the model is overloaded, try again")
	assert.ErrorIs(t, err, ErrNoJSON)

	_, err = ExtractJSON(`{"unterminated": [1, 2`)
	assert.ErrorIs(t, err, ErrNoJSON)
}

func TestFlightOffersToleratesAlternateShapes(t *testing.T) {
	payload := []byte(`{"data":[
		{"carrier":"Thai AirAsia","flightNumber":"FD3025","price":{"total":"1890.00","currency":"thb"},
		 "departure_time":"07:10","arrival_time":"08:35"},
		{"airline":"Bangkok Airways","fare":2450,"stops":"1","is_mock":true},
		{"note":"garbage entry"}
	]}`)
	day := time.Date(2025, 8, 5, 0, 0, 0, 0, time.UTC)

	offers, err := FlightOffers(payload, FlightDefaults{Origin: "bkk", Destination: "HKT", Date: day})
	require.NoError(t, err)
	require.Len(t, offers, 2)

	first := offers[0]
	assert.Equal(t, "Thai AirAsia", first.Airline)
	assert.Equal(t, "FD3025", first.FlightNumber)
	assert.InDelta(t, 1890.0, first.Price, 0.001)
	assert.Equal(t, "THB", first.Currency)
	assert.Equal(t, "BKK", first.Origin)
	assert.Equal(t, "HKT", first.Destination)
	assert.Equal(t, time.Date(2025, 8, 5, 7, 10, 0, 0, time.UTC), first.DepartAt)
	assert.Equal(t, 85, first.DurationMinutes)
	assert.Equal(t, "economy", first.Cabin)
	assert.Equal(t, "bkk-hkt-1", first.ID)

	second := offers[1]
	assert.Equal(t, 1, second.Stops)
	assert.Equal(t, "USD", second.Currency)
	assert.True(t, second.IsMock)
}

func TestHotelOffersDerivesTotals(t *testing.T) {
	in := time.Date(2025, 8, 5, 0, 0, 0, 0, time.UTC)
	out := in.AddDate(0, 0, 3)
	payload := []byte(`[{"hotel_name":"Kata Beach Resort","nightly_rate":"$120","stars":4.5},{"rating":3}]`)

	offers, err := HotelOffers(payload, HotelDefaults{City: "Phuket", CheckIn: in, CheckOut: out})
	require.NoError(t, err)
	require.Len(t, offers, 1)
	assert.InDelta(t, 360.0, offers[0].TotalPrice, 0.001)
	assert.InDelta(t, 4.5, offers[0].Rating, 0.001)
	assert.Equal(t, "Phuket", offers[0].Address)
}

func TestParseActivitiesVariants(t *testing.T) {
	cases := []struct {
		name  string
		in    string
		kind  ActivitiesKind
		names []string
		cost  float64
	}{
		{"list of objects", `[{"name":"Big Buddha","cost":"150"},{"activity":"Night market","price":300}]`, ActivitiesList, []string{"Big Buddha", "Night market"}, 450},
		{"list of strings", `["Snorkeling","Sunset"]`, ActivitiesList, []string{"Snorkeling", "Sunset"}, 0},
		{"delimited", `"Old Town walk, Cafe hopping; Muay Thai"`, ActivitiesDelimited, []string{"Old Town walk", "Cafe hopping", "Muay Thai"}, 0},
		{"encoded", `"[{\"name\":\"Phi Phi tour\",\"cost\":1200}]"`, ActivitiesEncoded, []string{"Phi Phi tour"}, 1200},
		{"scalar", `"Beach day"`, ActivitiesScalar, []string{"Beach day"}, 0},
		{"null", `null`, ActivitiesNone, nil, 0},
		{"empty string", `""`, ActivitiesNone, nil, 0},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			var a Activities
			require.NoError(t, json.Unmarshal([]byte(tc.in), &a))
			assert.Equal(t, tc.kind, a.Kind)
			var names []string
			for _, it := range a.Items {
				names = append(names, it.Name)
			}
			assert.Equal(t, tc.names, names)
			assert.InDelta(t, tc.cost, a.TotalCost(), 0.001)
		})
	}
}

func TestActivitiesInsideStructNeverFailDecoding(t *testing.T) {
	var day struct {
		DayNumber  int        `json:"day_number"`
		Activities Activities `json:"activities"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{"day_number":2,"activities":true}`), &day))
	assert.Equal(t, 2, day.DayNumber)
	assert.Equal(t, ActivitiesNone, day.Activities.Kind)

	out, err := json.Marshal(day.Activities)
	require.NoError(t, err)
	assert.JSONEq(t, `[]`, string(out))
}
