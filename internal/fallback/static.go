package fallback

import (
	"fmt"
	"strings"
	"time"

	resp "wayfare/internal/models/response_models"
	"wayfare/pkg/utils"
)

type region struct {
	airlines []string
	currency string
	nightly  float64
	fare     float64
}

var regions = map[string]region{
	"th": {airlines: []string{"Thai Airways", "Bangkok Airways", "Thai AirAsia"}, currency: "THB", nightly: 1800, fare: 2400},
	"vn": {airlines: []string{"Vietnam Airlines", "Bamboo Airways", "VietJet Air"}, currency: "VND", nightly: 1200000, fare: 1500000},
	"sg": {airlines: []string{"Singapore Airlines", "Scoot", "Jetstar Asia"}, currency: "SGD", nightly: 220, fare: 180},
	"jp": {airlines: []string{"Japan Airlines", "ANA", "Peach"}, currency: "JPY", nightly: 16000, fare: 24000},
}

var defaultRegion = region{airlines: []string{"Star Regional", "Skyline Air", "Coastal Express"}, currency: "USD", nightly: 120, fare: 180}

// cities maps airport codes and city names onto a display city and region.
var cities = map[string][2]string{
	"BKK": {"Bangkok", "th"}, "DMK": {"Bangkok", "th"}, "BANGKOK": {"Bangkok", "th"},
	"HKT": {"Phuket", "th"}, "PHUKET": {"Phuket", "th"},
	"CNX": {"Chiang Mai", "th"}, "CHIANG MAI": {"Chiang Mai", "th"},
	"KBV": {"Krabi", "th"}, "KRABI": {"Krabi", "th"},
	"USM": {"Koh Samui", "th"}, "KOH SAMUI": {"Koh Samui", "th"},
	"HAN": {"Hanoi", "vn"}, "HANOI": {"Hanoi", "vn"},
	"SGN": {"Ho Chi Minh City", "vn"}, "HO CHI MINH CITY": {"Ho Chi Minh City", "vn"},
	"DAD": {"Da Nang", "vn"}, "DA NANG": {"Da Nang", "vn"},
	"SIN": {"Singapore", "sg"}, "SINGAPORE": {"Singapore", "sg"},
	"NRT": {"Tokyo", "jp"}, "HND": {"Tokyo", "jp"}, "TOKYO": {"Tokyo", "jp"},
	"KIX": {"Osaka", "jp"}, "OSAKA": {"Osaka", "jp"},
}

func lookupCity(place string) (string, region) {
	key := strings.ToUpper(strings.TrimSpace(place))
	if c, ok := cities[key]; ok {
		return c[0], regions[c[1]]
	}
	if key == "" {
		return "Destination", defaultRegion
	}
	return strings.TrimSpace(place), defaultRegion
}

var departures = []struct {
	hour, minute, duration, stops int
	factor                        float64
}{
	{7, 10, 85, 0, 1.00},
	{12, 40, 95, 0, 1.15},
	{18, 55, 150, 1, 0.85},
}

// StaticFlights returns the same offers for the same query on every call.
func StaticFlights(q FlightQuery) []resp.FlightOffer {
	origin := strings.ToUpper(strings.TrimSpace(q.Origin))
	dest := strings.ToUpper(strings.TrimSpace(q.Destination))
	_, reg := lookupCity(dest)
	currency := q.Currency
	if currency == "" {
		currency = reg.currency
	}
	cabin := q.Cabin
	if cabin == "" {
		cabin = "economy"
	}
	// spread fares per route so different routes do not look identical
	spread := 1 + float64(utils.HashWord(origin+"-"+dest)%20)/100

	out := make([]resp.FlightOffer, 0, len(departures))
	for i, d := range departures {
		var depart, arrive time.Time
		if !q.Date.IsZero() {
			depart = time.Date(q.Date.Year(), q.Date.Month(), q.Date.Day(), d.hour, d.minute, 0, 0, time.UTC)
			arrive = depart.Add(time.Duration(d.duration) * time.Minute)
		}
		airline := reg.airlines[i%len(reg.airlines)]
		out = append(out, resp.FlightOffer{
			ID:              strings.ToLower(fmt.Sprintf("static-%s-%s-%d", origin, dest, i+1)),
			Airline:         airline,
			FlightNumber:    fmt.Sprintf("%s%d", airlineCode(airline), 100+i*111),
			Origin:          origin,
			Destination:     dest,
			DepartAt:        depart,
			ArriveAt:        arrive,
			DurationMinutes: d.duration,
			Stops:           d.stops,
			Cabin:           cabin,
			Price:           round2(reg.fare * d.factor * spread),
			Currency:        currency,
			IsMock:          true,
		})
	}
	return out
}

var hotelNames = []struct {
	pattern string
	rating  float64
	factor  float64
}{
	{"%s Central Hotel", 4.2, 1.0},
	{"%s Riverside Inn", 3.8, 0.7},
	{"Grand %s Resort", 4.7, 1.9},
}

func StaticHotels(q HotelQuery) []resp.HotelOffer {
	city, reg := lookupCity(q.City)
	currency := q.Currency
	if currency == "" {
		currency = reg.currency
	}
	nights := utils.NightsBetween(q.CheckIn, q.CheckOut)

	out := make([]resp.HotelOffer, 0, len(hotelNames))
	for i, h := range hotelNames {
		name := fmt.Sprintf(h.pattern, city)
		perNight := round2(reg.nightly * h.factor)
		out = append(out, resp.HotelOffer{
			ID:            strings.ToLower(fmt.Sprintf("static-hotel-%s-%d", strings.ReplaceAll(city, " ", "-"), i+1)),
			Name:          name,
			Address:       city,
			Rating:        h.rating,
			CheckIn:       q.CheckIn,
			CheckOut:      q.CheckOut,
			PricePerNight: perNight,
			TotalPrice:    round2(perNight * float64(nights)),
			Currency:      currency,
			ImageURL:      utils.PlaceholderImageURL(name),
			IsMock:        true,
		})
	}
	return out
}

func airlineCode(name string) string {
	var code []rune
	for _, w := range strings.Fields(name) {
		code = append(code, []rune(strings.ToUpper(w))[0])
		if len(code) == 2 {
			break
		}
	}
	for len(code) < 2 {
		code = append(code, 'X')
	}
	return string(code)
}

func round2(v float64) float64 {
	return float64(int64(v*100+0.5)) / 100
}
