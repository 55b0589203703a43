package normalize

import (
	"fmt"
	"strings"
	"time"

	resp "wayfare/internal/models/response_models"
)

// FlightDefaults fills fields an upstream offer leaves out.
type FlightDefaults struct {
	Origin      string
	Destination string
	Date        time.Time
	Cabin       string
	Currency    string
	IsMock      bool
}

type HotelDefaults struct {
	City     string
	CheckIn  time.Time
	CheckOut time.Time
	Currency string
	IsMock   bool
}

// FlightOffers normalizes a provider or model payload into flight offers.
// The payload may be a JSON document or free text wrapping one.
func FlightOffers(payload []byte, def FlightDefaults) ([]resp.FlightOffer, error) {
	frag, err := ExtractJSON(string(payload))
	if err != nil {
		return nil, err
	}
	recs, err := records(frag, "flights", "offers", "data", "results")
	if err != nil {
		return nil, err
	}
	if def.Currency == "" {
		def.Currency = "USD"
	}
	if def.Cabin == "" {
		def.Cabin = "economy"
	}

	out := make([]resp.FlightOffer, 0, len(recs))
	for i, r := range recs {
		airline := r.str("", "airline", "carrier", "airline_name", "operating_carrier")
		price := r.num(-1, "price", "total_price", "totalPrice", "amount", "fare")
		if airline == "" && price < 0 {
			continue
		}
		if price < 0 {
			price = 0
		}
		if airline == "" {
			airline = "Unknown airline"
		}

		origin := strings.ToUpper(r.str(def.Origin, "origin", "from", "departure_airport", "departure_iata"))
		dest := strings.ToUpper(r.str(def.Destination, "destination", "to", "arrival_airport", "arrival_iata"))
		depart := parseTime(r.str("", "depart_at", "departure_time", "departure", "departs"), def.Date)
		arrive := parseTime(r.str("", "arrive_at", "arrival_time", "arrival", "arrives"), def.Date)
		if !depart.IsZero() && !arrive.IsZero() && arrive.Before(depart) {
			arrive = arrive.Add(24 * time.Hour)
		}

		duration := r.integer(0, "duration_minutes", "durationMinutes")
		if duration == 0 && !depart.IsZero() && !arrive.IsZero() {
			duration = int(arrive.Sub(depart).Minutes())
		}

		id := r.str("", "id", "offer_id", "offerId")
		if id == "" {
			id = strings.ToLower(fmt.Sprintf("%s-%s-%d", origin, dest, i+1))
		}

		out = append(out, resp.FlightOffer{
			ID:              id,
			Airline:         airline,
			FlightNumber:    r.str("", "flight_number", "flightNumber", "number"),
			Origin:          origin,
			Destination:     dest,
			DepartAt:        depart,
			ArriveAt:        arrive,
			DurationMinutes: duration,
			Stops:           r.integer(0, "stops", "number_of_stops", "numberOfStops"),
			Cabin:           strings.ToLower(r.str(def.Cabin, "cabin", "cabin_class", "travel_class")),
			Price:           price,
			Currency:        strings.ToUpper(currencyOf(r, def.Currency)),
			IsMock:          r.boolean(def.IsMock, "is_mock", "isMock"),
		})
	}
	return out, nil
}

// currencyOf looks at the record, then inside a nested price object.
func currencyOf(r record, def string) string {
	if c := r.str("", "currency", "currency_code"); c != "" {
		return c
	}
	for _, k := range []string{"price", "total_price", "totalPrice"} {
		if m, ok := r[k].(map[string]any); ok {
			return record(m).str(def, "currency", "currency_code")
		}
	}
	return def
}

// HotelOffers normalizes a provider or model payload into hotel offers.
func HotelOffers(payload []byte, def HotelDefaults) ([]resp.HotelOffer, error) {
	frag, err := ExtractJSON(string(payload))
	if err != nil {
		return nil, err
	}
	recs, err := records(frag, "hotels", "offers", "data", "results")
	if err != nil {
		return nil, err
	}
	if def.Currency == "" {
		def.Currency = "USD"
	}

	nights := 1
	if !def.CheckIn.IsZero() && !def.CheckOut.IsZero() {
		if n := int(def.CheckOut.Sub(def.CheckIn).Hours() / 24); n > 1 {
			nights = n
		}
	}

	out := make([]resp.HotelOffer, 0, len(recs))
	for i, r := range recs {
		name := r.str("", "name", "hotel_name", "hotelName", "title")
		if name == "" {
			continue
		}
		perNight := r.num(0, "price_per_night", "pricePerNight", "nightly_rate", "price", "rate")
		total := r.num(0, "total_price", "totalPrice", "total")
		if total == 0 {
			total = perNight * float64(nights)
		}
		if perNight == 0 && total > 0 {
			perNight = total / float64(nights)
		}

		id := r.str("", "id", "hotel_id", "hotelId", "offer_id")
		if id == "" {
			id = strings.ToLower(fmt.Sprintf("hotel-%s-%d", strings.ReplaceAll(def.City, " ", "-"), i+1))
		}

		out = append(out, resp.HotelOffer{
			ID:            id,
			Name:          name,
			Address:       r.str(def.City, "address", "location", "area"),
			Rating:        r.num(0, "rating", "stars", "score"),
			CheckIn:       def.CheckIn,
			CheckOut:      def.CheckOut,
			PricePerNight: perNight,
			TotalPrice:    total,
			Currency:      strings.ToUpper(currencyOf(r, def.Currency)),
			ImageURL:      r.str("", "image_url", "imageUrl", "image", "photo"),
			IsMock:        r.boolean(def.IsMock, "is_mock", "isMock"),
		})
	}
	return out, nil
}
