package response_models

import "time"

// FlightOffer is the normalized candidate for one leg, whatever its source.
type FlightOffer struct {
	ID              string    `json:"id"`
	Airline         string    `json:"airline"`
	FlightNumber    string    `json:"flight_number"`
	Origin          string    `json:"origin"`
	Destination     string    `json:"destination"`
	DepartAt        time.Time `json:"depart_at"`
	ArriveAt        time.Time `json:"arrive_at"`
	DurationMinutes int       `json:"duration_minutes"`
	Stops           int       `json:"stops"`
	Cabin           string    `json:"cabin"`
	Price           float64   `json:"price"`
	Currency        string    `json:"currency"`
	IsMock          bool      `json:"is_mock"`
}

type HotelOffer struct {
	ID            string    `json:"id"`
	Name          string    `json:"name"`
	Address       string    `json:"address"`
	Rating        float64   `json:"rating"`
	CheckIn       time.Time `json:"check_in"`
	CheckOut      time.Time `json:"check_out"`
	PricePerNight float64   `json:"price_per_night"`
	TotalPrice    float64   `json:"total_price"`
	Currency      string    `json:"currency"`
	ImageURL      string    `json:"image_url"`
	IsMock        bool      `json:"is_mock"`
}

type GenerateResponse struct {
	Kind    string        `json:"kind"`
	Flights []FlightOffer `json:"flights,omitempty"`
	Hotels  []HotelOffer  `json:"hotels,omitempty"`
	IsMock  bool          `json:"is_mock"`
}

type ImageResponse struct {
	Place       string `json:"place"`
	URL         string `json:"url"`
	Placeholder bool   `json:"placeholder"`
}
