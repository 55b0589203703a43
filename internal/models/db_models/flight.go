package db_models

import (
	"time"

	"github.com/google/uuid"
)

// SelectedFlight is one itinerary leg. (trip_id, leg_number) is unique and
// leg numbers run 1..N after every successful save.
type SelectedFlight struct {
	BaseModel
	TripID       uuid.UUID `gorm:"type:uuid;uniqueIndex:idx_flight_trip_leg"`
	LegNumber    int       `gorm:"uniqueIndex:idx_flight_trip_leg"`
	OfferID      string
	Airline      string
	FlightNumber string
	Origin       string
	Destination  string
	DepartAt     time.Time
	ArriveAt     time.Time
	Cabin        string
	Stops        int
	Price        float64
	Currency     string
	IsMock       bool
}
