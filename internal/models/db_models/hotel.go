package db_models

import (
	"time"

	"github.com/google/uuid"
)

// SelectedHotel is a per-trip singleton keyed by trip_id.
type SelectedHotel struct {
	BaseModel
	TripID        uuid.UUID `gorm:"type:uuid;uniqueIndex" json:"trip_id"`
	OfferID       string    `json:"offer_id"`
	Name          string    `json:"name"`
	Address       string    `json:"address"`
	Rating        float64   `json:"rating"`
	CheckIn       time.Time `json:"check_in"`
	CheckOut      time.Time `json:"check_out"`
	Nights        int       `json:"nights"`
	PricePerNight float64   `json:"price_per_night"`
	TotalPrice    float64   `json:"total_price"`
	Currency      string    `json:"currency"`
	ImageURL      string    `json:"image_url"`
	IsMock        bool      `json:"is_mock"`
}
