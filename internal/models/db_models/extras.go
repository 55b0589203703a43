package db_models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type PackingItem struct {
	Name     string `json:"name"`
	Category string `json:"category,omitempty"`
	Quantity int    `json:"quantity"`
	Packed   bool   `json:"packed"`
}

type PackingList struct {
	BaseModel
	TripID uuid.UUID                        `gorm:"type:uuid;uniqueIndex" json:"trip_id"`
	Items  datatypes.JSONSlice[PackingItem] `json:"items"`
	Notes  string                           `json:"notes"`
}

type WeatherDay struct {
	BaseModel
	TripID        uuid.UUID `gorm:"type:uuid;index" json:"trip_id"`
	Date          time.Time `json:"date"`
	Summary       string    `json:"summary"`
	TempHighC     float64   `json:"temp_high_c"`
	TempLowC      float64   `json:"temp_low_c"`
	PrecipPercent int       `json:"precip_percent"`
}

type Recommendation struct {
	BaseModel
	TripID      uuid.UUID `gorm:"type:uuid;index" json:"trip_id"`
	Position    int       `json:"position"`
	Title       string    `json:"title"`
	Category    string    `json:"category"`
	Description string    `json:"description"`
	ImageURL    string    `json:"image_url"`
}
