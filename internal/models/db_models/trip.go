package db_models

import (
	"time"
)

type Trip struct {
	BaseModel
	OwnerID             string `gorm:"index"`
	Origin              string
	Destination         string
	StartDate           time.Time
	EndDate             time.Time
	GroupSize           int
	TotalBudget         float64
	Currency            string
	TransportPreference string
	ActivityInterests   []string `gorm:"type:text;serializer:json"`
	TripType            string
	LegCount            int

	Flights         []SelectedFlight `gorm:"foreignKey:TripID"`
	Hotel           *SelectedHotel   `gorm:"foreignKey:TripID"`
	ScheduleDays    []ScheduleDay    `gorm:"foreignKey:TripID"`
	Budget          *Budget          `gorm:"foreignKey:TripID"`
	PackingList     *PackingList     `gorm:"foreignKey:TripID"`
	Weather         []WeatherDay     `gorm:"foreignKey:TripID"`
	Recommendations []Recommendation `gorm:"foreignKey:TripID"`
}
