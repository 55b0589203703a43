package db_models

import "github.com/google/uuid"

// Budget holds exactly one row per trip. PlannedExpenses is always
// FlightCost + HotelCost + ActivityCost after a reconciling write.
type Budget struct {
	BaseModel
	TripID          uuid.UUID `gorm:"type:uuid;uniqueIndex"`
	TotalBudget     float64
	Currency        string
	FlightCost      float64
	HotelCost       float64
	ActivityCost    float64
	PlannedExpenses float64
}
