package db_models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type ScheduleActivity struct {
	Name      string  `json:"name"`
	StartTime string  `json:"start_time,omitempty"`
	EndTime   string  `json:"end_time,omitempty"`
	Location  string  `json:"location,omitempty"`
	Cost      float64 `json:"cost"`
}

type ScheduleDay struct {
	BaseModel
	TripID     uuid.UUID `gorm:"type:uuid;uniqueIndex:idx_schedule_trip_day"`
	DayNumber  int       `gorm:"uniqueIndex:idx_schedule_trip_day"`
	Date       time.Time
	Title      string
	Activities datatypes.JSONSlice[ScheduleActivity]
	DayCost    float64
}
