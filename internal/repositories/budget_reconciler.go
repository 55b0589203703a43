package repositories

import (
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	dbm "wayfare/internal/models/db_models"
)

// reconcileBudget recomputes planned expenses from the rows visible to tx and
// upserts the trip's single budget row. It must run on the same transaction
// as the write that changed flights, hotel or schedule.
func reconcileBudget(tx *gorm.DB, trip *dbm.Trip) (*dbm.Budget, error) {
	flightCost, err := sumColumn(tx, &dbm.SelectedFlight{}, "price", trip.ID)
	if err != nil {
		return nil, err
	}
	hotelCost, err := sumColumn(tx, &dbm.SelectedHotel{}, "total_price", trip.ID)
	if err != nil {
		return nil, err
	}
	activityCost, err := sumColumn(tx, &dbm.ScheduleDay{}, "day_cost", trip.ID)
	if err != nil {
		return nil, err
	}

	b := dbm.Budget{
		TripID:          trip.ID,
		TotalBudget:     trip.TotalBudget,
		Currency:        trip.Currency,
		FlightCost:      flightCost,
		HotelCost:       hotelCost,
		ActivityCost:    activityCost,
		PlannedExpenses: flightCost + hotelCost + activityCost,
	}
	if err := tx.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "trip_id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"flight_cost", "hotel_cost", "activity_cost", "planned_expenses", "updated_at",
		}),
	}).Create(&b).Error; err != nil {
		return nil, err
	}

	var stored dbm.Budget
	if err := tx.Where("trip_id = ?", trip.ID).First(&stored).Error; err != nil {
		return nil, err
	}
	return &stored, nil
}

func sumColumn(tx *gorm.DB, model interface{}, column string, tripID uuid.UUID) (float64, error) {
	var total float64
	row := tx.Model(model).
		Select(fmt.Sprintf("COALESCE(SUM(%s), 0)", column)).
		Where("trip_id = ?", tripID).
		Row()
	if err := row.Scan(&total); err != nil {
		return 0, fmt.Errorf("sum %s: %w", column, err)
	}
	return total, nil
}
