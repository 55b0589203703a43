package repositories

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"wayfare/internal/infra"
	dbm "wayfare/internal/models/db_models"
	req "wayfare/internal/models/request_models"
	"wayfare/pkg/metrics"
	"wayfare/pkg/utils"
)

type TripRepository interface {
	CreateTrip(ctx context.Context, trip *dbm.Trip) error
	UpdateTrip(ctx context.Context, trip *dbm.Trip) error
	GetTrip(ctx context.Context, tripID uuid.UUID) (*dbm.Trip, error)
	GetTripDetails(ctx context.Context, tripID uuid.UUID) (*dbm.Trip, error)

	ReplaceFlights(ctx context.Context, tripID uuid.UUID, tripType string, flights []dbm.SelectedFlight) (*dbm.Budget, error)
	UpsertHotel(ctx context.Context, tripID uuid.UUID, hotel *dbm.SelectedHotel) (*dbm.Budget, error)
	ReplaceSchedule(ctx context.Context, tripID uuid.UUID, days []dbm.ScheduleDay) (*dbm.Budget, error)
	UpsertBudget(ctx context.Context, tripID uuid.UUID, totalBudget float64, currency string) (*dbm.Budget, error)
	UpsertPackingList(ctx context.Context, tripID uuid.UUID, list *dbm.PackingList) error
	ReplaceWeather(ctx context.Context, tripID uuid.UUID, days []dbm.WeatherDay) error
	ReplaceRecommendations(ctx context.Context, tripID uuid.UUID, items []dbm.Recommendation) error

	ListFlights(ctx context.Context, tripID uuid.UUID) ([]dbm.SelectedFlight, error)
	GetHotel(ctx context.Context, tripID uuid.UUID) (*dbm.SelectedHotel, error)
	ListScheduleDays(ctx context.Context, tripID uuid.UUID) ([]dbm.ScheduleDay, error)
	GetBudget(ctx context.Context, tripID uuid.UUID) (*dbm.Budget, error)
	GetPackingList(ctx context.Context, tripID uuid.UUID) (*dbm.PackingList, error)
	ListWeather(ctx context.Context, tripID uuid.UUID) ([]dbm.WeatherDay, error)
	ListRecommendations(ctx context.Context, tripID uuid.UUID) ([]dbm.Recommendation, error)
}

type tripRepository struct {
	db *gorm.DB
}

func NewTripRepository(db *gorm.DB) TripRepository {
	return &tripRepository{db: db}
}

// write runs fn as one transaction and records its outcome.
func (r *tripRepository) write(ctx context.Context, kind req.ResourceKind, fn func(tx *gorm.DB) error) error {
	start := time.Now()
	err := infra.WithTransaction(ctx, r.db, "save "+string(kind), fn)
	metrics.TripWriteLatency.WithLabelValues(string(kind)).Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.TripWrites.WithLabelValues(string(kind), "rolled_back").Inc()
		return err
	}
	metrics.TripWrites.WithLabelValues(string(kind), "committed").Inc()
	return nil
}

func (r *tripRepository) CreateTrip(ctx context.Context, trip *dbm.Trip) error {
	return r.write(ctx, req.KindTrip, func(tx *gorm.DB) error {
		return tx.Omit(clause.Associations).Create(trip).Error
	})
}

func (r *tripRepository) UpdateTrip(ctx context.Context, trip *dbm.Trip) error {
	return r.write(ctx, req.KindTrip, func(tx *gorm.DB) error {
		existing, err := loadTrip(tx, trip.ID)
		if err != nil {
			return err
		}
		trip.CreatedAt = existing.CreatedAt
		trip.OwnerID = existing.OwnerID
		if err := tx.Model(existing).
			Select("origin", "destination", "start_date", "end_date", "group_size",
				"total_budget", "currency", "transport_preference", "activity_interests", "trip_type").
			Updates(trip).Error; err != nil {
			return err
		}
		// the budget row mirrors the trip's total and currency
		return tx.Model(&dbm.Budget{}).Where("trip_id = ?", trip.ID).Updates(map[string]interface{}{
			"total_budget": trip.TotalBudget,
			"currency":     trip.Currency,
		}).Error
	})
}

func (r *tripRepository) GetTrip(ctx context.Context, tripID uuid.UUID) (*dbm.Trip, error) {
	var trip dbm.Trip
	err := r.db.WithContext(ctx).First(&trip, "id = ?", tripID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &trip, nil
}

func (r *tripRepository) GetTripDetails(ctx context.Context, tripID uuid.UUID) (*dbm.Trip, error) {
	var trip dbm.Trip
	err := r.db.WithContext(ctx).
		Where("id = ?", tripID).
		Preload("Flights", func(db *gorm.DB) *gorm.DB { return db.Order("leg_number") }).
		Preload("Hotel").
		Preload("ScheduleDays", func(db *gorm.DB) *gorm.DB { return db.Order("day_number") }).
		Preload("Budget").
		Preload("PackingList").
		Preload("Weather", func(db *gorm.DB) *gorm.DB { return db.Order("date") }).
		Preload("Recommendations", func(db *gorm.DB) *gorm.DB { return db.Order("position") }).
		First(&trip).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &trip, nil
}

func (r *tripRepository) ReplaceFlights(ctx context.Context, tripID uuid.UUID, tripType string, flights []dbm.SelectedFlight) (*dbm.Budget, error) {
	var budget *dbm.Budget
	err := r.write(ctx, req.KindFlights, func(tx *gorm.DB) error {
		trip, err := loadTrip(tx, tripID)
		if err != nil {
			return err
		}
		for i := range flights {
			flights[i].TripID = tripID
		}
		if err := replaceChildren(tx, tripID, flights); err != nil {
			return err
		}
		if err := tx.Model(trip).Updates(map[string]interface{}{
			"trip_type": tripType,
			"leg_count": len(flights),
		}).Error; err != nil {
			return err
		}
		budget, err = reconcileBudget(tx, trip)
		return err
	})
	return budget, err
}

func (r *tripRepository) UpsertHotel(ctx context.Context, tripID uuid.UUID, hotel *dbm.SelectedHotel) (*dbm.Budget, error) {
	var budget *dbm.Budget
	err := r.write(ctx, req.KindHotel, func(tx *gorm.DB) error {
		trip, err := loadTrip(tx, tripID)
		if err != nil {
			return err
		}
		hotel.TripID = tripID
		if err := tx.Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "trip_id"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"offer_id", "name", "address", "rating", "check_in", "check_out", "nights",
				"price_per_night", "total_price", "currency", "image_url", "is_mock", "updated_at",
			}),
		}).Create(hotel).Error; err != nil {
			return err
		}
		budget, err = reconcileBudget(tx, trip)
		return err
	})
	return budget, err
}

func (r *tripRepository) ReplaceSchedule(ctx context.Context, tripID uuid.UUID, days []dbm.ScheduleDay) (*dbm.Budget, error) {
	var budget *dbm.Budget
	err := r.write(ctx, req.KindSchedule, func(tx *gorm.DB) error {
		trip, err := loadTrip(tx, tripID)
		if err != nil {
			return err
		}
		for i := range days {
			days[i].TripID = tripID
		}
		if err := replaceChildren(tx, tripID, days); err != nil {
			return err
		}
		budget, err = reconcileBudget(tx, trip)
		return err
	})
	return budget, err
}

// UpsertBudget sets the spending limit and recomputes planned expenses in the
// same transaction, so the budget row is never stale after this call.
func (r *tripRepository) UpsertBudget(ctx context.Context, tripID uuid.UUID, totalBudget float64, currency string) (*dbm.Budget, error) {
	var budget *dbm.Budget
	err := r.write(ctx, req.KindBudget, func(tx *gorm.DB) error {
		trip, err := loadTrip(tx, tripID)
		if err != nil {
			return err
		}
		if currency == "" {
			currency = trip.Currency
		}
		if err := tx.Model(trip).Updates(map[string]interface{}{
			"total_budget": totalBudget,
			"currency":     currency,
		}).Error; err != nil {
			return err
		}
		trip.TotalBudget = totalBudget
		trip.Currency = currency

		if err := tx.Model(&dbm.Budget{}).Where("trip_id = ?", tripID).Updates(map[string]interface{}{
			"total_budget": totalBudget,
			"currency":     currency,
		}).Error; err != nil {
			return err
		}
		budget, err = reconcileBudget(tx, trip)
		return err
	})
	return budget, err
}

func (r *tripRepository) UpsertPackingList(ctx context.Context, tripID uuid.UUID, list *dbm.PackingList) error {
	return r.write(ctx, req.KindPackingList, func(tx *gorm.DB) error {
		if _, err := loadTrip(tx, tripID); err != nil {
			return err
		}
		list.TripID = tripID
		return tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "trip_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"items", "notes", "updated_at"}),
		}).Create(list).Error
	})
}

func (r *tripRepository) ReplaceWeather(ctx context.Context, tripID uuid.UUID, days []dbm.WeatherDay) error {
	return r.write(ctx, req.KindWeather, func(tx *gorm.DB) error {
		if _, err := loadTrip(tx, tripID); err != nil {
			return err
		}
		for i := range days {
			days[i].TripID = tripID
		}
		return replaceChildren(tx, tripID, days)
	})
}

func (r *tripRepository) ReplaceRecommendations(ctx context.Context, tripID uuid.UUID, items []dbm.Recommendation) error {
	return r.write(ctx, req.KindRecommendations, func(tx *gorm.DB) error {
		if _, err := loadTrip(tx, tripID); err != nil {
			return err
		}
		for i := range items {
			items[i].TripID = tripID
			items[i].Position = i + 1
		}
		return replaceChildren(tx, tripID, items)
	})
}

func (r *tripRepository) ListFlights(ctx context.Context, tripID uuid.UUID) ([]dbm.SelectedFlight, error) {
	var flights []dbm.SelectedFlight
	err := r.db.WithContext(ctx).Where("trip_id = ?", tripID).Order("leg_number").Find(&flights).Error
	return flights, err
}

func (r *tripRepository) GetHotel(ctx context.Context, tripID uuid.UUID) (*dbm.SelectedHotel, error) {
	return findOne[dbm.SelectedHotel](ctx, r.db, tripID)
}

func (r *tripRepository) ListScheduleDays(ctx context.Context, tripID uuid.UUID) ([]dbm.ScheduleDay, error) {
	var days []dbm.ScheduleDay
	err := r.db.WithContext(ctx).Where("trip_id = ?", tripID).Order("day_number").Find(&days).Error
	return days, err
}

func (r *tripRepository) GetBudget(ctx context.Context, tripID uuid.UUID) (*dbm.Budget, error) {
	return findOne[dbm.Budget](ctx, r.db, tripID)
}

func (r *tripRepository) GetPackingList(ctx context.Context, tripID uuid.UUID) (*dbm.PackingList, error) {
	return findOne[dbm.PackingList](ctx, r.db, tripID)
}

func (r *tripRepository) ListWeather(ctx context.Context, tripID uuid.UUID) ([]dbm.WeatherDay, error) {
	var days []dbm.WeatherDay
	err := r.db.WithContext(ctx).Where("trip_id = ?", tripID).Order("date").Find(&days).Error
	return days, err
}

func (r *tripRepository) ListRecommendations(ctx context.Context, tripID uuid.UUID) ([]dbm.Recommendation, error) {
	var items []dbm.Recommendation
	err := r.db.WithContext(ctx).Where("trip_id = ?", tripID).Order("position").Find(&items).Error
	return items, err
}

func loadTrip(tx *gorm.DB, tripID uuid.UUID) (*dbm.Trip, error) {
	var trip dbm.Trip
	if err := tx.First(&trip, "id = ?", tripID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, utils.ErrTripNotFound
		}
		return nil, err
	}
	return &trip, nil
}

// replaceChildren hard-deletes every row of T owned by the trip, then inserts
// rows. Callers run it inside a transaction so readers see either set, never a mix.
func replaceChildren[T any](tx *gorm.DB, tripID uuid.UUID, rows []T) error {
	var model T
	if err := tx.Unscoped().Where("trip_id = ?", tripID).Delete(&model).Error; err != nil {
		return err
	}
	if len(rows) == 0 {
		return nil
	}
	return tx.Create(&rows).Error
}

func findOne[T any](ctx context.Context, db *gorm.DB, tripID uuid.UUID) (*T, error) {
	var out T
	err := db.WithContext(ctx).Where("trip_id = ?", tripID).First(&out).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &out, nil
}
