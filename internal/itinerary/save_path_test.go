package itinerary

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"wayfare/internal/api/controllers"
	"wayfare/internal/api/router"
	"wayfare/internal/fallback"
	"wayfare/internal/infra"
	req "wayfare/internal/models/request_models"
	resp "wayfare/internal/models/response_models"
	"wayfare/internal/offline"
	"wayfare/internal/repositories"
	"wayfare/internal/services"
	"wayfare/internal/tripapi"
	mem "wayfare/pkg/memcache"
	"wayfare/pkg/utils"
)

var jwtSecret = []byte("itinerary-test")

// flakyServer is the real trip API behind a switch that makes it look offline.
type flakyServer struct {
	*httptest.Server
	repo    repositories.TripRepository
	offline atomic.Bool
	token   string
}

func newFlakyServer(t *testing.T) *flakyServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: gormlogger.Default.LogMode(gormlogger.Silent)})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })
	require.NoError(t, infra.Migrate(db))

	logger := zap.NewNop()
	repo := repositories.NewTripRepository(db)
	engine := router.New(jwtSecret, router.Controllers{
		Trip: controllers.NewTripController(services.NewTripService(repo, logger), logger),
		AI: controllers.NewAIController(services.NewAIService(func(context.Context, string) (utils.TextGenerator, error) {
			return nil, utils.ErrProviderUnavailable
		}, logger), logger),
		Image: controllers.NewImageController(services.NewImageService(nil, mem.NewTTLStore[resp.ImageResponse](4), time.Minute, logger)),
	})

	token, err := utils.CreateToken(jwtSecret, uuid.New(), "traveler", time.Hour)
	require.NoError(t, err)

	fs := &flakyServer{repo: repo, token: token}
	fs.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if fs.offline.Load() {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		engine.ServeHTTP(w, r)
	}))
	t.Cleanup(fs.Close)
	return fs
}

func newSessionFor(t *testing.T, fs *flakyServer) (*Session, *offline.Queue, uuid.UUID) {
	t.Helper()
	client := tripapi.NewClient(fs.URL, fs.token)
	trip, err := client.CreateTrip(context.Background(), req.CreateTripRequest{
		Origin:      "BKK",
		Destination: "Phuket",
		StartDate:   "2025-08-05",
		EndDate:     "2025-08-09",
		GroupSize:   2,
		TotalBudget: 1000,
		TripType:    req.TripRoundTrip,
	})
	require.NoError(t, err)

	q, err := offline.Open(offline.InMemoryConfig(), nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = q.Close() })

	resolver := fallback.NewResolver(nil, nil)
	s := NewSession(trip.ID, resolver, NewSavePath(client, q, nil), nil)
	return s, q, uuid.MustParse(trip.ID)
}

func TestHotelSaveQueuedWhileOfflineThenSynced(t *testing.T) {
	fs := newFlakyServer(t)
	s, q, tripID := newSessionFor(t, fs)
	ctx := context.Background()

	hotels := s.SearchHotels(ctx, fallback.HotelQuery{
		City:     "Phuket",
		CheckIn:  augFifth,
		CheckOut: augFifth.AddDate(0, 0, 4),
		Guests:   2,
	})
	require.NotEmpty(t, hotels.Offers)
	pick := hotels.Offers[0]

	fs.offline.Store(true)
	report, err := s.SelectHotel(ctx, pick.ID)
	require.NoError(t, err)
	assert.True(t, report.Queued)
	assert.NotEmpty(t, report.Notice)

	pending, err := q.Get(s.TripID(), req.KindHotel)
	require.NoError(t, err)
	require.NotNil(t, pending)
	assert.Equal(t, "trip-"+s.TripID()+"-hotel", pending.Key())

	_, err = s.save.Sync(ctx)
	assert.ErrorIs(t, err, utils.ErrSyncDeferred)

	fs.offline.Store(false)
	replay, err := s.save.Sync(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, replay.Synced)
	assert.Equal(t, 0, replay.Remaining)

	gone, err := q.Get(s.TripID(), req.KindHotel)
	require.NoError(t, err)
	assert.Nil(t, gone)

	row, err := fs.repo.GetHotel(ctx, tripID)
	require.NoError(t, err)
	require.NotNil(t, row)
	assert.Equal(t, pick.Name, row.Name)
	assert.InDelta(t, pick.TotalPrice, row.TotalPrice, 0.001)
	assert.True(t, row.IsMock)
}

func TestFlightSelectionSavedOnline(t *testing.T) {
	fs := newFlakyServer(t)
	s, q, tripID := newSessionFor(t, fs)
	ctx := context.Background()
	fc := s.Flights()

	snap, err := fc.FetchOptions(ctx, roundTrip())
	require.NoError(t, err)
	snap, err = fc.SelectForCurrentLeg(ctx, snap.Outcome.Offers[0].ID)
	require.NoError(t, err)
	snap, err = fc.SelectForCurrentLeg(ctx, snap.Outcome.Offers[1].ID)
	require.NoError(t, err)
	require.Equal(t, Completed, snap.State)
	require.NotNil(t, snap.Save)
	assert.False(t, snap.Save.Queued)

	n, err := q.Len()
	require.NoError(t, err)
	assert.Zero(t, n)

	rows, err := fs.repo.ListFlights(ctx, tripID)
	require.NoError(t, err)
	require.Len(t, rows, 2)

	budget, err := fs.repo.GetBudget(ctx, tripID)
	require.NoError(t, err)
	require.NotNil(t, budget)
	assert.InDelta(t, snap.Selections[0].Price+snap.Selections[1].Price, budget.FlightCost, 0.001)
}

func TestQueuedWriteReplayedBeforeNextDirectWrite(t *testing.T) {
	fs := newFlakyServer(t)
	s, q, tripID := newSessionFor(t, fs)
	ctx := context.Background()

	fs.offline.Store(true)
	report, err := s.SaveBudget(ctx, req.SaveBudgetRequest{TotalBudget: 1500})
	require.NoError(t, err)
	assert.True(t, report.Queued)

	fs.offline.Store(false)
	report, err = s.SavePackingList(ctx, req.SavePackingListRequest{Items: []req.PackingItemInput{{Name: "Sunscreen", Quantity: 1}}})
	require.NoError(t, err)
	assert.False(t, report.Queued)

	n, err := q.Len()
	require.NoError(t, err)
	assert.Zero(t, n)

	budget, err := fs.repo.GetBudget(ctx, tripID)
	require.NoError(t, err)
	require.NotNil(t, budget)
	assert.InDelta(t, 1500.0, budget.TotalBudget, 0.001)
}

func TestServerRejectionIsReturnedNotQueued(t *testing.T) {
	fs := newFlakyServer(t)
	s, q, _ := newSessionFor(t, fs)

	_, err := s.SaveSchedule(context.Background(), req.SaveScheduleRequest{Days: []req.ScheduleDayInput{{DayNumber: 1}, {DayNumber: 1}}})
	assert.ErrorIs(t, err, utils.ErrValidation)

	n, err := q.Len()
	require.NoError(t, err)
	assert.Zero(t, n)
}
