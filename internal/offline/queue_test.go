package offline

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	req "wayfare/internal/models/request_models"
	"wayfare/pkg/utils"
)

type fakeProber struct{ up bool }

func (p fakeProber) Reachable(context.Context) bool { return p.up }

type recordingWriter struct {
	mu      sync.Mutex
	fail    map[string]error
	written []Entry
	during  func(e Entry)
}

func (w *recordingWriter) Write(_ context.Context, e Entry) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.during != nil {
		w.during(e)
	}
	if err := w.fail[e.Key()]; err != nil {
		return err
	}
	w.written = append(w.written, e)
	return nil
}

func newTestQueue(t *testing.T) *Queue {
	t.Helper()
	q, err := Open(InMemoryConfig(), nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = q.Close() })

	clock := time.Date(2025, 8, 1, 9, 0, 0, 0, time.UTC)
	q.now = func() time.Time {
		clock = clock.Add(time.Second)
		return clock
	}
	return q
}

func TestEnqueueKeepsLatestWritePerKey(t *testing.T) {
	q := newTestQueue(t)

	require.NoError(t, q.Enqueue(Entry{TripID: "t1", Kind: req.KindHotel, Payload: json.RawMessage(`{"name":"A"}`)}))
	require.NoError(t, q.Enqueue(Entry{TripID: "t1", Kind: req.KindHotel, Payload: json.RawMessage(`{"name":"B"}`)}))

	n, err := q.Len()
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	e, err := q.Get("t1", req.KindHotel)
	require.NoError(t, err)
	require.NotNil(t, e)
	assert.JSONEq(t, `{"name":"B"}`, string(e.Payload))
	assert.Equal(t, "trip-t1-hotel", e.Key())
	assert.NotEmpty(t, e.TraceID)

	missing, err := q.Get("t1", req.KindBudget)
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestEnqueueRejectsBadEntries(t *testing.T) {
	q := newTestQueue(t)

	err := q.Enqueue(Entry{Kind: req.KindHotel, Payload: json.RawMessage(`{}`)})
	assert.ErrorIs(t, err, utils.ErrValidation)

	err = q.Enqueue(Entry{TripID: "t1", Kind: "itinerary", Payload: json.RawMessage(`{}`)})
	assert.ErrorIs(t, err, utils.ErrValidation)

	err = q.Enqueue(Entry{TripID: "t1", Kind: req.KindHotel, Payload: json.RawMessage(`{"name":`)})
	assert.ErrorIs(t, err, utils.ErrValidation)
}

func TestSyncDeferredWhileUnreachable(t *testing.T) {
	q := newTestQueue(t)
	require.NoError(t, q.Enqueue(Entry{TripID: "t1", Kind: req.KindBudget, Payload: json.RawMessage(`{"total_budget":500}`)}))

	w := &recordingWriter{}
	report, err := q.Sync(context.Background(), fakeProber{up: false}, w)
	assert.ErrorIs(t, err, utils.ErrSyncDeferred)
	assert.Equal(t, 1, report.Remaining)
	assert.Empty(t, w.written)
}

func TestSyncReplaysInQueueOrderAndKeepsFailures(t *testing.T) {
	q := newTestQueue(t)
	require.NoError(t, q.Enqueue(Entry{TripID: "t1", Kind: req.KindFlights, Payload: json.RawMessage(`{"trip_type":"one-way"}`)}))
	require.NoError(t, q.Enqueue(Entry{TripID: "t1", Kind: req.KindHotel, Payload: json.RawMessage(`{"name":"Kata"}`)}))
	require.NoError(t, q.Enqueue(Entry{TripID: "t1", Kind: req.KindBudget, Payload: json.RawMessage(`{"total_budget":900}`)}))

	w := &recordingWriter{fail: map[string]error{"trip-t1-hotel": errors.New("503")}}
	report, err := q.Sync(context.Background(), fakeProber{up: true}, w)
	require.NoError(t, err)
	assert.Equal(t, SyncReport{Attempted: 3, Synced: 2, Failed: 1, Remaining: 1}, report)

	require.Len(t, w.written, 2)
	assert.Equal(t, req.KindFlights, w.written[0].Kind)
	assert.Equal(t, req.KindBudget, w.written[1].Kind)

	left, err := q.List()
	require.NoError(t, err)
	require.Len(t, left, 1)
	assert.Equal(t, req.KindHotel, left[0].Kind)
	assert.JSONEq(t, `{"name":"Kata"}`, string(left[0].Payload))

	delete(w.fail, "trip-t1-hotel")
	report, err = q.Sync(context.Background(), fakeProber{up: true}, w)
	require.NoError(t, err)
	assert.Equal(t, 1, report.Synced)
	assert.Equal(t, 0, report.Remaining)
}

func TestSyncKeepsWriteEnqueuedDuringReplay(t *testing.T) {
	q := newTestQueue(t)
	require.NoError(t, q.Enqueue(Entry{TripID: "t1", Kind: req.KindBudget, Payload: json.RawMessage(`{"total_budget":500}`)}))

	w := &recordingWriter{}
	w.during = func(e Entry) {
		w.during = nil
		require.NoError(t, q.Enqueue(Entry{TripID: "t1", Kind: req.KindBudget, Payload: json.RawMessage(`{"total_budget":750}`)}))
	}

	report, err := q.Sync(context.Background(), fakeProber{up: true}, w)
	require.NoError(t, err)
	assert.Equal(t, 1, report.Synced)
	assert.Equal(t, 1, report.Remaining)

	e, err := q.Get("t1", req.KindBudget)
	require.NoError(t, err)
	require.NotNil(t, e)
	assert.JSONEq(t, `{"total_budget":750}`, string(e.Payload))
}

func TestQueueSurvivesReopen(t *testing.T) {
	dir := t.TempDir()

	q, err := Open(DefaultConfig(dir), nil)
	require.NoError(t, err)
	require.NoError(t, q.Enqueue(Entry{TripID: "t9", Kind: req.KindSchedule, Payload: json.RawMessage(`{"days":[]}`)}))
	require.NoError(t, q.Close())

	q, err = Open(DefaultConfig(dir), nil)
	require.NoError(t, err)
	defer q.Close()

	e, err := q.Get("t9", req.KindSchedule)
	require.NoError(t, err)
	require.NotNil(t, e)
	assert.Equal(t, "t9", e.TripID)
}
