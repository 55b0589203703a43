// Package offline keeps trip writes that could not reach the server and
// replays them once it is reachable again.
package offline

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/google/uuid"
	"go.uber.org/zap"

	req "wayfare/internal/models/request_models"
	"wayfare/pkg/metrics"
	"wayfare/pkg/utils"
)

const keyPrefix = "trip-"

// Entry is one pending write. Payload is the exact request body.
type Entry struct {
	TripID   string           `json:"trip_id"`
	Kind     req.ResourceKind `json:"kind"`
	Payload  json.RawMessage  `json:"payload"`
	TraceID  string           `json:"trace_id"`
	QueuedAt time.Time        `json:"queued_at"`
}

func (e Entry) Key() string {
	return Key(e.TripID, e.Kind)
}

// Key identifies the latest pending write of one kind for one trip.
func Key(tripID string, kind req.ResourceKind) string {
	return keyPrefix + tripID + "-" + string(kind)
}

// Writer delivers one entry to the server.
type Writer interface {
	Write(ctx context.Context, e Entry) error
}

// Prober reports whether the server can be reached right now.
type Prober interface {
	Reachable(ctx context.Context) bool
}

type SyncReport struct {
	Attempted int
	Synced    int
	Failed    int
	Remaining int
}

type Queue struct {
	db     *badger.DB
	logger *zap.Logger
	now    func() time.Time

	// one replay at a time
	syncMu sync.Mutex
}

func Open(cfg Config, logger *zap.Logger) (*Queue, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	db, err := openDB(cfg)
	if err != nil {
		return nil, err
	}
	q := &Queue{db: db, logger: logger, now: time.Now}
	q.refreshDepth()
	return q, nil
}

func (q *Queue) Close() error {
	return q.db.Close()
}

// Enqueue stores e under its key, replacing any older pending write of the
// same kind for the same trip.
func (q *Queue) Enqueue(e Entry) error {
	if e.TripID == "" {
		return utils.NewValidationError("trip_id", "is required")
	}
	if _, err := req.ParseResourceKind(string(e.Kind)); err != nil {
		return utils.NewValidationError("kind", err.Error())
	}
	if !json.Valid(e.Payload) {
		return utils.NewValidationError("payload", "is not valid JSON")
	}
	if e.QueuedAt.IsZero() {
		e.QueuedAt = q.now().UTC()
	}
	if e.TraceID == "" {
		e.TraceID = uuid.NewString()
	}

	raw, err := json.Marshal(e)
	if err != nil {
		return fmt.Errorf("encode queue entry: %w", err)
	}
	if err := q.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(e.Key()), raw)
	}); err != nil {
		return fmt.Errorf("enqueue %s: %w", e.Key(), err)
	}

	q.logger.Info("write queued for later sync",
		zap.String("key", e.Key()),
		zap.String("trace_id", e.TraceID))
	q.refreshDepth()
	return nil
}

// Get returns nil, nil when nothing is pending for the key.
func (q *Queue) Get(tripID string, kind req.ResourceKind) (*Entry, error) {
	var out *Entry
	err := q.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(Key(tripID, kind)))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil
		}
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			var e Entry
			if err := json.Unmarshal(val, &e); err != nil {
				return err
			}
			out = &e
			return nil
		})
	})
	if err != nil {
		return nil, fmt.Errorf("read queue entry: %w", err)
	}
	return out, nil
}

// List returns pending entries in the order they were queued.
func (q *Queue) List() ([]Entry, error) {
	stored, err := q.scan()
	if err != nil {
		return nil, err
	}
	out := make([]Entry, 0, len(stored))
	for _, s := range stored {
		out = append(out, s.entry)
	}
	return out, nil
}

func (q *Queue) Len() (int, error) {
	n := 0
	err := q.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false
		opts.Prefix = []byte(keyPrefix)
		it := txn.NewIterator(opts)
		defer it.Close()
		for it.Rewind(); it.Valid(); it.Next() {
			n++
		}
		return nil
	})
	return n, err
}

func (q *Queue) Remove(tripID string, kind req.ResourceKind) error {
	err := q.db.Update(func(txn *badger.Txn) error {
		return txn.Delete([]byte(Key(tripID, kind)))
	})
	q.refreshDepth()
	return err
}

// Sync replays every pending entry once. An entry is removed only after the
// server accepted it; failures stay queued unchanged for the next call.
// Returns utils.ErrSyncDeferred without touching anything when the prober
// says the server is unreachable.
func (q *Queue) Sync(ctx context.Context, prober Prober, writer Writer) (SyncReport, error) {
	q.syncMu.Lock()
	defer q.syncMu.Unlock()

	var report SyncReport
	stored, err := q.scan()
	if err != nil {
		return report, err
	}
	report.Remaining = len(stored)
	if len(stored) == 0 {
		return report, nil
	}
	if prober != nil && !prober.Reachable(ctx) {
		return report, utils.ErrSyncDeferred
	}

	for _, s := range stored {
		if ctx.Err() != nil {
			break
		}
		report.Attempted++
		if err := writer.Write(ctx, s.entry); err != nil {
			report.Failed++
			metrics.QueueReplays.WithLabelValues("failed").Inc()
			q.logger.Warn("queued write replay failed",
				zap.String("key", s.key),
				zap.String("trace_id", s.entry.TraceID),
				zap.Error(err))
			continue
		}
		metrics.QueueReplays.WithLabelValues("synced").Inc()
		report.Synced++
		if err := q.removeIfUnchanged(s.key, s.raw); err != nil {
			q.logger.Error("failed to drop synced entry", zap.String("key", s.key), zap.Error(err))
		}
	}

	q.refreshDepth()
	if n, err := q.Len(); err == nil {
		report.Remaining = n
	}
	if err := ctx.Err(); err != nil {
		return report, err
	}
	return report, nil
}

type storedEntry struct {
	key   string
	raw   []byte
	entry Entry
}

func (q *Queue) scan() ([]storedEntry, error) {
	var out []storedEntry
	err := q.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(keyPrefix)
		it := txn.NewIterator(opts)
		defer it.Close()
		for it.Rewind(); it.Valid(); it.Next() {
			item := it.Item()
			raw, err := item.ValueCopy(nil)
			if err != nil {
				return err
			}
			var e Entry
			if err := json.Unmarshal(raw, &e); err != nil {
				q.logger.Warn("skipping unreadable queue entry", zap.String("key", string(item.Key())), zap.Error(err))
				continue
			}
			out = append(out, storedEntry{key: string(item.KeyCopy(nil)), raw: raw, entry: e})
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("scan offline queue: %w", err)
	}
	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].entry.QueuedAt.Equal(out[j].entry.QueuedAt) {
			return out[i].entry.QueuedAt.Before(out[j].entry.QueuedAt)
		}
		return strings.Compare(out[i].key, out[j].key) < 0
	})
	return out, nil
}

// removeIfUnchanged keeps a newer write that was enqueued for the same key
// while the replay was in flight.
func (q *Queue) removeIfUnchanged(key string, raw []byte) error {
	return q.db.Update(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(key))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil
		}
		if err != nil {
			return err
		}
		current, err := item.ValueCopy(nil)
		if err != nil {
			return err
		}
		if !bytes.Equal(current, raw) {
			q.logger.Debug("entry replaced during sync, keeping newer write", zap.String("key", key))
			return nil
		}
		return txn.Delete([]byte(key))
	})
}

func (q *Queue) refreshDepth() {
	if n, err := q.Len(); err == nil {
		metrics.QueueDepth.Set(float64(n))
	}
}
