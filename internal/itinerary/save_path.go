package itinerary

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	req "wayfare/internal/models/request_models"
	"wayfare/internal/offline"
	"wayfare/internal/tripapi"
)

// Remote is the trip server as seen by the save path.
type Remote interface {
	offline.Writer
	offline.Prober
}

// SaveReport tells the caller whether a write reached the server or is
// waiting in the offline queue.
type SaveReport struct {
	Kind   req.ResourceKind
	Queued bool
	Notice string
}

// SavePath sends writes straight to the server when it is reachable and
// queues them otherwise. Every direct write is preceded by a replay of
// whatever is already queued.
type SavePath struct {
	remote Remote
	queue  *offline.Queue
	logger *zap.Logger
}

func NewSavePath(remote Remote, queue *offline.Queue, logger *zap.Logger) *SavePath {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SavePath{remote: remote, queue: queue, logger: logger}
}

// Save marshals payload and delivers it for tripID. Server-side rejections
// come back as errors; connectivity problems never do.
func (s *SavePath) Save(ctx context.Context, tripID string, kind req.ResourceKind, payload any) (SaveReport, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return SaveReport{Kind: kind}, fmt.Errorf("encode %s: %w", kind, err)
	}
	entry := offline.Entry{TripID: tripID, Kind: kind, Payload: raw, TraceID: uuid.NewString()}

	if !s.remote.Reachable(ctx) {
		return s.enqueue(entry)
	}

	if _, err := s.queue.Sync(ctx, s.remote, s.remote); err != nil && !errors.Is(err, context.Canceled) {
		s.logger.Warn("queue replay before write failed", zap.Error(err))
	}

	err = s.remote.Write(ctx, entry)
	switch {
	case err == nil:
		// a stale queued copy of this write must not overwrite it later
		if err := s.queue.Remove(tripID, kind); err != nil {
			s.logger.Warn("failed to drop superseded queue entry", zap.String("key", entry.Key()), zap.Error(err))
		}
		return SaveReport{Kind: kind}, nil
	case errors.Is(err, tripapi.ErrUnreachable):
		s.logger.Info("server dropped mid-write, queuing", zap.String("key", entry.Key()), zap.Error(err))
		return s.enqueue(entry)
	default:
		return SaveReport{Kind: kind}, err
	}
}

// Sync replays the queue if the server is reachable.
func (s *SavePath) Sync(ctx context.Context) (offline.SyncReport, error) {
	return s.queue.Sync(ctx, s.remote, s.remote)
}

func (s *SavePath) enqueue(e offline.Entry) (SaveReport, error) {
	if err := s.queue.Enqueue(e); err != nil {
		return SaveReport{Kind: e.Kind}, err
	}
	return SaveReport{
		Kind:   e.Kind,
		Queued: true,
		Notice: "You are offline. Your changes were saved on this device and will sync automatically.",
	}, nil
}
