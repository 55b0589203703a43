// Package metrics holds the Prometheus collectors shared by the server and the client.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// ResolverOutcomes counts fallback resolutions by tier.
	// Labels: query (flights, hotels), tier (provider, generative, static, rejected)
	ResolverOutcomes = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "wayfare",
		Subsystem: "resolver",
		Name:      "outcomes_total",
		Help:      "Fallback resolutions by the tier that produced the result",
	}, []string{"query", "tier"})

	// TripWrites counts transactional writes.
	// Labels: kind (flights, hotel, ...), status (committed, rolled_back)
	TripWrites = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "wayfare",
		Subsystem: "store",
		Name:      "writes_total",
		Help:      "Transactional trip writes by resource kind and outcome",
	}, []string{"kind", "status"})

	TripWriteLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "wayfare",
		Subsystem: "store",
		Name:      "write_duration_seconds",
		Help:      "Transactional trip write latency in seconds",
		Buckets:   []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
	}, []string{"kind"})

	// QueueDepth is the number of writes waiting in the offline queue.
	QueueDepth = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "wayfare",
		Subsystem: "offline",
		Name:      "queue_depth",
		Help:      "Writes waiting in the offline queue",
	})

	// QueueReplays counts replay attempts.
	// Labels: status (synced, failed)
	QueueReplays = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "wayfare",
		Subsystem: "offline",
		Name:      "replays_total",
		Help:      "Offline queue replay attempts by outcome",
	}, []string{"status"})

	// ImageLookups counts image lookups.
	// Labels: source (cache, provider, placeholder)
	ImageLookups = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "wayfare",
		Subsystem: "images",
		Name:      "lookups_total",
		Help:      "Image lookups by the source that answered",
	}, []string{"source"})
)
