package fallback

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	resp "wayfare/internal/models/response_models"
	"wayfare/pkg/metrics"
	"wayfare/pkg/utils"
)

const defaultCallTimeout = 30 * time.Second

// Resolver tries the primary provider, then the generative fallback, then the
// static dataset. Either source may be nil.
type Resolver struct {
	primary     Source
	generative  Source
	callTimeout time.Duration
	logger      *zap.Logger
}

type Option func(*Resolver)

func WithCallTimeout(d time.Duration) Option {
	return func(r *Resolver) { r.callTimeout = d }
}

func WithLogger(logger *zap.Logger) Option {
	return func(r *Resolver) { r.logger = logger }
}

func NewResolver(primary, generative Source, opts ...Option) *Resolver {
	r := &Resolver{
		primary:     primary,
		generative:  generative,
		callTimeout: defaultCallTimeout,
		logger:      zap.NewNop(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

func (r *Resolver) ResolveFlights(ctx context.Context, q FlightQuery) FlightOutcome {
	var primary, generative func(context.Context) ([]resp.FlightOffer, error)
	if r.primary != nil {
		primary = func(ctx context.Context) ([]resp.FlightOffer, error) { return r.primary.SearchFlights(ctx, q) }
	}
	if r.generative != nil {
		generative = func(ctx context.Context) ([]resp.FlightOffer, error) { return r.generative.SearchFlights(ctx, q) }
	}
	out := resolve(ctx, r, "flights", primary, generative, func() []resp.FlightOffer { return StaticFlights(q) })
	if out.Provenance != FromProvider {
		for i := range out.Offers {
			out.Offers[i].IsMock = true
		}
	}
	return out
}

func (r *Resolver) ResolveHotels(ctx context.Context, q HotelQuery) HotelOutcome {
	var primary, generative func(context.Context) ([]resp.HotelOffer, error)
	if r.primary != nil {
		primary = func(ctx context.Context) ([]resp.HotelOffer, error) { return r.primary.SearchHotels(ctx, q) }
	}
	if r.generative != nil {
		generative = func(ctx context.Context) ([]resp.HotelOffer, error) { return r.generative.SearchHotels(ctx, q) }
	}
	out := resolve(ctx, r, "hotels", primary, generative, func() []resp.HotelOffer { return StaticHotels(q) })
	if out.Provenance != FromProvider {
		for i := range out.Offers {
			out.Offers[i].IsMock = true
		}
	}
	return out
}

func resolve[T any](
	ctx context.Context,
	r *Resolver,
	query string,
	primary, generative func(context.Context) ([]T, error),
	static func() []T,
) Outcome[T] {
	if primary != nil {
		offers, err := callTier(ctx, r.callTimeout, primary)
		switch {
		case err == nil && len(offers) > 0:
			metrics.ResolverOutcomes.WithLabelValues(query, FromProvider.String()).Inc()
			return Outcome[T]{Offers: offers, Provenance: FromProvider}
		case errors.Is(err, utils.ErrRequestShape):
			metrics.ResolverOutcomes.WithLabelValues(query, Rejected.String()).Inc()
			r.logger.Info("provider rejected query", zap.String("query", query), zap.Error(err))
			return Outcome[T]{Provenance: Rejected, Notice: shapeNotice(err)}
		case err != nil:
			r.logger.Warn("primary provider failed", zap.String("query", query), zap.Error(err))
		default:
			r.logger.Info("primary provider returned nothing", zap.String("query", query))
		}
	}

	if generative != nil {
		offers, err := callTier(ctx, r.callTimeout, generative)
		if err == nil && len(offers) > 0 {
			metrics.ResolverOutcomes.WithLabelValues(query, FromGenerative.String()).Inc()
			return Outcome[T]{
				Offers:     offers,
				Provenance: FromGenerative,
				IsMock:     true,
				Notice:     &Notice{Message: "Live results are unavailable; showing suggested options."},
			}
		}
		r.logger.Warn("generative fallback failed", zap.String("query", query), zap.Error(err))
	}

	metrics.ResolverOutcomes.WithLabelValues(query, FromStatic.String()).Inc()
	return Outcome[T]{
		Offers:     static(),
		Provenance: FromStatic,
		IsMock:     true,
		Notice:     &Notice{Message: "Search services are unavailable; showing sample options."},
	}
}

// callTier bounds one tier with the per-call timeout and turns a panic in a
// source into an ordinary error.
func callTier[T any](ctx context.Context, timeout time.Duration, fn func(context.Context) ([]T, error)) (offers []T, err error) {
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}
	defer func() {
		if rec := recover(); rec != nil {
			offers = nil
			err = fmt.Errorf("%w: source panicked: %v", utils.ErrProviderUnavailable, rec)
		}
	}()
	return fn(ctx)
}

func shapeNotice(err error) *Notice {
	n := &Notice{Blocking: true, Message: err.Error()}
	var shapeErr *utils.RequestShapeError
	if errors.As(err, &shapeErr) {
		n.Code = shapeErr.Code
		n.Message = shapeErr.Message
	}
	return n
}
