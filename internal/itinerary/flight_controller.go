// Package itinerary drives the step-by-step flight selection and the
// per-trip saves on the client.
package itinerary

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"wayfare/internal/fallback"
	req "wayfare/internal/models/request_models"
	resp "wayfare/internal/models/response_models"
)

type State int

const (
	Idle State = iota
	SearchingLeg
	AwaitingSelection
	Completed
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case SearchingLeg:
		return "searching"
	case AwaitingSelection:
		return "awaiting_selection"
	case Completed:
		return "completed"
	}
	return "unknown"
}

var (
	ErrNotAwaitingSelection = errors.New("no leg is awaiting a selection")
	ErrUnknownOffer         = errors.New("offer is not among the current leg's options")
)

type FlightResolver interface {
	ResolveFlights(ctx context.Context, q fallback.FlightQuery) fallback.FlightOutcome
}

// FlightSaver receives the full set of selections once the last leg is chosen.
type FlightSaver interface {
	SaveFlights(ctx context.Context, tripType req.TripType, legs []resp.FlightOffer) (SaveReport, error)
}

// Snapshot is what the UI renders after every transition.
type Snapshot struct {
	State      State
	Leg        int
	TotalLegs  int
	Outcome    fallback.FlightOutcome
	Selections []resp.FlightOffer
	Save       *SaveReport
}

// FlightController walks the legs of one trip in order. Only one leg search
// is in flight at a time from the user's point of view: a result that
// arrives after the user navigated elsewhere is dropped.
type FlightController struct {
	resolver FlightResolver
	saver    FlightSaver
	cache    *LegCache
	logger   *zap.Logger

	mu         sync.Mutex
	params     SearchParams
	legs       []fallback.FlightQuery
	state      State
	leg        int
	current    fallback.FlightOutcome
	selections []*resp.FlightOffer
	lastSave   *SaveReport
	// generation is bumped on every navigation; a search only applies its
	// result when the generation it started under is still current.
	generation uint64
}

func NewFlightController(resolver FlightResolver, saver FlightSaver, logger *zap.Logger) *FlightController {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &FlightController{
		resolver: resolver,
		saver:    saver,
		cache:    NewLegCache(),
		logger:   logger,
	}
}

// FetchOptions starts a new session for params and resolves the first leg.
func (c *FlightController) FetchOptions(ctx context.Context, params SearchParams) (Snapshot, error) {
	legs, err := params.Legs()
	if err != nil {
		return Snapshot{}, err
	}

	c.mu.Lock()
	c.params = params
	c.legs = legs
	c.selections = make([]*resp.FlightOffer, len(legs))
	c.lastSave = nil
	c.cache.Reset()
	c.mu.Unlock()

	return c.enterLeg(ctx, 0), nil
}

// SelectForCurrentLeg records choice for the current leg and moves on. On the
// last leg it hands every selection to the saver.
func (c *FlightController) SelectForCurrentLeg(ctx context.Context, offerID string) (Snapshot, error) {
	c.mu.Lock()
	if c.state != AwaitingSelection {
		defer c.mu.Unlock()
		return c.snapshotLocked(), ErrNotAwaitingSelection
	}
	chosen, ok := findOffer(c.current.Offers, offerID)
	if !ok {
		defer c.mu.Unlock()
		return c.snapshotLocked(), fmt.Errorf("%w: %q", ErrUnknownOffer, offerID)
	}
	c.selections[c.leg] = &chosen
	for i := c.leg + 1; i < len(c.selections); i++ {
		c.selections[i] = nil
	}

	if c.leg < len(c.legs)-1 {
		next := c.leg + 1
		c.mu.Unlock()
		return c.enterLeg(ctx, next), nil
	}

	c.state = Completed
	c.generation++
	tripType := c.params.TripType
	picked := c.selectedLocked()
	c.mu.Unlock()

	if c.saver == nil {
		return c.Snapshot(), nil
	}
	report, err := c.saver.SaveFlights(ctx, tripType, picked)

	c.mu.Lock()
	defer c.mu.Unlock()
	if err == nil {
		c.lastSave = &report
	}
	return c.snapshotLocked(), err
}

// GoBack returns to the previous leg using its cached options. exit is true
// when there is no previous leg and the caller should leave the flow.
func (c *FlightController) GoBack(ctx context.Context) (snap Snapshot, exit bool) {
	c.mu.Lock()
	switch {
	case c.state == Idle:
		defer c.mu.Unlock()
		return c.snapshotLocked(), true
	case c.state == Completed:
		// reopen the last leg so its choice can be changed
		leg := c.leg
		c.lastSave = nil
		c.mu.Unlock()
		return c.enterLeg(ctx, leg), false
	case c.leg == 0:
		defer c.mu.Unlock()
		c.generation++
		c.state = Idle
		c.current = fallback.FlightOutcome{}
		return c.snapshotLocked(), true
	}
	prev := c.leg - 1
	c.mu.Unlock()
	return c.enterLeg(ctx, prev), false
}

func (c *FlightController) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snapshotLocked()
}

// Selections returns the chosen offers, leg order, without gaps.
func (c *FlightController) Selections() []resp.FlightOffer {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.selectedLocked()
}

func (c *FlightController) enterLeg(ctx context.Context, leg int) Snapshot {
	c.mu.Lock()
	c.generation++
	gen := c.generation
	c.leg = leg
	for i := leg; i < len(c.selections); i++ {
		c.selections[i] = nil
	}
	if cached, ok := c.cache.Get(leg); ok {
		c.current = cached
		c.state = AwaitingSelection
		defer c.mu.Unlock()
		return c.snapshotLocked()
	}
	c.state = SearchingLeg
	c.current = fallback.FlightOutcome{}
	q := c.legs[leg]
	c.mu.Unlock()

	out := c.resolver.ResolveFlights(ctx, q)

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.generation != gen {
		c.logger.Debug("dropping stale leg result",
			zap.Int("leg", leg),
			zap.Int("current_leg", c.leg),
			zap.Stringer("state", c.state))
		return c.snapshotLocked()
	}

	// a rejected query has nothing to pick from and is not worth caching
	if out.Provenance != fallback.Rejected {
		c.cache.Put(leg, out)
	}
	c.state = AwaitingSelection
	c.current = out
	return c.snapshotLocked()
}

func (c *FlightController) snapshotLocked() Snapshot {
	return Snapshot{
		State:      c.state,
		Leg:        c.leg,
		TotalLegs:  len(c.legs),
		Outcome:    c.current,
		Selections: c.selectedLocked(),
		Save:       c.lastSave,
	}
}

func (c *FlightController) selectedLocked() []resp.FlightOffer {
	out := make([]resp.FlightOffer, 0, len(c.selections))
	for _, s := range c.selections {
		if s == nil {
			break
		}
		out = append(out, *s)
	}
	return out
}

func findOffer(offers []resp.FlightOffer, id string) (resp.FlightOffer, bool) {
	for _, o := range offers {
		if o.ID == id {
			return o, true
		}
	}
	return resp.FlightOffer{}, false
}

// FlightsRequest builds the server payload for a completed selection.
func FlightsRequest(tripType req.TripType, legs []resp.FlightOffer) req.SaveFlightsRequest {
	out := req.SaveFlightsRequest{TripType: tripType, Flights: make([]req.FlightInput, 0, len(legs))}
	for i, o := range legs {
		out.Flights = append(out.Flights, req.FlightInput{
			LegNumber:    i + 1,
			OfferID:      o.ID,
			Airline:      o.Airline,
			FlightNumber: o.FlightNumber,
			Origin:       o.Origin,
			Destination:  o.Destination,
			DepartAt:     instant(o.DepartAt),
			ArriveAt:     instant(o.ArriveAt),
			Cabin:        o.Cabin,
			Stops:        o.Stops,
			Price:        o.Price,
			Currency:     o.Currency,
			IsMock:       o.IsMock,
		})
	}
	return out
}
