// Package fallback resolves flight and hotel searches through a chain of
// sources so the caller always gets something to show.
package fallback

import (
	"context"
	"time"

	resp "wayfare/internal/models/response_models"
)

type FlightQuery struct {
	Origin      string
	Destination string
	Date        time.Time
	Adults      int
	Cabin       string
	Currency    string
}

type HotelQuery struct {
	City     string
	CheckIn  time.Time
	CheckOut time.Time
	Guests   int
	Currency string
}

// Source is one tier of the chain. Errors that match utils.ErrRequestShape
// stop the chain; every other error moves on to the next tier.
type Source interface {
	SearchFlights(ctx context.Context, q FlightQuery) ([]resp.FlightOffer, error)
	SearchHotels(ctx context.Context, q HotelQuery) ([]resp.HotelOffer, error)
}

type Provenance int

const (
	FromProvider Provenance = iota
	FromGenerative
	FromStatic
	// Rejected means the provider refused the query itself; nothing was resolved.
	Rejected
)

func (p Provenance) String() string {
	switch p {
	case FromProvider:
		return "provider"
	case FromGenerative:
		return "generative"
	case FromStatic:
		return "static"
	case Rejected:
		return "rejected"
	}
	return "unknown"
}

type Notice struct {
	Blocking bool
	Code     string
	Message  string
}

// Outcome is the resolver's only result type. Offers is non-empty unless
// Provenance is Rejected, in which case Notice explains why.
type Outcome[T any] struct {
	Offers     []T
	Provenance Provenance
	IsMock     bool
	Notice     *Notice
}

type FlightOutcome = Outcome[resp.FlightOffer]

type HotelOutcome = Outcome[resp.HotelOffer]
