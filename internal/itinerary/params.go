package itinerary

import (
	"fmt"
	"strings"
	"time"

	"wayfare/internal/fallback"
	req "wayfare/internal/models/request_models"
	"wayfare/pkg/utils"
)

// Segment is one origin/destination/date triple of a multi-city trip.
type Segment struct {
	Origin      string
	Destination string
	Date        time.Time
}

// SearchParams are fixed for the lifetime of one search session.
type SearchParams struct {
	TripType    req.TripType
	Origin      string
	Destination string
	DepartDate  time.Time
	ReturnDate  time.Time
	Segments    []Segment
	Adults      int
	Cabin       string
	Currency    string
}

// Legs expands the parameters into one query per leg: one for one-way, the
// outbound and the swapped return for round-trip, one per segment otherwise.
func (p SearchParams) Legs() ([]fallback.FlightQuery, error) {
	base := fallback.FlightQuery{Adults: p.Adults, Cabin: p.Cabin, Currency: p.Currency}
	if base.Adults < 1 {
		base.Adults = 1
	}
	leg := func(origin, dest string, date time.Time) fallback.FlightQuery {
		q := base
		q.Origin = strings.ToUpper(strings.TrimSpace(origin))
		q.Destination = strings.ToUpper(strings.TrimSpace(dest))
		q.Date = date
		return q
	}

	switch p.TripType {
	case req.TripOneWay:
		if err := requireRoute(p.Origin, p.Destination, ""); err != nil {
			return nil, err
		}
		if p.DepartDate.IsZero() {
			return nil, utils.NewValidationError("depart_date", "is required")
		}
		return []fallback.FlightQuery{leg(p.Origin, p.Destination, p.DepartDate)}, nil
	case req.TripRoundTrip:
		if err := requireRoute(p.Origin, p.Destination, ""); err != nil {
			return nil, err
		}
		if p.DepartDate.IsZero() {
			return nil, utils.NewValidationError("depart_date", "is required")
		}
		if p.ReturnDate.IsZero() {
			return nil, utils.NewValidationError("return_date", "is required")
		}
		if p.ReturnDate.Before(p.DepartDate) {
			return nil, utils.NewValidationError("return_date", "is before the departure date")
		}
		return []fallback.FlightQuery{
			leg(p.Origin, p.Destination, p.DepartDate),
			leg(p.Destination, p.Origin, p.ReturnDate),
		}, nil
	case req.TripMultiCity:
		if len(p.Segments) < 2 {
			return nil, utils.NewValidationError("segments", "multi-city trip needs at least 2 segments")
		}
		out := make([]fallback.FlightQuery, 0, len(p.Segments))
		for i, s := range p.Segments {
			if err := requireRoute(s.Origin, s.Destination, fmt.Sprintf("segments[%d].", i)); err != nil {
				return nil, err
			}
			if s.Date.IsZero() {
				return nil, utils.NewValidationError(fmt.Sprintf("segments[%d].date", i), "is required")
			}
			out = append(out, leg(s.Origin, s.Destination, s.Date))
		}
		return out, nil
	}
	return nil, utils.NewValidationError("trip_type", fmt.Sprintf("unknown trip type %q", p.TripType))
}

func requireRoute(origin, dest, prefix string) error {
	if strings.TrimSpace(origin) == "" {
		return utils.NewValidationError(prefix+"origin", "is required")
	}
	if strings.TrimSpace(dest) == "" {
		return utils.NewValidationError(prefix+"destination", "is required")
	}
	return nil
}
