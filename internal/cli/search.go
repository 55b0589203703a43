package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"wayfare/internal/fallback"
	"wayfare/internal/itinerary"
	req "wayfare/internal/models/request_models"
	resp "wayfare/internal/models/response_models"
	"wayfare/pkg/utils"
)

const (
	pickCheapest = "cheapest"
	pickFirst    = "first"
	pickNone     = "none"
)

func NewSearchCommand(opts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "search",
		Short: "Search flights or hotels and optionally save a pick",
	}
	cmd.AddCommand(newSearchFlightsCommand(opts))
	cmd.AddCommand(newSearchHotelsCommand(opts))
	return cmd
}

type flightFlags struct {
	tripID   string
	tripType string
	from     string
	to       string
	depart   string
	ret      string
	segments []string
	adults   int
	cabin    string
	currency string
	pick     string
}

func (f flightFlags) params() (itinerary.SearchParams, error) {
	p := itinerary.SearchParams{
		TripType:    req.TripType(f.tripType),
		Origin:      f.from,
		Destination: f.to,
		Adults:      f.adults,
		Cabin:       f.cabin,
		Currency:    f.currency,
	}
	var err error
	if p.DepartDate, err = utils.ParseDate(f.depart); err != nil {
		return p, utils.NewValidationError("depart", err.Error())
	}
	if p.ReturnDate, err = utils.ParseDate(f.ret); err != nil {
		return p, utils.NewValidationError("return", err.Error())
	}
	for i, s := range f.segments {
		parts := strings.Split(s, ":")
		if len(parts) != 3 {
			return p, utils.NewValidationError(fmt.Sprintf("segment[%d]", i), "must look like ORIGIN:DEST:YYYY-MM-DD")
		}
		day, err := utils.ParseDate(parts[2])
		if err != nil {
			return p, utils.NewValidationError(fmt.Sprintf("segment[%d]", i), err.Error())
		}
		p.Segments = append(p.Segments, itinerary.Segment{Origin: parts[0], Destination: parts[1], Date: day})
	}
	return p, nil
}

type flightResult struct {
	Legs       []legResult           `json:"legs"`
	Selections []resp.FlightOffer    `json:"selections,omitempty"`
	Save       *itinerary.SaveReport `json:"save,omitempty"`
}

type legResult struct {
	Leg        int                `json:"leg"`
	Provenance string             `json:"provenance"`
	Notice     string             `json:"notice,omitempty"`
	Offers     []resp.FlightOffer `json:"offers"`
}

func newSearchFlightsCommand(opts *RootOptions) *cobra.Command {
	var f flightFlags

	cmd := &cobra.Command{
		Use:   "flights",
		Short: "Walk every leg of a trip and pick a flight for each",
		Long: `Search each leg in order. With --pick cheapest or --pick first the
choice is made automatically and, when --trip is set, the full selection is
saved once the last leg is chosen. --pick none only lists the first leg.

Examples:
  tripctl search flights --type one-way --from BKK --to HKT --depart 2025-08-05
  tripctl search flights --trip <id> --from BKK --to HKT --depart 2025-08-05 --return 2025-08-09
  tripctl search flights --type multi-city --segment BKK:SGN:2025-08-05 --segment SGN:HAN:2025-08-08`,
		RunE: func(cmd *cobra.Command, args []string) error {
			params, err := f.params()
			if err != nil {
				return err
			}
			c, err := opts.open()
			if err != nil {
				return err
			}
			defer c.Close()

			var fc *itinerary.FlightController
			if f.tripID != "" {
				fc = itinerary.NewSession(f.tripID, c.resolver, c.save, opts.logger).Flights()
			} else {
				fc = itinerary.NewFlightController(c.resolver, nil, opts.logger)
			}

			result, err := walkFlights(cmd.Context(), fc, params, f.pick)
			if err != nil {
				return err
			}
			return opts.emit(cmd.OutOrStdout(), result, func(w io.Writer) { printFlights(w, result) })
		},
	}

	cmd.Flags().StringVar(&f.tripID, "trip", "", "trip to save the selection to")
	cmd.Flags().StringVar(&f.tripType, "type", string(req.TripRoundTrip), "one-way, round-trip or multi-city")
	cmd.Flags().StringVar(&f.from, "from", "", "origin airport")
	cmd.Flags().StringVar(&f.to, "to", "", "destination airport")
	cmd.Flags().StringVar(&f.depart, "depart", "", "departure date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&f.ret, "return", "", "return date for round trips")
	cmd.Flags().StringArrayVar(&f.segments, "segment", nil, "multi-city segment ORIGIN:DEST:YYYY-MM-DD, repeatable")
	cmd.Flags().IntVar(&f.adults, "adults", 1, "number of adults")
	cmd.Flags().StringVar(&f.cabin, "cabin", "economy", "cabin class")
	cmd.Flags().StringVar(&f.currency, "currency", "", "preferred currency")
	cmd.Flags().StringVar(&f.pick, "pick", pickCheapest, "cheapest, first or none")
	return cmd
}

func walkFlights(ctx context.Context, fc *itinerary.FlightController, params itinerary.SearchParams, pick string) (*flightResult, error) {
	snap, err := fc.FetchOptions(ctx, params)
	if err != nil {
		return nil, err
	}

	result := &flightResult{}
	for {
		lr := legResult{Leg: snap.Leg + 1, Provenance: snap.Outcome.Provenance.String(), Offers: snap.Outcome.Offers}
		if n := snap.Outcome.Notice; n != nil {
			lr.Notice = n.Message
		}
		result.Legs = append(result.Legs, lr)

		// the notice already explains a rejected query
		if snap.Outcome.Provenance == fallback.Rejected || pick == pickNone {
			return result, nil
		}

		choice, ok := choose(snap.Outcome.Offers, pick)
		if !ok {
			return result, fmt.Errorf("unknown --pick %q", pick)
		}
		snap, err = fc.SelectForCurrentLeg(ctx, choice.ID)
		if err != nil {
			return result, err
		}
		if snap.State == itinerary.Completed {
			result.Selections = snap.Selections
			result.Save = snap.Save
			return result, nil
		}
		if snap.State != itinerary.AwaitingSelection {
			return result, errors.New("flight search stopped before the last leg")
		}
	}
}

func choose(offers []resp.FlightOffer, pick string) (resp.FlightOffer, bool) {
	if len(offers) == 0 {
		return resp.FlightOffer{}, false
	}
	switch pick {
	case pickFirst:
		return offers[0], true
	case pickCheapest:
		best := offers[0]
		for _, o := range offers[1:] {
			if o.Price < best.Price {
				best = o
			}
		}
		return best, true
	}
	return resp.FlightOffer{}, false
}

func printFlights(w io.Writer, r *flightResult) {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	for _, leg := range r.Legs {
		fmt.Fprintf(tw, "leg %d (%s)\t\t\t\t\n", leg.Leg, leg.Provenance)
		if leg.Notice != "" {
			fmt.Fprintf(tw, "  ! %s\t\t\t\t\n", leg.Notice)
		}
		for _, o := range leg.Offers {
			mock := ""
			if o.IsMock {
				mock = "sample"
			}
			fmt.Fprintf(tw, "  %s\t%s %s\t%s-%s\t%.2f %s\t%s\n",
				o.ID, o.Airline, o.FlightNumber, o.Origin, o.Destination, o.Price, o.Currency, mock)
		}
	}
	_ = tw.Flush()

	for i, s := range r.Selections {
		fmt.Fprintf(w, "picked leg %d: %s %s %.2f %s\n", i+1, s.Airline, s.FlightNumber, s.Price, s.Currency)
	}
	printSave(w, r.Save)
}

func printSave(w io.Writer, s *itinerary.SaveReport) {
	switch {
	case s == nil:
	case s.Queued:
		fmt.Fprintf(w, "%s queued: %s\n", s.Kind, s.Notice)
	default:
		fmt.Fprintf(w, "%s saved\n", s.Kind)
	}
}

type hotelResult struct {
	Provenance string                `json:"provenance"`
	Notice     string                `json:"notice,omitempty"`
	Offers     []resp.HotelOffer     `json:"offers"`
	Save       *itinerary.SaveReport `json:"save,omitempty"`
}

func newSearchHotelsCommand(opts *RootOptions) *cobra.Command {
	var (
		tripID, city, checkIn, checkOut, currency, pick string
		guests                                          int
	)

	cmd := &cobra.Command{
		Use:   "hotels",
		Short: "Search hotels for a stay and optionally save one",
		RunE: func(cmd *cobra.Command, args []string) error {
			in, err := utils.ParseDate(checkIn)
			if err != nil {
				return utils.NewValidationError("check-in", err.Error())
			}
			out, err := utils.ParseDate(checkOut)
			if err != nil {
				return utils.NewValidationError("check-out", err.Error())
			}

			c, err := opts.open()
			if err != nil {
				return err
			}
			defer c.Close()

			q := fallback.HotelQuery{City: city, CheckIn: in, CheckOut: out, Guests: guests, Currency: currency}
			result := &hotelResult{}

			var outcome fallback.HotelOutcome
			var session *itinerary.Session
			if tripID != "" {
				session = itinerary.NewSession(tripID, c.resolver, c.save, opts.logger)
				outcome = session.SearchHotels(cmd.Context(), q)
			} else {
				outcome = c.resolver.ResolveHotels(cmd.Context(), q)
			}
			result.Provenance = outcome.Provenance.String()
			result.Offers = outcome.Offers
			if outcome.Notice != nil {
				result.Notice = outcome.Notice.Message
			}

			if session != nil && pick != pickNone && len(outcome.Offers) > 0 {
				chosen := outcome.Offers[0]
				if pick == pickCheapest {
					for _, h := range outcome.Offers[1:] {
						if h.TotalPrice < chosen.TotalPrice {
							chosen = h
						}
					}
				}
				report, err := session.SelectHotel(cmd.Context(), chosen.ID)
				if err != nil {
					return err
				}
				result.Save = &report
			}

			return opts.emit(cmd.OutOrStdout(), result, func(w io.Writer) {
				tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
				fmt.Fprintf(tw, "hotels (%s)\t\t\t\n", result.Provenance)
				for _, h := range result.Offers {
					fmt.Fprintf(tw, "  %s\t%s\t%.1f*\t%.2f %s\n", h.ID, h.Name, h.Rating, h.TotalPrice, h.Currency)
				}
				_ = tw.Flush()
				printSave(w, result.Save)
			})
		},
	}

	cmd.Flags().StringVar(&tripID, "trip", "", "trip to save the pick to")
	cmd.Flags().StringVar(&city, "city", "", "city to stay in")
	cmd.Flags().StringVar(&checkIn, "check-in", "", "check-in date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&checkOut, "check-out", "", "check-out date (YYYY-MM-DD)")
	cmd.Flags().IntVar(&guests, "guests", 1, "number of guests")
	cmd.Flags().StringVar(&currency, "currency", "", "preferred currency")
	cmd.Flags().StringVar(&pick, "pick", pickNone, "cheapest, first or none")
	_ = cmd.MarkFlagRequired("city")
	return cmd
}
