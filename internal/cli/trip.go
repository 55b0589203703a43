package cli

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	req "wayfare/internal/models/request_models"
	resp "wayfare/internal/models/response_models"
)

func NewTripCommand(opts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "trip",
		Short: "Create and inspect trips",
	}
	cmd.AddCommand(newTripCreateCommand(opts))
	cmd.AddCommand(newTripShowCommand(opts))
	return cmd
}

func newTripCreateCommand(opts *RootOptions) *cobra.Command {
	var in req.CreateTripRequest
	var tripType string

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a trip on the server",
		RunE: func(cmd *cobra.Command, args []string) error {
			in.TripType = req.TripType(tripType)
			c, err := opts.open()
			if err != nil {
				return err
			}
			defer c.Close()

			trip, err := c.api.CreateTrip(cmd.Context(), in)
			if err != nil {
				return err
			}
			return opts.emit(cmd.OutOrStdout(), trip, func(w io.Writer) {
				fmt.Fprintf(w, "created trip %s (%s, %s to %s)\n", trip.ID, trip.TripType, trip.Origin, trip.Destination)
			})
		},
	}

	cmd.Flags().StringVar(&in.Origin, "from", "", "origin city or airport")
	cmd.Flags().StringVar(&in.Destination, "to", "", "destination city or airport")
	cmd.Flags().StringVar(&in.StartDate, "start", "", "start date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&in.EndDate, "end", "", "end date (YYYY-MM-DD)")
	cmd.Flags().IntVar(&in.GroupSize, "group", 1, "number of travelers")
	cmd.Flags().Float64Var(&in.TotalBudget, "budget", 0, "total budget")
	cmd.Flags().StringVar(&in.Currency, "currency", "USD", "budget currency")
	cmd.Flags().StringSliceVar(&in.ActivityInterests, "interest", nil, "activity interests")
	cmd.Flags().StringVar(&tripType, "type", string(req.TripRoundTrip), "one-way, round-trip or multi-city")
	_ = cmd.MarkFlagRequired("to")
	_ = cmd.MarkFlagRequired("start")
	return cmd
}

func newTripShowCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "show <trip-id>",
		Short: "Show a trip with everything saved for it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := opts.open()
			if err != nil {
				return err
			}
			defer c.Close()

			detail, err := c.api.GetTrip(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return opts.emit(cmd.OutOrStdout(), detail, func(w io.Writer) { printTrip(w, detail) })
		},
	}
}

func printTrip(w io.Writer, d *resp.TripDetailResponse) {
	t := d.Trip
	fmt.Fprintf(w, "%s  %s -> %s  %s..%s  (%s, %d traveler(s))\n",
		t.ID, t.Origin, t.Destination, t.StartDate, t.EndDate, t.TripType, t.GroupSize)

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	for _, f := range d.Flights {
		fmt.Fprintf(tw, "  leg %d\t%s %s\t%s-%s\t%s\t%.2f %s\n",
			f.LegNumber, f.Airline, f.FlightNumber, f.Origin, f.Destination, f.DepartAt, f.Price, f.Currency)
	}
	if d.Hotel != nil {
		fmt.Fprintf(tw, "  hotel\t%s\t%s..%s\t\t%.2f %s\n",
			d.Hotel.Name, d.Hotel.CheckIn.Format("2006-01-02"), d.Hotel.CheckOut.Format("2006-01-02"), d.Hotel.TotalPrice, d.Hotel.Currency)
	}
	for _, day := range d.Schedule {
		fmt.Fprintf(tw, "  day %d\t%s\t%d activities\t\t%.2f\n", day.DayNumber, day.Title, len(day.Activities), day.DayCost)
	}
	_ = tw.Flush()

	if b := d.Budget; b != nil {
		fmt.Fprintf(w, "budget %.2f %s: flights %.2f, hotel %.2f, activities %.2f, remaining %.2f\n",
			b.TotalBudget, b.Currency, b.FlightCost, b.HotelCost, b.ActivityCost, b.Remaining)
	}
}
