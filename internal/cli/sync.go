package cli

import (
	"errors"
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	req "wayfare/internal/models/request_models"
	"wayfare/internal/offline"
	"wayfare/pkg/utils"
)

func NewSyncCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "sync",
		Short: "Replay writes saved while offline",
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := opts.open()
			if err != nil {
				return err
			}
			defer c.Close()

			report, err := c.save.Sync(cmd.Context())
			if errors.Is(err, utils.ErrSyncDeferred) {
				return opts.emit(cmd.OutOrStdout(), report, func(w io.Writer) {
					fmt.Fprintf(w, "server unreachable, %d write(s) still queued\n", report.Remaining)
				})
			}
			if err != nil {
				return err
			}
			return opts.emit(cmd.OutOrStdout(), report, func(w io.Writer) {
				fmt.Fprintf(w, "synced %d, failed %d, %d left in queue\n", report.Synced, report.Failed, report.Remaining)
			})
		},
	}
}

func NewQueueCommand(opts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "queue",
		Short: "Inspect the offline write queue",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "ls",
		Short: "List pending writes",
		RunE: func(cmd *cobra.Command, args []string) error {
			q, err := offline.Open(offline.DefaultConfig(opts.cfg.QueueDir), opts.logger)
			if err != nil {
				return err
			}
			defer q.Close()

			entries, err := q.List()
			if err != nil {
				return err
			}
			return opts.emit(cmd.OutOrStdout(), entries, func(w io.Writer) { printQueue(w, entries) })
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "drop <trip-id> <kind>",
		Short: "Discard one pending write",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			kind, err := req.ParseResourceKind(args[1])
			if err != nil {
				return err
			}
			q, err := offline.Open(offline.DefaultConfig(opts.cfg.QueueDir), opts.logger)
			if err != nil {
				return err
			}
			defer q.Close()
			if err := q.Remove(args[0], kind); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "dropped %s\n", offline.Key(args[0], kind))
			return nil
		},
	})
	return cmd
}

func printQueue(w io.Writer, entries []offline.Entry) {
	if len(entries) == 0 {
		fmt.Fprintln(w, "queue is empty")
		return
	}
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "KEY\tQUEUED\tBYTES\tTRACE")
	for _, e := range entries {
		fmt.Fprintf(tw, "%s\t%s\t%d\t%s\n", e.Key(), e.QueuedAt.Local().Format(time.DateTime), len(e.Payload), e.TraceID)
	}
	_ = tw.Flush()
}
