package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func NewInitCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Write a default config file if none exists",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := WriteDefault(opts.ConfigPath); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "config: %s\n", opts.ConfigPath)
			return nil
		},
	}
}
