// Package cli implements tripctl, the command-line client for planning trips.
package cli

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"wayfare/internal/fallback"
	"wayfare/internal/itinerary"
	"wayfare/internal/offline"
	"wayfare/internal/providers"
	"wayfare/internal/tripapi"
)

var ValidFormats = []string{"text", "json"}

// RootOptions holds global flags for all commands.
type RootOptions struct {
	ConfigPath string
	Verbose    bool
	Format     string

	cfg    Config
	logger *zap.Logger
}

func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}
	defaultPath, _ := DefaultConfigPath()

	cmd := &cobra.Command{
		Use:           "tripctl",
		Short:         "Plan multi-leg trips from the terminal",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !isValidFormat(opts.Format) {
				return fmt.Errorf("invalid format %q: must be one of %v", opts.Format, ValidFormats)
			}
			cfg, err := LoadConfig(opts.ConfigPath)
			if err != nil {
				return err
			}
			opts.cfg = cfg
			opts.logger = newLogger(opts.Verbose)
			return nil
		},
	}

	cmd.PersistentFlags().StringVar(&opts.ConfigPath, "config", defaultPath, "path to config file")
	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "verbose output")
	cmd.PersistentFlags().StringVar(&opts.Format, "format", "text", "output format (json|text)")

	cmd.AddCommand(NewInitCommand(opts))
	cmd.AddCommand(NewTripCommand(opts))
	cmd.AddCommand(NewSearchCommand(opts))
	cmd.AddCommand(NewSyncCommand(opts))
	cmd.AddCommand(NewQueueCommand(opts))
	cmd.AddCommand(NewTokenCommand(opts))

	return cmd
}

func isValidFormat(format string) bool {
	for _, f := range ValidFormats {
		if f == format {
			return true
		}
	}
	return false
}

func newLogger(verbose bool) *zap.Logger {
	cfg := zap.NewDevelopmentConfig()
	cfg.Level = zap.NewAtomicLevelAt(zapcore.WarnLevel)
	if verbose {
		cfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	}
	cfg.OutputPaths = []string{"stderr"}
	logger, err := cfg.Build()
	if err != nil {
		return zap.NewNop()
	}
	return logger
}

// client is everything a command may need, opened lazily per invocation.
type client struct {
	api      *tripapi.Client
	queue    *offline.Queue
	resolver *fallback.Resolver
	save     *itinerary.SavePath
}

func (o *RootOptions) open() (*client, error) {
	q, err := offline.Open(offline.DefaultConfig(o.cfg.QueueDir), o.logger)
	if err != nil {
		return nil, err
	}
	api := tripapi.NewClient(o.cfg.ServerURL, o.cfg.Token, tripapi.WithLogger(o.logger))

	var primary, generative fallback.Source
	if o.cfg.Provider.ClientID != "" {
		primary = providers.NewPrimaryClient(providers.PrimaryConfig{
			BaseURL:           o.cfg.Provider.BaseURL,
			ClientID:          o.cfg.Provider.ClientID,
			ClientSecret:      o.cfg.Provider.ClientSecret,
			RequestsPerSecond: o.cfg.Provider.RequestsPerSecond,
		}, o.logger)
	}
	if o.cfg.AIKey != "" {
		generative = providers.NewGenerativeClient(o.cfg.ServerURL, o.cfg.AIKey, 0, o.logger)
	}

	return &client{
		api:      api,
		queue:    q,
		resolver: fallback.NewResolver(primary, generative, fallback.WithLogger(o.logger)),
		save:     itinerary.NewSavePath(api, q, o.logger),
	}, nil
}

func (c *client) Close() error {
	return c.queue.Close()
}

func (o *RootOptions) emit(w io.Writer, v any, text func(io.Writer)) error {
	if o.Format == "json" {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	}
	text(w)
	return nil
}
