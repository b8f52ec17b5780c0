package cli

import (
	"context"
	"fmt"

	"github.com/arnold/goalsetter/internal/app"
	"github.com/arnold/goalsetter/internal/config"
	"github.com/spf13/cobra"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	Verbose  bool
	Format   string // "json" | "text"
	Database string // overrides DATABASE_URL when set
}

// ValidFormats defines the allowed output formats.
var ValidFormats = []string{"text", "json"}

// NewRootCommand creates the root command for the goalsetter CLI.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:           "goalsetter",
		Short:         "Personal goal tracker",
		Long:          "Track goals with sub-tasks and reminders, serve them over HTTP and fire due reminders.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !isValidFormat(opts.Format) {
				return fmt.Errorf("invalid format %q: must be one of %v", opts.Format, ValidFormats)
			}
			return nil
		},
	}

	// Global flags
	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "verbose output")
	cmd.PersistentFlags().StringVar(&opts.Format, "format", "text", "output format (json|text)")
	cmd.PersistentFlags().StringVar(&opts.Database, "database", "", "database path or postgres DSN (default $DATABASE_URL)")

	cmd.AddCommand(NewServeCommand(opts))
	cmd.AddCommand(NewListCommand(opts))
	cmd.AddCommand(NewClearCommand(opts))
	cmd.AddCommand(NewSeedCommand(opts))
	cmd.AddCommand(NewRemindCommand(opts))

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

// openApp loads configuration, applies the global flags and builds the app.
// The returned cleanup closes the app and flushes the logger.
func openApp(ctx context.Context, opts *RootOptions) (*app.App, func(), error) {
	cfg := config.Load()
	if opts.Database != "" {
		cfg.DatabaseURL = opts.Database
	}
	if opts.Verbose {
		cfg.LogLevel = "debug"
	}

	log, err := config.NewLogger(cfg)
	if err != nil {
		return nil, nil, WrapExitError(ExitCommandError, "failed to create logger", err)
	}

	a, err := app.New(ctx, cfg, log)
	if err != nil {
		log.Sync()
		return nil, nil, WrapExitError(ExitCommandError, "failed to open goal store", err)
	}

	cleanup := func() {
		if err := a.Close(); err != nil {
			log.Warnw("failed to close database", "error", err)
		}
		log.Sync()
	}
	return a, cleanup, nil
}
