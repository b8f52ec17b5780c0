package cli

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
)

const shutdownTimeout = 5 * time.Second

// NewServeCommand creates the serve command.
func NewServeCommand(rootOpts *RootOptions) *cobra.Command {
	var port string

	cmd := &cobra.Command{
		Use:           "serve",
		Short:         "Run the HTTP API and the reminder scheduler",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(rootOpts, port, cmd)
		},
	}

	cmd.Flags().StringVarP(&port, "port", "p", "", "listen port (default $PORT)")
	return cmd
}

func runServe(opts *RootOptions, port string, cmd *cobra.Command) error {
	formatter := newFormatter(opts, cmd)

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, cleanup, err := openApp(ctx, opts)
	if err != nil {
		return fail(formatter, err)
	}
	defer cleanup()

	if port == "" {
		port = a.Config.Port
	}

	server := a.Server()
	a.Scheduler.Start(ctx)

	errCh := make(chan error, 1)
	go func() {
		a.Log.Infow("server starting", "port", port, "environment", a.Config.Environment)
		errCh <- server.Listen(":" + port)
	}()

	select {
	case err := <-errCh:
		return fail(formatter, WrapExitError(ExitCommandError, "server stopped", err))
	case <-ctx.Done():
	}

	a.Log.Infow("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := server.ShutdownWithContext(shutdownCtx); err != nil {
		a.Log.Warnw("server shutdown failed", "error", err)
	}
	return nil
}
