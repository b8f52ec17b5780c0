package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"
)

// NewRemindCommand creates the remind command, which fires due reminders once.
func NewRemindCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "remind",
		Short: "Fire due reminders once and exit",
		Long: `Run a single reminder scan: every reminder whose time has passed and that
has not been sent yet is delivered (push, or a notice when push is unavailable)
and marked as sent.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			formatter := newFormatter(rootOpts, cmd)

			a, cleanup, err := openApp(cmd.Context(), rootOpts)
			if err != nil {
				return fail(formatter, err)
			}
			defer cleanup()

			fired := a.Scheduler.Scan(cmd.Context())
			notices := a.Toasts.List()

			return formatter.Success(map[string]int{"fired": fired}, func(w io.Writer) {
				fmt.Fprintf(w, "Fired %d reminder(s)\n", fired)
				for i := len(notices) - 1; i >= 0; i-- {
					fmt.Fprintf(w, "  %s\n", notices[i].Message)
				}
			})
		},
	}
}
