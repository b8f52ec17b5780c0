package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"
)

// NewClearCommand creates the clear command.
func NewClearCommand(rootOpts *RootOptions) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:           "clear",
		Short:         "Delete every goal",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			formatter := newFormatter(rootOpts, cmd)
			if !yes {
				return formatter.Fail(NewExitError(ExitCommandError, "refusing to delete all goals without --yes"))
			}

			a, cleanup, err := openApp(cmd.Context(), rootOpts)
			if err != nil {
				return fail(formatter, err)
			}
			defer cleanup()

			removed := len(a.Goals.List())
			a.Goals.ClearAll()

			return formatter.Success(map[string]int{"removed": removed}, func(w io.Writer) {
				fmt.Fprintf(w, "Deleted %d goal(s)\n", removed)
			})
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "confirm deleting all goals")
	return cmd
}
