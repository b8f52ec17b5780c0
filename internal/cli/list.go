package cli

import (
	"errors"
	"fmt"
	"io"

	"github.com/arnold/goalsetter/internal/models"
	"github.com/arnold/goalsetter/internal/services"
	"github.com/spf13/cobra"
)

func newFormatter(opts *RootOptions, cmd *cobra.Command) *OutputFormatter {
	return &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}
}

// fail reports err through the formatter, keeping an ExitError's code.
func fail(f *OutputFormatter, err error) error {
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return f.Fail(exitErr)
	}
	return f.Fail(WrapExitError(ExitCommandError, "command failed", err))
}

// NewListCommand creates the list command.
func NewListCommand(rootOpts *RootOptions) *cobra.Command {
	var criteria services.FilterCriteria

	cmd := &cobra.Command{
		Use:           "list",
		Short:         "List goals",
		Long:          "List stored goals, optionally narrowed by category, priority, status or a search term.",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runList(rootOpts, criteria, cmd)
		},
	}

	cmd.Flags().StringVar(&criteria.Category, "category", "", "only goals in this category")
	cmd.Flags().StringVar(&criteria.Priority, "priority", "", "only goals with this priority")
	cmd.Flags().StringVar(&criteria.Status, "status", "", "only goals with this status")
	cmd.Flags().StringVarP(&criteria.Search, "search", "s", "", "case-insensitive text search")

	return cmd
}

func runList(opts *RootOptions, criteria services.FilterCriteria, cmd *cobra.Command) error {
	formatter := newFormatter(opts, cmd)

	a, cleanup, err := openApp(cmd.Context(), opts)
	if err != nil {
		return fail(formatter, err)
	}
	defer cleanup()

	goals := a.Goals.Filter(criteria)
	formatter.VerboseLog("%d goal(s) match", len(goals))

	return formatter.Success(goals, func(w io.Writer) {
		if len(goals) == 0 {
			fmt.Fprintln(w, "No goals found")
			return
		}
		for _, g := range goals {
			writeGoal(w, g)
		}
	})
}

func writeGoal(w io.Writer, g models.Goal) {
	fmt.Fprintf(w, "#%d %s [%s] %s/%s %d%% due %s\n",
		g.ID, g.Title, g.Status, g.Category, g.Priority, g.Progress, g.TargetDate)
	for _, st := range g.SubTasks {
		mark := " "
		if st.Completed {
			mark = "x"
		}
		fmt.Fprintf(w, "    [%s] %s\n", mark, st.Title)
	}
	for _, r := range g.Reminders {
		state := "pending"
		if r.Notified {
			state = "sent"
		}
		fmt.Fprintf(w, "    reminder %s (%s): %s\n", r.Time.Format("2006-01-02 15:04 MST"), state, r.Message)
	}
}
