package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/arnold/goalsetter/internal/models"
	"github.com/arnold/goalsetter/internal/services"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

// SeedFile is the YAML document accepted by the seed command.
type SeedFile struct {
	Goals []models.Goal `yaml:"goals"`
}

// LoadSeedFile reads and decodes a seed file. Unknown keys are rejected.
func LoadSeedFile(path string) (*SeedFile, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	dec := yaml.NewDecoder(f)
	dec.KnownFields(true)

	var seed SeedFile
	if err := dec.Decode(&seed); err != nil && err != io.EOF {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return &seed, nil
}

// NewSeedCommand creates the seed command.
func NewSeedCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "seed <file.yaml>",
		Short: "Create goals from a YAML file",
		Long: `Create goals from a YAML file of the form:

  goals:
    - title: Run a half marathon
      description: Build up to 21k
      category: Fitness
      targetDate: "2026-12-31"
      status: pending
      subTasks:
        - title: Buy shoes

Goals are validated and created in file order; seeding stops at the first
invalid goal.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSeed(rootOpts, args[0], cmd)
		},
	}
}

func runSeed(opts *RootOptions, path string, cmd *cobra.Command) error {
	formatter := newFormatter(opts, cmd)

	seed, err := LoadSeedFile(path)
	if err != nil {
		return fail(formatter, WrapExitError(ExitCommandError, "failed to read seed file", err))
	}
	formatter.VerboseLog("Loaded %d goal(s) from %s", len(seed.Goals), path)

	a, cleanup, err := openApp(cmd.Context(), opts)
	if err != nil {
		return fail(formatter, err)
	}
	defer cleanup()

	created := make([]models.Goal, 0, len(seed.Goals))
	for i, g := range seed.Goals {
		goal, err := a.Goals.Create(g)
		if err != nil {
			code := ExitCommandError
			if services.IsValidation(err) {
				code = ExitFailure
			}
			return fail(formatter, WrapExitError(code,
				fmt.Sprintf("goal %d of %d rejected (%d created)", i+1, len(seed.Goals), len(created)), err))
		}
		created = append(created, goal)
	}

	return formatter.Success(created, func(w io.Writer) {
		fmt.Fprintf(w, "Created %d goal(s)\n", len(created))
		for _, g := range created {
			writeGoal(w, g)
		}
	})
}
