package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// NewInitCommand creates the init command.
func NewInitCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Create or open the local audit database",
		Long: `Create the local SQLite database (or open an existing one), applying
schema migrations and seeding the default floor/feature configuration when
none exists yet.

Example:
  fieldaudit init --db ./campus.db`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctrl, cleanup, err := openController(cmd.Context(), rootOpts)
			if err != nil {
				return err
			}
			defer cleanup()

			state := ctrl.State()
			f := &OutputFormatter{Format: rootOpts.Format, Writer: cmd.OutOrStdout(), Verbose: rootOpts.Verbose}
			if rootOpts.Format == "json" {
				return f.Success(map[string]any{
					"database":    rootOpts.Database,
					"version":     state.Config.Version,
					"floors":      len(state.Config.Floors),
					"features":    len(state.Config.Features),
					"saved_count": state.SavedCount,
				})
			}
			return f.Success(fmt.Sprintf("database %s ready (config v%d, %d floors, %d features, %d saved audits)",
				rootOpts.Database, state.Config.Version,
				len(state.Config.Floors), len(state.Config.Features), state.SavedCount))
		},
	}
}
