package cli

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/truaccess/fieldaudit/internal/app"
	"github.com/truaccess/fieldaudit/internal/audit"
)

// NewConfigCommand creates the config command group.
func NewConfigCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect and edit the floor/feature configuration",
	}

	cmd.AddCommand(newConfigShowCommand(rootOpts))
	cmd.AddCommand(newConfigAddFloorCommand(rootOpts))
	cmd.AddCommand(newConfigRemoveFloorCommand(rootOpts))
	cmd.AddCommand(newConfigAddFeatureCommand(rootOpts))
	cmd.AddCommand(newConfigRemoveFeatureCommand(rootOpts))
	cmd.AddCommand(newConfigAddPackCommand(rootOpts, "add-recommended",
		"Add the recommended-extras feature pack"))
	cmd.AddCommand(newConfigAddPackCommand(rootOpts, "add-campus-extras",
		"Add the campus-audit-extras feature pack"))
	cmd.AddCommand(newConfigResetCommand(rootOpts))

	return cmd
}

func newConfigShowCommand(rootOpts *RootOptions) *cobra.Command {
	var showDefinitions bool

	cmd := &cobra.Command{
		Use:           "show",
		Short:         "Print the active configuration",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctrl, cleanup, err := openController(cmd.Context(), rootOpts)
			if err != nil {
				return err
			}
			defer cleanup()

			cfg := ctrl.State().Config
			if rootOpts.Format == "json" {
				f := &OutputFormatter{Format: rootOpts.Format, Writer: cmd.OutOrStdout()}
				return f.Success(map[string]any{
					"version":  cfg.Version,
					"floors":   audit.EffectiveFloors(cfg),
					"features": cfg.Features,
				})
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "config v%d\n\nfloors:\n", cfg.Version)
			for _, floor := range audit.EffectiveFloors(cfg) {
				if floor == audit.SiteLabel {
					fmt.Fprintf(out, "  %s (building-wide)\n", color.New(color.FgCyan).Sprint(floor))
				} else {
					fmt.Fprintf(out, "  %s\n", floor)
				}
			}
			fmt.Fprintln(out, "\nfeatures:")
			for _, feature := range cfg.Features {
				marker := " "
				if audit.RecommendedForSite(feature) {
					marker = color.New(color.FgCyan).Sprint("S")
				}
				fmt.Fprintf(out, "  %s %s\n", marker, feature)
				if showDefinitions {
					if def, ok := audit.Definition(feature); ok {
						fmt.Fprintf(out, "      %s\n", def.Definition)
						fmt.Fprintf(out, "      present if: %s\n", def.PresentIf)
					}
				}
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&showDefinitions, "definitions", false, "include taxonomy definitions")
	return cmd
}

func newConfigAddFloorCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:           "add-floor <label>",
		Short:         "Append a floor label",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConfigMutation(cmd, rootOpts, fmt.Sprintf("added floor %q", args[0]),
				func(ctrl *app.Controller) error {
					return ctrl.AddFloor(cmd.Context(), args[0])
				})
		},
	}
}

func newConfigRemoveFloorCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:           "remove-floor <label>",
		Short:         "Remove a floor label (in-progress cells for it are dropped)",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConfigMutation(cmd, rootOpts, fmt.Sprintf("removed floor %q", args[0]),
				func(ctrl *app.Controller) error {
					return ctrl.RemoveFloor(cmd.Context(), args[0])
				})
		},
	}
}

func newConfigAddFeatureCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:           "add-feature <label>",
		Short:         "Append a feature label",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConfigMutation(cmd, rootOpts, fmt.Sprintf("added feature %q", args[0]),
				func(ctrl *app.Controller) error {
					return ctrl.AddFeature(cmd.Context(), args[0])
				})
		},
	}
}

func newConfigRemoveFeatureCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:           "remove-feature <label>",
		Short:         "Remove a feature label",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConfigMutation(cmd, rootOpts, fmt.Sprintf("removed feature %q", args[0]),
				func(ctrl *app.Controller) error {
					return ctrl.RemoveFeature(cmd.Context(), args[0])
				})
		},
	}
}

func newConfigAddPackCommand(rootOpts *RootOptions, use, short string) *cobra.Command {
	return &cobra.Command{
		Use:           use,
		Short:         short,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctrl, cleanup, err := openController(cmd.Context(), rootOpts)
			if err != nil {
				return err
			}
			defer cleanup()

			var added int
			if use == "add-recommended" {
				added, err = ctrl.AddRecommended(cmd.Context())
			} else {
				added, err = ctrl.AddCampusExtras(cmd.Context())
			}
			f := &OutputFormatter{Format: rootOpts.Format, Writer: cmd.OutOrStdout()}
			if err != nil {
				f.Failure(err)
				return WrapExitError(ExitFailure, "config update failed", err)
			}
			if added == 0 {
				return f.Success(ctrl.State().Toast.Message)
			}
			return f.Success(fmt.Sprintf("added %d features", added))
		},
	}
}

func newConfigResetCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:           "reset",
		Short:         "Restore the compiled-in default floors and features",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConfigMutation(cmd, rootOpts, "configuration reset to defaults",
				func(ctrl *app.Controller) error {
					return ctrl.ResetConfig(cmd.Context())
				})
		},
	}
}

// runConfigMutation opens the controller, applies one config mutation, and
// reports the outcome in the configured format. Validation failures exit
// with ExitFailure; they never touched the store.
func runConfigMutation(cmd *cobra.Command, rootOpts *RootOptions, success string, mutate func(*app.Controller) error) error {
	ctrl, cleanup, err := openController(cmd.Context(), rootOpts)
	if err != nil {
		return err
	}
	defer cleanup()

	f := &OutputFormatter{Format: rootOpts.Format, Writer: cmd.OutOrStdout()}
	if err := mutate(ctrl); err != nil {
		f.Failure(err)
		return WrapExitError(ExitFailure, "config update failed", err)
	}
	return f.Success(success)
}
