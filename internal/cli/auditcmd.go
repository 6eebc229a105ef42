package cli

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/truaccess/fieldaudit/internal/audit"
)

// NewAuditCommand creates the audit command group.
func NewAuditCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "audit",
		Short: "Record, list, and delete saved audits",
	}

	cmd.AddCommand(newAuditSaveCommand(rootOpts))
	cmd.AddCommand(newAuditListCommand(rootOpts))
	cmd.AddCommand(newAuditDeleteCommand(rootOpts))
	cmd.AddCommand(newAuditClearCommand(rootOpts))

	return cmd
}

func newAuditSaveCommand(rootOpts *RootOptions) *cobra.Command {
	var file string

	cmd := &cobra.Command{
		Use:   "save -f <survey.yaml>",
		Short: "Save a completed survey as a new audit",
		Long: `Save a completed survey as a new audit snapshot.

The survey file names the building and the cells that were observed; any
(feature, floor) pair not mentioned stays absent. Photos listed in a cell
are read from disk and stored in the photo collection.

Example survey file:

  building_name: Science Block A
  address: 100 Campus Way
  cells:
    - feature: Elevator/lift
      floor: "1"
      present: true
      notes: Rear lobby, tight turning space
      photos: [./photos/lift.jpg]
    - feature: Step-free entrance
      floor: SITE
      present: true`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctrl, cleanup, err := openController(cmd.Context(), rootOpts)
			if err != nil {
				return err
			}
			defer cleanup()

			survey, err := loadSurvey(file)
			if err != nil {
				return WrapExitError(ExitCommandError, "failed to load survey file", err)
			}

			f := &OutputFormatter{Format: rootOpts.Format, Writer: cmd.OutOrStdout()}
			saved, err := applySurvey(cmd.Context(), ctrl, survey)
			if err != nil {
				f.Failure(err)
				return WrapExitError(ExitFailure, "save failed", err)
			}
			if rootOpts.Format == "json" {
				return f.Success(map[string]any{
					"id":         saved.ID,
					"building":   saved.BuildingName,
					"created_at": saved.CreatedAt,
				})
			}
			return f.Success(fmt.Sprintf("saved audit %s (%s)", saved.ID, saved.BuildingName))
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", "", "survey file (required)")
	_ = cmd.MarkFlagRequired("file")
	return cmd
}

func newAuditListCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:           "list",
		Short:         "List saved audits, newest first",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctrl, cleanup, err := openController(cmd.Context(), rootOpts)
			if err != nil {
				return err
			}
			defer cleanup()

			audits := ctrl.State().Audits
			if rootOpts.Format == "json" {
				f := &OutputFormatter{Format: rootOpts.Format, Writer: cmd.OutOrStdout()}
				return f.Success(summarizeAudits(audits))
			}

			out := cmd.OutOrStdout()
			if len(audits) == 0 {
				fmt.Fprintln(out, "no saved audits")
				return nil
			}
			for _, a := range audits {
				present := 0
				for _, feature := range a.Features {
					for _, floor := range a.Floors {
						if a.Matrix.Cell(feature, floor).Present {
							present++
						}
					}
				}
				fmt.Fprintf(out, "%s  %s  %s  (%s present, %d photos)\n",
					a.CreatedAt,
					color.New(color.FgGreen).Sprint(a.ID),
					a.BuildingName,
					fmt.Sprintf("%d/%d", present, len(a.Features)*len(a.Floors)),
					len(a.PhotoIDs()))
			}
			return nil
		},
	}
}

func summarizeAudits(audits []audit.BuildingAudit) []map[string]any {
	out := make([]map[string]any, 0, len(audits))
	for _, a := range audits {
		out = append(out, map[string]any{
			"id":         a.ID,
			"building":   a.BuildingName,
			"address":    a.Address,
			"created_at": a.CreatedAt,
			"floors":     len(a.Floors),
			"features":   len(a.Features),
			"photos":     len(a.PhotoIDs()),
		})
	}
	return out
}

func newAuditDeleteCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:           "delete <id>",
		Short:         "Delete one audit and any photos only it references",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctrl, cleanup, err := openController(cmd.Context(), rootOpts)
			if err != nil {
				return err
			}
			defer cleanup()

			f := &OutputFormatter{Format: rootOpts.Format, Writer: cmd.OutOrStdout()}
			if err := ctrl.DeleteAudit(cmd.Context(), args[0]); err != nil {
				f.Failure(err)
				return WrapExitError(ExitFailure, "delete failed", err)
			}
			return f.Success(fmt.Sprintf("deleted audit %s", args[0]))
		},
	}
}

func newAuditClearCommand(rootOpts *RootOptions) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:           "clear",
		Short:         "Delete every audit, photo, and the export cache",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !yes {
				return NewExitError(ExitCommandError, "refusing to clear without --yes (this cannot be undone)")
			}
			ctrl, cleanup, err := openController(cmd.Context(), rootOpts)
			if err != nil {
				return err
			}
			defer cleanup()

			f := &OutputFormatter{Format: rootOpts.Format, Writer: cmd.OutOrStdout()}
			if err := ctrl.ClearAll(cmd.Context()); err != nil {
				f.Failure(err)
				return WrapExitError(ExitFailure, "clear failed", err)
			}
			return f.Success("cleared all saved audits")
		},
	}

	cmd.Flags().BoolVar(&yes, "yes", false, "confirm the irreversible clear")
	return cmd
}
