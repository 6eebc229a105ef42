package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/truaccess/fieldaudit/internal/export"
)

// NewExportCommand creates the export command group.
func NewExportCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export audits as CSV or a photo-bundling zip archive",
	}

	cmd.AddCommand(newExportCSVCommand(rootOpts))
	cmd.AddCommand(newExportZipCommand(rootOpts))

	return cmd
}

func newExportCSVCommand(rootOpts *RootOptions) *cobra.Command {
	var outDir string

	cmd := &cobra.Command{
		Use:           "csv",
		Short:         "Write the audit CSV into a directory",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runExport(cmd, rootOpts, outDir, "csv")
		},
	}

	cmd.Flags().StringVarP(&outDir, "out", "o", ".", "directory to write the export into")
	return cmd
}

func newExportZipCommand(rootOpts *RootOptions) *cobra.Command {
	var outDir string

	cmd := &cobra.Command{
		Use:           "zip",
		Short:         "Write the zip archive (CSV plus photos) into a directory",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runExport(cmd, rootOpts, outDir, "zip")
		},
	}

	cmd.Flags().StringVarP(&outDir, "out", "o", ".", "directory to write the export into")
	return cmd
}

func runExport(cmd *cobra.Command, rootOpts *RootOptions, outDir, kind string) error {
	ctrl, cleanup, err := openController(cmd.Context(), rootOpts)
	if err != nil {
		return err
	}
	defer cleanup()

	f := &OutputFormatter{Format: rootOpts.Format, Writer: cmd.OutOrStdout()}

	var deliverName string
	recorder := filenameRecorder{
		next: export.DirDeliverer{Dir: outDir},
		name: &deliverName,
	}

	switch kind {
	case "csv":
		err = ctrl.ExportCSV(cmd.Context(), recorder)
	case "zip":
		err = ctrl.ExportArchive(cmd.Context(), recorder)
	}
	if err != nil {
		f.Failure(err)
		return WrapExitError(ExitFailure, "export failed", err)
	}
	if ctrl.State().SavedCount == 0 {
		return f.Success("no saved entries to export")
	}
	if rootOpts.Format == "json" {
		return f.Success(map[string]any{"file": deliverName, "dir": outDir})
	}
	return f.Success(fmt.Sprintf("wrote %s to %s", deliverName, outDir))
}

// filenameRecorder wraps a sink and remembers the filename it delivered,
// so the command can report the artifact it produced.
type filenameRecorder struct {
	next export.Deliverer
	name *string
}

func (r filenameRecorder) Available() bool {
	return r.next.Available()
}

func (r filenameRecorder) Deliver(ctx context.Context, filename, mimeType string, data []byte) error {
	*r.name = filename
	return r.next.Deliver(ctx, filename, mimeType, data)
}
