package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/truaccess/fieldaudit/internal/audit"
)

// NewPhotoCommand creates the photo command group.
func NewPhotoCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "photo",
		Short: "Inspect and manage stored photos",
	}

	cmd.AddCommand(newPhotoListCommand(rootOpts))
	cmd.AddCommand(newPhotoDeleteCommand(rootOpts))

	return cmd
}

func newPhotoListCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:           "list",
		Short:         "List stored photos, oldest first",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			st, cleanup, err := openStore(rootOpts)
			if err != nil {
				return err
			}
			defer cleanup()

			f := &OutputFormatter{Format: rootOpts.Format, Writer: cmd.OutOrStdout()}
			photos, err := st.ListPhotos(cmd.Context())
			if err != nil {
				f.Failure(err)
				return WrapExitError(ExitFailure, "list failed", err)
			}

			if rootOpts.Format == "json" {
				return f.Success(summarizePhotos(photos))
			}
			if len(photos) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "no stored photos")
				return nil
			}
			for _, p := range photos {
				name := p.Filename
				if name == "" {
					name = "(unnamed)"
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s  %s  %s  %d bytes  %s\n",
					p.CreatedAt, p.ID, p.MimeType, p.Size, name)
			}
			return nil
		},
	}
}

func summarizePhotos(photos []audit.PhotoAsset) []map[string]any {
	out := make([]map[string]any, 0, len(photos))
	for _, p := range photos {
		out = append(out, map[string]any{
			"id":         p.ID,
			"mime_type":  p.MimeType,
			"created_at": p.CreatedAt,
			"size":       p.Size,
			"filename":   p.Filename,
		})
	}
	return out
}

func newPhotoDeleteCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete one stored photo",
		Long: `Delete one stored photo by id.

Audits that still reference the id keep their reference; exports simply
skip photos that no longer resolve.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			st, cleanup, err := openStore(rootOpts)
			if err != nil {
				return err
			}
			defer cleanup()

			f := &OutputFormatter{Format: rootOpts.Format, Writer: cmd.OutOrStdout()}
			if err := st.DeletePhoto(cmd.Context(), args[0]); err != nil {
				f.Failure(err)
				return WrapExitError(ExitFailure, "delete failed", err)
			}
			return f.Success(fmt.Sprintf("deleted photo %s", args[0]))
		},
	}
}
