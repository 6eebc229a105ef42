package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/truaccess/fieldaudit/internal/app"
	"github.com/truaccess/fieldaudit/internal/store"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	Database string
	Verbose  bool
	Format   string // "json" | "text"
}

// ValidFormats defines the allowed output formats.
var ValidFormats = []string{"text", "json"}

// defaultDatabase resolves the database path: flag, then FIELDAUDIT_DB
// (main loads a .env file first), then a file in the working directory.
func defaultDatabase() string {
	if path := os.Getenv("FIELDAUDIT_DB"); path != "" {
		return path
	}
	return "fieldaudit.db"
}

// NewRootCommand creates the root command for the fieldaudit CLI.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "fieldaudit",
		Short: "Offline building-accessibility audit recorder",
		Long: `fieldaudit records building-accessibility audits in a local store and
exports them as CSV or a photo-bundling zip archive. Everything works
offline; nothing leaves the device until an export is delivered.`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !isValidFormat(opts.Format) {
				return fmt.Errorf("invalid format %q: must be one of %v", opts.Format, ValidFormats)
			}
			logLevel := slog.LevelWarn
			if opts.Verbose {
				logLevel = slog.LevelDebug
			}
			handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
				Level: logLevel,
			})
			slog.SetDefault(slog.New(handler))
			return nil
		},
	}

	// Global flags
	cmd.PersistentFlags().StringVar(&opts.Database, "db", defaultDatabase(), "path to the SQLite database")
	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "verbose output")
	cmd.PersistentFlags().StringVar(&opts.Format, "format", "text", "output format (json|text)")

	// Add subcommands
	cmd.AddCommand(NewInitCommand(opts))
	cmd.AddCommand(NewConfigCommand(opts))
	cmd.AddCommand(NewAuditCommand(opts))
	cmd.AddCommand(NewPhotoCommand(opts))
	cmd.AddCommand(NewExportCommand(opts))

	return cmd
}

// isValidFormat checks if the format is one of the allowed values.
func isValidFormat(format string) bool {
	for _, f := range ValidFormats {
		if f == format {
			return true
		}
	}
	return false
}

// openStore opens the database without the controller layer on top, for
// commands that work on raw records.
func openStore(opts *RootOptions) (*store.Store, func(), error) {
	st, err := store.Open(opts.Database)
	if err != nil {
		return nil, nil, WrapExitError(ExitCommandError, "failed to open database", err)
	}
	cleanup := func() {
		if err := st.Close(); err != nil {
			slog.Error("error closing database", "error", err)
		}
	}
	return st, cleanup, nil
}

// openController opens the store and an initialized controller over it.
// The returned cleanup closes the store.
func openController(ctx context.Context, opts *RootOptions) (*app.Controller, func(), error) {
	st, err := store.Open(opts.Database)
	if err != nil {
		return nil, nil, WrapExitError(ExitCommandError, "failed to open database", err)
	}
	ctrl := app.NewController(st)
	if err := ctrl.Init(ctx); err != nil {
		st.Close()
		return nil, nil, WrapExitError(ExitCommandError, "failed to load audit data", err)
	}
	cleanup := func() {
		if err := st.Close(); err != nil {
			slog.Error("error closing database", "error", err)
		}
	}
	return ctrl, cleanup, nil
}
