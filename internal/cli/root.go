// Package cli defines the batch subcommands. The naming follows the
// operations themselves: sync:timings, sync:clean, sync:delete and
// sync:analyze.
package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/goevexx/toggl-invoiceninja-sync/internal/app"
	"github.com/goevexx/toggl-invoiceninja-sync/internal/config"
)

var (
	cfgPath string
	verbose bool
	rootCmd *cobra.Command
)

func init() {
	rootCmd = &cobra.Command{
		Use:   "toggl-ninja-sync",
		Short: "Reconciles Toggl time entries with InvoiceNinja tasks",
		Long: `toggl-ninja-sync links Toggl time entries to InvoiceNinja tasks via
reference tags and keeps both sides consistent with one-shot batch runs.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Global flags
	rootCmd.PersistentFlags().StringVar(&cfgPath, "config", "", "Path to YAML config (default: CONFIG_FILE env, else environment only)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")
}

// Execute runs the root command. A non-nil error maps to exit code 1.
func Execute(ctx context.Context, version string) error {
	rootCmd.AddCommand(timingsCmd)
	rootCmd.AddCommand(cleanCmd)
	rootCmd.AddCommand(deleteCmd)
	rootCmd.AddCommand(analyzeCmd)

	rootCmd.Version = version
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return err
	}
	return nil
}

// newApp builds the run-scoped logger, loads configuration and wires the
// application. Every subcommand starts here.
func newApp(ctx context.Context) (*app.App, config.Config, error) {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	handler := slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: level})
	logger := slog.New(handler)
	slog.SetDefault(logger)

	cfg, err := config.Load(config.DefaultPath(cfgPath))
	if err != nil {
		return nil, cfg, err
	}

	application, err := app.New(ctx, logger, cfg)
	if err != nil {
		return nil, cfg, fmt.Errorf("initialize app: %w", err)
	}
	return application, cfg, nil
}
