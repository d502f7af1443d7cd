package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var (
	analyzeSince string
	analyzeUntil string
)

var analyzeCmd = &cobra.Command{
	Use:   "sync:analyze",
	Short: "Checks consistency of Toggl and InvoiceNinja task references",
	Long: `Read-only diagnostic. Every reference tag may be carried by at most
one time entry in the window; any tag referenced by several entries is
reported and the command exits non-zero.`,
	RunE: runAnalyze,
}

func init() {
	analyzeCmd.Flags().StringVar(&analyzeSince, "since", "", "Start of the window (RFC3339 or YYYY-MM-DD, default: 7 days ago)")
	analyzeCmd.Flags().StringVar(&analyzeUntil, "until", "", "End of the window (RFC3339 or YYYY-MM-DD, default: now)")
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	application, cfg, err := newApp(ctx)
	if err != nil {
		return err
	}
	defer application.Close()

	since, until, err := resolveWindow(analyzeSince, analyzeUntil, cfg.Location())
	if err != nil {
		return err
	}

	findings, err := application.Analyze(ctx, since, until)
	if err != nil {
		return err
	}
	for _, f := range findings {
		fmt.Printf("%s: tag %q is referenced by %d time entries: %v\n",
			f.Workspace.Name, f.TagName, len(f.EntryIDs), f.EntryIDs)
	}
	if len(findings) > 0 {
		return fmt.Errorf("%d inconsistent references found", len(findings))
	}
	fmt.Println("No inconsistencies found")
	return nil
}
