package cli

import (
	"github.com/spf13/cobra"
)

var (
	timingsSince        string
	timingsUntil        string
	timingsRound        int
	timingsBillableOnly bool
)

var timingsCmd = &cobra.Command{
	Use:   "sync:timings",
	Short: "Syncs timings from Toggl to InvoiceNinja",
	Long: `Fetches time entries in the date window from every workspace and
reconciles each one: entries without a reference tag get a task created
and the tag written back; linked entries are updated only when the task
derived from the entry differs from the remote one.`,
	RunE: runTimings,
}

func init() {
	timingsCmd.Flags().StringVar(&timingsSince, "since", "", "Start of the window (RFC3339 or YYYY-MM-DD, default: 7 days ago)")
	timingsCmd.Flags().StringVar(&timingsUntil, "until", "", "End of the window (RFC3339 or YYYY-MM-DD, default: now)")
	timingsCmd.Flags().IntVar(&timingsRound, "round", -1, "Minutes to round each duration up to (0 disables, default: configured value)")
	timingsCmd.Flags().BoolVar(&timingsBillableOnly, "billable-only", false, "Only create tasks for billable entries")
}

func runTimings(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	application, cfg, err := newApp(ctx)
	if err != nil {
		return err
	}
	defer application.Close()

	since, until, err := resolveWindow(timingsSince, timingsUntil, cfg.Location())
	if err != nil {
		return err
	}

	round := cfg.Sync.RoundMinutes
	if timingsRound >= 0 {
		round = timingsRound
	}
	billableOnly := cfg.Sync.BillableOnly || timingsBillableOnly

	_, err = application.SyncTimings(ctx, since, until, round, billableOnly)
	return err
}
