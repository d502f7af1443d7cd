package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var (
	deleteSince string
	deleteUntil string
)

var deleteCmd = &cobra.Command{
	Use:   "sync:delete",
	Short: "Deletes InvoiceNinja tasks in a date range and their Toggl tags",
	Long: `Deletes every task whose time log starts inside [since, until]
(the until day counted whole), then removes the Toggl reference tags
that pointed at the deleted tasks. Aborts on the first failed delete;
tasks already deleted stay deleted, so partial completion requires
manual reconciliation.`,
	RunE: runDelete,
}

func init() {
	deleteCmd.Flags().StringVar(&deleteSince, "since", "", "Start of the range (RFC3339 or YYYY-MM-DD, default: 7 days ago)")
	deleteCmd.Flags().StringVar(&deleteUntil, "until", "", "End of the range, inclusive day (RFC3339 or YYYY-MM-DD, default: now)")
}

func runDelete(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	application, cfg, err := newApp(ctx)
	if err != nil {
		return err
	}
	defer application.Close()

	since, until, err := resolveWindow(deleteSince, deleteUntil, cfg.Location())
	if err != nil {
		return err
	}

	res, err := application.DeleteTasks(ctx, since, until)
	if len(res.DeletedTaskIDs) > 0 {
		fmt.Printf("Deleted %d tasks: %v\n", len(res.DeletedTaskIDs), res.DeletedTaskIDs)
	}
	if len(res.DeletedTagIDs) > 0 {
		fmt.Printf("Deleted %d tags: %v\n", len(res.DeletedTagIDs), res.DeletedTagIDs)
	}
	for _, label := range res.UnmatchedLabels {
		fmt.Printf("No tag found for %q\n", label)
	}
	return err
}
