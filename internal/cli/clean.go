package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var cleanCmd = &cobra.Command{
	Use:   "sync:clean",
	Short: "Cleans up orphaned Toggl reference tags",
	Long: `Deletes reference tags whose InvoiceNinja task no longer exists or
was soft-deleted. Deletion is paced to respect Toggl's rate limit and
stops at the first failure, reporting what was already deleted.`,
	RunE: runClean,
}

func runClean(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	application, _, err := newApp(ctx)
	if err != nil {
		return err
	}
	defer application.Close()

	res, err := application.Clean(ctx)
	if err != nil {
		return err
	}
	if len(res.DeletedTagIDs) == 0 {
		fmt.Println("No tags deleted")
	} else {
		fmt.Printf("Deleted %d orphaned tags: %v\n", len(res.DeletedTagIDs), res.DeletedTagIDs)
	}
	return nil
}
