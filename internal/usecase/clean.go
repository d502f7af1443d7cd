package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/goevexx/toggl-invoiceninja-sync/internal/domain"
	"github.com/goevexx/toggl-invoiceninja-sync/internal/ports"
	"github.com/goevexx/toggl-invoiceninja-sync/internal/reference"
)

// Clean deletes reference tags whose linked task no longer exists on the
// invoicing side, or exists only as a soft-deleted record.
type Clean struct {
	Log     *slog.Logger
	Toggl   ports.TogglAPI
	Ninja   ports.InvoiceNinjaAPI
	Journal ports.Journal
	Scheme  *reference.Scheme
	RunID   string
}

// CleanResult lists what the run touched.
type CleanResult struct {
	DeletedTagIDs []int64
	Kept          int
	Failed        int
}

func (uc *Clean) Run(ctx context.Context) (CleanResult, error) {
	var res CleanResult

	workspaces, err := uc.Toggl.ListWorkspaces(ctx)
	if err != nil {
		return res, err
	}
	if len(workspaces) == 0 {
		return res, domain.ErrNoWorkspaces
	}

	for _, ws := range workspaces {
		orphans, err := uc.orphanedTags(ctx, ws, &res)
		if err != nil {
			return res, fmt.Errorf("workspace %d: %w", ws.ID, err)
		}
		if len(orphans) == 0 {
			uc.Log.Info("no orphaned tags", slog.String("workspace", ws.Name))
			continue
		}

		deleted, err := uc.Toggl.DeleteTags(ctx, orphans)
		res.DeletedTagIDs = append(res.DeletedTagIDs, deleted...)
		for _, id := range deleted {
			uc.record(ctx, ws.ID, id, domain.ActionTagDeleted, "")
		}
		if err != nil {
			// Abort-and-report: deletes already issued stand, the rest of
			// the batch is not attempted.
			return res, fmt.Errorf("workspace %d: deleted %d of %d tags: %w",
				ws.ID, len(deleted), len(orphans), err)
		}
		uc.Log.Info("deleted orphaned tags",
			slog.String("workspace", ws.Name),
			slog.Int("count", len(deleted)),
		)
	}
	return res, nil
}

// orphanedTags finds reference tags in the workspace whose task is missing
// or soft-deleted. A failed task lookup leaves the tag untouched: deleting
// a link because the invoicing side was briefly unreachable loses data.
func (uc *Clean) orphanedTags(ctx context.Context, ws domain.Workspace, res *CleanResult) ([]domain.Tag, error) {
	tags, err := uc.Toggl.ListTags(ctx, ws.ID)
	if err != nil {
		return nil, err
	}

	var orphans []domain.Tag
	for _, tag := range tags {
		taskID, ok := uc.Scheme.ParseLabel(tag.Name)
		if !ok {
			continue
		}
		task, err := uc.Ninja.GetTask(ctx, taskID)
		switch {
		case errors.Is(err, domain.ErrTaskNotFound):
			orphans = append(orphans, tag)
		case err != nil:
			res.Failed++
			uc.Log.Error("task lookup failed, keeping tag",
				slog.String("tag", tag.Name),
				slog.String("task", taskID),
				slog.String("error", err.Error()),
			)
		case task.Deleted:
			orphans = append(orphans, tag)
		default:
			res.Kept++
		}
	}
	return orphans, nil
}

func (uc *Clean) record(ctx context.Context, workspaceID, tagID int64, action, detail string) {
	recordJournal(ctx, uc.Journal, uc.Log, domain.JournalEntry{
		RunID:       uc.RunID,
		Operation:   "sync:clean",
		WorkspaceID: workspaceID,
		SubjectID:   tagID,
		Action:      action,
		Detail:      detail,
	})
}
