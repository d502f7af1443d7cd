package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/goevexx/toggl-invoiceninja-sync/internal/domain"
	"github.com/goevexx/toggl-invoiceninja-sync/internal/ports"
	"github.com/goevexx/toggl-invoiceninja-sync/internal/reference"
)

// DeleteTasks removes InvoiceNinja tasks whose time log starts inside a
// date range, then deletes the Toggl reference tags that pointed at them.
type DeleteTasks struct {
	Log     *slog.Logger
	Toggl   ports.TogglAPI
	Ninja   ports.InvoiceNinjaAPI
	Journal ports.Journal
	Scheme  *reference.Scheme
	RunID   string
}

// DeleteResult lists what the run removed.
type DeleteResult struct {
	DeletedTaskIDs []string
	DeletedTagIDs  []int64
	// UnmatchedLabels are reference labels of deleted tasks with no tag
	// left in any workspace. Reported, not an error.
	UnmatchedLabels []string
}

// Run deletes tasks whose earliest logged interval starts in
// [since, until+24h): the until day is included whole.
func (uc *DeleteTasks) Run(ctx context.Context, since, until time.Time) (DeleteResult, error) {
	var res DeleteResult

	tasks, err := uc.Ninja.ListActiveTasks(ctx)
	if err != nil {
		return res, err
	}

	cutoff := until.Add(24 * time.Hour)
	var doomed []domain.Task
	for _, task := range tasks {
		spans, err := task.TimeSpans()
		if err != nil {
			uc.Log.Warn("unreadable time log, task kept", slog.String("error", err.Error()))
			continue
		}
		for _, span := range spans {
			if !span.Start.Before(since) && span.Start.Before(cutoff) {
				doomed = append(doomed, task)
				break
			}
		}
	}
	uc.Log.Info("tasks in range",
		slog.Int("total", len(tasks)),
		slog.Int("to_delete", len(doomed)),
	)

	for _, task := range doomed {
		if err := uc.Ninja.DeleteTask(ctx, task.ID); err != nil {
			// Abort-and-report. Already-deleted tasks cannot be restored,
			// so the operator must reconcile the partial result manually.
			return res, fmt.Errorf("deleted %d of %d tasks, aborting at task %s: %w",
				len(res.DeletedTaskIDs), len(doomed), task.ID, err)
		}
		res.DeletedTaskIDs = append(res.DeletedTaskIDs, task.ID)
		uc.record(ctx, 0, 0, task.ID, domain.ActionTaskDeleted, "")
	}

	if len(res.DeletedTaskIDs) == 0 {
		return res, nil
	}
	if err := uc.dereference(ctx, &res); err != nil {
		return res, err
	}
	return res, nil
}

// dereference removes the Toggl tags named after the deleted task ids.
func (uc *DeleteTasks) dereference(ctx context.Context, res *DeleteResult) error {
	labels := make(map[string]string, len(res.DeletedTaskIDs))
	for _, id := range res.DeletedTaskIDs {
		labels[uc.Scheme.Label(id)] = id
	}
	matched := make(map[string]bool, len(labels))

	workspaces, err := uc.Toggl.ListWorkspaces(ctx)
	if err != nil {
		return err
	}
	if len(workspaces) == 0 {
		return domain.ErrNoWorkspaces
	}

	for _, ws := range workspaces {
		tags, err := uc.Toggl.ListTags(ctx, ws.ID)
		if err != nil {
			return fmt.Errorf("workspace %d: %w", ws.ID, err)
		}
		var doomed []domain.Tag
		for _, tag := range tags {
			if _, ok := labels[tag.Name]; ok {
				matched[tag.Name] = true
				doomed = append(doomed, tag)
			}
		}
		if len(doomed) == 0 {
			continue
		}

		deleted, err := uc.Toggl.DeleteTags(ctx, doomed)
		res.DeletedTagIDs = append(res.DeletedTagIDs, deleted...)
		for _, id := range deleted {
			uc.record(ctx, ws.ID, id, "", domain.ActionTagDeleted, "")
		}
		if err != nil {
			return fmt.Errorf("workspace %d: deleted %d of %d tags: %w",
				ws.ID, len(deleted), len(doomed), err)
		}
	}

	for label := range labels {
		if !matched[label] {
			res.UnmatchedLabels = append(res.UnmatchedLabels, label)
			uc.Log.Info("no tag found for deleted task", slog.String("label", label))
		}
	}
	return nil
}

func (uc *DeleteTasks) record(ctx context.Context, workspaceID, tagID int64, taskID, action, detail string) {
	recordJournal(ctx, uc.Journal, uc.Log, domain.JournalEntry{
		RunID:       uc.RunID,
		Operation:   "sync:delete",
		WorkspaceID: workspaceID,
		SubjectID:   tagID,
		TaskID:      taskID,
		Action:      action,
		Detail:      detail,
	})
}
