package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/goevexx/toggl-invoiceninja-sync/internal/domain"
	"github.com/goevexx/toggl-invoiceninja-sync/internal/ports"
	"github.com/goevexx/toggl-invoiceninja-sync/internal/reference"
	"github.com/goevexx/toggl-invoiceninja-sync/internal/rounding"
)

// MissingMappingError reports a time entry whose client, project or user
// key is absent from the configured id mappings. The entry is skipped; no
// partial task is created.
type MissingMappingError struct {
	Kind string // "client", "project" or "user"
	Key  string
}

func (e *MissingMappingError) Error() string {
	return fmt.Sprintf("no %s mapping for %q", e.Kind, e.Key)
}

// Mappings translates Toggl report display names into InvoiceNinja ids.
type Mappings struct {
	Clients  map[string]string
	Projects map[string]string
	Users    map[string]string
}

// SyncTimings reconciles Toggl time entries into InvoiceNinja tasks.
// Unlinked entries get a task created and the reference tag written back;
// linked entries are compared against a freshly built task and updated
// only when they differ, so an unchanged second run performs zero writes.
type SyncTimings struct {
	Log     *slog.Logger
	Toggl   ports.TogglAPI
	Reports ports.ReportsAPI
	Ninja   ports.InvoiceNinjaAPI
	Journal ports.Journal
	Scheme  *reference.Scheme

	Mappings     Mappings
	RoundMinutes int
	BillableOnly bool

	// IgnoreFields are task fields excluded from the linked-entry
	// comparison, on top of the always-ignored number.
	IgnoreFields []string

	RunID string
}

// TimingsResult tallies the per-entry outcomes of one run.
type TimingsResult struct {
	Created   int
	Updated   int
	Unchanged int
	Skipped   int
	Failed    int
}

func (uc *SyncTimings) Run(ctx context.Context, since, until time.Time) (TimingsResult, error) {
	var res TimingsResult

	workspaces, err := uc.Toggl.ListWorkspaces(ctx)
	if err != nil {
		return res, err
	}
	if len(workspaces) == 0 {
		return res, domain.ErrNoWorkspaces
	}

	for _, ws := range workspaces {
		entries, err := uc.Reports.ListTimeEntries(ctx, ws.ID, since, until)
		if err != nil {
			return res, fmt.Errorf("workspace %d: %w", ws.ID, err)
		}
		uc.Log.Info("syncing time entries",
			slog.String("workspace", ws.Name),
			slog.Int("count", len(entries)),
		)
		for _, entry := range entries {
			uc.syncEntry(ctx, entry, &res)
		}
	}

	uc.Log.Info("sync finished",
		slog.Int("created", res.Created),
		slog.Int("updated", res.Updated),
		slog.Int("unchanged", res.Unchanged),
		slog.Int("skipped", res.Skipped),
		slog.Int("failed", res.Failed),
	)
	return res, nil
}

func (uc *SyncTimings) syncEntry(ctx context.Context, entry domain.TimeEntry, res *TimingsResult) {
	taskID, linked, err := uc.Scheme.TaskID(entry.Tags)
	if err != nil {
		// More than one reference tag. Reported and skipped; resolving
		// it automatically would guess which task the operator meant.
		res.Failed++
		uc.Log.Error("time entry has multiple task references",
			slog.Int64("entry", entry.ID),
			slog.String("error", err.Error()),
		)
		uc.record(ctx, entry.WorkspaceID, entry.ID, "", domain.ActionError, err.Error())
		return
	}

	if linked {
		uc.syncLinked(ctx, entry, taskID, res)
		return
	}
	uc.syncUnlinked(ctx, entry, res)
}

func (uc *SyncTimings) syncLinked(ctx context.Context, entry domain.TimeEntry, taskID string, res *TimingsResult) {
	current, err := uc.Ninja.GetTask(ctx, taskID)
	if err != nil {
		res.Failed++
		uc.Log.Error("fetch linked task",
			slog.Int64("entry", entry.ID),
			slog.String("task", taskID),
			slog.String("error", err.Error()),
		)
		uc.record(ctx, entry.WorkspaceID, entry.ID, taskID, domain.ActionError, err.Error())
		return
	}

	want, err := uc.buildTask(entry)
	if err != nil {
		res.Skipped++
		uc.Log.Warn("skipping linked entry",
			slog.Int64("entry", entry.ID),
			slog.String("error", err.Error()),
		)
		uc.record(ctx, entry.WorkspaceID, entry.ID, taskID, domain.ActionSkipped, err.Error())
		return
	}
	want.ID = taskID

	if want.EqualIgnoring(current, uc.IgnoreFields...) {
		res.Unchanged++
		uc.record(ctx, entry.WorkspaceID, entry.ID, taskID, domain.ActionUnchanged, "")
		return
	}

	if _, err := uc.Ninja.UpdateTask(ctx, want); err != nil {
		res.Failed++
		uc.Log.Error("update task",
			slog.Int64("entry", entry.ID),
			slog.String("task", taskID),
			slog.String("error", err.Error()),
		)
		uc.record(ctx, entry.WorkspaceID, entry.ID, taskID, domain.ActionError, err.Error())
		return
	}
	res.Updated++
	uc.Log.Info("updated task",
		slog.Int64("entry", entry.ID),
		slog.String("task", taskID),
	)
	uc.record(ctx, entry.WorkspaceID, entry.ID, taskID, domain.ActionUpdated, "")
}

func (uc *SyncTimings) syncUnlinked(ctx context.Context, entry domain.TimeEntry, res *TimingsResult) {
	if uc.BillableOnly && !entry.Billable {
		res.Skipped++
		uc.record(ctx, entry.WorkspaceID, entry.ID, "", domain.ActionSkipped, "not billable")
		return
	}

	task, err := uc.buildTask(entry)
	if err != nil {
		res.Skipped++
		uc.Log.Warn("skipping time entry",
			slog.Int64("entry", entry.ID),
			slog.String("description", entry.Description),
			slog.String("error", err.Error()),
		)
		uc.record(ctx, entry.WorkspaceID, entry.ID, "", domain.ActionSkipped, err.Error())
		return
	}

	created, err := uc.Ninja.CreateTask(ctx, task)
	if err != nil {
		res.Failed++
		uc.Log.Error("create task",
			slog.Int64("entry", entry.ID),
			slog.String("error", err.Error()),
		)
		uc.record(ctx, entry.WorkspaceID, entry.ID, "", domain.ActionError, err.Error())
		return
	}

	tags := append(append([]string{}, entry.Tags...), uc.Scheme.Label(created.ID))
	if _, err := uc.Toggl.ReplaceTimeEntryTags(ctx, entry, tags); err != nil {
		// The task exists but the link tag was not written; the next run
		// would create a duplicate. Surface loudly.
		res.Failed++
		uc.Log.Error("task created but reference tag not written",
			slog.Int64("entry", entry.ID),
			slog.String("task", created.ID),
			slog.String("error", err.Error()),
		)
		uc.record(ctx, entry.WorkspaceID, entry.ID, created.ID, domain.ActionError, "tag write-back failed: "+err.Error())
		return
	}

	res.Created++
	uc.Log.Info("created task",
		slog.Int64("entry", entry.ID),
		slog.String("task", created.ID),
		slog.String("description", task.Description),
	)
	uc.record(ctx, entry.WorkspaceID, entry.ID, created.ID, domain.ActionCreated, "")
}

// buildTask derives the would-be task from a time entry's current fields.
// All three mapping keys must resolve; otherwise nothing is written.
func (uc *SyncTimings) buildTask(entry domain.TimeEntry) (domain.Task, error) {
	clientID, ok := uc.Mappings.Clients[entry.Client]
	if !ok {
		return domain.Task{}, &MissingMappingError{Kind: "client", Key: entry.Client}
	}
	projectID, ok := uc.Mappings.Projects[entry.Project]
	if !ok {
		return domain.Task{}, &MissingMappingError{Kind: "project", Key: entry.Project}
	}
	userID, ok := uc.Mappings.Users[entry.User]
	if !ok {
		return domain.Task{}, &MissingMappingError{Kind: "user", Key: entry.User}
	}

	end := rounding.End(entry.Start, entry.End, uc.RoundMinutes)
	timeLog, err := domain.EncodeTimeLog([]domain.TimeSpan{{Start: entry.Start, End: end}})
	if err != nil {
		return domain.Task{}, err
	}

	return domain.Task{
		Description: taskDescription(entry),
		TimeLog:     timeLog,
		ClientID:    clientID,
		ProjectID:   projectID,
		UserID:      userID,
		TogglID:     entry.ID,
		TogglUser:   entry.User,
	}, nil
}

// taskDescription prefixes the Toggl project when present, matching the
// descriptions of tasks already in InvoiceNinja.
func taskDescription(entry domain.TimeEntry) string {
	if entry.Project != "" {
		return entry.Project + ": " + entry.Description
	}
	return entry.Description
}

func (uc *SyncTimings) record(ctx context.Context, workspaceID, entryID int64, taskID, action, detail string) {
	recordJournal(ctx, uc.Journal, uc.Log, domain.JournalEntry{
		RunID:       uc.RunID,
		Operation:   "sync:timings",
		WorkspaceID: workspaceID,
		SubjectID:   entryID,
		TaskID:      taskID,
		Action:      action,
		Detail:      detail,
	})
}

// recordJournal writes an audit row, tolerating a nil journal. Journal
// failures are logged, never propagated: auditing must not fail a sync.
func recordJournal(ctx context.Context, j ports.Journal, log *slog.Logger, entry domain.JournalEntry) {
	if j == nil {
		return
	}
	if err := j.Record(ctx, entry); err != nil && !errors.Is(err, context.Canceled) {
		log.Warn("journal write failed", slog.String("error", err.Error()))
	}
}
