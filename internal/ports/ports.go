package ports

import (
	"context"
	"time"

	"github.com/goevexx/toggl-invoiceninja-sync/internal/domain"
)

// TogglAPI covers the Toggl track API surface used by the reconciler:
// workspace and tag enumeration, tag deletion and the full tag-set
// replacement on a time entry (Toggl has no partial tag edit).
type TogglAPI interface {
	ListWorkspaces(ctx context.Context) ([]domain.Workspace, error)
	ListTags(ctx context.Context, workspaceID int64) ([]domain.Tag, error)
	ReplaceTimeEntryTags(ctx context.Context, entry domain.TimeEntry, tags []string) (domain.TimeEntry, error)
	DeleteTag(ctx context.Context, tag domain.Tag) error

	// DeleteTags deletes tags one at a time with a pacing delay between
	// calls. It aborts on the first failure and returns the ids deleted
	// before the failure alongside the error.
	DeleteTags(ctx context.Context, tags []domain.Tag) ([]int64, error)
}

// ReportsAPI fetches time entries from the Toggl detailed report,
// merging all pages before returning.
type ReportsAPI interface {
	ListTimeEntries(ctx context.Context, workspaceID int64, since, until time.Time) ([]domain.TimeEntry, error)
}

// InvoiceNinjaAPI covers the invoicing side. GetTask returns an error
// matching domain.ErrTaskNotFound when the id does not resolve.
type InvoiceNinjaAPI interface {
	GetTask(ctx context.Context, id string) (domain.Task, error)
	CreateTask(ctx context.Context, task domain.Task) (domain.Task, error)
	UpdateTask(ctx context.Context, task domain.Task) (domain.Task, error)
	DeleteTask(ctx context.Context, id string) error
	ListActiveTasks(ctx context.Context) ([]domain.Task, error)
}

// Journal receives audit rows. Implementations must tolerate being called
// from tight loops; a failed write is the caller's to log, not to retry.
type Journal interface {
	Record(ctx context.Context, entry domain.JournalEntry) error
	Close() error
}
