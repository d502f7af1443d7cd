package domain

// Journal actions recorded per reconciliation decision.
const (
	ActionCreated     = "created"
	ActionUpdated     = "updated"
	ActionUnchanged   = "unchanged"
	ActionSkipped     = "skipped"
	ActionError       = "error"
	ActionTagDeleted  = "tag_deleted"
	ActionTaskDeleted = "task_deleted"
)

// JournalEntry is one audit row describing a decision taken during a run.
// The journal is append-only; no operation ever reads it back.
type JournalEntry struct {
	RunID       string
	Operation   string
	WorkspaceID int64
	SubjectID   int64 // Toggl id of the acted-on record: time entry or tag
	TaskID      string
	Action      string
	Detail      string
}
