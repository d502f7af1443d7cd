package domain

// Tag is a Toggl tag. Names are free text; names carrying the reference
// prefix link a time entry to an InvoiceNinja task.
type Tag struct {
	ID          int64
	WorkspaceID int64
	Name        string
}
