package domain

// Workspace is a Toggl workspace, the unit of iteration for every batch
// operation: tags and time entries are always scoped to one workspace.
type Workspace struct {
	ID   int64
	Name string
}
