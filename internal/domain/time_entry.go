package domain

import "time"

// TimeEntry is a Toggl time entry as reported by the detailed report API.
// Client, Project and User are the report's display names; they are the
// keys looked up in the id mappings when a task is built.
type TimeEntry struct {
	ID          int64
	WorkspaceID int64
	Description string
	Start       time.Time
	End         time.Time
	Tags        []string
	Client      string
	Project     string
	User        string
	Billable    bool
}

// HasTag reports whether the entry carries the exact tag name.
func (e TimeEntry) HasTag(name string) bool {
	for _, t := range e.Tags {
		if t == name {
			return true
		}
	}
	return false
}
