package domain

import "errors"

// ErrNoWorkspaces means the Toggl account has no workspaces to iterate;
// every batch operation aborts on it.
var ErrNoWorkspaces = errors.New("no workspaces to sync")

// ErrTaskNotFound means the invoicing side answered "no such task" for a
// task id. Callers distinguish it from transport failures with errors.Is.
var ErrTaskNotFound = errors.New("task not found")
