package domain

import (
	"encoding/json"
	"fmt"
	"time"
)

// Task field names accepted by EqualIgnoring.
const (
	FieldDescription = "description"
	FieldTimeLog     = "time_log"
	FieldClientID    = "client_id"
	FieldProjectID   = "project_id"
	FieldUserID      = "user_id"
	FieldTogglID     = "toggl_id"
	FieldTogglUser   = "toggl_user"
	FieldDeleted     = "deleted"
)

// Task is an InvoiceNinja task. TimeLog holds the wire encoding: a JSON
// array of [startEpoch, endEpoch] pairs serialized as text. Number is
// assigned by the server and never participates in equality. Deleted
// reflects remote state at fetch time; it is never an instruction to
// delete anything locally.
type Task struct {
	ID          string
	Description string
	TimeLog     string
	ClientID    string
	ProjectID   string
	UserID      string
	TogglID     int64
	TogglUser   string
	Number      string
	Deleted     bool
}

// EqualIgnoring compares two tasks field by field. Number is always
// ignored; callers may ignore further fields by name. Unknown names are
// ignored silently so callers can pass wire names verbatim from config.
func (t Task) EqualIgnoring(other Task, ignore ...string) bool {
	skip := make(map[string]bool, len(ignore))
	for _, f := range ignore {
		skip[f] = true
	}
	if !skip[FieldDescription] && t.Description != other.Description {
		return false
	}
	if !skip[FieldTimeLog] && t.TimeLog != other.TimeLog {
		return false
	}
	if !skip[FieldClientID] && t.ClientID != other.ClientID {
		return false
	}
	if !skip[FieldProjectID] && t.ProjectID != other.ProjectID {
		return false
	}
	if !skip[FieldUserID] && t.UserID != other.UserID {
		return false
	}
	if !skip[FieldTogglID] && t.TogglID != other.TogglID {
		return false
	}
	if !skip[FieldTogglUser] && t.TogglUser != other.TogglUser {
		return false
	}
	if !skip[FieldDeleted] && t.Deleted != other.Deleted {
		return false
	}
	return true
}

// TimeSpan is one decoded time-log interval.
type TimeSpan struct {
	Start time.Time
	End   time.Time
}

// EncodeTimeLog renders spans in the wire format, e.g. [[1500000000,1500003600]].
func EncodeTimeLog(spans []TimeSpan) (string, error) {
	pairs := make([][2]int64, 0, len(spans))
	for _, s := range spans {
		pairs = append(pairs, [2]int64{s.Start.Unix(), s.End.Unix()})
	}
	b, err := json.Marshal(pairs)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// TimeSpans decodes the task's time log. An empty log decodes to nil.
func (t Task) TimeSpans() ([]TimeSpan, error) {
	if t.TimeLog == "" {
		return nil, nil
	}
	var pairs [][]int64
	if err := json.Unmarshal([]byte(t.TimeLog), &pairs); err != nil {
		return nil, fmt.Errorf("task %s: decode time log: %w", t.ID, err)
	}
	spans := make([]TimeSpan, 0, len(pairs))
	for _, p := range pairs {
		if len(p) < 2 {
			return nil, fmt.Errorf("task %s: time log pair has %d elements", t.ID, len(p))
		}
		spans = append(spans, TimeSpan{
			Start: time.Unix(p[0], 0).UTC(),
			End:   time.Unix(p[1], 0).UTC(),
		})
	}
	return spans, nil
}
