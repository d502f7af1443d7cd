// Package reference implements the tag-encoded link between a Toggl time
// entry and an InvoiceNinja task: a reserved tag name "<prefix><task-id>".
package reference

import (
	"fmt"
	"regexp"
)

// DefaultPrefix is the reserved tag namespace used when none is configured.
const DefaultPrefix = "IN Task: "

// MultipleReferencesError is returned when one time entry carries more
// than one reference tag. The 1:1 link invariant is violated; callers
// report the entry and skip it rather than pick a winner.
type MultipleReferencesError struct {
	Tags []string
}

func (e *MultipleReferencesError) Error() string {
	return fmt.Sprintf("time entry references %d tasks: %v", len(e.Tags), e.Tags)
}

// Scheme matches and builds reference labels for one configured prefix.
type Scheme struct {
	prefix  string
	pattern *regexp.Regexp
}

// NewScheme compiles the anchored reference pattern for prefix. The
// prefix is escaped, so it may contain regexp metacharacters.
func NewScheme(prefix string) *Scheme {
	if prefix == "" {
		prefix = DefaultPrefix
	}
	return &Scheme{
		prefix:  prefix,
		pattern: regexp.MustCompile(`^` + regexp.QuoteMeta(prefix) + `(\w+)$`),
	}
}

// Prefix returns the configured label prefix.
func (s *Scheme) Prefix() string { return s.prefix }

// Label builds the reference tag name for a task id.
func (s *Scheme) Label(taskID string) string {
	return s.prefix + taskID
}

// Matches reports whether name is a reference label.
func (s *Scheme) Matches(name string) bool {
	return s.pattern.MatchString(name)
}

// ParseLabel extracts the task id from a single tag name, or ok=false.
func (s *Scheme) ParseLabel(name string) (taskID string, ok bool) {
	m := s.pattern.FindStringSubmatch(name)
	if m == nil {
		return "", false
	}
	return m[1], true
}

// TaskID scans a time entry's tag set for reference labels.
// Zero matches returns ok=false; exactly one returns the captured task id;
// more than one returns a MultipleReferencesError.
func (s *Scheme) TaskID(tags []string) (taskID string, ok bool, err error) {
	var matched []string
	for _, tag := range tags {
		if id, isRef := s.ParseLabel(tag); isRef {
			taskID = id
			matched = append(matched, tag)
		}
	}
	switch len(matched) {
	case 0:
		return "", false, nil
	case 1:
		return taskID, true, nil
	default:
		return "", false, &MultipleReferencesError{Tags: matched}
	}
}
