package cli

import (
	"fmt"
	"time"
)

// defaultWindow is the trailing range used when no flags are given.
const defaultWindow = 7 * 24 * time.Hour

// resolveWindow turns the --since/--until flag values into a concrete
// range in loc. Empty flags default to the trailing 7 days through now.
func resolveWindow(sinceFlag, untilFlag string, loc *time.Location) (since, until time.Time, err error) {
	now := time.Now().In(loc)
	until = now
	if untilFlag != "" {
		until, err = parseDate(untilFlag, loc)
		if err != nil {
			return time.Time{}, time.Time{}, fmt.Errorf("invalid --until: %w", err)
		}
	}
	since = until.Add(-defaultWindow)
	if sinceFlag != "" {
		since, err = parseDate(sinceFlag, loc)
		if err != nil {
			return time.Time{}, time.Time{}, fmt.Errorf("invalid --since: %w", err)
		}
	}
	if until.Before(since) {
		return time.Time{}, time.Time{}, fmt.Errorf("--until (%s) is before --since (%s)",
			until.Format(time.RFC3339), since.Format(time.RFC3339))
	}
	return since, until, nil
}

// parseDate accepts RFC3339 or date-only YYYY-MM-DD (midnight in loc).
func parseDate(val string, loc *time.Location) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, val); err == nil {
		return t, nil
	}
	if d, err := time.ParseInLocation("2006-01-02", val, loc); err == nil {
		return d, nil
	}
	return time.Time{}, fmt.Errorf("expected RFC3339 or YYYY-MM-DD, got %q", val)
}
