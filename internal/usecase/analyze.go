package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/goevexx/toggl-invoiceninja-sync/internal/domain"
	"github.com/goevexx/toggl-invoiceninja-sync/internal/ports"
	"github.com/goevexx/toggl-invoiceninja-sync/internal/reference"
)

// Analyze checks the 1:1 link invariant: every reference tag may appear
// on at most one time entry in the window. Read-only; performs no writes.
type Analyze struct {
	Log     *slog.Logger
	Toggl   ports.TogglAPI
	Reports ports.ReportsAPI
	Scheme  *reference.Scheme
}

// Finding is one violated invariant: a task referenced by several entries.
type Finding struct {
	Workspace domain.Workspace
	TagName   string
	EntryIDs  []int64
}

func (uc *Analyze) Run(ctx context.Context, since, until time.Time) ([]Finding, error) {
	workspaces, err := uc.Toggl.ListWorkspaces(ctx)
	if err != nil {
		return nil, err
	}
	if len(workspaces) == 0 {
		return nil, domain.ErrNoWorkspaces
	}

	var findings []Finding
	for _, ws := range workspaces {
		wsFindings, err := uc.analyzeWorkspace(ctx, ws, since, until)
		if err != nil {
			return findings, fmt.Errorf("workspace %d: %w", ws.ID, err)
		}
		if len(wsFindings) == 0 {
			uc.Log.Info("workspace is consistent", slog.String("workspace", ws.Name))
		} else {
			uc.Log.Warn("workspace has inconsistent references",
				slog.String("workspace", ws.Name),
				slog.Int("findings", len(wsFindings)),
			)
		}
		findings = append(findings, wsFindings...)
	}
	return findings, nil
}

func (uc *Analyze) analyzeWorkspace(ctx context.Context, ws domain.Workspace, since, until time.Time) ([]Finding, error) {
	tags, err := uc.Toggl.ListTags(ctx, ws.ID)
	if err != nil {
		return nil, err
	}
	entries, err := uc.Reports.ListTimeEntries(ctx, ws.ID, since, until)
	if err != nil {
		return nil, err
	}

	var findings []Finding
	for _, tag := range tags {
		if !uc.Scheme.Matches(tag.Name) {
			continue
		}
		var entryIDs []int64
		for _, entry := range entries {
			if entry.HasTag(tag.Name) {
				entryIDs = append(entryIDs, entry.ID)
			}
		}
		if len(entryIDs) > 1 {
			findings = append(findings, Finding{Workspace: ws, TagName: tag.Name, EntryIDs: entryIDs})
			uc.Log.Warn("tag referenced by multiple time entries",
				slog.String("workspace", ws.Name),
				slog.String("tag", tag.Name),
				slog.Any("entries", entryIDs),
			)
		}
	}
	return findings, nil
}
