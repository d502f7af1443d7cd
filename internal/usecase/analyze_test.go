package usecase

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/goevexx/toggl-invoiceninja-sync/internal/domain"
	"github.com/goevexx/toggl-invoiceninja-sync/internal/reference"
)

func TestAnalyzeFlagsTagWithMultipleEntries(t *testing.T) {
	since := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	until := time.Date(2024, 3, 8, 0, 0, 0, 0, time.UTC)

	toggl := newFakeToggl(domain.Workspace{ID: 1, Name: "ws"})
	toggl.tags[1] = []domain.Tag{
		{ID: 10, WorkspaceID: 1, Name: "IN Task: 1"},
		{ID: 11, WorkspaceID: 1, Name: "IN Task: 2"},
		{ID: 12, WorkspaceID: 1, Name: "misc"},
	}
	reports := &fakeReports{entries: map[int64][]domain.TimeEntry{
		1: {
			testEntry(100, "IN Task: 1"),
			testEntry(101, "IN Task: 1"),
			testEntry(102, "IN Task: 2"),
			testEntry(103, "misc"),
			testEntry(104, "misc"),
		},
	}}

	uc := &Analyze{
		Log:     discardLogger(),
		Toggl:   toggl,
		Reports: reports,
		Scheme:  reference.NewScheme("IN Task: "),
	}

	findings, err := uc.Run(context.Background(), since, until)
	require.NoError(t, err)
	require.Len(t, findings, 1, "only the doubly-referenced tag is a finding; non-reference tags never are")
	assert.Equal(t, "IN Task: 1", findings[0].TagName)
	assert.ElementsMatch(t, []int64{100, 101}, findings[0].EntryIDs)
}

func TestAnalyzeCleanWorkspace(t *testing.T) {
	since := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	until := time.Date(2024, 3, 8, 0, 0, 0, 0, time.UTC)

	toggl := newFakeToggl(domain.Workspace{ID: 1, Name: "ws"})
	toggl.tags[1] = []domain.Tag{{ID: 10, WorkspaceID: 1, Name: "IN Task: 1"}}
	reports := &fakeReports{entries: map[int64][]domain.TimeEntry{
		1: {testEntry(100, "IN Task: 1")},
	}}

	uc := &Analyze{
		Log:     discardLogger(),
		Toggl:   toggl,
		Reports: reports,
		Scheme:  reference.NewScheme("IN Task: "),
	}

	findings, err := uc.Run(context.Background(), since, until)
	require.NoError(t, err)
	assert.Empty(t, findings)
}

func TestAnalyzeNoWorkspaces(t *testing.T) {
	uc := &Analyze{
		Log:     discardLogger(),
		Toggl:   newFakeToggl(),
		Reports: &fakeReports{},
		Scheme:  reference.NewScheme("IN Task: "),
	}
	_, err := uc.Run(context.Background(), time.Time{}, time.Time{})
	assert.ErrorIs(t, err, domain.ErrNoWorkspaces)
}
