package usecase

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/goevexx/toggl-invoiceninja-sync/internal/domain"
	"github.com/goevexx/toggl-invoiceninja-sync/internal/reference"
)

func newClean(toggl *fakeToggl, ninja *fakeNinja) *Clean {
	return &Clean{
		Log:    discardLogger(),
		Toggl:  toggl,
		Ninja:  ninja,
		Scheme: reference.NewScheme("IN Task: "),
		RunID:  "test-run",
	}
}

func TestCleanDeletesOnlyOrphanedReferenceTags(t *testing.T) {
	toggl := newFakeToggl(domain.Workspace{ID: 1, Name: "ws"})
	toggl.tags[1] = []domain.Tag{
		{ID: 10, WorkspaceID: 1, Name: "IN Task: 1"},
		{ID: 11, WorkspaceID: 1, Name: "IN Task: 2"},
		{ID: 12, WorkspaceID: 1, Name: "misc"},
	}
	// Task 1 exists and is live; task 2 does not exist.
	ninja := newFakeNinja(domain.Task{ID: "1"})

	res, err := newClean(toggl, ninja).Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []int64{11}, res.DeletedTagIDs)
	assert.Equal(t, 1, res.Kept)
	assert.NotContains(t, toggl.deletedTagIDs, int64(12), "non-reference tags are untouched")
}

func TestCleanDeletesTagOfSoftDeletedTask(t *testing.T) {
	toggl := newFakeToggl(domain.Workspace{ID: 1, Name: "ws"})
	toggl.tags[1] = []domain.Tag{
		{ID: 10, WorkspaceID: 1, Name: "IN Task: 1"},
	}
	ninja := newFakeNinja(domain.Task{ID: "1", Deleted: true})

	res, err := newClean(toggl, ninja).Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []int64{10}, res.DeletedTagIDs)
}

func TestCleanAbortsBatchOnFirstFailure(t *testing.T) {
	toggl := newFakeToggl(domain.Workspace{ID: 1, Name: "ws"})
	toggl.tags[1] = []domain.Tag{
		{ID: 10, WorkspaceID: 1, Name: "IN Task: 1"},
		{ID: 11, WorkspaceID: 1, Name: "IN Task: 2"},
		{ID: 12, WorkspaceID: 1, Name: "IN Task: 3"},
	}
	toggl.failDeleteTag = 11
	ninja := newFakeNinja() // no tasks exist, all three tags are orphans

	res, err := newClean(toggl, ninja).Run(context.Background())
	require.Error(t, err)
	assert.Equal(t, []int64{10}, res.DeletedTagIDs, "ids deleted before the failure are reported")
	assert.NotContains(t, toggl.deletedTagIDs, int64(12), "remaining batch is not attempted")
}

func TestCleanKeepsTagWhenLookupFails(t *testing.T) {
	toggl := newFakeToggl(domain.Workspace{ID: 1, Name: "ws"})
	toggl.tags[1] = []domain.Tag{
		{ID: 10, WorkspaceID: 1, Name: "IN Task: 1"},
	}
	ninja := newFakeNinja(domain.Task{ID: "1"})
	failing := &failingGetNinja{fakeNinja: ninja}

	uc := newClean(toggl, nil)
	uc.Ninja = failing

	res, err := uc.Run(context.Background())
	require.NoError(t, err)
	assert.Empty(t, res.DeletedTagIDs, "an unreachable invoicing side must not look like a missing task")
	assert.Equal(t, 1, res.Failed)
}

type failingGetNinja struct {
	*fakeNinja
}

func (f *failingGetNinja) GetTask(ctx context.Context, id string) (domain.Task, error) {
	return domain.Task{}, context.DeadlineExceeded
}
