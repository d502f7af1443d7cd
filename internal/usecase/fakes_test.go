package usecase

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/goevexx/toggl-invoiceninja-sync/internal/domain"
)

// fakeToggl implements ports.TogglAPI in memory.
type fakeToggl struct {
	workspaces []domain.Workspace
	tags       map[int64][]domain.Tag

	replaceCalls int
	replacedTags map[int64][]string // entry id -> tag set written

	deletedTagIDs []int64
	failDeleteTag int64 // tag id whose delete fails, 0 for none
}

func newFakeToggl(workspaces ...domain.Workspace) *fakeToggl {
	return &fakeToggl{
		workspaces:   workspaces,
		tags:         map[int64][]domain.Tag{},
		replacedTags: map[int64][]string{},
	}
}

func (f *fakeToggl) ListWorkspaces(ctx context.Context) ([]domain.Workspace, error) {
	return f.workspaces, nil
}

func (f *fakeToggl) ListTags(ctx context.Context, workspaceID int64) ([]domain.Tag, error) {
	return f.tags[workspaceID], nil
}

func (f *fakeToggl) ReplaceTimeEntryTags(ctx context.Context, entry domain.TimeEntry, tags []string) (domain.TimeEntry, error) {
	f.replaceCalls++
	f.replacedTags[entry.ID] = tags
	entry.Tags = tags
	return entry, nil
}

func (f *fakeToggl) DeleteTag(ctx context.Context, tag domain.Tag) error {
	if f.failDeleteTag != 0 && tag.ID == f.failDeleteTag {
		return fmt.Errorf("tag %d: boom", tag.ID)
	}
	f.deletedTagIDs = append(f.deletedTagIDs, tag.ID)
	return nil
}

func (f *fakeToggl) DeleteTags(ctx context.Context, tags []domain.Tag) ([]int64, error) {
	var deleted []int64
	for _, tag := range tags {
		if err := f.DeleteTag(ctx, tag); err != nil {
			return deleted, err
		}
		deleted = append(deleted, tag.ID)
	}
	return deleted, nil
}

// fakeReports serves canned time entries per workspace.
type fakeReports struct {
	entries map[int64][]domain.TimeEntry
}

func (f *fakeReports) ListTimeEntries(ctx context.Context, workspaceID int64, since, until time.Time) ([]domain.TimeEntry, error) {
	return f.entries[workspaceID], nil
}

// fakeNinja implements ports.InvoiceNinjaAPI over a task map.
type fakeNinja struct {
	tasks  map[string]domain.Task
	nextID int

	creates int
	updates int

	deletedTaskIDs []string
	failDeleteTask string // task id whose delete fails, "" for none
}

func newFakeNinja(tasks ...domain.Task) *fakeNinja {
	f := &fakeNinja{tasks: map[string]domain.Task{}, nextID: 1}
	for _, t := range tasks {
		f.tasks[t.ID] = t
	}
	return f
}

func (f *fakeNinja) GetTask(ctx context.Context, id string) (domain.Task, error) {
	task, ok := f.tasks[id]
	if !ok {
		return domain.Task{}, fmt.Errorf("task %s: %w", id, domain.ErrTaskNotFound)
	}
	return task, nil
}

func (f *fakeNinja) CreateTask(ctx context.Context, task domain.Task) (domain.Task, error) {
	f.creates++
	task.ID = strconv.Itoa(f.nextID)
	task.Number = fmt.Sprintf("%04d", f.nextID)
	f.nextID++
	f.tasks[task.ID] = task
	return task, nil
}

func (f *fakeNinja) UpdateTask(ctx context.Context, task domain.Task) (domain.Task, error) {
	f.updates++
	if _, ok := f.tasks[task.ID]; !ok {
		return domain.Task{}, fmt.Errorf("task %s: %w", task.ID, domain.ErrTaskNotFound)
	}
	task.Number = f.tasks[task.ID].Number
	f.tasks[task.ID] = task
	return task, nil
}

func (f *fakeNinja) DeleteTask(ctx context.Context, id string) error {
	if f.failDeleteTask != "" && id == f.failDeleteTask {
		return fmt.Errorf("task %s: boom", id)
	}
	f.deletedTaskIDs = append(f.deletedTaskIDs, id)
	task := f.tasks[id]
	task.Deleted = true
	f.tasks[id] = task
	return nil
}

func (f *fakeNinja) ListActiveTasks(ctx context.Context) ([]domain.Task, error) {
	var out []domain.Task
	for _, t := range f.tasks {
		if !t.Deleted {
			out = append(out, t)
		}
	}
	return out, nil
}

// memJournal collects audit rows.
type memJournal struct {
	entries []domain.JournalEntry
}

func (j *memJournal) Record(ctx context.Context, entry domain.JournalEntry) error {
	j.entries = append(j.entries, entry)
	return nil
}

func (j *memJournal) Close() error { return nil }
