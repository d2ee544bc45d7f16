package services

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"kanban/dto"
	"kanban/model"
	"kanban/store"
	"kanban/taskrule"
)

type fixture struct {
	svc   *TaskService
	tasks *store.MemoryTaskStore
	users *store.MemoryUserStore
}

const (
	creatorID  = "user-creator"
	assigneeID = "user-assignee"
	strangerID = "user-stranger"
)

func newFixture(t *testing.T) *fixture {
	t.Helper()
	tasks := store.NewMemoryTaskStore()
	users := store.NewMemoryUserStore()
	for _, u := range []model.User{
		{UserID: creatorID, Name: "Cara", Email: "cara@example.com"},
		{UserID: assigneeID, Name: "Avery", Email: "avery@example.com"},
		{UserID: strangerID, Name: "Sam", Email: "sam@example.com"},
	} {
		require.NoError(t, users.Insert(context.Background(), u))
	}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return &fixture{svc: NewTaskService(tasks, users, logger), tasks: tasks, users: users}
}

func (f *fixture) createTask(t *testing.T, req dto.CreateTaskRequest) dto.TaskResponse {
	t.Helper()
	task, err := f.svc.Create(context.Background(), creatorID, req)
	require.NoError(t, err)
	return task
}

func strp(s string) *string { return &s }
func boolp(b bool) *bool    { return &b }

func TestCreateDefaults(t *testing.T) {
	f := newFixture(t)

	task := f.createTask(t, dto.CreateTaskRequest{Title: "  Ship release  "})

	assert.Equal(t, "Ship release", task.Title)
	assert.Equal(t, model.StatusTodo, task.Status)
	assert.Equal(t, model.PriorityMedium, task.Priority)
	assert.Equal(t, creatorID, task.CreatedBy)
	assert.Equal(t, creatorID, task.AssignedTo, "assignee defaults to actor")
	assert.Empty(t, task.Subtasks)
	assert.Empty(t, task.Comments)
	assert.Equal(t, model.SubtaskProgress{Completed: 0, Total: 0, Percentage: 100}, task.SubtaskProgress)
	require.NotNil(t, task.Creator)
	assert.Equal(t, "Cara", task.Creator.Name)
}

func TestCreateRequiresTitle(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.Create(context.Background(), creatorID, dto.CreateTaskRequest{Title: "   "})

	var fieldErr *taskrule.FieldError
	require.ErrorAs(t, err, &fieldErr)

	tasks, err := f.tasks.Find(context.Background(), store.TaskFilter{Member: creatorID})
	require.NoError(t, err)
	assert.Empty(t, tasks, "no record inserted on validation error")
}

func TestUpdateEnforcesInvariantAgainstPersistedSubtasks(t *testing.T) {
	f := newFixture(t)
	task := f.createTask(t, dto.CreateTaskRequest{Title: "T"})

	_, err := f.svc.AddSubtask(context.Background(), creatorID, task.TaskID, "A")
	require.NoError(t, err)
	withSub, err := f.svc.AddSubtask(context.Background(), creatorID, task.TaskID, "B")
	require.NoError(t, err)
	require.Len(t, withSub.Subtasks, 2)

	// A stale client sends only a status change; the persisted pending
	// subtasks still block it.
	_, err = f.svc.Update(context.Background(), creatorID, task.TaskID, taskrule.Patch{
		Status: strp(model.StatusDone),
	})
	var rejection *taskrule.Rejection
	require.ErrorAs(t, err, &rejection)
	assert.Equal(t, taskrule.CodeIncompleteSubtasks, rejection.Code)
	assert.ElementsMatch(t, []string{"A", "B"}, rejection.PendingTitles)

	persisted, err := f.tasks.FindByID(context.Background(), task.TaskID)
	require.NoError(t, err)
	assert.Equal(t, model.StatusTodo, persisted.Status, "persisted status unchanged after rejection")
}

func TestCompleteSubtasksThenDone(t *testing.T) {
	f := newFixture(t)
	task := f.createTask(t, dto.CreateTaskRequest{Title: "T"})

	_, err := f.svc.AddSubtask(context.Background(), creatorID, task.TaskID, "A")
	require.NoError(t, err)
	withBoth, err := f.svc.AddSubtask(context.Background(), creatorID, task.TaskID, "B")
	require.NoError(t, err)

	for _, sub := range withBoth.Subtasks {
		_, err := f.svc.UpdateSubtask(context.Background(), creatorID, task.TaskID, sub.SubtaskID,
			dto.UpdateSubtaskRequest{Completed: boolp(true)})
		require.NoError(t, err)
	}

	done, err := f.svc.Update(context.Background(), creatorID, task.TaskID, taskrule.Patch{
		Status: strp(model.StatusDone),
	})
	require.NoError(t, err)
	assert.Equal(t, model.StatusDone, done.Status)
	assert.Equal(t, model.SubtaskProgress{Completed: 2, Total: 2, Percentage: 100}, done.SubtaskProgress)
}

func TestSubtaskRegressionBlockedOnDoneTask(t *testing.T) {
	f := newFixture(t)
	task := f.createTask(t, dto.CreateTaskRequest{Title: "T"})

	resp, err := f.svc.AddSubtask(context.Background(), creatorID, task.TaskID, "A")
	require.NoError(t, err)
	subID := resp.Subtasks[0].SubtaskID

	_, err = f.svc.UpdateSubtask(context.Background(), creatorID, task.TaskID, subID,
		dto.UpdateSubtaskRequest{Completed: boolp(true)})
	require.NoError(t, err)
	_, err = f.svc.Update(context.Background(), creatorID, task.TaskID, taskrule.Patch{Status: strp(model.StatusDone)})
	require.NoError(t, err)

	// Reopening the subtask while the task is done is blocked.
	_, err = f.svc.UpdateSubtask(context.Background(), creatorID, task.TaskID, subID,
		dto.UpdateSubtaskRequest{Completed: boolp(false)})
	var rejection *taskrule.Rejection
	require.ErrorAs(t, err, &rejection)
	assert.Equal(t, taskrule.CodeSubtaskRegression, rejection.Code)

	// Re-completing it is an idempotent no-op and succeeds.
	_, err = f.svc.UpdateSubtask(context.Background(), creatorID, task.TaskID, subID,
		dto.UpdateSubtaskRequest{Completed: boolp(true)})
	require.NoError(t, err)
}

func TestAddPendingSubtaskToDoneTaskRejected(t *testing.T) {
	f := newFixture(t)
	task := f.createTask(t, dto.CreateTaskRequest{Title: "T"})

	_, err := f.svc.Update(context.Background(), creatorID, task.TaskID, taskrule.Patch{Status: strp(model.StatusDone)})
	require.NoError(t, err)

	_, err = f.svc.AddSubtask(context.Background(), creatorID, task.TaskID, "late work")
	var rejection *taskrule.Rejection
	require.ErrorAs(t, err, &rejection)
	assert.Equal(t, taskrule.CodeIncompleteSubtasks, rejection.Code)
}

func TestAuthorizationMatrix(t *testing.T) {
	f := newFixture(t)
	task := f.createTask(t, dto.CreateTaskRequest{Title: "T", AssignedTo: assigneeID})

	ctx := context.Background()
	patch := taskrule.Patch{Title: strp("renamed")}

	// A stranger can neither view, edit nor delete.
	_, err := f.svc.Get(ctx, strangerID, task.TaskID)
	assert.ErrorIs(t, err, ErrForbidden)
	_, err = f.svc.Update(ctx, strangerID, task.TaskID, patch)
	assert.ErrorIs(t, err, ErrForbidden)
	assert.ErrorIs(t, f.svc.Delete(ctx, strangerID, task.TaskID), ErrForbidden)

	// The assignee can view and edit but not delete.
	_, err = f.svc.Get(ctx, assigneeID, task.TaskID)
	assert.NoError(t, err)
	_, err = f.svc.Update(ctx, assigneeID, task.TaskID, patch)
	assert.NoError(t, err)
	assert.ErrorIs(t, f.svc.Delete(ctx, assigneeID, task.TaskID), ErrForbidden)

	persisted, err := f.tasks.FindByID(ctx, task.TaskID)
	require.NoError(t, err)
	assert.Equal(t, "renamed", persisted.Title)

	// Only the creator deletes.
	require.NoError(t, f.svc.Delete(ctx, creatorID, task.TaskID))
	_, err = f.tasks.FindByID(ctx, task.TaskID)
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestDeniedActorLearnsNothing(t *testing.T) {
	f := newFixture(t)
	task := f.createTask(t, dto.CreateTaskRequest{Title: "T"})
	_, err := f.svc.AddSubtask(context.Background(), creatorID, task.TaskID, "pending")
	require.NoError(t, err)

	// The move would also violate the invariant, but the stranger only sees
	// the authorization failure.
	_, err = f.svc.Update(context.Background(), strangerID, task.TaskID, taskrule.Patch{
		Status: strp(model.StatusDone),
	})
	assert.ErrorIs(t, err, ErrForbidden)
	var rejection *taskrule.Rejection
	assert.False(t, errors.As(err, &rejection), "no invariant detail leaks")
}

func TestTemporaryIdentifiersReplacedOnPersist(t *testing.T) {
	f := newFixture(t)
	task := f.createTask(t, dto.CreateTaskRequest{Title: "T"})

	subtasks := []model.Subtask{{SubtaskID: taskrule.NewTempID(), Title: "optimistic"}}
	updated, err := f.svc.Update(context.Background(), creatorID, task.TaskID, taskrule.Patch{
		Subtasks: &subtasks,
	})
	require.NoError(t, err)
	require.Len(t, updated.Subtasks, 1)
	assert.NotEmpty(t, updated.Subtasks[0].SubtaskID)
	assert.False(t, taskrule.IsTempID(updated.Subtasks[0].SubtaskID))
}

func TestCommentEditPreservesIdentity(t *testing.T) {
	f := newFixture(t)
	task := f.createTask(t, dto.CreateTaskRequest{Title: "T"})

	comments := []model.Comment{{CommentID: taskrule.NewTempID(), Text: "first", Author: creatorID}}
	created, err := f.svc.Update(context.Background(), creatorID, task.TaskID, taskrule.Patch{
		Comments: &comments,
	})
	require.NoError(t, err)
	require.Len(t, created.Comments, 1)
	permanentID := created.Comments[0].CommentID
	require.False(t, taskrule.IsTempID(permanentID))
	createdAt := created.Comments[0].CreatedAt

	edited := []model.Comment{{CommentID: permanentID, Text: "edited", Author: creatorID}}
	resp, err := f.svc.Update(context.Background(), creatorID, task.TaskID, taskrule.Patch{
		Comments: &edited,
	})
	require.NoError(t, err)
	require.Len(t, resp.Comments, 1)
	assert.Equal(t, permanentID, resp.Comments[0].CommentID)
	assert.Equal(t, "edited", resp.Comments[0].Text)
	assert.Equal(t, createdAt, resp.Comments[0].CreatedAt, "creation timestamp carried over")
}

func TestSubtaskEndpointsNotFound(t *testing.T) {
	f := newFixture(t)
	task := f.createTask(t, dto.CreateTaskRequest{Title: "T"})

	ctx := context.Background()
	_, err := f.svc.UpdateSubtask(ctx, creatorID, task.TaskID, "missing", dto.UpdateSubtaskRequest{Completed: boolp(true)})
	assert.ErrorIs(t, err, store.ErrNotFound)
	_, err = f.svc.DeleteSubtask(ctx, creatorID, task.TaskID, "missing")
	assert.ErrorIs(t, err, store.ErrNotFound)
	_, err = f.svc.Get(ctx, creatorID, "missing-task")
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestDeleteSubtask(t *testing.T) {
	f := newFixture(t)
	task := f.createTask(t, dto.CreateTaskRequest{Title: "T"})

	resp, err := f.svc.AddSubtask(context.Background(), creatorID, task.TaskID, "A")
	require.NoError(t, err)
	subID := resp.Subtasks[0].SubtaskID

	after, err := f.svc.DeleteSubtask(context.Background(), creatorID, task.TaskID, subID)
	require.NoError(t, err)
	assert.Empty(t, after.Subtasks)
}

func TestListFilters(t *testing.T) {
	f := newFixture(t)
	f.createTask(t, dto.CreateTaskRequest{Title: "mine-high", Priority: model.PriorityHigh})
	f.createTask(t, dto.CreateTaskRequest{Title: "mine-low", Priority: model.PriorityLow})

	other, err := f.svc.Create(context.Background(), strangerID, dto.CreateTaskRequest{Title: "theirs"})
	require.NoError(t, err)

	listed, err := f.svc.List(context.Background(), creatorID, store.TaskFilter{Priority: model.PriorityHigh})
	require.NoError(t, err)
	require.Len(t, listed, 1)
	assert.Equal(t, "mine-high", listed[0].Title)

	all, err := f.svc.List(context.Background(), creatorID, store.TaskFilter{})
	require.NoError(t, err)
	for _, task := range all {
		assert.NotEqual(t, other.TaskID, task.TaskID, "other users' tasks never listed")
	}
}
