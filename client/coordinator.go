package client

import (
	"context"
	"log/slog"
	"sync/atomic"

	"kanban/dto"
	"kanban/model"
	"kanban/taskrule"
)

// Coordinator applies mutations to the cache optimistically, issues the
// matching server request and reconciles: the server's hydrated task wins on
// success, the pre-mutation snapshot is restored on failure. Each in-flight
// mutation carries its own snapshot, so failures are isolated per task.
type Coordinator struct {
	api   API
	cache *TaskCache
	log   *slog.Logger
	stale atomic.Bool
}

func NewCoordinator(api API, cache *TaskCache, log *slog.Logger) *Coordinator {
	if log == nil {
		log = slog.Default()
	}
	return &Coordinator{api: api, cache: cache, log: log}
}

func (c *Coordinator) Cache() *TaskCache { return c.cache }

// Stale reports whether a failed reconciling refetch left the cache possibly
// behind the server. The UI should call Refresh when convenient.
func (c *Coordinator) Stale() bool { return c.stale.Load() }

// Login binds the cache to a new identity (clearing it if the identity
// changed) and loads that user's tasks.
func (c *Coordinator) Login(ctx context.Context, userID string) error {
	c.cache.SetOwner(userID)
	return c.Refresh(ctx)
}

// Logout clears the cache so no task leaks into the next session.
func (c *Coordinator) Logout() {
	c.cache.SetOwner("")
}

// Refresh replaces the cache wholesale with the server's task list.
func (c *Coordinator) Refresh(ctx context.Context) error {
	tasks, err := c.api.ListTasks(ctx, Query{})
	if err != nil {
		c.stale.Store(true)
		return err
	}
	c.cache.Replace(tasks)
	c.stale.Store(false)
	return nil
}

// CreateTask has no optimistic step: the task only appears once the server
// has assigned its identity.
func (c *Coordinator) CreateTask(ctx context.Context, req dto.CreateTaskRequest) (dto.TaskResponse, error) {
	task, err := c.api.CreateTask(ctx, req)
	if err != nil {
		return dto.TaskResponse{}, err
	}
	c.cache.Put(task)
	return task, nil
}

// MoveTask sets the task's board column. The cached task is checked against
// the transition rules first; an illegal move surfaces immediately without
// touching the cache or the network.
func (c *Coordinator) MoveTask(ctx context.Context, taskID, status string) error {
	return c.UpdateTask(ctx, taskID, dto.UpdateTaskRequest{Status: &status})
}

// UpdateTask runs the optimistic protocol for a general patch:
// pre-flight check, optimistic cache write, server call, reconcile.
func (c *Coordinator) UpdateTask(ctx context.Context, taskID string, req dto.UpdateTaskRequest) error {
	snapshot, ok := c.cache.Get(taskID)
	if !ok {
		return ErrNotFound
	}

	if _, err := taskrule.ValidateTransition(snapshot.Tasks, req.ToPatch()); err != nil {
		// Short-circuit: cache untouched, server never called.
		return err
	}

	// The unsanitized patch is applied locally so optimistic entries keep
	// their temporary identifiers until the server's list replaces them.
	optimistic := snapshot
	optimistic.Tasks = snapshot.Tasks.Clone()
	taskrule.Apply(&optimistic.Tasks, req.ToPatch())
	optimistic.SubtaskProgress = optimistic.Tasks.Progress()
	c.cache.Put(optimistic)

	authoritative, err := c.api.UpdateTask(ctx, taskID, req)
	if err != nil {
		c.cache.Put(snapshot)
		c.log.Warn("task update failed, rolled back", "taskId", taskID, "error", err)
		c.reconcile(ctx)
		return err
	}

	// The server's hydrated version wins over the optimistic guess. This is
	// also what swaps temporary identifiers for permanent ones.
	c.cache.Put(authoritative)
	return nil
}

// DeleteTask removes the task optimistically and restores it on failure.
func (c *Coordinator) DeleteTask(ctx context.Context, taskID string) error {
	snapshot, ok := c.cache.Get(taskID)
	if !ok {
		return ErrNotFound
	}
	c.cache.Remove(taskID)

	if err := c.api.DeleteTask(ctx, taskID); err != nil {
		c.cache.Put(snapshot)
		c.log.Warn("task delete failed, rolled back", "taskId", taskID, "error", err)
		c.reconcile(ctx)
		return err
	}
	return nil
}

// AddSubtask appends an optimistic entry under a temporary identifier and
// resends the whole subtask list; the server strips the placeholder and the
// returned list carries the permanent identifier.
func (c *Coordinator) AddSubtask(ctx context.Context, taskID, title string) error {
	task, ok := c.cache.Get(taskID)
	if !ok {
		return ErrNotFound
	}
	subtasks := append(task.Subtasks, model.Subtask{
		SubtaskID: taskrule.NewTempID(),
		Title:     title,
	})
	return c.UpdateTask(ctx, taskID, dto.UpdateTaskRequest{Subtasks: subtaskPayloads(subtasks)})
}

// SetSubtaskCompleted toggles one subtask, resending the full list.
func (c *Coordinator) SetSubtaskCompleted(ctx context.Context, taskID, subtaskID string, completed bool) error {
	task, ok := c.cache.Get(taskID)
	if !ok {
		return ErrNotFound
	}
	found := false
	for i := range task.Subtasks {
		if task.Subtasks[i].SubtaskID == subtaskID {
			task.Subtasks[i].Completed = completed
			found = true
		}
	}
	if !found {
		return ErrNotFound
	}
	return c.UpdateTask(ctx, taskID, dto.UpdateTaskRequest{Subtasks: subtaskPayloads(task.Subtasks)})
}

// RemoveSubtask drops one subtask, resending the full list.
func (c *Coordinator) RemoveSubtask(ctx context.Context, taskID, subtaskID string) error {
	task, ok := c.cache.Get(taskID)
	if !ok {
		return ErrNotFound
	}
	subtasks := make([]model.Subtask, 0, len(task.Subtasks))
	found := false
	for _, sub := range task.Subtasks {
		if sub.SubtaskID == subtaskID {
			found = true
			continue
		}
		subtasks = append(subtasks, sub)
	}
	if !found {
		return ErrNotFound
	}
	return c.UpdateTask(ctx, taskID, dto.UpdateTaskRequest{Subtasks: subtaskPayloads(subtasks)})
}

// AddComment appends an optimistic comment authored by the cache owner.
func (c *Coordinator) AddComment(ctx context.Context, taskID, text string) error {
	task, ok := c.cache.Get(taskID)
	if !ok {
		return ErrNotFound
	}
	comments := append(task.Comments, model.Comment{
		CommentID: taskrule.NewTempID(),
		Text:      text,
		Author:    c.cache.Owner(),
	})
	return c.UpdateTask(ctx, taskID, dto.UpdateTaskRequest{Comments: commentPayloads(comments)})
}

// EditComment rewrites one existing comment in place, resending the full
// list. The real identifier is preserved so the server edits rather than
// recreates it.
func (c *Coordinator) EditComment(ctx context.Context, taskID, commentID, text string) error {
	task, ok := c.cache.Get(taskID)
	if !ok {
		return ErrNotFound
	}
	found := false
	for i := range task.Comments {
		if task.Comments[i].CommentID == commentID {
			task.Comments[i].Text = text
			found = true
		}
	}
	if !found {
		return ErrNotFound
	}
	return c.UpdateTask(ctx, taskID, dto.UpdateTaskRequest{Comments: commentPayloads(task.Comments)})
}

// reconcile runs one best-effort refetch after a failed mutation so the
// cache converges with any out-of-band change; if the refetch itself fails
// the cache is marked stale for a later Refresh.
func (c *Coordinator) reconcile(ctx context.Context) {
	if err := c.Refresh(ctx); err != nil {
		c.log.Warn("cache refresh failed, marked stale", "error", err)
	}
}

func subtaskPayloads(subtasks []model.Subtask) *[]dto.SubtaskPayload {
	out := make([]dto.SubtaskPayload, 0, len(subtasks))
	for _, s := range subtasks {
		out = append(out, dto.SubtaskPayload{SubtaskID: s.SubtaskID, Title: s.Title, Completed: s.Completed})
	}
	return &out
}

func commentPayloads(comments []model.Comment) *[]dto.CommentPayload {
	out := make([]dto.CommentPayload, 0, len(comments))
	for _, cm := range comments {
		out = append(out, dto.CommentPayload{CommentID: cm.CommentID, Text: cm.Text, Author: cm.Author})
	}
	return &out
}
