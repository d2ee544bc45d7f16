package client

import (
	"sort"
	"sync"

	"kanban/dto"
)

// TaskCache holds the authenticated user's visible tasks. It is the source
// of truth for rendering; the coordinator mutates it optimistically and
// reconciles it against server responses.
type TaskCache struct {
	mu    sync.RWMutex
	owner string
	tasks map[string]dto.TaskResponse
}

func NewTaskCache() *TaskCache {
	return &TaskCache{tasks: make(map[string]dto.TaskResponse)}
}

// SetOwner binds the cache to an authenticated user. Changing identity
// clears every cached task before anything is fetched for the new user.
func (c *TaskCache) SetOwner(userID string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.owner != userID {
		c.tasks = make(map[string]dto.TaskResponse)
	}
	c.owner = userID
}

func (c *TaskCache) Owner() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.owner
}

// Get returns a deep copy; callers may mutate it freely.
func (c *TaskCache) Get(taskID string) (dto.TaskResponse, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	task, ok := c.tasks[taskID]
	if !ok {
		return dto.TaskResponse{}, false
	}
	return copyTask(task), true
}

// List returns all cached tasks, newest first.
func (c *TaskCache) List() []dto.TaskResponse {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]dto.TaskResponse, 0, len(c.tasks))
	for _, task := range c.tasks {
		out = append(out, copyTask(task))
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].TaskID < out[j].TaskID
	})
	return out
}

func (c *TaskCache) Put(task dto.TaskResponse) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.tasks[task.TaskID] = copyTask(task)
}

func (c *TaskCache) Remove(taskID string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.tasks, taskID)
}

// Replace swaps the full cache contents for the server's list.
func (c *TaskCache) Replace(tasks []dto.TaskResponse) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.tasks = make(map[string]dto.TaskResponse, len(tasks))
	for _, task := range tasks {
		c.tasks[task.TaskID] = copyTask(task)
	}
}

func (c *TaskCache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.tasks = make(map[string]dto.TaskResponse)
}

func copyTask(task dto.TaskResponse) dto.TaskResponse {
	out := task
	out.Tasks = task.Tasks.Clone()
	if task.Creator != nil {
		creator := *task.Creator
		out.Creator = &creator
	}
	if task.Assignee != nil {
		assignee := *task.Assignee
		out.Assignee = &assignee
	}
	return out
}
