package services

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"kanban/dto"
	"kanban/model"
	"kanban/store"
	"kanban/taskrule"
)

// TaskService orchestrates every task mutation: authorization guard first,
// then the invariant validator, then one atomic write to the store.
type TaskService struct {
	tasks store.TaskStore
	users store.UserStore
	log   *slog.Logger
}

func NewTaskService(tasks store.TaskStore, users store.UserStore, log *slog.Logger) *TaskService {
	if log == nil {
		log = slog.Default()
	}
	return &TaskService{tasks: tasks, users: users, log: log}
}

// Create inserts a new task. The actor becomes the creator; assignee
// defaults to the actor, status to todo, priority to medium. Subtasks and
// comments start empty, so the completion invariant holds trivially.
func (s *TaskService) Create(ctx context.Context, actorID string, req dto.CreateTaskRequest) (dto.TaskResponse, error) {
	title := strings.TrimSpace(req.Title)
	if title == "" {
		return dto.TaskResponse{}, &taskrule.FieldError{Field: "title", Message: "title is required"}
	}

	now := time.Now()
	task := model.Tasks{
		TaskID:      uuid.New().String(),
		Title:       title,
		Description: strings.TrimSpace(req.Description),
		Status:      req.Status,
		Priority:    req.Priority,
		CreatedBy:   actorID,
		AssignedTo:  req.AssignedTo,
		DueDate:     req.DueDate,
		Tags:        req.Tags,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if task.Status == "" {
		task.Status = model.StatusTodo
	}
	if task.Priority == "" {
		task.Priority = model.PriorityMedium
	}
	if task.AssignedTo == "" {
		task.AssignedTo = actorID
	}

	if err := s.tasks.Insert(ctx, task); err != nil {
		return dto.TaskResponse{}, err
	}
	s.log.Info("task created", "taskId", task.TaskID, "actor", actorID)
	return s.hydrate(ctx, task), nil
}

// List returns the tasks the actor created or is assigned to, optionally
// narrowed by status, priority and assignee.
func (s *TaskService) List(ctx context.Context, actorID string, filter store.TaskFilter) ([]dto.TaskResponse, error) {
	filter.Member = actorID
	tasks, err := s.tasks.Find(ctx, filter)
	if err != nil {
		return nil, err
	}
	out := make([]dto.TaskResponse, 0, len(tasks))
	for _, task := range tasks {
		out = append(out, s.hydrate(ctx, task))
	}
	return out, nil
}

func (s *TaskService) Get(ctx context.Context, actorID, taskID string) (dto.TaskResponse, error) {
	task, err := s.tasks.FindByID(ctx, taskID)
	if err != nil {
		return dto.TaskResponse{}, err
	}
	if err := Authorize(actorID, task, ActionView); err != nil {
		return dto.TaskResponse{}, err
	}
	return s.hydrate(ctx, task), nil
}

// Update applies a partial update. The invariant validator runs against the
// persisted task, never a client-supplied copy, so a stale client cannot
// slip an illegal transition past it.
func (s *TaskService) Update(ctx context.Context, actorID, taskID string, patch taskrule.Patch) (dto.TaskResponse, error) {
	task, err := s.tasks.FindByID(ctx, taskID)
	if err != nil {
		return dto.TaskResponse{}, err
	}
	if err := Authorize(actorID, task, ActionEdit); err != nil {
		return dto.TaskResponse{}, err
	}

	patch, err = taskrule.ValidateTransition(task, patch)
	if err != nil {
		return dto.TaskResponse{}, err
	}

	now := time.Now()
	if patch.Subtasks != nil {
		merged := s.assignSubtaskIDs(task.Subtasks, *patch.Subtasks, now)
		patch.Subtasks = &merged
	}
	if patch.Comments != nil {
		merged := s.assignCommentIDs(task.Comments, *patch.Comments, now)
		patch.Comments = &merged
	}

	taskrule.Apply(&task, patch)
	task.UpdatedAt = now

	if err := s.tasks.UpdateByID(ctx, taskID, task); err != nil {
		return dto.TaskResponse{}, err
	}
	s.log.Info("task updated", "taskId", taskID, "actor", actorID, "status", task.Status)
	return s.hydrate(ctx, task), nil
}

// Delete removes the task and its embedded subtasks and comments in one
// store operation.
func (s *TaskService) Delete(ctx context.Context, actorID, taskID string) error {
	task, err := s.tasks.FindByID(ctx, taskID)
	if err != nil {
		return err
	}
	if err := Authorize(actorID, task, ActionDelete); err != nil {
		return err
	}
	if err := s.tasks.DeleteByID(ctx, taskID); err != nil {
		return err
	}
	s.log.Info("task deleted", "taskId", taskID, "actor", actorID)
	return nil
}

// AddSubtask appends one subtask and persists the whole task. Routed through
// the validator so a pending subtask cannot be attached to a done task.
func (s *TaskService) AddSubtask(ctx context.Context, actorID, taskID, title string) (dto.TaskResponse, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return dto.TaskResponse{}, &taskrule.FieldError{Field: "title", Message: "title is required"}
	}
	if len(title) > 200 {
		return dto.TaskResponse{}, &taskrule.FieldError{Field: "title", Message: "title must be at most 200 characters"}
	}

	task, err := s.tasks.FindByID(ctx, taskID)
	if err != nil {
		return dto.TaskResponse{}, err
	}
	if err := Authorize(actorID, task, ActionEdit); err != nil {
		return dto.TaskResponse{}, err
	}

	subtasks := append(append([]model.Subtask(nil), task.Subtasks...), model.Subtask{Title: title})
	return s.Update(ctx, actorID, taskID, taskrule.Patch{Subtasks: &subtasks})
}

// UpdateSubtask changes a single subtask located by identifier.
func (s *TaskService) UpdateSubtask(ctx context.Context, actorID, taskID, subtaskID string, req dto.UpdateSubtaskRequest) (dto.TaskResponse, error) {
	if req.Title != nil && strings.TrimSpace(*req.Title) == "" {
		return dto.TaskResponse{}, &taskrule.FieldError{Field: "title", Message: "title is required"}
	}

	task, err := s.tasks.FindByID(ctx, taskID)
	if err != nil {
		return dto.TaskResponse{}, err
	}
	if err := Authorize(actorID, task, ActionEdit); err != nil {
		return dto.TaskResponse{}, err
	}

	subtasks := append([]model.Subtask(nil), task.Subtasks...)
	found := false
	for i := range subtasks {
		if subtasks[i].SubtaskID != subtaskID {
			continue
		}
		found = true
		if req.Title != nil {
			subtasks[i].Title = *req.Title
		}
		if req.Completed != nil {
			subtasks[i].Completed = *req.Completed
		}
	}
	if !found {
		return dto.TaskResponse{}, store.ErrNotFound
	}
	return s.Update(ctx, actorID, taskID, taskrule.Patch{Subtasks: &subtasks})
}

// DeleteSubtask removes a single subtask located by identifier.
func (s *TaskService) DeleteSubtask(ctx context.Context, actorID, taskID, subtaskID string) (dto.TaskResponse, error) {
	task, err := s.tasks.FindByID(ctx, taskID)
	if err != nil {
		return dto.TaskResponse{}, err
	}
	if err := Authorize(actorID, task, ActionEdit); err != nil {
		return dto.TaskResponse{}, err
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
		return dto.TaskResponse{}, store.ErrNotFound
	}
	return s.Update(ctx, actorID, taskID, taskrule.Patch{Subtasks: &subtasks})
}

// assignSubtaskIDs gives store identity to sanitized entries without one and
// carries creation timestamps over from the persisted list for entries that
// already exist.
func (s *TaskService) assignSubtaskIDs(persisted, incoming []model.Subtask, now time.Time) []model.Subtask {
	prev := make(map[string]model.Subtask, len(persisted))
	for _, sub := range persisted {
		prev[sub.SubtaskID] = sub
	}
	out := make([]model.Subtask, 0, len(incoming))
	for _, sub := range incoming {
		if sub.SubtaskID == "" {
			sub.SubtaskID = uuid.New().String()
			sub.CreatedAt = now
		} else if old, ok := prev[sub.SubtaskID]; ok {
			sub.CreatedAt = old.CreatedAt
		}
		sub.UpdatedAt = now
		out = append(out, sub)
	}
	return out
}

func (s *TaskService) assignCommentIDs(persisted, incoming []model.Comment, now time.Time) []model.Comment {
	prev := make(map[string]model.Comment, len(persisted))
	for _, c := range persisted {
		prev[c.CommentID] = c
	}
	out := make([]model.Comment, 0, len(incoming))
	for _, c := range incoming {
		if c.CommentID == "" {
			c.CommentID = uuid.New().String()
			c.CreatedAt = now
		} else if old, ok := prev[c.CommentID]; ok {
			c.CreatedAt = old.CreatedAt
		}
		c.UpdatedAt = now
		out = append(out, c)
	}
	return out
}

// hydrate resolves user references and derives progress. A missing user is
// tolerated; the reference is simply left unresolved.
func (s *TaskService) hydrate(ctx context.Context, task model.Tasks) dto.TaskResponse {
	resp := dto.TaskResponse{Tasks: task, SubtaskProgress: task.Progress()}
	if creator, err := s.users.FindByID(ctx, task.CreatedBy); err == nil {
		resp.Creator = &dto.UserRef{UserID: creator.UserID, Name: creator.Name, Email: creator.Email}
	}
	if task.AssignedTo != "" {
		if assignee, err := s.users.FindByID(ctx, task.AssignedTo); err == nil {
			resp.Assignee = &dto.UserRef{UserID: assignee.UserID, Name: assignee.Name, Email: assignee.Email}
		}
	}
	return resp
}
