package dto

import (
	"time"

	"kanban/model"
	"kanban/taskrule"
)

type CreateTaskRequest struct {
	Title       string     `json:"title" binding:"required,max=200"`
	Description string     `json:"description" binding:"omitempty,max=1000"`
	Status      string     `json:"status" binding:"omitempty,oneof=todo in-progress done"`
	Priority    string     `json:"priority" binding:"omitempty,oneof=low medium high"`
	AssignedTo  string     `json:"assignedTo"`
	DueDate     *time.Time `json:"dueDate"`
	Tags        []string   `json:"tags" binding:"omitempty,dive,max=30"`
}

// SubtaskPayload is a client-supplied subtask entry. SubtaskID may carry a
// temporary identifier for entries the store has not assigned yet.
type SubtaskPayload struct {
	SubtaskID string `json:"subtaskId"`
	Title     string `json:"title"`
	Completed bool   `json:"completed"`
}

type CommentPayload struct {
	CommentID string `json:"commentId"`
	Text      string `json:"text"`
	Author    string `json:"author"`
}

// UpdateTaskRequest is a partial update. Nil fields are left unchanged; a
// present subtasks or comments array replaces the whole nested collection.
type UpdateTaskRequest struct {
	Title       *string           `json:"title"`
	Description *string           `json:"description"`
	Status      *string           `json:"status"`
	Priority    *string           `json:"priority"`
	AssignedTo  *string           `json:"assignedTo"`
	DueDate     *time.Time        `json:"dueDate"`
	Tags        *[]string         `json:"tags"`
	Subtasks    *[]SubtaskPayload `json:"subtasks"`
	Comments    *[]CommentPayload `json:"comments"`
}

func (r UpdateTaskRequest) ToPatch() taskrule.Patch {
	patch := taskrule.Patch{
		Title:       r.Title,
		Description: r.Description,
		Status:      r.Status,
		Priority:    r.Priority,
		AssignedTo:  r.AssignedTo,
		DueDate:     r.DueDate,
		Tags:        r.Tags,
	}
	if r.Subtasks != nil {
		subtasks := make([]model.Subtask, 0, len(*r.Subtasks))
		for _, s := range *r.Subtasks {
			subtasks = append(subtasks, model.Subtask{
				SubtaskID: s.SubtaskID,
				Title:     s.Title,
				Completed: s.Completed,
			})
		}
		patch.Subtasks = &subtasks
	}
	if r.Comments != nil {
		comments := make([]model.Comment, 0, len(*r.Comments))
		for _, c := range *r.Comments {
			comments = append(comments, model.Comment{
				CommentID: c.CommentID,
				Text:      c.Text,
				Author:    c.Author,
			})
		}
		patch.Comments = &comments
	}
	return patch
}

type AddSubtaskRequest struct {
	Title string `json:"title" binding:"required,max=200"`
}

type UpdateSubtaskRequest struct {
	Title     *string `json:"title" binding:"omitempty,max=200"`
	Completed *bool   `json:"completed"`
}

// UserRef is the hydrated form of a user reference on a task.
type UserRef struct {
	UserID string `json:"userId"`
	Name   string `json:"name"`
	Email  string `json:"email"`
}

// TaskResponse is the task aggregate as served to clients: the entity plus
// resolved user references and derived subtask progress.
type TaskResponse struct {
	model.Tasks
	Creator         *UserRef              `json:"creator,omitempty"`
	Assignee        *UserRef              `json:"assignee,omitempty"`
	SubtaskProgress model.SubtaskProgress `json:"subtaskProgress"`
}
