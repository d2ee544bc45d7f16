package services

import (
	"errors"

	"kanban/model"
)

// ErrForbidden is returned on any denied action. It deliberately carries no
// detail: a denied actor learns nothing about the task or why a mutation
// would have been rejected.
var ErrForbidden = errors.New("not authorized")

type Action string

const (
	ActionView   Action = "view"
	ActionEdit   Action = "edit"
	ActionDelete Action = "delete"
)

// Authorize decides whether actorID may perform action on task. View and
// edit require the actor to be creator or assignee; delete is creator only.
// It runs before any invariant check on every mutation.
func Authorize(actorID string, task model.Tasks, action Action) error {
	switch action {
	case ActionView, ActionEdit:
		if actorID == task.CreatedBy {
			return nil
		}
		if task.AssignedTo != "" && actorID == task.AssignedTo {
			return nil
		}
	case ActionDelete:
		if actorID == task.CreatedBy {
			return nil
		}
	}
	return ErrForbidden
}
