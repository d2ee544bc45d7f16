// Package store is the persistence boundary. Implementations are atomic at
// single-document granularity; concurrent writers to the same task resolve
// last-write-wins.
package store

import (
	"context"
	"errors"

	"kanban/model"
)

// ErrNotFound is returned when a document does not exist.
var ErrNotFound = errors.New("not found")

// TaskFilter narrows Find results. Member matches tasks the given user
// created or is assigned to; the remaining fields are exact matches when
// non-empty.
type TaskFilter struct {
	Member     string
	Status     string
	Priority   string
	AssignedTo string
}

type TaskStore interface {
	FindByID(ctx context.Context, id string) (model.Tasks, error)
	Find(ctx context.Context, filter TaskFilter) ([]model.Tasks, error)
	Insert(ctx context.Context, task model.Tasks) error
	// UpdateByID replaces the stored document in one atomic write.
	UpdateByID(ctx context.Context, id string, task model.Tasks) error
	DeleteByID(ctx context.Context, id string) error
}

type UserStore interface {
	FindByID(ctx context.Context, id string) (model.User, error)
	FindByEmail(ctx context.Context, email string) (model.User, error)
	Insert(ctx context.Context, user model.User) error
}
