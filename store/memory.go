package store

import (
	"context"
	"sort"
	"sync"

	"kanban/model"
)

// MemoryTaskStore is an in-memory TaskStore with the same single-document
// atomicity as the Firestore store. Used by tests and local development.
type MemoryTaskStore struct {
	mu    sync.RWMutex
	tasks map[string]model.Tasks
}

func NewMemoryTaskStore() *MemoryTaskStore {
	return &MemoryTaskStore{tasks: make(map[string]model.Tasks)}
}

func (s *MemoryTaskStore) FindByID(_ context.Context, id string) (model.Tasks, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	task, ok := s.tasks[id]
	if !ok {
		return model.Tasks{}, ErrNotFound
	}
	return task.Clone(), nil
}

func (s *MemoryTaskStore) Find(_ context.Context, filter TaskFilter) ([]model.Tasks, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []model.Tasks
	for _, task := range s.tasks {
		if filter.Member != "" && task.CreatedBy != filter.Member && task.AssignedTo != filter.Member {
			continue
		}
		if filter.Status != "" && task.Status != filter.Status {
			continue
		}
		if filter.Priority != "" && task.Priority != filter.Priority {
			continue
		}
		if filter.AssignedTo != "" && task.AssignedTo != filter.AssignedTo {
			continue
		}
		out = append(out, task.Clone())
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].TaskID < out[j].TaskID
	})
	return out, nil
}

func (s *MemoryTaskStore) Insert(_ context.Context, task model.Tasks) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tasks[task.TaskID] = task.Clone()
	return nil
}

func (s *MemoryTaskStore) UpdateByID(_ context.Context, id string, task model.Tasks) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.tasks[id]; !ok {
		return ErrNotFound
	}
	s.tasks[id] = task.Clone()
	return nil
}

func (s *MemoryTaskStore) DeleteByID(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.tasks[id]; !ok {
		return ErrNotFound
	}
	delete(s.tasks, id)
	return nil
}

// MemoryUserStore is the in-memory UserStore counterpart.
type MemoryUserStore struct {
	mu    sync.RWMutex
	users map[string]model.User
}

func NewMemoryUserStore() *MemoryUserStore {
	return &MemoryUserStore{users: make(map[string]model.User)}
}

func (s *MemoryUserStore) FindByID(_ context.Context, id string) (model.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	user, ok := s.users[id]
	if !ok {
		return model.User{}, ErrNotFound
	}
	return user, nil
}

func (s *MemoryUserStore) FindByEmail(_ context.Context, email string) (model.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, user := range s.users {
		if user.Email == email {
			return user, nil
		}
	}
	return model.User{}, ErrNotFound
}

func (s *MemoryUserStore) Insert(_ context.Context, user model.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.users[user.UserID] = user
	return nil
}
