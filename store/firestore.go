package store

import (
	"context"
	"sort"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"kanban/model"
)

const (
	taskCollection = "Tasks"
	userCollection = "Users"
)

// FirestoreTaskStore persists task aggregates as single Firestore documents.
type FirestoreTaskStore struct {
	client *firestore.Client
}

func NewFirestoreTaskStore(client *firestore.Client) *FirestoreTaskStore {
	return &FirestoreTaskStore{client: client}
}

func (s *FirestoreTaskStore) FindByID(ctx context.Context, id string) (model.Tasks, error) {
	snap, err := s.client.Collection(taskCollection).Doc(id).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return model.Tasks{}, ErrNotFound
		}
		return model.Tasks{}, err
	}
	var task model.Tasks
	if err := snap.DataTo(&task); err != nil {
		return model.Tasks{}, err
	}
	return task, nil
}

// Find runs one query per membership field (creator, assignee) and merges
// the results; Firestore cannot express the OR in a single chained query.
func (s *FirestoreTaskStore) Find(ctx context.Context, filter TaskFilter) ([]model.Tasks, error) {
	seen := make(map[string]bool)
	var tasks []model.Tasks

	for _, field := range []string{"createdby", "assignedto"} {
		query := s.client.Collection(taskCollection).Query
		if filter.Member != "" {
			query = query.Where(field, "==", filter.Member)
		}
		if filter.Status != "" {
			query = query.Where("status", "==", filter.Status)
		}
		if filter.Priority != "" {
			query = query.Where("priority", "==", filter.Priority)
		}
		if filter.AssignedTo != "" {
			query = query.Where("assignedto", "==", filter.AssignedTo)
		}

		iter := query.Documents(ctx)
		for {
			doc, err := iter.Next()
			if err == iterator.Done {
				break
			}
			if err != nil {
				return nil, err
			}
			var task model.Tasks
			if err := doc.DataTo(&task); err != nil {
				return nil, err
			}
			if seen[task.TaskID] {
				continue
			}
			seen[task.TaskID] = true
			tasks = append(tasks, task)
		}

		if filter.Member == "" {
			// Without a member constraint both passes run the same query.
			break
		}
	}

	sort.Slice(tasks, func(i, j int) bool {
		if !tasks[i].CreatedAt.Equal(tasks[j].CreatedAt) {
			return tasks[i].CreatedAt.After(tasks[j].CreatedAt)
		}
		return tasks[i].TaskID < tasks[j].TaskID
	})
	return tasks, nil
}

func (s *FirestoreTaskStore) Insert(ctx context.Context, task model.Tasks) error {
	_, err := s.client.Collection(taskCollection).Doc(task.TaskID).Set(ctx, task)
	return err
}

func (s *FirestoreTaskStore) UpdateByID(ctx context.Context, id string, task model.Tasks) error {
	_, err := s.client.Collection(taskCollection).Doc(id).Set(ctx, task)
	return err
}

func (s *FirestoreTaskStore) DeleteByID(ctx context.Context, id string) error {
	_, err := s.client.Collection(taskCollection).Doc(id).Delete(ctx)
	return err
}

// FirestoreUserStore persists user accounts.
type FirestoreUserStore struct {
	client *firestore.Client
}

func NewFirestoreUserStore(client *firestore.Client) *FirestoreUserStore {
	return &FirestoreUserStore{client: client}
}

func (s *FirestoreUserStore) FindByID(ctx context.Context, id string) (model.User, error) {
	snap, err := s.client.Collection(userCollection).Doc(id).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return model.User{}, ErrNotFound
		}
		return model.User{}, err
	}
	var user model.User
	if err := snap.DataTo(&user); err != nil {
		return model.User{}, err
	}
	return user, nil
}

func (s *FirestoreUserStore) FindByEmail(ctx context.Context, email string) (model.User, error) {
	docs, err := s.client.Collection(userCollection).
		Where("email", "==", email).Limit(1).Documents(ctx).GetAll()
	if err != nil {
		return model.User{}, err
	}
	if len(docs) == 0 {
		return model.User{}, ErrNotFound
	}
	var user model.User
	if err := docs[0].DataTo(&user); err != nil {
		return model.User{}, err
	}
	return user, nil
}

func (s *FirestoreUserStore) Insert(ctx context.Context, user model.User) error {
	_, err := s.client.Collection(userCollection).Doc(user.UserID).Set(ctx, user)
	return err
}
