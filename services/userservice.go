package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"kanban/model"
	"kanban/store"
)

// ErrEmailTaken is returned when registering an email that already exists.
var ErrEmailTaken = errors.New("email is already registered")

// RegisterUser hashes the password and inserts a new account after checking
// email uniqueness.
func RegisterUser(ctx context.Context, users store.UserStore, name, email, password string) (model.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if _, err := users.FindByEmail(ctx, email); err == nil {
		return model.User{}, ErrEmailTaken
	} else if !errors.Is(err, store.ErrNotFound) {
		return model.User{}, err
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return model.User{}, err
	}

	user := model.User{
		UserID:    uuid.New().String(),
		Name:      strings.TrimSpace(name),
		Email:     email,
		Password:  string(hashed),
		Role:      "user",
		CreatedAt: time.Now(),
	}
	if err := users.Insert(ctx, user); err != nil {
		return model.User{}, err
	}
	return user, nil
}

// VerifyCredentials looks up the account by email and checks the password.
// Both failure modes return store.ErrNotFound so a caller cannot distinguish
// an unknown email from a wrong password.
func VerifyCredentials(ctx context.Context, users store.UserStore, email, password string) (model.User, error) {
	user, err := users.FindByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		return model.User{}, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return model.User{}, store.ErrNotFound
	}
	return user, nil
}
