package model

import "time"

type User struct {
	UserID    string    `firestore:"userid,omitempty" json:"userId"`
	Name      string    `firestore:"name,omitempty" json:"name"`
	Email     string    `firestore:"email,omitempty" json:"email"`
	Password  string    `firestore:"password,omitempty" json:"-"`
	Role      string    `firestore:"role,omitempty" json:"role"` // "user" or "admin"
	CreatedAt time.Time `firestore:"createdat,omitempty" json:"createdAt"`
}
