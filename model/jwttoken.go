package model

import "github.com/golang-jwt/jwt/v5"

type AccessClaims struct {
	UserID string `json:"userId"`
	Role   string `json:"role,omitempty"`
	jwt.RegisteredClaims
}

type RefreshClaims struct {
	UserID string `json:"userId"`
	jwt.RegisteredClaims
}
