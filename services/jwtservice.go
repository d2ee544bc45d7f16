package services

import (
	"os"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"kanban/model"
)

func CreateAccessToken(userID string, role string) (string, error) {
	secret := []byte(os.Getenv("JWT_SECRET_KEY"))
	claims := &model.AccessClaims{
		UserID: userID,
		Role:   role,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    "kanban",
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(60 * time.Minute)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(secret)
}

func CreateRefreshToken(userID string) (string, error) {
	secret := []byte(os.Getenv("JWT_REFRESH_SECRET_KEY"))
	claims := &model.RefreshClaims{
		UserID: userID,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    "kanban",
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(7 * 24 * time.Hour)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(secret)
}
