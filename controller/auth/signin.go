package auth

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"kanban/dto"
	"kanban/services"
	"kanban/store"
)

func SignInController(router *gin.Engine, users store.UserStore) {
	router.POST("/auth/signin", func(c *gin.Context) {
		Signin(c, users)
	})
}

func Signin(c *gin.Context, users store.UserStore) {
	var request dto.SigninRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, dto.Fail("Email and password are required"))
		return
	}

	user, err := services.VerifyCredentials(c.Request.Context(), users, request.Email, request.Password)
	if err != nil {
		c.JSON(http.StatusUnauthorized, dto.Fail("Invalid email or password"))
		return
	}

	accessToken, err := services.CreateAccessToken(user.UserID, user.Role)
	if err != nil {
		c.JSON(http.StatusInternalServerError, dto.Fail("Failed to create access token"))
		return
	}

	refreshToken, err := services.CreateRefreshToken(user.UserID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, dto.Fail("Failed to create refresh token"))
		return
	}

	c.JSON(http.StatusOK, dto.Envelope{
		Success: true,
		Message: "Login Successfully",
		Data: dto.TokenPair{
			AccessToken:  accessToken,
			RefreshToken: refreshToken,
		},
	})
}
