package auth

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"kanban/dto"
	"kanban/services"
	"kanban/store"
)

func SignUpController(router *gin.Engine, users store.UserStore) {
	router.POST("/auth/signup", func(c *gin.Context) {
		Signup(c, users)
	})
}

func Signup(c *gin.Context, users store.UserStore) {
	var request dto.SignupRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, dto.Fail(err.Error()))
		return
	}

	user, err := services.RegisterUser(c.Request.Context(), users, request.Name, request.Email, request.Password)
	if err != nil {
		if errors.Is(err, services.ErrEmailTaken) {
			c.JSON(http.StatusBadRequest, dto.Fail("Email is already registered"))
			return
		}
		c.JSON(http.StatusInternalServerError, dto.Fail("Failed to create user"))
		return
	}

	c.JSON(http.StatusCreated, dto.Envelope{
		Success: true,
		Message: "User registered successfully",
		Data:    gin.H{"userId": user.UserID},
	})
}
