package user

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"kanban/dto"
	"kanban/middleware"
	"kanban/store"
)

func UserController(router *gin.Engine, users store.UserStore) {
	routes := router.Group("/user", middleware.AccessTokenMiddleware())
	{
		routes.GET("/profile", func(c *gin.Context) {
			Profile(c, users)
		})
	}
}

func Profile(c *gin.Context, users store.UserStore) {
	userId := c.MustGet("userId").(string)

	user, err := users.FindByID(c.Request.Context(), userId)
	if err != nil {
		c.JSON(http.StatusNotFound, dto.Fail("User not found"))
		return
	}

	c.JSON(http.StatusOK, dto.OK(dto.UserResponse{
		UserID:    user.UserID,
		Name:      user.Name,
		Email:     user.Email,
		Role:      user.Role,
		CreatedAt: user.CreatedAt.Format(time.RFC3339),
	}))
}
