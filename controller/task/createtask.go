package task

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"kanban/dto"
	"kanban/middleware"
	"kanban/services"
)

func CreateTaskController(router *gin.Engine, svc *services.TaskService) {
	router.POST("/tasks", middleware.AccessTokenMiddleware(), func(c *gin.Context) {
		CreateTask(c, svc)
	})
}

func CreateTask(c *gin.Context, svc *services.TaskService) {
	userId := c.MustGet("userId").(string)

	var req dto.CreateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.Fail("Invalid input"))
		return
	}

	task, err := svc.Create(c.Request.Context(), userId, req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.OK(task))
}
