package task

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"kanban/dto"
	"kanban/middleware"
	"kanban/services"
	"kanban/store"
)

func ListTasksController(router *gin.Engine, svc *services.TaskService) {
	router.GET("/tasks", middleware.AccessTokenMiddleware(), func(c *gin.Context) {
		ListTasks(c, svc)
	})
}

func ListTasks(c *gin.Context, svc *services.TaskService) {
	userId := c.MustGet("userId").(string)

	filter := store.TaskFilter{
		Status:     c.Query("status"),
		Priority:   c.Query("priority"),
		AssignedTo: c.Query("assignedTo"),
	}

	tasks, err := svc.List(c.Request.Context(), userId, filter)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.OK(tasks))
}
