package task

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"kanban/dto"
	"kanban/middleware"
	"kanban/services"
)

func GetTaskController(router *gin.Engine, svc *services.TaskService) {
	router.GET("/tasks/:taskId", middleware.AccessTokenMiddleware(), func(c *gin.Context) {
		GetTask(c, svc)
	})
}

func GetTask(c *gin.Context, svc *services.TaskService) {
	userId := c.MustGet("userId").(string)

	task, err := svc.Get(c.Request.Context(), userId, c.Param("taskId"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.OK(task))
}
