package task

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"kanban/dto"
	"kanban/middleware"
	"kanban/services"
)

func DeleteTaskController(router *gin.Engine, svc *services.TaskService) {
	router.DELETE("/tasks/:taskId", middleware.AccessTokenMiddleware(), func(c *gin.Context) {
		DeleteTask(c, svc)
	})
}

func DeleteTask(c *gin.Context, svc *services.TaskService) {
	userId := c.MustGet("userId").(string)

	if err := svc.Delete(c.Request.Context(), userId, c.Param("taskId")); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.Envelope{Success: true, Message: "Task deleted successfully"})
}
