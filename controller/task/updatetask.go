package task

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"kanban/dto"
	"kanban/middleware"
	"kanban/services"
)

func UpdateTaskController(router *gin.Engine, svc *services.TaskService) {
	router.PUT("/tasks/:taskId", middleware.AccessTokenMiddleware(), func(c *gin.Context) {
		UpdateTask(c, svc)
	})
}

func UpdateTask(c *gin.Context, svc *services.TaskService) {
	userId := c.MustGet("userId").(string)

	var req dto.UpdateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.Fail("Invalid input"))
		return
	}

	task, err := svc.Update(c.Request.Context(), userId, c.Param("taskId"), req.ToPatch())
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.OK(task))
}
