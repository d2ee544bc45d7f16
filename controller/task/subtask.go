package task

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"kanban/dto"
	"kanban/middleware"
	"kanban/services"
)

func SubtaskController(router *gin.Engine, svc *services.TaskService) {
	routes := router.Group("/tasks/:taskId/subtasks", middleware.AccessTokenMiddleware())
	{
		routes.POST("", func(c *gin.Context) {
			AddSubtask(c, svc)
		})
		routes.PUT("/:subtaskId", func(c *gin.Context) {
			UpdateSubtask(c, svc)
		})
		routes.DELETE("/:subtaskId", func(c *gin.Context) {
			DeleteSubtask(c, svc)
		})
	}
}

func AddSubtask(c *gin.Context, svc *services.TaskService) {
	userId := c.MustGet("userId").(string)

	var req dto.AddSubtaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.Fail("Invalid input"))
		return
	}

	task, err := svc.AddSubtask(c.Request.Context(), userId, c.Param("taskId"), req.Title)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.OK(task))
}

func UpdateSubtask(c *gin.Context, svc *services.TaskService) {
	userId := c.MustGet("userId").(string)

	var req dto.UpdateSubtaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.Fail("Invalid input"))
		return
	}

	task, err := svc.UpdateSubtask(c.Request.Context(), userId, c.Param("taskId"), c.Param("subtaskId"), req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.OK(task))
}

func DeleteSubtask(c *gin.Context, svc *services.TaskService) {
	userId := c.MustGet("userId").(string)

	task, err := svc.DeleteSubtask(c.Request.Context(), userId, c.Param("taskId"), c.Param("subtaskId"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.OK(task))
}
