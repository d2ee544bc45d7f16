package task

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"kanban/dto"
	"kanban/services"
	"kanban/store"
	"kanban/taskrule"
)

// respondError maps service errors onto the response envelope. Invariant
// rejections carry their machine-readable code; authorization failures stay
// generic.
func respondError(c *gin.Context, err error) {
	var rejection *taskrule.Rejection
	var fieldErr *taskrule.FieldError
	switch {
	case errors.As(err, &rejection):
		c.JSON(http.StatusBadRequest, dto.FailCode(rejection.Message, rejection.Code))
	case errors.As(err, &fieldErr):
		c.JSON(http.StatusBadRequest, dto.Fail(fieldErr.Error()))
	case errors.Is(err, services.ErrForbidden):
		c.JSON(http.StatusForbidden, dto.Fail("not authorized"))
	case errors.Is(err, store.ErrNotFound):
		c.JSON(http.StatusNotFound, dto.Fail("not found"))
	default:
		c.JSON(http.StatusInternalServerError, dto.Fail("internal error"))
	}
}
