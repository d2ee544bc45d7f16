package client

import (
	"context"

	"kanban/model"
)

// DropTarget is where a dragged card was released: a column (set that
// column's status) or another card (adopt that card's status). Exactly one
// field is set.
type DropTarget struct {
	Column string
	TaskID string
}

// DragController translates drop gestures into MoveTask calls. Its only
// state is the transient dragged-card pointer used for rendering a drag
// preview; that pointer is cleared unconditionally at drop.
type DragController struct {
	coord    *Coordinator
	dragging string
}

func NewDragController(coord *Coordinator) *DragController {
	return &DragController{coord: coord}
}

func (d *DragController) StartDrag(taskID string) {
	d.dragging = taskID
}

// Dragging returns the task currently being dragged, if any.
func (d *DragController) Dragging() string {
	return d.dragging
}

func (d *DragController) Cancel() {
	d.dragging = ""
}

// Drop resolves the target status and moves the dragged task there. No-op
// when nothing is dragged, the target resolves to the source's own status,
// or a card is dropped onto itself.
func (d *DragController) Drop(ctx context.Context, target DropTarget) error {
	taskID := d.dragging
	d.dragging = ""
	if taskID == "" {
		return nil
	}

	source, ok := d.coord.Cache().Get(taskID)
	if !ok {
		return nil
	}

	status := target.Column
	if status == "" {
		if target.TaskID == taskID {
			return nil
		}
		targetTask, ok := d.coord.Cache().Get(target.TaskID)
		if !ok {
			return nil
		}
		status = targetTask.Status
	}
	if !model.ValidStatus(status) || status == source.Status {
		return nil
	}

	return d.coord.MoveTask(ctx, taskID, status)
}
