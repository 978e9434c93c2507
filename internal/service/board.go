package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"taskflow/internal/model"
	"taskflow/internal/repository"
)

// BoardEngine owns the column-relative order invariant and the derived
// status transitions. It never coordinates writers: order is a rendering
// hint and two concurrent appends into one column may collide, which the
// read path resolves by the createdAt tie-break.
type BoardEngine struct {
	tasks TaskStore
}

func NewBoardEngine(tasks TaskStore) *BoardEngine {
	return &BoardEngine{tasks: tasks}
}

// NextOrder computes the append position for one (project, status) column:
// one past the current maximum, 0 for an empty column.
func (e *BoardEngine) NextOrder(ctx context.Context, projectID uuid.UUID, status model.TaskStatus) (int, error) {
	max, err := e.tasks.MaxOrder(ctx, projectID, status)
	if err != nil {
		return 0, err
	}
	return max + 1, nil
}

// TaskPatch carries a partial task update. nil fields are untouched; the
// Clear flags distinguish "set to null" from "leave alone".
type TaskPatch struct {
	Title         *string
	Description   *string
	Assignee      *uuid.UUID
	ClearAssignee bool
	Priority      *model.TaskPriority
	DueDate       *time.Time
	ClearDueDate  bool
	Labels        *[]string
	Status        *model.TaskStatus
	Order         *int
}

// StatusChange reports whether a patch actually moved the task between
// columns. A patch repeating the current status does not count.
type StatusChange struct {
	Changed  bool
	From, To model.TaskStatus
}

// ApplyPatch mutates the task in memory. When the status actually changes,
// completedAt is set on entering done (exactly once) and cleared on leaving
// it, so the derived field travels with the status in the same write.
func (e *BoardEngine) ApplyPatch(task *model.Task, patch TaskPatch, now time.Time) StatusChange {
	if patch.Title != nil {
		task.Title = *patch.Title
	}
	if patch.Description != nil {
		task.Description = *patch.Description
	}
	if patch.ClearAssignee {
		task.AssigneeID = nil
	} else if patch.Assignee != nil {
		task.AssigneeID = patch.Assignee
	}
	if patch.Priority != nil {
		task.Priority = *patch.Priority
	}
	if patch.ClearDueDate {
		task.DueDate = nil
	} else if patch.DueDate != nil {
		task.DueDate = patch.DueDate
	}
	if patch.Labels != nil {
		task.Labels = *patch.Labels
	}
	if patch.Order != nil {
		task.Order = *patch.Order
	}

	change := StatusChange{From: task.Status, To: task.Status}
	if patch.Status != nil && *patch.Status != task.Status {
		change.Changed = true
		change.To = *patch.Status
		task.Status = *patch.Status
		if task.Status == model.StatusDone {
			if task.CompletedAt == nil {
				completed := now
				task.CompletedAt = &completed
			}
		} else {
			task.CompletedAt = nil
		}
	}
	return change
}

// Reorder applies a drag-and-drop snapshot to one project's board. Each
// tuple is an independent point update; tuples referencing tasks from other
// projects are silent no-ops. Returns how many tuples matched a task.
func (e *BoardEngine) Reorder(ctx context.Context, projectID uuid.UUID, items []repository.ReorderItem) (int64, error) {
	if len(items) == 0 {
		return 0, invalid("reorder list cannot be empty")
	}
	for _, item := range items {
		if !item.Status.Valid() {
			return 0, invalid("invalid task status: " + string(item.Status))
		}
	}
	return e.tasks.BulkReorder(ctx, projectID, items)
}
