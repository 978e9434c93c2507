package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/hashicorp/go-multierror"
	"gorm.io/gorm"

	"taskflow/internal/model"
)

type TaskRepository struct {
	db *gorm.DB
}

func NewTaskRepository(db *gorm.DB) *TaskRepository {
	return &TaskRepository{db: db}
}

// TaskFilter narrows and paginates a project's task listing.
type TaskFilter struct {
	Status   model.TaskStatus
	Priority model.TaskPriority
	Assignee *uuid.UUID
	Search   string
	Sort     string
	Page     int
	Limit    int
}

// ReorderItem is one point update of a bulk drag-and-drop submission.
type ReorderItem struct {
	TaskID uuid.UUID
	Status model.TaskStatus
	Order  int
}

// Create adds a new task to the database
func (r *TaskRepository) Create(ctx context.Context, task *model.Task) error {
	return r.db.WithContext(ctx).Create(task).Error
}

// GetByID retrieves a task by its ID
func (r *TaskRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Task, error) {
	var task model.Task
	result := r.db.WithContext(ctx).First(&task, "id = ?", id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, result.Error
	}
	return &task, nil
}

// GetByProjectAndID retrieves a task scoped to its project. A task id that
// exists under a different project is reported as not found.
func (r *TaskRepository) GetByProjectAndID(ctx context.Context, projectID, taskID uuid.UUID) (*model.Task, error) {
	var task model.Task
	result := r.db.WithContext(ctx).
		Preload("Attachments").
		First(&task, "id = ? AND project_id = ?", taskID, projectID)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, result.Error
	}
	return &task, nil
}

var taskSortMap = map[string]string{
	"order":      `"order" ASC, created_at ASC`,
	"createdAt":  "created_at ASC",
	"-createdAt": "created_at DESC",
	"dueDate":    "due_date ASC",
	"priority":   "priority DESC",
}

// ListByProject retrieves a page of tasks plus the total match count
func (r *TaskRepository) ListByProject(ctx context.Context, projectID uuid.UUID, filter TaskFilter) ([]model.Task, int64, error) {
	q := r.db.WithContext(ctx).Model(&model.Task{}).Where("project_id = ?", projectID)
	if filter.Status != "" {
		q = q.Where("status = ?", filter.Status)
	}
	if filter.Priority != "" {
		q = q.Where("priority = ?", filter.Priority)
	}
	if filter.Assignee != nil {
		q = q.Where("assignee_id = ?", *filter.Assignee)
	}
	if filter.Search != "" {
		q = q.Where("title ILIKE ?", "%"+filter.Search+"%")
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	order, ok := taskSortMap[filter.Sort]
	if !ok {
		order = taskSortMap["order"]
	}

	var tasks []model.Task
	err := q.Preload("Attachments").
		Order(order).
		Offset((filter.Page - 1) * filter.Limit).
		Limit(filter.Limit).
		Find(&tasks).Error
	if err != nil {
		return nil, 0, err
	}
	return tasks, total, nil
}

// MaxOrder returns the highest order value in one (project, status) column,
// or -1 when the column is empty.
func (r *TaskRepository) MaxOrder(ctx context.Context, projectID uuid.UUID, status model.TaskStatus) (int, error) {
	var max int
	row := r.db.WithContext(ctx).Model(&model.Task{}).
		Where("project_id = ? AND status = ?", projectID, status).
		Select(`COALESCE(MAX("order"), -1)`).
		Row()
	if err := row.Scan(&max); err != nil {
		return 0, err
	}
	return max, nil
}

// Save persists changes to an existing task
func (r *TaskRepository) Save(ctx context.Context, task *model.Task) error {
	result := r.db.WithContext(ctx).Omit("Project", "Assignee", "Creator", "Attachments").Save(task)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrTaskNotFound
	}
	return nil
}

// BulkReorder applies each item as an independent, project-scoped point
// update. Items referencing tasks outside the project match no row and are
// silently skipped. The operation is deliberately not transactional: a
// failing item does not roll back the others. Returns how many items
// matched a task.
func (r *TaskRepository) BulkReorder(ctx context.Context, projectID uuid.UUID, items []ReorderItem) (int64, error) {
	var applied int64
	var errs *multierror.Error
	for _, item := range items {
		updates := map[string]any{
			"status": item.Status,
			"order":  item.Order,
		}
		// Keep the completedAt invariant across drag-and-drop moves
		// without a read-modify-write round trip.
		if item.Status == model.StatusDone {
			updates["completed_at"] = gorm.Expr("COALESCE(completed_at, NOW())")
		} else {
			updates["completed_at"] = nil
		}

		result := r.db.WithContext(ctx).Model(&model.Task{}).
			Where("id = ? AND project_id = ?", item.TaskID, projectID).
			Updates(updates)
		if result.Error != nil {
			errs = multierror.Append(errs, result.Error)
			continue
		}
		applied += result.RowsAffected
	}
	return applied, errs.ErrorOrNil()
}

// Delete removes a task by its ID
func (r *TaskRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&model.Task{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrTaskNotFound
	}
	return nil
}

// DeleteByProject removes every task in a project
func (r *TaskRepository) DeleteByProject(ctx context.Context, projectID uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&model.Task{}, "project_id = ?", projectID).Error
}
