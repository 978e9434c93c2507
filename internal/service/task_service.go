package service

import (
	"context"
	"errors"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/hashicorp/go-multierror"
	"go.uber.org/zap"

	"taskflow/internal/metrics"
	"taskflow/internal/model"
	"taskflow/internal/repository"
)

// TaskService orchestrates the task lifecycle: authorization, order
// computation, persistence and best-effort audit recording.
type TaskService struct {
	projects    ProjectStore
	tasks       TaskStore
	comments    CommentStore
	attachments AttachmentStore
	users       UserStore
	files       FileStore
	board       *BoardEngine
	recorder    Recorder
	log         *zap.Logger
}

func NewTaskService(
	projects ProjectStore,
	tasks TaskStore,
	comments CommentStore,
	attachments AttachmentStore,
	users UserStore,
	files FileStore,
	board *BoardEngine,
	recorder Recorder,
	log *zap.Logger,
) *TaskService {
	return &TaskService{
		projects:    projects,
		tasks:       tasks,
		comments:    comments,
		attachments: attachments,
		users:       users,
		files:       files,
		board:       board,
		recorder:    recorder,
		log:         log,
	}
}

// CreateTaskInput carries the caller-supplied fields for a new task.
type CreateTaskInput struct {
	Title       string
	Description string
	Assignee    *uuid.UUID
	Priority    model.TaskPriority
	DueDate     *time.Time
	Labels      []string
	Status      model.TaskStatus
}

// List returns a filtered, paginated page of a project's tasks.
func (s *TaskService) List(ctx context.Context, p Principal, projectID uuid.UUID, filter repository.TaskFilter) ([]model.Task, Pagination, error) {
	if _, _, err := resolveProject(ctx, s.projects, p, projectID); err != nil {
		return nil, Pagination{}, err
	}
	if filter.Status != "" && !filter.Status.Valid() {
		return nil, Pagination{}, invalid("invalid task status: " + string(filter.Status))
	}
	if filter.Priority != "" && !filter.Priority.Valid() {
		return nil, Pagination{}, invalid("invalid task priority: " + string(filter.Priority))
	}
	filter.Page, filter.Limit = clampPage(filter.Page, filter.Limit, 50)

	tasks, total, err := s.tasks.ListByProject(ctx, projectID, filter)
	if err != nil {
		return nil, Pagination{}, err
	}
	return tasks, paginate(total, filter.Page, filter.Limit), nil
}

// Create appends a task to the end of its target column.
func (s *TaskService) Create(ctx context.Context, p Principal, projectID uuid.UUID, in CreateTaskInput) (*model.Task, error) {
	if _, _, err := resolveProject(ctx, s.projects, p, projectID); err != nil {
		return nil, err
	}

	in.Title = strings.TrimSpace(in.Title)
	if in.Title == "" {
		return nil, invalid("task title is required")
	}
	if in.Status == "" {
		in.Status = model.StatusTodo
	}
	if !in.Status.Valid() {
		return nil, invalid("invalid task status: " + string(in.Status))
	}
	if in.Priority == "" {
		in.Priority = model.PriorityMedium
	}
	if !in.Priority.Valid() {
		return nil, invalid("invalid task priority: " + string(in.Priority))
	}

	order, err := s.board.NextOrder(ctx, projectID, in.Status)
	if err != nil {
		return nil, err
	}

	task := &model.Task{
		ID:          uuid.New(),
		ProjectID:   projectID,
		Title:       in.Title,
		Description: in.Description,
		AssigneeID:  in.Assignee,
		CreatedBy:   p.UserID,
		Status:      in.Status,
		Priority:    in.Priority,
		DueDate:     in.DueDate,
		Labels:      in.Labels,
		Order:       order,
	}
	if err := s.tasks.Create(ctx, task); err != nil {
		return nil, err
	}

	s.recorder.Record(ctx, projectID, &task.ID, p.UserID, model.ActionCreatedTask, map[string]any{
		"taskTitle": task.Title,
	})
	return task, nil
}

// Get returns one task with its comments.
func (s *TaskService) Get(ctx context.Context, p Principal, projectID, taskID uuid.UUID) (*model.Task, []model.Comment, error) {
	if _, _, err := resolveProject(ctx, s.projects, p, projectID); err != nil {
		return nil, nil, err
	}
	task, err := s.loadTask(ctx, projectID, taskID)
	if err != nil {
		return nil, nil, err
	}
	comments, err := s.comments.ListByTask(ctx, taskID)
	if err != nil {
		return nil, nil, err
	}
	return task, comments, nil
}

// Update applies a partial update. Only an actual status change fires the
// changed_status path; everything else records a generic updated_task.
func (s *TaskService) Update(ctx context.Context, p Principal, projectID, taskID uuid.UUID, patch TaskPatch) (*model.Task, error) {
	if _, _, err := resolveProject(ctx, s.projects, p, projectID); err != nil {
		return nil, err
	}
	task, err := s.loadTask(ctx, projectID, taskID)
	if err != nil {
		return nil, err
	}

	if patch.Title != nil && strings.TrimSpace(*patch.Title) == "" {
		return nil, invalid("task title is required")
	}
	if patch.Status != nil && !patch.Status.Valid() {
		return nil, invalid("invalid task status: " + string(*patch.Status))
	}
	if patch.Priority != nil && !patch.Priority.Valid() {
		return nil, invalid("invalid task priority: " + string(*patch.Priority))
	}

	change := s.board.ApplyPatch(task, patch, time.Now().UTC())
	if err := s.tasks.Save(ctx, task); err != nil {
		return nil, err
	}

	if change.Changed {
		s.recorder.Record(ctx, projectID, &task.ID, p.UserID, model.ActionChangedStatus, map[string]any{
			"taskTitle": task.Title,
			"from":      string(change.From),
			"to":        string(change.To),
		})
	} else {
		s.recorder.Record(ctx, projectID, &task.ID, p.UserID, model.ActionUpdatedTask, map[string]any{
			"taskTitle": task.Title,
		})
	}
	return task, nil
}

// Assign sets the task's assignee to an existing user.
func (s *TaskService) Assign(ctx context.Context, p Principal, projectID, taskID, assigneeID uuid.UUID) (*model.Task, error) {
	if _, _, err := resolveProject(ctx, s.projects, p, projectID); err != nil {
		return nil, err
	}
	task, err := s.loadTask(ctx, projectID, taskID)
	if err != nil {
		return nil, err
	}

	assignee, err := s.users.GetByID(ctx, assigneeID)
	if err != nil {
		return nil, err
	}
	if assignee == nil {
		return nil, notFound("user not found")
	}

	task.AssigneeID = &assigneeID
	if err := s.tasks.Save(ctx, task); err != nil {
		return nil, err
	}

	s.recorder.Record(ctx, projectID, &task.ID, p.UserID, model.ActionAssignedTask, map[string]any{
		"taskTitle":    task.Title,
		"assigneeName": assignee.Name,
	})
	return task, nil
}

// Reorder applies a bulk drag-and-drop submission to the project's board.
// Partial application is possible; the caller learns only the aggregate
// count of tuples that matched.
func (s *TaskService) Reorder(ctx context.Context, p Principal, projectID uuid.UUID, items []repository.ReorderItem) (int64, error) {
	if _, _, err := resolveProject(ctx, s.projects, p, projectID); err != nil {
		return 0, err
	}
	applied, err := s.board.Reorder(ctx, projectID, items)
	if err != nil {
		return applied, err
	}
	metrics.AddReorderApplied(applied)
	return applied, nil
}

// Delete removes a task together with its comments and attachments. The
// cascade runs leaves first so a failure can orphan at worst harmless leaf
// records, never a dangling task. External blob removal is best-effort.
func (s *TaskService) Delete(ctx context.Context, p Principal, projectID, taskID uuid.UUID) error {
	project, _, err := resolveProject(ctx, s.projects, p, projectID)
	if err != nil {
		return err
	}
	task, err := s.loadTask(ctx, projectID, taskID)
	if err != nil {
		return err
	}
	if !CanDeleteTask(project, task, p) {
		return forbidden("not authorized to delete this task")
	}

	// Orphaned external blobs are a lesser harm than an undeletable task.
	for _, attachment := range task.Attachments {
		if err := s.files.Delete(ctx, attachment.ExternalID); err != nil {
			s.log.Warn("attachment cleanup failed",
				zap.String("task_id", taskID.String()),
				zap.String("external_id", attachment.ExternalID),
				zap.Error(err),
			)
		}
	}

	var errs *multierror.Error
	errs = multierror.Append(errs, s.comments.DeleteByTask(ctx, taskID))
	errs = multierror.Append(errs, s.attachments.DeleteByTask(ctx, taskID))
	if err := errs.ErrorOrNil(); err != nil {
		return err
	}
	if err := s.tasks.Delete(ctx, taskID); err != nil {
		if errors.Is(err, repository.ErrTaskNotFound) {
			return notFound("task not found")
		}
		return err
	}

	s.recorder.Record(ctx, projectID, nil, p.UserID, model.ActionDeletedTask, map[string]any{
		"taskTitle": task.Title,
	})
	return nil
}

// UploadAttachment stores a file and attaches it to the task.
func (s *TaskService) UploadAttachment(ctx context.Context, p Principal, projectID, taskID uuid.UUID, name, contentType string, content io.Reader) (*model.Attachment, error) {
	if _, _, err := resolveProject(ctx, s.projects, p, projectID); err != nil {
		return nil, err
	}
	task, err := s.loadTask(ctx, projectID, taskID)
	if err != nil {
		return nil, err
	}
	if name == "" {
		return nil, invalid("file name is required")
	}

	stored, err := s.files.Store(ctx, name, content)
	if err != nil {
		return nil, err
	}

	attachment := &model.Attachment{
		ID:          uuid.New(),
		TaskID:      taskID,
		URL:         stored.URL,
		ExternalID:  stored.ExternalID,
		Name:        name,
		Size:        stored.Size,
		ContentType: contentType,
		UploadedBy:  p.UserID,
	}
	if err := s.attachments.Create(ctx, attachment); err != nil {
		return nil, err
	}

	s.recorder.Record(ctx, projectID, &task.ID, p.UserID, model.ActionUploadedFile, map[string]any{
		"taskTitle": task.Title,
		"fileName":  name,
	})
	return attachment, nil
}

// DeleteAttachment detaches one file; blob removal is best-effort.
func (s *TaskService) DeleteAttachment(ctx context.Context, p Principal, projectID, taskID, attachmentID uuid.UUID) error {
	if _, _, err := resolveProject(ctx, s.projects, p, projectID); err != nil {
		return err
	}
	if _, err := s.loadTask(ctx, projectID, taskID); err != nil {
		return err
	}

	attachment, err := s.attachments.GetByTaskAndID(ctx, taskID, attachmentID)
	if err != nil {
		if errors.Is(err, repository.ErrAttachmentNotFound) {
			return notFound("attachment not found")
		}
		return err
	}

	if err := s.files.Delete(ctx, attachment.ExternalID); err != nil {
		s.log.Warn("attachment cleanup failed",
			zap.String("task_id", taskID.String()),
			zap.String("external_id", attachment.ExternalID),
			zap.Error(err),
		)
	}
	return s.attachments.Delete(ctx, attachmentID)
}

func (s *TaskService) loadTask(ctx context.Context, projectID, taskID uuid.UUID) (*model.Task, error) {
	task, err := s.tasks.GetByProjectAndID(ctx, projectID, taskID)
	if err != nil {
		if errors.Is(err, repository.ErrTaskNotFound) {
			return nil, notFound("task not found")
		}
		return nil, err
	}
	return task, nil
}
