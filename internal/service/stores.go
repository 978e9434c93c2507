package service

import (
	"context"
	"io"

	"github.com/google/uuid"

	"taskflow/internal/model"
	"taskflow/internal/repository"
)

// Store interfaces consumed by the services. The gorm repositories satisfy
// them in production; tests plug in in-memory fakes.

type ProjectStore interface {
	Create(ctx context.Context, project *model.Project) error
	GetByID(ctx context.Context, id uuid.UUID) (*model.Project, error)
	ListForUser(ctx context.Context, userID uuid.UUID, status model.ProjectStatus) ([]model.Project, error)
	Save(ctx context.Context, project *model.Project) error
	Delete(ctx context.Context, id uuid.UUID) error
	AddMember(ctx context.Context, projectID, userID uuid.UUID) error
	RemoveMember(ctx context.Context, projectID, userID uuid.UUID) error
	CountTasks(ctx context.Context, projectID uuid.UUID) (int64, error)
}

type TaskStore interface {
	Create(ctx context.Context, task *model.Task) error
	GetByID(ctx context.Context, id uuid.UUID) (*model.Task, error)
	GetByProjectAndID(ctx context.Context, projectID, taskID uuid.UUID) (*model.Task, error)
	ListByProject(ctx context.Context, projectID uuid.UUID, filter repository.TaskFilter) ([]model.Task, int64, error)
	MaxOrder(ctx context.Context, projectID uuid.UUID, status model.TaskStatus) (int, error)
	Save(ctx context.Context, task *model.Task) error
	BulkReorder(ctx context.Context, projectID uuid.UUID, items []repository.ReorderItem) (int64, error)
	Delete(ctx context.Context, id uuid.UUID) error
	DeleteByProject(ctx context.Context, projectID uuid.UUID) error
}

type CommentStore interface {
	Create(ctx context.Context, comment *model.Comment) error
	GetByID(ctx context.Context, id uuid.UUID) (*model.Comment, error)
	ListByTask(ctx context.Context, taskID uuid.UUID) ([]model.Comment, error)
	Save(ctx context.Context, comment *model.Comment) error
	Delete(ctx context.Context, id uuid.UUID) error
	DeleteByTask(ctx context.Context, taskID uuid.UUID) error
}

type AttachmentStore interface {
	Create(ctx context.Context, attachment *model.Attachment) error
	GetByTaskAndID(ctx context.Context, taskID, id uuid.UUID) (*model.Attachment, error)
	ListByTask(ctx context.Context, taskID uuid.UUID) ([]model.Attachment, error)
	Delete(ctx context.Context, id uuid.UUID) error
	DeleteByTask(ctx context.Context, taskID uuid.UUID) error
}

type ActivityStore interface {
	Create(ctx context.Context, entry *model.ActivityLog) error
	ListByProject(ctx context.Context, projectID uuid.UUID, page, limit int) ([]model.ActivityLog, int64, error)
	DeleteByProject(ctx context.Context, projectID uuid.UUID) error
}

type UserStore interface {
	GetByID(ctx context.Context, id uuid.UUID) (*model.User, error)
	FindByEmail(ctx context.Context, email string) (*model.User, error)
}

// StoredFile is the file store's receipt for one uploaded object.
type StoredFile struct {
	URL        string
	ExternalID string
	Size       int64
}

// FileStore is the external object store boundary. Delete must tolerate
// already-missing objects; callers treat it as best-effort.
type FileStore interface {
	Store(ctx context.Context, name string, content io.Reader) (StoredFile, error)
	Delete(ctx context.Context, externalID string) error
}
