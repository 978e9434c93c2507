package service

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"

	"taskflow/internal/model"
	"taskflow/internal/repository"
)

// CommentService orchestrates task comments.
type CommentService struct {
	projects ProjectStore
	tasks    TaskStore
	comments CommentStore
	recorder Recorder
}

func NewCommentService(projects ProjectStore, tasks TaskStore, comments CommentStore, recorder Recorder) *CommentService {
	return &CommentService{projects: projects, tasks: tasks, comments: comments, recorder: recorder}
}

// List returns a task's comments in creation order.
func (s *CommentService) List(ctx context.Context, p Principal, taskID uuid.UUID) ([]model.Comment, error) {
	if _, err := s.visibleTask(ctx, p, taskID); err != nil {
		return nil, err
	}
	return s.comments.ListByTask(ctx, taskID)
}

// Add appends a comment to a task.
func (s *CommentService) Add(ctx context.Context, p Principal, taskID uuid.UUID, content string) (*model.Comment, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, invalid("comment content is required")
	}

	task, err := s.visibleTask(ctx, p, taskID)
	if err != nil {
		return nil, err
	}

	comment := &model.Comment{
		ID:       uuid.New(),
		TaskID:   taskID,
		AuthorID: p.UserID,
		Content:  content,
	}
	if err := s.comments.Create(ctx, comment); err != nil {
		return nil, err
	}

	s.recorder.Record(ctx, task.ProjectID, &task.ID, p.UserID, model.ActionAddedComment, map[string]any{
		"taskTitle": task.Title,
	})
	return comment, nil
}

// Edit rewrites a comment's content; author only.
func (s *CommentService) Edit(ctx context.Context, p Principal, taskID, commentID uuid.UUID, content string) (*model.Comment, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, invalid("comment content is required")
	}

	comment, err := s.loadComment(ctx, taskID, commentID)
	if err != nil {
		return nil, err
	}
	if !CanEditComment(comment, p) {
		return nil, forbidden("you can only edit your own comments")
	}

	comment.Content = content
	comment.IsEdited = true
	if err := s.comments.Save(ctx, comment); err != nil {
		return nil, err
	}
	return comment, nil
}

// Delete removes a comment; author or admin.
func (s *CommentService) Delete(ctx context.Context, p Principal, taskID, commentID uuid.UUID) error {
	comment, err := s.loadComment(ctx, taskID, commentID)
	if err != nil {
		return err
	}
	if !CanDeleteComment(comment, p) {
		return forbidden("not authorized to delete this comment")
	}
	return s.comments.Delete(ctx, commentID)
}

// visibleTask loads a task and checks the principal can see its project.
// Invisible and missing tasks are indistinguishable to the caller.
func (s *CommentService) visibleTask(ctx context.Context, p Principal, taskID uuid.UUID) (*model.Task, error) {
	task, err := s.tasks.GetByID(ctx, taskID)
	if err != nil {
		if errors.Is(err, repository.ErrTaskNotFound) {
			return nil, notFound("task not found")
		}
		return nil, err
	}
	if _, _, err := resolveProject(ctx, s.projects, p, task.ProjectID); err != nil {
		return nil, notFound("task not found")
	}
	return task, nil
}

func (s *CommentService) loadComment(ctx context.Context, taskID, commentID uuid.UUID) (*model.Comment, error) {
	comment, err := s.comments.GetByID(ctx, commentID)
	if err != nil {
		if errors.Is(err, repository.ErrCommentNotFound) {
			return nil, notFound("comment not found")
		}
		return nil, err
	}
	if comment.TaskID != taskID {
		return nil, notFound("comment not found")
	}
	return comment, nil
}
