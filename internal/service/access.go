package service

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"taskflow/internal/model"
	"taskflow/internal/repository"
)

// Principal is the authenticated actor performing an operation, as resolved
// by the auth middleware. The services trust it without re-deriving it.
type Principal struct {
	UserID   uuid.UUID
	Role     string
	IsActive bool
}

func (p Principal) IsAdmin() bool { return p.Role == model.RoleAdmin }

// AccessLevel classifies a principal against one project.
type AccessLevel int

const (
	AccessNone AccessLevel = iota
	AccessMember
	AccessOwner
	AccessAdmin
)

// ResolveProjectAccess is the single membership-resolution function: every
// access decision goes through it, so the "owner is always a member" rule
// lives in exactly one place. Pure; no I/O.
func ResolveProjectAccess(project *model.Project, p Principal) AccessLevel {
	switch {
	case p.IsAdmin():
		return AccessAdmin
	case project.OwnerID == p.UserID:
		return AccessOwner
	case project.HasMember(p.UserID):
		return AccessMember
	default:
		return AccessNone
	}
}

// CanMutateProject reports whether the principal may update or delete the
// project or manage its members.
func CanMutateProject(project *model.Project, p Principal) bool {
	return ResolveProjectAccess(project, p) >= AccessOwner
}

// CanDeleteTask additionally allows the task's creator.
func CanDeleteTask(project *model.Project, task *model.Task, p Principal) bool {
	if ResolveProjectAccess(project, p) >= AccessOwner {
		return true
	}
	return task.CreatedBy == p.UserID
}

// CanEditComment allows only the author.
func CanEditComment(comment *model.Comment, p Principal) bool {
	return comment.AuthorID == p.UserID
}

// CanDeleteComment allows the author or an admin.
func CanDeleteComment(comment *model.Comment, p Principal) bool {
	return p.IsAdmin() || comment.AuthorID == p.UserID
}

// resolveProject loads a project and classifies the principal. A project
// that does not exist and a project the principal cannot see produce the
// same not-found error, so callers cannot probe for existence.
func resolveProject(ctx context.Context, projects ProjectStore, p Principal, projectID uuid.UUID) (*model.Project, AccessLevel, error) {
	project, err := projects.GetByID(ctx, projectID)
	if err != nil {
		if errors.Is(err, repository.ErrProjectNotFound) {
			return nil, AccessNone, notFound("project not found")
		}
		return nil, AccessNone, err
	}
	level := ResolveProjectAccess(project, p)
	if level == AccessNone {
		return nil, AccessNone, notFound("project not found")
	}
	return project, level, nil
}
