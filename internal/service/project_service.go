package service

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/hashicorp/go-multierror"
	"go.uber.org/zap"

	"taskflow/internal/model"
)

// ProjectService orchestrates project CRUD, membership and the activity
// feed, and owns the project deletion cascade.
type ProjectService struct {
	projects ProjectStore
	tasks    TaskStore
	users    UserStore
	activity ActivityStore
	recorder Recorder
	log      *zap.Logger
}

func NewProjectService(
	projects ProjectStore,
	tasks TaskStore,
	users UserStore,
	activity ActivityStore,
	recorder Recorder,
	log *zap.Logger,
) *ProjectService {
	return &ProjectService{
		projects: projects,
		tasks:    tasks,
		users:    users,
		activity: activity,
		recorder: recorder,
		log:      log,
	}
}

// CreateProjectInput carries the caller-supplied fields for a new project.
type CreateProjectInput struct {
	Name        string
	Description string
	Color       string
}

// ProjectPatch carries a partial project update; nil fields are untouched.
type ProjectPatch struct {
	Name        *string
	Description *string
	Color       *string
	Status      *model.ProjectStatus
}

// List returns the projects the principal owns or belongs to.
func (s *ProjectService) List(ctx context.Context, p Principal, status model.ProjectStatus) ([]model.Project, error) {
	if status != "" && status != model.ProjectActive && status != model.ProjectArchived {
		return nil, invalid("invalid project status: " + string(status))
	}
	return s.projects.ListForUser(ctx, p.UserID, status)
}

// Create makes the principal the owner and first member of a new project.
func (s *ProjectService) Create(ctx context.Context, p Principal, in CreateProjectInput) (*model.Project, error) {
	in.Name = strings.TrimSpace(in.Name)
	if in.Name == "" {
		return nil, invalid("project name is required")
	}
	if in.Color == "" {
		in.Color = "#6c63ff"
	}

	project := &model.Project{
		ID:          uuid.New(),
		Name:        in.Name,
		Description: in.Description,
		OwnerID:     p.UserID,
		Status:      model.ProjectActive,
		Color:       in.Color,
	}
	if err := s.projects.Create(ctx, project); err != nil {
		return nil, err
	}
	if err := s.projects.AddMember(ctx, project.ID, p.UserID); err != nil {
		return nil, err
	}

	s.recorder.Record(ctx, project.ID, nil, p.UserID, model.ActionCreatedProject, map[string]any{
		"projectName": project.Name,
	})
	return project, nil
}

// Get returns one project with its task count.
func (s *ProjectService) Get(ctx context.Context, p Principal, projectID uuid.UUID) (*model.Project, int64, error) {
	project, _, err := resolveProject(ctx, s.projects, p, projectID)
	if err != nil {
		return nil, 0, err
	}
	count, err := s.projects.CountTasks(ctx, projectID)
	if err != nil {
		return nil, 0, err
	}
	return project, count, nil
}

// Update applies a partial update; owner or admin only.
func (s *ProjectService) Update(ctx context.Context, p Principal, projectID uuid.UUID, patch ProjectPatch) (*model.Project, error) {
	project, _, err := resolveProject(ctx, s.projects, p, projectID)
	if err != nil {
		return nil, err
	}
	if !CanMutateProject(project, p) {
		return nil, forbidden("only the project owner or an admin can update this project")
	}

	if patch.Name != nil {
		name := strings.TrimSpace(*patch.Name)
		if name == "" {
			return nil, invalid("project name is required")
		}
		project.Name = name
	}
	if patch.Description != nil {
		project.Description = *patch.Description
	}
	if patch.Color != nil {
		project.Color = *patch.Color
	}
	if patch.Status != nil {
		if *patch.Status != model.ProjectActive && *patch.Status != model.ProjectArchived {
			return nil, invalid("invalid project status: " + string(*patch.Status))
		}
		project.Status = *patch.Status
	}

	if err := s.projects.Save(ctx, project); err != nil {
		return nil, err
	}

	s.recorder.Record(ctx, project.ID, nil, p.UserID, model.ActionUpdatedProject, map[string]any{
		"projectName": project.Name,
	})
	return project, nil
}

// Delete removes a project and cascades to its tasks and activity log.
// Leaves go first, each step idempotent, so a crash mid-cascade never
// leaves a dangling project over missing children.
func (s *ProjectService) Delete(ctx context.Context, p Principal, projectID uuid.UUID) error {
	project, _, err := resolveProject(ctx, s.projects, p, projectID)
	if err != nil {
		return err
	}
	if !CanMutateProject(project, p) {
		return forbidden("only the project owner or an admin can delete this project")
	}

	var errs *multierror.Error
	errs = multierror.Append(errs, s.tasks.DeleteByProject(ctx, projectID))
	errs = multierror.Append(errs, s.activity.DeleteByProject(ctx, projectID))
	if err := errs.ErrorOrNil(); err != nil {
		s.log.Error("project cascade incomplete",
			zap.String("project_id", projectID.String()),
			zap.Error(err),
		)
		return err
	}
	return s.projects.Delete(ctx, projectID)
}

// AddMember adds a user to the project by email; owner or admin only.
func (s *ProjectService) AddMember(ctx context.Context, p Principal, projectID uuid.UUID, email string) (*model.Project, error) {
	project, _, err := resolveProject(ctx, s.projects, p, projectID)
	if err != nil {
		return nil, err
	}
	if !CanMutateProject(project, p) {
		return nil, forbidden("only the project owner or an admin can add members")
	}

	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return nil, invalid("member email is required")
	}

	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, notFound("user with this email not found")
	}
	if user.ID == project.OwnerID || project.HasMember(user.ID) {
		return nil, conflict("user is already a member")
	}

	if err := s.projects.AddMember(ctx, projectID, user.ID); err != nil {
		return nil, err
	}

	s.recorder.Record(ctx, projectID, nil, p.UserID, model.ActionAddedMember, map[string]any{
		"memberName":  user.Name,
		"memberEmail": user.Email,
	})
	return s.projects.GetByID(ctx, projectID)
}

// RemoveMember removes a member; the owner can never be removed this way.
func (s *ProjectService) RemoveMember(ctx context.Context, p Principal, projectID, memberID uuid.UUID) (*model.Project, error) {
	project, _, err := resolveProject(ctx, s.projects, p, projectID)
	if err != nil {
		return nil, err
	}
	if !CanMutateProject(project, p) {
		return nil, forbidden("only the project owner or an admin can remove members")
	}
	if memberID == project.OwnerID {
		return nil, invalid("cannot remove the project owner")
	}

	if err := s.projects.RemoveMember(ctx, projectID, memberID); err != nil {
		return nil, err
	}

	s.recorder.Record(ctx, projectID, nil, p.UserID, model.ActionRemovedMember, map[string]any{
		"removedUserId": memberID.String(),
	})
	return s.projects.GetByID(ctx, projectID)
}

// Activity returns a page of the project's audit feed, newest first.
func (s *ProjectService) Activity(ctx context.Context, p Principal, projectID uuid.UUID, page, limit int) ([]model.ActivityLog, Pagination, error) {
	if _, _, err := resolveProject(ctx, s.projects, p, projectID); err != nil {
		return nil, Pagination{}, err
	}
	page, limit = clampPage(page, limit, 20)

	logs, total, err := s.activity.ListByProject(ctx, projectID, page, limit)
	if err != nil {
		return nil, Pagination{}, err
	}
	return logs, paginate(total, page, limit), nil
}
