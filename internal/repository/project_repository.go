package repository

import (
	"context"
	"errors"

	"taskflow/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ProjectRepository struct {
	db *gorm.DB
}

func NewProjectRepository(db *gorm.DB) *ProjectRepository {
	return &ProjectRepository{db: db}
}

// Create adds a new project and its initial member rows
func (r *ProjectRepository) Create(ctx context.Context, project *model.Project) error {
	return r.db.WithContext(ctx).Omit("Owner", "Members").Create(project).Error
}

// GetByID retrieves a project with its owner and member list preloaded
func (r *ProjectRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Project, error) {
	var project model.Project
	err := r.db.WithContext(ctx).
		Preload("Owner").
		Preload("Members").
		First(&project, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProjectNotFound
		}
		return nil, err
	}
	return &project, nil
}

// ListForUser retrieves projects the user owns or is a member of,
// optionally filtered by project status, most recently updated first
func (r *ProjectRepository) ListForUser(ctx context.Context, userID uuid.UUID, status model.ProjectStatus) ([]model.Project, error) {
	var projects []model.Project
	q := r.db.WithContext(ctx).
		Preload("Owner").
		Preload("Members").
		Joins("LEFT JOIN project_members pm ON pm.project_id = projects.id AND pm.user_id = ?", userID).
		Where("projects.owner_id = ? OR pm.user_id IS NOT NULL", userID)
	if status != "" {
		q = q.Where("projects.status = ?", status)
	}
	err := q.Order("projects.updated_at DESC").Find(&projects).Error
	return projects, err
}

// Save persists changes to an existing project
func (r *ProjectRepository) Save(ctx context.Context, project *model.Project) error {
	result := r.db.WithContext(ctx).Omit("Owner", "Members").Save(project)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrProjectNotFound
	}
	return nil
}

// Delete removes a project; project_members rows go with it via FK cascade
func (r *ProjectRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&model.Project{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrProjectNotFound
	}
	return nil
}

// AddMember inserts a membership row, tolerating duplicates
func (r *ProjectRepository) AddMember(ctx context.Context, projectID, userID uuid.UUID) error {
	return r.db.WithContext(ctx).Exec(
		"INSERT INTO project_members (project_id, user_id) VALUES (?, ?) ON CONFLICT DO NOTHING",
		projectID, userID,
	).Error
}

// RemoveMember deletes a membership row
func (r *ProjectRepository) RemoveMember(ctx context.Context, projectID, userID uuid.UUID) error {
	return r.db.WithContext(ctx).Exec(
		"DELETE FROM project_members WHERE project_id = ? AND user_id = ?",
		projectID, userID,
	).Error
}

// CountTasks returns the number of tasks in a project
func (r *ProjectRepository) CountTasks(ctx context.Context, projectID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.Task{}).
		Where("project_id = ?", projectID).
		Count(&count).Error
	return count, err
}
