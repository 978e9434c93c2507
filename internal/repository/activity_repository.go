package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"taskflow/internal/model"
)

type ActivityRepository struct {
	db *gorm.DB
}

func NewActivityRepository(db *gorm.DB) *ActivityRepository {
	return &ActivityRepository{db: db}
}

// Create appends one activity entry. Entries are never updated afterwards.
func (r *ActivityRepository) Create(ctx context.Context, entry *model.ActivityLog) error {
	return r.db.WithContext(ctx).Create(entry).Error
}

// ListByProject retrieves a page of a project's activity feed, newest first,
// plus the total entry count
func (r *ActivityRepository) ListByProject(ctx context.Context, projectID uuid.UUID, page, limit int) ([]model.ActivityLog, int64, error) {
	q := r.db.WithContext(ctx).Model(&model.ActivityLog{}).Where("project_id = ?", projectID)

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var logs []model.ActivityLog
	err := q.Preload("User").
		Order("created_at DESC").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&logs).Error
	if err != nil {
		return nil, 0, err
	}
	return logs, total, nil
}

// DeleteByProject removes every activity entry of a project
func (r *ActivityRepository) DeleteByProject(ctx context.Context, projectID uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&model.ActivityLog{}, "project_id = ?", projectID).Error
}
