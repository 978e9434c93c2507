package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"taskflow/internal/model"
)

type AttachmentRepository struct {
	db *gorm.DB
}

func NewAttachmentRepository(db *gorm.DB) *AttachmentRepository {
	return &AttachmentRepository{db: db}
}

// Create adds a new attachment record
func (r *AttachmentRepository) Create(ctx context.Context, attachment *model.Attachment) error {
	return r.db.WithContext(ctx).Create(attachment).Error
}

// GetByTaskAndID retrieves an attachment scoped to its task
func (r *AttachmentRepository) GetByTaskAndID(ctx context.Context, taskID, id uuid.UUID) (*model.Attachment, error) {
	var attachment model.Attachment
	result := r.db.WithContext(ctx).First(&attachment, "id = ? AND task_id = ?", id, taskID)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrAttachmentNotFound
		}
		return nil, result.Error
	}
	return &attachment, nil
}

// ListByTask retrieves a task's attachments in upload order
func (r *AttachmentRepository) ListByTask(ctx context.Context, taskID uuid.UUID) ([]model.Attachment, error) {
	var attachments []model.Attachment
	err := r.db.WithContext(ctx).
		Where("task_id = ?", taskID).
		Order("uploaded_at ASC").
		Find(&attachments).Error
	return attachments, err
}

// Delete removes an attachment record
func (r *AttachmentRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&model.Attachment{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrAttachmentNotFound
	}
	return nil
}

// DeleteByTask removes every attachment record of a task
func (r *AttachmentRepository) DeleteByTask(ctx context.Context, taskID uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&model.Attachment{}, "task_id = ?", taskID).Error
}
