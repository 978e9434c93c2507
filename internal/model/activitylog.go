package model

import (
	"time"

	"github.com/google/uuid"
)

// Action tags for activity entries. The set is closed: passing anything else
// to the recorder is a programmer error, not runtime input.
type Action string

const (
	ActionCreatedProject Action = "created_project"
	ActionUpdatedProject Action = "updated_project"
	ActionCreatedTask    Action = "created_task"
	ActionUpdatedTask    Action = "updated_task"
	ActionDeletedTask    Action = "deleted_task"
	ActionChangedStatus  Action = "changed_status"
	ActionAssignedTask   Action = "assigned_task"
	ActionAddedComment   Action = "added_comment"
	ActionUploadedFile   Action = "uploaded_file"
	ActionAddedMember    Action = "added_member"
	ActionRemovedMember  Action = "removed_member"
)

// ActivityLog is an append-only audit record. Entries are never mutated and
// only disappear through cascading project deletion.
type ActivityLog struct {
	ID        uuid.UUID      `gorm:"type:uuid;default:uuid_generate_v4();primaryKey"`
	ProjectID uuid.UUID      `gorm:"type:uuid;not null;index:idx_activity_project_created"`
	TaskID    *uuid.UUID     `gorm:"type:uuid;index"`
	UserID    uuid.UUID      `gorm:"type:uuid;not null"`
	Action    Action         `gorm:"not null"`
	Meta      map[string]any `gorm:"serializer:json"`
	CreatedAt time.Time      `gorm:"autoCreateTime;index:idx_activity_project_created,sort:desc"`

	User User  `gorm:"foreignKey:UserID"`
	Task *Task `gorm:"foreignKey:TaskID"`
}
