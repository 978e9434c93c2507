package model

import (
	"time"

	"github.com/google/uuid"
)

type TaskStatus string

const (
	StatusTodo       TaskStatus = "todo"
	StatusInProgress TaskStatus = "in_progress"
	StatusInReview   TaskStatus = "in_review"
	StatusDone       TaskStatus = "done"
)

// Valid reports whether s is one of the four board columns.
func (s TaskStatus) Valid() bool {
	switch s {
	case StatusTodo, StatusInProgress, StatusInReview, StatusDone:
		return true
	}
	return false
}

type TaskPriority string

const (
	PriorityLow      TaskPriority = "low"
	PriorityMedium   TaskPriority = "medium"
	PriorityHigh     TaskPriority = "high"
	PriorityCritical TaskPriority = "critical"
)

func (p TaskPriority) Valid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh, PriorityCritical:
		return true
	}
	return false
}

type Task struct {
	ID          uuid.UUID    `gorm:"type:uuid;default:uuid_generate_v4();primaryKey"`
	ProjectID   uuid.UUID    `gorm:"type:uuid;not null;index:idx_tasks_project_status;index:idx_tasks_project_order"`
	Title       string       `gorm:"not null"`
	Description string
	AssigneeID  *uuid.UUID   `gorm:"type:uuid;index"`
	CreatedBy   uuid.UUID    `gorm:"type:uuid;not null"`
	Status      TaskStatus   `gorm:"not null;default:'todo';index:idx_tasks_project_status"`
	Priority    TaskPriority `gorm:"not null;default:'medium'"`
	DueDate     *time.Time   `gorm:"index"`
	Labels      []string     `gorm:"serializer:json"`
	// Order is a rendering hint, unique only within one (project, status)
	// column and only when nothing raced. Ties break on CreatedAt at read
	// time.
	Order       int        `gorm:"not null;default:0;index:idx_tasks_project_order"`
	CompletedAt *time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time

	Project     Project      `gorm:"foreignKey:ProjectID"`
	Assignee    *User        `gorm:"foreignKey:AssigneeID"`
	Creator     User         `gorm:"foreignKey:CreatedBy"`
	Attachments []Attachment `gorm:"foreignKey:TaskID"`
}
