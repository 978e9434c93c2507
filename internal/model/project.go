package model

import (
	"time"

	"github.com/google/uuid"
)

type ProjectStatus string

const (
	ProjectActive   ProjectStatus = "active"
	ProjectArchived ProjectStatus = "archived"
)

type Project struct {
	ID          uuid.UUID     `gorm:"type:uuid;default:uuid_generate_v4();primaryKey"`
	Name        string        `gorm:"not null"`
	Description string
	OwnerID     uuid.UUID     `gorm:"type:uuid;not null;index"`
	Status      ProjectStatus `gorm:"not null;default:'active';check:status IN ('active', 'archived')"`
	Color       string        `gorm:"not null;default:'#6c63ff'"`
	CreatedAt   time.Time
	UpdatedAt   time.Time

	Owner   User   `gorm:"foreignKey:OwnerID"`
	Members []User `gorm:"many2many:project_members"`
}

// HasMember reports whether the user appears in the stored member list.
// The owner is a member by definition even when not stored; access checks
// must go through service.ResolveProjectAccess, not this helper alone.
func (p *Project) HasMember(userID uuid.UUID) bool {
	for _, m := range p.Members {
		if m.ID == userID {
			return true
		}
	}
	return false
}
