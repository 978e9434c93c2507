package model

import (
	"time"

	"github.com/google/uuid"
)

// Attachment is a file reference owned by a task. ExternalID identifies the
// object in the file store; the row may outlive the blob when best-effort
// cleanup fails.
type Attachment struct {
	ID          uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey"`
	TaskID      uuid.UUID `gorm:"type:uuid;not null;index"`
	URL         string    `gorm:"not null"`
	ExternalID  string    `gorm:"not null"`
	Name        string    `gorm:"not null"`
	Size        int64     `gorm:"not null;default:0"`
	ContentType string    `gorm:"not null;default:'file'"`
	UploadedBy  uuid.UUID `gorm:"type:uuid;not null"`
	UploadedAt  time.Time `gorm:"autoCreateTime"`
}
