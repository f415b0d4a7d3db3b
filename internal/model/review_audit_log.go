package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ReviewAuditAction identifies the kind of review mutation being recorded.
type ReviewAuditAction string

const (
	ReviewAuditSubmit ReviewAuditAction = "submit"
	ReviewAuditUpdate ReviewAuditAction = "update"
	ReviewAuditDelete ReviewAuditAction = "delete"
)

// ReviewAuditLog is an append-only record of review mutations, written
// off the request path by the review service's batching worker.
type ReviewAuditLog struct {
	ID        uuid.UUID         `json:"id" gorm:"type:char(36);primaryKey"`
	ReviewID  uuid.UUID         `json:"review_id" gorm:"type:char(36);not null;index"`
	MovieID   uuid.UUID         `json:"movie_id" gorm:"type:char(36);not null;index"`
	UserID    uuid.UUID         `json:"user_id" gorm:"type:char(36);not null"`
	Action    ReviewAuditAction `json:"action" gorm:"type:varchar(20);not null"`
	Detail    string            `json:"detail,omitempty" gorm:"size:500"`
	CreatedAt time.Time         `json:"created_at"`
}

// BeforeCreate sets UUID before creating the record.
func (l *ReviewAuditLog) BeforeCreate(tx *gorm.DB) error {
	if l.ID == uuid.Nil {
		l.ID = uuid.New()
	}
	return nil
}
