package repository

import (
	"context"

	"gorm.io/gorm"

	"moviereview/internal/model"
)

// ReviewAuditRepository defines audit log persistence operations.
type ReviewAuditRepository interface {
	Create(ctx context.Context, entry *model.ReviewAuditLog) error
	CreateBatch(ctx context.Context, entries []model.ReviewAuditLog) error
}

type reviewAuditRepository struct {
	db *gorm.DB
}

// NewReviewAuditRepository builds a GORM-backed repository.
func NewReviewAuditRepository(db *gorm.DB) ReviewAuditRepository {
	return &reviewAuditRepository{db: db}
}

func (r *reviewAuditRepository) Create(ctx context.Context, entry *model.ReviewAuditLog) error {
	return r.db.WithContext(ctx).Create(entry).Error
}

// CreateBatch writes multiple audit entries in a single batched insert.
func (r *reviewAuditRepository) CreateBatch(ctx context.Context, entries []model.ReviewAuditLog) error {
	if len(entries) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).CreateInBatches(entries, 100).Error
}
