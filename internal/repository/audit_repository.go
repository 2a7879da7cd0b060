package repository

import (
	"context"

	"gorm.io/gorm"

	"complaint-service/internal/model"
	"complaint-service/internal/service"
)

type AuditRepository struct {
	db *gorm.DB
}

func NewAuditRepository(db *gorm.DB) *AuditRepository {
	return &AuditRepository{db: db}
}

func (r *AuditRepository) Record(ctx context.Context, entry *model.AuditLogEntry) error {
	return r.db.WithContext(ctx).Create(entry).Error
}

func (r *AuditRepository) Query(ctx context.Context, filter service.AuditFilter) ([]model.AuditLogEntry, error) {
	query := r.db.WithContext(ctx).Model(&model.AuditLogEntry{})

	if filter.ActorID != nil {
		query = query.Where("actor_id = ?", *filter.ActorID)
	}
	if filter.ComplaintID != nil {
		query = query.Where("complaint_id = ?", *filter.ComplaintID)
	}
	if filter.ActorRole != nil {
		query = query.Where("actor_role = ?", *filter.ActorRole)
	}
	if filter.Action != nil {
		query = query.Where("action = ?", *filter.Action)
	}
	if filter.DateFrom != nil {
		query = query.Where("created_at >= ?", *filter.DateFrom)
	}
	if filter.DateTo != nil {
		query = query.Where("created_at <= ?", *filter.DateTo)
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = 200
	}

	var entries []model.AuditLogEntry
	if err := query.Order("created_at DESC").Limit(limit).Find(&entries).Error; err != nil {
		return nil, err
	}
	return entries, nil
}
