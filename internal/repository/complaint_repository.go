package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"complaint-service/internal/model"
	"complaint-service/internal/service"
)

type ComplaintRepository struct {
	db *gorm.DB
}

func NewComplaintRepository(db *gorm.DB) *ComplaintRepository {
	return &ComplaintRepository{db: db}
}

func (r *ComplaintRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Complaint, error) {
	var complaint model.Complaint
	err := r.db.WithContext(ctx).
		Preload("StatusHistory", func(db *gorm.DB) *gorm.DB {
			return db.Order("complaint_status_history.seq ASC")
		}).
		Preload("Comments", func(db *gorm.DB) *gorm.DB {
			return db.Order("complaint_comments.created_at ASC")
		}).
		Preload("CitizenImages").
		First(&complaint, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &complaint, nil
}

func (r *ComplaintRepository) Create(ctx context.Context, c *model.Complaint, hist *model.StatusHistoryEntry, audit *model.AuditLogEntry) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(c).Error; err != nil {
			return err
		}
		if hist != nil {
			hist.ComplaintID = c.ID
			if err := tx.Create(hist).Error; err != nil {
				return err
			}
		}
		if audit != nil {
			audit.ComplaintID = &c.ID
			if err := tx.Create(audit).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

// ApplyChange is the single write path for complaint mutations. The UPDATE
// is guarded by the version the caller read, so a concurrent writer makes
// this fail with service.ErrVersionConflict instead of silently losing an
// update. History and audit rows ride the same transaction.
func (r *ComplaintRepository) ApplyChange(ctx context.Context, c *model.Complaint, expectedVersion int64, hist *model.StatusHistoryEntry, audit *model.AuditLogEntry) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&model.Complaint{}).
			Where("id = ? AND version = ?", c.ID, expectedVersion).
			Updates(map[string]interface{}{
				"status":                 c.Status,
				"priority":               c.Priority,
				"category":               c.Category,
				"assigned_supervisor_id": c.AssignedSupervisorID,
				"assigned_officer_id":    c.AssignedOfficerID,
				"remarks":                c.Remarks,
				"supervisor_image":       c.SupervisorImage,
				"officer_image":          c.OfficerImage,
				"sla_assigned_at":        c.SLA.AssignedAt,
				"sla_due_by":             c.SLA.DueBy,
				"sla_escalated_at":       c.SLA.EscalatedAt,
				"sla_escalation_level":   c.SLA.EscalationLevel,
				"version":                expectedVersion + 1,
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return service.ErrVersionConflict
		}
		if hist != nil {
			if err := tx.Create(hist).Error; err != nil {
				return err
			}
		}
		if audit != nil {
			if err := tx.Create(audit).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *ComplaintRepository) AddComment(ctx context.Context, comment *model.Comment, audit *model.AuditLogEntry) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(comment).Error; err != nil {
			return err
		}
		if audit != nil {
			if err := tx.Create(audit).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *ComplaintRepository) List(ctx context.Context, filter service.ComplaintFilter) ([]model.Complaint, error) {
	query := r.db.WithContext(ctx).Model(&model.Complaint{})

	if len(filter.Statuses) > 0 {
		query = query.Where("status IN ?", filter.Statuses)
	}
	if len(filter.Priorities) > 0 {
		query = query.Where("priority IN ?", filter.Priorities)
	}
	if len(filter.Categories) > 0 {
		query = query.Where("category IN ?", filter.Categories)
	}
	if filter.Area != "" {
		query = query.Where("area ILIKE ?", "%"+filter.Area+"%")
	}
	if filter.ReporterID != nil {
		query = query.Where("reporter_id = ?", *filter.ReporterID)
	}
	if filter.SupervisorID != nil {
		query = query.Where("assigned_supervisor_id = ?", *filter.SupervisorID)
	}
	if filter.OfficerID != nil {
		query = query.Where("assigned_officer_id = ?", *filter.OfficerID)
	}
	if filter.DateFrom != nil {
		query = query.Where("created_at >= ?", *filter.DateFrom)
	}
	if filter.DateTo != nil {
		query = query.Where("created_at <= ?", *filter.DateTo)
	}

	if filter.Offset > 0 {
		query = query.Offset(filter.Offset)
	}
	if filter.Limit > 0 {
		query = query.Limit(filter.Limit)
	} else {
		query = query.Limit(200)
	}

	var complaints []model.Complaint
	if err := query.Order("created_at DESC").Find(&complaints).Error; err != nil {
		return nil, err
	}
	return complaints, nil
}

// ListOverdue selects the sweep's working set: past due, still actively
// worked, and below the escalation cap.
func (r *ComplaintRepository) ListOverdue(ctx context.Context, now time.Time, maxLevel int) ([]model.Complaint, error) {
	var complaints []model.Complaint
	err := r.db.WithContext(ctx).
		Where("sla_due_by IS NOT NULL AND sla_due_by < ?", now).
		Where("status IN ?", []model.ComplaintStatus{model.StatusAssigned, model.StatusInProgress}).
		Where("sla_escalation_level < ?", maxLevel).
		Order("sla_due_by ASC").
		Find(&complaints).Error
	if err != nil {
		return nil, err
	}
	return complaints, nil
}
