package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ComplaintStatus string

const (
	StatusCreated             ComplaintStatus = "CREATED"
	StatusAssigned            ComplaintStatus = "ASSIGNED"
	StatusInProgress          ComplaintStatus = "IN_PROGRESS"
	StatusPendingVerification ComplaintStatus = "PENDING_VERIFICATION"
	StatusResolved            ComplaintStatus = "RESOLVED"
	StatusRejected            ComplaintStatus = "REJECTED"
	StatusWithdrawn           ComplaintStatus = "WITHDRAWN"
)

func (s ComplaintStatus) IsValid() bool {
	switch s {
	case StatusCreated, StatusAssigned, StatusInProgress, StatusPendingVerification,
		StatusResolved, StatusRejected, StatusWithdrawn:
		return true
	}
	return false
}

type ComplaintPriority string

const (
	PriorityLow      ComplaintPriority = "LOW"
	PriorityMedium   ComplaintPriority = "MEDIUM"
	PriorityHigh     ComplaintPriority = "HIGH"
	PriorityCritical ComplaintPriority = "CRITICAL"
)

func (p ComplaintPriority) IsValid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh, PriorityCritical:
		return true
	}
	return false
}

type ComplaintCategory string

const (
	CategoryRoad        ComplaintCategory = "ROAD"
	CategoryWater       ComplaintCategory = "WATER"
	CategoryElectricity ComplaintCategory = "ELECTRICITY"
	CategorySanitation  ComplaintCategory = "SANITATION"
	CategoryOther       ComplaintCategory = "OTHER"
)

func (c ComplaintCategory) IsValid() bool {
	switch c {
	case CategoryRoad, CategoryWater, CategoryElectricity, CategorySanitation, CategoryOther:
		return true
	}
	return false
}

// SLAStatus is derived per read, never stored.
type SLAStatus string

const (
	SLAOnTrack   SLAStatus = "ON_TRACK"
	SLAEscalated SLAStatus = "ESCALATED"
	SLAOverdue   SLAStatus = "OVERDUE"
)

// SLA tracks the deadline attached to the current assignment cycle.
// EscalationLevel resets to 0 only when the complaint is (re)assigned.
type SLA struct {
	AssignedAt      *time.Time `gorm:"column:sla_assigned_at" json:"assigned_at"`
	DueBy           *time.Time `gorm:"column:sla_due_by" json:"due_by"`
	EscalatedAt     *time.Time `gorm:"column:sla_escalated_at" json:"escalated_at"`
	EscalationLevel int        `gorm:"column:sla_escalation_level;not null;default:0" json:"escalation_level"`
}

type Complaint struct {
	ID          uuid.UUID         `gorm:"type:uuid;primaryKey;default:uuid_generate_v4()" json:"id"`
	ReporterID  uuid.UUID         `gorm:"type:uuid;not null" json:"reporter_id"`
	Title       string            `gorm:"type:varchar(255);not null" json:"title"`
	Description string            `gorm:"type:text;not null" json:"description"`
	Category    ComplaintCategory `gorm:"type:complaint_category;not null" json:"category"`
	Area        string            `gorm:"type:varchar(255)" json:"area"`

	Status   ComplaintStatus   `gorm:"type:complaint_status;not null;default:'CREATED'" json:"status"`
	Priority ComplaintPriority `gorm:"type:complaint_priority;not null;default:'MEDIUM'" json:"priority"`

	AssignedSupervisorID *uuid.UUID `gorm:"type:uuid" json:"assigned_supervisor_id"`
	AssignedOfficerID    *uuid.UUID `gorm:"type:uuid" json:"assigned_officer_id"`

	Remarks         string  `gorm:"type:text" json:"remarks"`
	SupervisorImage *string `gorm:"type:text" json:"supervisor_image"`
	OfficerImage    *string `gorm:"type:text" json:"officer_image"`

	SLA SLA `gorm:"embedded" json:"sla"`

	// Version guards every write; see repository.ApplyChange.
	Version int64 `gorm:"not null;default:0" json:"version"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`

	StatusHistory []StatusHistoryEntry `gorm:"foreignKey:ComplaintID" json:"status_history,omitempty"`
	Comments      []Comment            `gorm:"foreignKey:ComplaintID" json:"comments,omitempty"`
	CitizenImages []ComplaintImage     `gorm:"foreignKey:ComplaintID" json:"citizen_images,omitempty"`
}

func (Complaint) TableName() string {
	return "complaints"
}

func (c *Complaint) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}

// StatusHistoryEntry rows are append-only; insertion order is the timeline's
// source of truth.
type StatusHistoryEntry struct {
	ID          uuid.UUID       `gorm:"type:uuid;primaryKey;default:uuid_generate_v4()" json:"id"`
	ComplaintID uuid.UUID       `gorm:"type:uuid;not null" json:"complaint_id"`
	Status      ComplaintStatus `gorm:"type:complaint_status;not null" json:"status"`
	ActorID     uuid.UUID       `gorm:"type:uuid;not null" json:"actor_id"`
	ActorRole   UserRole        `gorm:"type:user_role;not null" json:"actor_role"`
	Remarks     string          `gorm:"type:text" json:"remarks"`
	Seq         int64           `gorm:"autoIncrement" json:"seq"`
	CreatedAt   time.Time       `gorm:"autoCreateTime" json:"created_at"`
}

func (StatusHistoryEntry) TableName() string {
	return "complaint_status_history"
}

func (e *StatusHistoryEntry) BeforeCreate(tx *gorm.DB) error {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	return nil
}

type Comment struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey;default:uuid_generate_v4()" json:"id"`
	ComplaintID uuid.UUID `gorm:"type:uuid;not null" json:"complaint_id"`
	UserID      uuid.UUID `gorm:"type:uuid;not null" json:"user_id"`
	Text        string    `gorm:"type:text;not null" json:"text"`
	CreatedAt   time.Time `gorm:"autoCreateTime" json:"created_at"`
}

func (Comment) TableName() string {
	return "complaint_comments"
}

func (c *Comment) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}

// ComplaintImage holds the citizen-submitted image list. Supervisor and
// officer images are single slots on the complaint itself.
type ComplaintImage struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey;default:uuid_generate_v4()" json:"id"`
	ComplaintID uuid.UUID `gorm:"type:uuid;not null" json:"complaint_id"`
	FileURL     string    `gorm:"type:text;not null" json:"file_url"`
	UploadedBy  uuid.UUID `gorm:"type:uuid;not null" json:"uploaded_by"`
	CreatedAt   time.Time `gorm:"autoCreateTime" json:"created_at"`
}

func (ComplaintImage) TableName() string {
	return "complaint_images"
}

func (i *ComplaintImage) BeforeCreate(tx *gorm.DB) error {
	if i.ID == uuid.Nil {
		i.ID = uuid.New()
	}
	return nil
}
