package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type AuditAction string

const (
	ActionCreate                AuditAction = "CREATE"
	ActionAssignToSupervisor    AuditAction = "ASSIGN_TO_SUPERVISOR"
	ActionDirectAssignToOfficer AuditAction = "DIRECT_ASSIGN_TO_OFFICER"
	ActionAssign                AuditAction = "ASSIGN"
	ActionReassign              AuditAction = "REASSIGN"
	ActionEscalate              AuditAction = "ESCALATE"
	ActionAutoEscalate          AuditAction = "AUTO_ESCALATE"
	ActionAdminReopen           AuditAction = "ADMIN_REOPEN"
	ActionAdminForceResolve     AuditAction = "ADMIN_FORCE_RESOLVE"
	ActionAdminForceReject      AuditAction = "ADMIN_FORCE_REJECT"
	ActionSubmitResolution      AuditAction = "SUBMIT_RESOLUTION"
	ActionResubmitResolution    AuditAction = "RESUBMIT_RESOLUTION"
	ActionVerify                AuditAction = "VERIFY"
	ActionReject                AuditAction = "REJECT"
	ActionWithdraw              AuditAction = "WITHDRAW"
	ActionUpdate                AuditAction = "UPDATE"
	ActionComment               AuditAction = "COMMENT"
)

func (a AuditAction) IsValid() bool {
	switch a {
	case ActionCreate, ActionAssignToSupervisor, ActionDirectAssignToOfficer,
		ActionAssign, ActionReassign, ActionEscalate, ActionAutoEscalate,
		ActionAdminReopen, ActionAdminForceResolve, ActionAdminForceReject,
		ActionSubmitResolution, ActionResubmitResolution, ActionVerify,
		ActionReject, ActionWithdraw, ActionUpdate, ActionComment:
		return true
	}
	return false
}

// AuditLogEntry is written once and never updated. Some entries target a
// user rather than a complaint, so both references are optional.
type AuditLogEntry struct {
	ID           uuid.UUID        `gorm:"type:uuid;primaryKey;default:uuid_generate_v4()" json:"id"`
	ComplaintID  *uuid.UUID       `gorm:"type:uuid" json:"complaint_id"`
	TargetUserID *uuid.UUID       `gorm:"type:uuid" json:"target_user_id"`
	ActorID      uuid.UUID        `gorm:"type:uuid;not null" json:"actor_id"`
	ActorRole    UserRole         `gorm:"type:user_role;not null" json:"actor_role"`
	OldStatus    *ComplaintStatus `gorm:"type:complaint_status" json:"old_status"`
	NewStatus    *ComplaintStatus `gorm:"type:complaint_status" json:"new_status"`
	Action       AuditAction      `gorm:"type:varchar(64);not null" json:"action"`
	Remarks      string           `gorm:"type:text" json:"remarks"`
	CreatedAt    time.Time        `gorm:"autoCreateTime" json:"created_at"`
}

func (AuditLogEntry) TableName() string {
	return "audit_log"
}

func (e *AuditLogEntry) BeforeCreate(tx *gorm.DB) error {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	return nil
}
