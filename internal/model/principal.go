package model

import "github.com/google/uuid"

type UserRole string

const (
	UserRoleCitizen    UserRole = "CITIZEN"
	UserRoleOfficer    UserRole = "OFFICER"
	UserRoleSupervisor UserRole = "SUPERVISOR"
	UserRoleAdmin      UserRole = "ADMIN"

	// UserRoleSystem attributes sweep-originated audit entries. It is never
	// a caller role and IsValid rejects it at the boundary.
	UserRoleSystem UserRole = "SYSTEM"
)

func (r UserRole) IsValid() bool {
	switch r {
	case UserRoleCitizen, UserRoleOfficer, UserRoleSupervisor, UserRoleAdmin:
		return true
	}
	return false
}

// Principal is the pre-authenticated caller identity supplied by the auth
// middleware. Roles are carried in the token, not looked up per request.
type Principal struct {
	UserID uuid.UUID
	Role   UserRole
}

func (p Principal) IsCitizen() bool {
	return p.Role == UserRoleCitizen
}

func (p Principal) IsOfficer() bool {
	return p.Role == UserRoleOfficer
}

func (p Principal) IsSupervisor() bool {
	return p.Role == UserRoleSupervisor
}

func (p Principal) IsAdmin() bool {
	return p.Role == UserRoleAdmin
}
