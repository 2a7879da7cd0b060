// Package policy holds the complaint status transition table. It is pure:
// no storage, no clock, just (state, state, role) lookups.
package policy

import (
	"fmt"
	"sort"
	"strings"

	"complaint-service/internal/model"
)

type rule struct {
	targets []model.ComplaintStatus
	roles   []model.UserRole
}

// Role authorization is keyed by source state only: a role allowed to leave a
// state may move it to any of the state's targets. This coarseness is part of
// the contract; callers needing a tighter gate check it themselves.
var transitions = map[model.ComplaintStatus]rule{
	model.StatusCreated: {
		targets: []model.ComplaintStatus{model.StatusAssigned, model.StatusRejected, model.StatusWithdrawn},
		roles:   []model.UserRole{model.UserRoleAdmin, model.UserRoleSupervisor, model.UserRoleCitizen},
	},
	model.StatusAssigned: {
		targets: []model.ComplaintStatus{model.StatusInProgress, model.StatusRejected, model.StatusWithdrawn},
		roles:   []model.UserRole{model.UserRoleSupervisor, model.UserRoleOfficer, model.UserRoleCitizen},
	},
	model.StatusInProgress: {
		targets: []model.ComplaintStatus{model.StatusPendingVerification, model.StatusRejected, model.StatusWithdrawn},
		roles:   []model.UserRole{model.UserRoleOfficer, model.UserRoleSupervisor, model.UserRoleCitizen},
	},
	model.StatusPendingVerification: {
		targets: []model.ComplaintStatus{model.StatusResolved, model.StatusAssigned, model.StatusRejected},
		roles:   []model.UserRole{model.UserRoleSupervisor, model.UserRoleAdmin},
	},
	model.StatusResolved: {
		targets: []model.ComplaintStatus{model.StatusAssigned},
		roles:   []model.UserRole{model.UserRoleAdmin, model.UserRoleSupervisor},
	},
	model.StatusRejected: {
		targets: []model.ComplaintStatus{model.StatusAssigned},
		roles:   []model.UserRole{model.UserRoleAdmin, model.UserRoleSupervisor},
	},
	// WITHDRAWN is terminal: no targets, no roles.
	model.StatusWithdrawn: {},
}

// ValidateTransition reports whether role may move a complaint from one
// status to another. The target check runs before the role check, so an
// illegal target always surfaces as ErrInvalidTransition.
func ValidateTransition(from, to model.ComplaintStatus, role model.UserRole) error {
	r := transitions[from]

	if !contains(r.targets, to) {
		return &TransitionError{
			Kind:    KindInvalidTransition,
			From:    from,
			To:      to,
			Role:    role,
			Allowed: append([]model.ComplaintStatus(nil), r.targets...),
		}
	}

	if !containsRole(r.roles, role) {
		return &TransitionError{
			Kind:       KindUnauthorized,
			From:       from,
			To:         to,
			Role:       role,
			Authorized: append([]model.UserRole(nil), r.roles...),
		}
	}

	return nil
}

// CanTransition is the non-failing predicate over ValidateTransition.
func CanTransition(from, to model.ComplaintStatus, role model.UserRole) bool {
	return ValidateTransition(from, to, role) == nil
}

// AllowedTransitions returns the legal next statuses for a (status, role)
// pair, sorted for stable output. Empty when the role may not act from the
// state at all.
func AllowedTransitions(from model.ComplaintStatus, role model.UserRole) []model.ComplaintStatus {
	r := transitions[from]
	if !containsRole(r.roles, role) {
		return nil
	}
	out := append([]model.ComplaintStatus(nil), r.targets...)
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

type ErrorKind int

const (
	KindInvalidTransition ErrorKind = iota
	KindUnauthorized
)

// TransitionError carries enough context to tell the caller what would have
// been legal instead.
type TransitionError struct {
	Kind       ErrorKind
	From       model.ComplaintStatus
	To         model.ComplaintStatus
	Role       model.UserRole
	Allowed    []model.ComplaintStatus
	Authorized []model.UserRole
}

func (e *TransitionError) Error() string {
	switch e.Kind {
	case KindUnauthorized:
		return fmt.Sprintf("role %s may not transition a complaint out of %s (authorized: %s)",
			e.Role, e.From, joinRoles(e.Authorized))
	default:
		if len(e.Allowed) == 0 {
			return fmt.Sprintf("cannot transition from %s to %s: %s is terminal", e.From, e.To, e.From)
		}
		return fmt.Sprintf("cannot transition from %s to %s (allowed: %s)",
			e.From, e.To, joinStatuses(e.Allowed))
	}
}

func joinStatuses(statuses []model.ComplaintStatus) string {
	parts := make([]string, 0, len(statuses))
	for _, s := range statuses {
		parts = append(parts, string(s))
	}
	return strings.Join(parts, ", ")
}

func joinRoles(roles []model.UserRole) string {
	if len(roles) == 0 {
		return "none"
	}
	parts := make([]string, 0, len(roles))
	for _, r := range roles {
		parts = append(parts, string(r))
	}
	return strings.Join(parts, ", ")
}

func contains(list []model.ComplaintStatus, s model.ComplaintStatus) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

func containsRole(list []model.UserRole, r model.UserRole) bool {
	for _, v := range list {
		if v == r {
			return true
		}
	}
	return false
}
