package service

import "errors"

var (
	ErrNotFound              = errors.New("not found")
	ErrInvalidAssignee       = errors.New("invalid assignee")
	ErrInvalidTransition     = errors.New("invalid status transition")
	ErrUnauthorized          = errors.New("role not authorized for this transition")
	ErrInvalidState          = errors.New("operation not allowed in current state")
	ErrValidation            = errors.New("invalid input")
	ErrConflict              = errors.New("complaint was modified concurrently")
	ErrNoSupervisorAvailable = errors.New("no active supervisor available")
)
