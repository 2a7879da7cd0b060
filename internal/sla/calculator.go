// Package sla computes assignment deadlines and escalation state. All
// offsets come from an explicit Config so deployments can tune them without
// touching code.
package sla

import (
	"math"
	"time"

	"complaint-service/internal/model"
)

type Config struct {
	CriticalDays      int
	HighDays          int
	MediumDays        int
	LowDays           int
	DirectOfficerDays int
	EscalationCap     int
}

func DefaultConfig() Config {
	return Config{
		CriticalDays:      1,
		HighDays:          2,
		MediumDays:        7,
		LowDays:           14,
		DirectOfficerDays: 3,
		EscalationCap:     3,
	}
}

type Calculator struct {
	cfg Config
	now func() time.Time
}

// NewCalculator builds a calculator. now may be nil, in which case time.Now
// is used; tests inject a fixed clock.
func NewCalculator(cfg Config, now func() time.Time) *Calculator {
	if now == nil {
		now = time.Now
	}
	return &Calculator{cfg: cfg, now: now}
}

func (c *Calculator) Now() time.Time {
	return c.now()
}

func (c *Calculator) Cap() int {
	return c.cfg.EscalationCap
}

// Assign starts a fresh SLA clock for a supervisor assignment: the due date
// depends on the complaint's priority at assignment time, and any previous
// escalation state is discarded.
func (c *Calculator) Assign(s *model.SLA, priority model.ComplaintPriority) {
	now := c.now()
	s.AssignedAt = &now
	due := now.AddDate(0, 0, c.daysFor(priority))
	s.DueBy = &due
	s.EscalatedAt = nil
	s.EscalationLevel = 0
}

// AssignDirect starts a fresh SLA clock for a direct officer assignment,
// which uses a fixed window regardless of priority.
func (c *Calculator) AssignDirect(s *model.SLA) {
	now := c.now()
	s.AssignedAt = &now
	due := now.AddDate(0, 0, c.cfg.DirectOfficerDays)
	s.DueBy = &due
	s.EscalatedAt = nil
	s.EscalationLevel = 0
}

// Escalate raises the escalation level by levels (minimum 1), clamped at the
// configured cap, and returns the priority the complaint should now carry:
// HIGH on any escalation, CRITICAL once the cap is reached.
func (c *Calculator) Escalate(s *model.SLA, levels int) model.ComplaintPriority {
	if levels < 1 {
		levels = 1
	}
	s.EscalationLevel += levels
	if s.EscalationLevel > c.cfg.EscalationCap {
		s.EscalationLevel = c.cfg.EscalationCap
	}
	now := c.now()
	s.EscalatedAt = &now

	if s.EscalationLevel >= c.cfg.EscalationCap {
		return model.PriorityCritical
	}
	return model.PriorityHigh
}

// Derive computes the read-side SLA view. A complaint is overdue only while
// it is actively being worked (ASSIGNED or IN_PROGRESS) and its deadline has
// passed.
func (c *Calculator) Derive(cm *model.Complaint, now time.Time) (model.SLAStatus, int) {
	active := cm.Status == model.StatusAssigned || cm.Status == model.StatusInProgress
	if cm.SLA.DueBy != nil && cm.SLA.DueBy.Before(now) && active {
		overdue := now.Sub(*cm.SLA.DueBy)
		days := int(math.Ceil(overdue.Hours() / 24))
		return model.SLAOverdue, days
	}
	if cm.SLA.EscalationLevel > 0 {
		return model.SLAEscalated, 0
	}
	return model.SLAOnTrack, 0
}

func (c *Calculator) daysFor(priority model.ComplaintPriority) int {
	switch priority {
	case model.PriorityCritical:
		return c.cfg.CriticalDays
	case model.PriorityHigh:
		return c.cfg.HighDays
	case model.PriorityMedium:
		return c.cfg.MediumDays
	case model.PriorityLow:
		return c.cfg.LowDays
	default:
		return c.cfg.MediumDays
	}
}
