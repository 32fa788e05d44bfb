package domain

import (
	"encoding/json"
	"time"
)

// AuditLog is the payload emitted to the audit sink for every mutating core
// operation. The core's obligation is to produce the payload; persistence
// belongs to the sink.
type AuditLog struct {
	ID           string
	ActorID      string
	Action       string
	ResourceType string
	ResourceID   string
	OldValues    JSON
	NewValues    JSON
	Severity     AuditSeverity
	CreatedAt    time.Time
}

// JSON is a type alias for JSON data
type JSON map[string]any

// AuditAction represents different types of auditable actions
type AuditAction string

const (
	AuditActionShiftStart    AuditAction = "shift.start"
	AuditActionShiftEnd      AuditAction = "shift.end"
	AuditActionShiftHandover AuditAction = "shift.handover"
	AuditActionShiftAbandon  AuditAction = "shift.abandon"

	AuditActionDrawerDeposit   AuditAction = "drawer.deposit"
	AuditActionDrawerWithdraw  AuditAction = "drawer.withdraw"
	AuditActionDrawerAdjust    AuditAction = "drawer.adjust"
	AuditActionDrawerReconcile AuditAction = "drawer.reconcile"

	AuditActionEmployeeLogin AuditAction = "employee.login"
)

// AuditSeverity represents the weight of an audited action
type AuditSeverity string

const (
	AuditSeverityInfo     AuditSeverity = "info"
	AuditSeverityWarning  AuditSeverity = "warning"
	AuditSeverityCritical AuditSeverity = "critical"
)

// MarshalState converts a domain object to JSON for audit logging
func MarshalState(v any) JSON {
	if v == nil {
		return nil
	}

	data, err := json.Marshal(v)
	if err != nil {
		return JSON{"error": "failed to marshal state"}
	}

	var result JSON
	if err := json.Unmarshal(data, &result); err != nil {
		return JSON{"error": "failed to unmarshal state"}
	}

	return result
}
