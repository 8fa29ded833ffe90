package models

import "time"

// AuditAction constants represent actions to be logged.
const (
	AuditActionLogin                = "LOGIN"
	AuditActionLogout               = "LOGOUT"
	AuditActionPasswordChange       = "PASSWORD_CHANGE"
	AuditActionApplicationRegister  = "APPLICATION_REGISTER"
	AuditActionApplicationSubmit    = "APPLICATION_SUBMIT"
	AuditActionApplicationReviewL1  = "APPLICATION_REVIEW_L1"
	AuditActionApplicationReviewL2  = "APPLICATION_REVIEW_L2"
	AuditActionApplicationFinalize  = "APPLICATION_FINAL_APPROVE"
	AuditActionInternshipStart      = "INTERNSHIP_START"
	AuditActionHourAdjustment       = "HOUR_ADJUSTMENT"
	AuditActionStatementExport      = "STATEMENT_EXPORT"
	AuditActionTerminationRequested = "TERMINATION_REQUESTED"
	AuditActionTerminationProcessed = "TERMINATION_PROCESSED"
)

// AuditLog represents a write-once audit trail record with before/after
// snapshots of the mutated entity.
type AuditLog struct {
	ID         string    `db:"id" json:"id"`
	UserID     *string   `db:"user_id" json:"user_id,omitempty"`
	Action     string    `db:"action" json:"action"`
	Resource   string    `db:"resource" json:"resource"`
	ResourceID *string   `db:"resource_id" json:"resource_id,omitempty"`
	OldValues  []byte    `db:"old_values" json:"old_values,omitempty"`
	NewValues  []byte    `db:"new_values" json:"new_values,omitempty"`
	IPAddress  string    `db:"ip_address" json:"ip_address"`
	UserAgent  string    `db:"user_agent" json:"user_agent"`
	CreatedAt  time.Time `db:"created_at" json:"created_at"`
}
