package models

import "time"

// TerminationStatus captures the lifecycle of a termination request.
type TerminationStatus string

const (
	TerminationStatusPending  TerminationStatus = "PENDING"
	TerminationStatusApproved TerminationStatus = "APPROVED"
	TerminationStatusRejected TerminationStatus = "REJECTED"
)

// TerminationRequest asks to retire an active internship early. At most one
// PENDING request may exist per internship; resolved requests are immutable.
type TerminationRequest struct {
	ID               string            `db:"id" json:"id"`
	InternshipID     string            `db:"internship_id" json:"internship_id"`
	StudentID        string            `db:"student_id" json:"student_id"`
	Reason           *string           `db:"reason" json:"reason,omitempty"`
	Status           TerminationStatus `db:"status" json:"status"`
	ProcessorID      *string           `db:"processor_id" json:"processor_id,omitempty"`
	ProcessedAt      *time.Time        `db:"processed_at" json:"processed_at,omitempty"`
	ProcessorComment *string           `db:"processor_comment" json:"processor_comment,omitempty"`
	RequestedAt      time.Time         `db:"requested_at" json:"requested_at"`
}
