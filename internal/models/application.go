package models

import "time"

// ApplicationStatus captures the workflow state of an internship application.
type ApplicationStatus string

const (
	ApplicationStatusDraft      ApplicationStatus = "DRAFT"
	ApplicationStatusSubmitted  ApplicationStatus = "SUBMITTED"
	ApplicationStatusApprovedL1 ApplicationStatus = "APPROVED_L1"
	ApplicationStatusRejectedL1 ApplicationStatus = "REJECTED_L1"
	ApplicationStatusRevisionL1 ApplicationStatus = "REVISION_REQUESTED_L1"
	ApplicationStatusApprovedL2 ApplicationStatus = "APPROVED_L2"
	ApplicationStatusRejectedL2 ApplicationStatus = "REJECTED_L2"
	ApplicationStatusRevisionL2 ApplicationStatus = "REVISION_REQUESTED_L2"
	ApplicationStatusFinal      ApplicationStatus = "APPROVED_FINAL"
)

// ReviewDecision is the reviewer verdict supplied to the review operations.
type ReviewDecision string

const (
	DecisionApproved          ReviewDecision = "APPROVED"
	DecisionRejected          ReviewDecision = "REJECTED"
	DecisionRevisionRequested ReviewDecision = "REVISION_REQUESTED"
)

// applicationTransitions is the canonical transition table. L1 review strictly
// precedes L2 review; resubmission after a revision request returns to the
// stage that asked for it.
var applicationTransitions = map[ApplicationStatus][]ApplicationStatus{
	ApplicationStatusDraft:      {ApplicationStatusSubmitted},
	ApplicationStatusSubmitted:  {ApplicationStatusApprovedL1, ApplicationStatusRejectedL1, ApplicationStatusRevisionL1},
	ApplicationStatusRevisionL1: {ApplicationStatusSubmitted},
	ApplicationStatusApprovedL1: {ApplicationStatusApprovedL2, ApplicationStatusRejectedL2, ApplicationStatusRevisionL2},
	ApplicationStatusRevisionL2: {ApplicationStatusApprovedL1},
	ApplicationStatusApprovedL2: {ApplicationStatusFinal},
}

// CanTransition reports whether the transition table allows moving from one
// status to the other.
func CanTransition(from, to ApplicationStatus) bool {
	for _, next := range applicationTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// IsTerminalStatus reports whether no further transitions are allowed.
func IsTerminalStatus(status ApplicationStatus) bool {
	switch status {
	case ApplicationStatusFinal, ApplicationStatusRejectedL1, ApplicationStatusRejectedL2:
		return true
	}
	return false
}

// InFlightStatuses is the authoritative definition of "in-flight": every
// non-terminal status past DRAFT. At most one application per student may
// carry one of these at a time.
var InFlightStatuses = []ApplicationStatus{
	ApplicationStatusSubmitted,
	ApplicationStatusApprovedL1,
	ApplicationStatusRevisionL1,
	ApplicationStatusApprovedL2,
	ApplicationStatusRevisionL2,
}

// InternshipApplication is one internship request moving through the review
// gates. Applications are never deleted; terminal rows remain as history.
type InternshipApplication struct {
	ID                string            `db:"id" json:"id"`
	StudentID         string            `db:"student_id" json:"student_id"`
	UnitID            string            `db:"unit_id" json:"unit_id"`
	PositionTitle     string            `db:"position_title" json:"position_title"`
	Description       string            `db:"description" json:"description"`
	ExpectedStartDate time.Time         `db:"expected_start_date" json:"expected_start_date"`
	ExpectedHours     int               `db:"expected_hours" json:"expected_hours"`
	Status            ApplicationStatus `db:"status" json:"status"`
	AppliedAt         time.Time         `db:"applied_at" json:"applied_at"`
	SubmittedAt       *time.Time        `db:"submitted_at" json:"submitted_at,omitempty"`
	L1ReviewerID      *string           `db:"l1_reviewer_id" json:"l1_reviewer_id,omitempty"`
	L1ReviewedAt      *time.Time        `db:"l1_reviewed_at" json:"l1_reviewed_at,omitempty"`
	L1Comment         *string           `db:"l1_comment" json:"l1_comment,omitempty"`
	L2ReviewerID      *string           `db:"l2_reviewer_id" json:"l2_reviewer_id,omitempty"`
	L2ReviewedAt      *time.Time        `db:"l2_reviewed_at" json:"l2_reviewed_at,omitempty"`
	L2Comment         *string           `db:"l2_comment" json:"l2_comment,omitempty"`
	FinalApproverID   *string           `db:"final_approver_id" json:"final_approver_id,omitempty"`
	FinalApprovedAt   *time.Time        `db:"final_approved_at" json:"final_approved_at,omitempty"`
	CreatedByStaffID  *string           `db:"created_by_staff_id" json:"created_by_staff_id,omitempty"`
	CreatedAt         time.Time         `db:"created_at" json:"created_at"`
	UpdatedAt         time.Time         `db:"updated_at" json:"updated_at"`
}

// ApplicationFilter constrains listing queries.
type ApplicationFilter struct {
	Status    []ApplicationStatus
	StudentID string
	UnitID    string
	Page      int
	PageSize  int
}
