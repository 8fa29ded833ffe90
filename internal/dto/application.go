package dto

import (
	"time"

	"github.com/longlong7211/intern-manager-sub000/internal/models"
)

// RegisterApplicationRequest payload for creating an internship application.
type RegisterApplicationRequest struct {
	UnitID            string    `json:"unit_id" validate:"required"`
	PositionTitle     string    `json:"position_title" validate:"required"`
	Description       string    `json:"description"`
	ExpectedStartDate time.Time `json:"expected_start_date" validate:"required"`
	ExpectedHours     int       `json:"expected_hours" validate:"required"`
	SubmitNow         bool      `json:"submit_now"`
}

// RegisterForStudentRequest is the staff-assisted registration payload.
type RegisterForStudentRequest struct {
	StudentID string `json:"student_id" validate:"required"`
	RegisterApplicationRequest
}

// ReviewRequest captures a reviewer decision and optional comment.
type ReviewRequest struct {
	Decision models.ReviewDecision `json:"decision" validate:"required"`
	Comment  string                `json:"comment"`
}

// FinalApproveRequest carries the optional supervisor comment.
type FinalApproveRequest struct {
	Comment string `json:"comment"`
}

// ApplicationQuery mirrors supported listing filters.
type ApplicationQuery struct {
	Status   []models.ApplicationStatus
	UnitID   string
	Page     int
	PageSize int
}
