package models

import "time"

// InternshipStatus captures the lifecycle of an active internship record.
type InternshipStatus string

const (
	InternshipStatusActive               InternshipStatus = "ACTIVE"
	InternshipStatusTerminationRequested InternshipStatus = "TERMINATION_REQUESTED"
	InternshipStatusCompleted            InternshipStatus = "COMPLETED"
)

// Internship is the execution record produced by a fully approved application.
// TotalHours is a cached aggregate; the hour ledger is the source of truth and
// the cache is only ever written inside the ledger append transaction.
type Internship struct {
	ID              string           `db:"id" json:"id"`
	ApplicationID   string           `db:"application_id" json:"application_id"`
	StudentID       string           `db:"student_id" json:"student_id"`
	UnitID          string           `db:"unit_id" json:"unit_id"`
	Status          InternshipStatus `db:"status" json:"status"`
	StartDate       time.Time        `db:"start_date" json:"start_date"`
	ActualStartDate *time.Time       `db:"actual_start_date" json:"actual_start_date,omitempty"`
	EndDate         *time.Time       `db:"end_date" json:"end_date,omitempty"`
	TotalHours      float64          `db:"total_hours" json:"total_hours"`
	CreatedAt       time.Time        `db:"created_at" json:"created_at"`
	UpdatedAt       time.Time        `db:"updated_at" json:"updated_at"`
}
