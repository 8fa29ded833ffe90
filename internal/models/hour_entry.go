package models

import "time"

// HourEntry is one signed adjustment in an internship's hour ledger.
// Entries are append-only: never edited, never deleted. Corrections are
// recorded as new entries with the opposite sign.
type HourEntry struct {
	ID           string     `db:"id" json:"id"`
	InternshipID string     `db:"internship_id" json:"internship_id"`
	Hours        float64    `db:"hours" json:"hours"`
	Reason       string     `db:"reason" json:"reason"`
	ApproverID   string     `db:"approver_id" json:"approver_id"`
	ApproverRole UserRole   `db:"approver_role" json:"approver_role"`
	ScopeDate    *time.Time `db:"scope_date" json:"scope_date,omitempty"`
	Tags         *string    `db:"tags" json:"tags,omitempty"`
	CreatedAt    time.Time  `db:"created_at" json:"created_at"`
}

// HourSummary pairs the full ordered entry list with an independently summed
// total, bypassing the cached aggregate on the internship row.
type HourSummary struct {
	InternshipID string      `json:"internship_id"`
	Entries      []HourEntry `json:"entries"`
	TotalHours   float64     `json:"total_hours"`
}
