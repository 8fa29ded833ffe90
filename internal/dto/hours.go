package dto

import "time"

// AddHourAdjustmentRequest payload for appending a ledger entry.
type AddHourAdjustmentRequest struct {
	Hours     float64    `json:"hours" validate:"required"`
	Reason    string     `json:"reason" validate:"required"`
	ScopeDate *time.Time `json:"scope_date"`
	Tags      *string    `json:"tags"`
}
