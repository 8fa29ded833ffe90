package models

import "time"

// NotificationType tags the workflow event a notification reports.
type NotificationType string

const (
	NotificationApplicationSubmitted NotificationType = "APPLICATION_SUBMITTED"
	NotificationReviewOutcome        NotificationType = "REVIEW_OUTCOME"
	NotificationAwaitingReview       NotificationType = "AWAITING_REVIEW"
	NotificationInternshipStarted    NotificationType = "INTERNSHIP_STARTED"
	NotificationHourAdjusted         NotificationType = "HOUR_ADJUSTED"
	NotificationTerminationRequested NotificationType = "TERMINATION_REQUESTED"
	NotificationTerminationOutcome   NotificationType = "TERMINATION_OUTCOME"
)

// Notification is a per-user message created as a workflow side effect.
// Rows are append-only except for the read flag.
type Notification struct {
	ID        string           `db:"id" json:"id"`
	UserID    string           `db:"user_id" json:"user_id"`
	Type      NotificationType `db:"type" json:"type"`
	Title     string           `db:"title" json:"title"`
	Body      string           `db:"body" json:"body"`
	Read      bool             `db:"read" json:"read"`
	CreatedAt time.Time        `db:"created_at" json:"created_at"`
	ReadAt    *time.Time       `db:"read_at" json:"read_at,omitempty"`
}

// NotificationFilter constrains notification listing.
type NotificationFilter struct {
	UserID     string
	OnlyUnread bool
	Page       int
	PageSize   int
}
