package export

import "time"

// Statement is the printable hour record of a single internship.
type Statement struct {
	InternshipID  string
	StudentName   string
	PositionTitle string
	UnitID        string
	GeneratedAt   time.Time
	TotalHours    float64
	Lines         []StatementLine
}

// StatementLine is one ledger entry rendered on the statement.
type StatementLine struct {
	RecordedAt time.Time
	Hours      float64
	Reason     string
	ApproverID string
}
