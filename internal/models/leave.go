package models

import "time"

// LeaveStatus tracks the decision state of a leave request.
type LeaveStatus string

const (
	LeavePending  LeaveStatus = "PENDING"
	LeaveApproved LeaveStatus = "APPROVED"
	LeaveRejected LeaveStatus = "REJECTED"
)

// LeaveRequest represents a staff leave request. Once decided it is
// immutable; a resubmission creates a new request.
type LeaveRequest struct {
	ID         string      `db:"id" json:"id"`
	EmployeeID string      `db:"employee_id" json:"employee_id"`
	StartDate  time.Time   `db:"start_date" json:"start_date"`
	EndDate    time.Time   `db:"end_date" json:"end_date"`
	Reason     string      `db:"reason" json:"reason"`
	Status     LeaveStatus `db:"status" json:"status"`
	DecidedAt  *time.Time  `db:"decided_at" json:"decided_at,omitempty"`
	CreatedAt  time.Time   `db:"created_at" json:"created_at"`
	UpdatedAt  time.Time   `db:"updated_at" json:"updated_at"`
}

// Covers reports whether the leave window contains the given date.
// Both boundaries are inclusive.
func (l LeaveRequest) Covers(date time.Time) bool {
	day := Midnight(date)
	return !day.Before(Midnight(l.StartDate)) && !day.After(Midnight(l.EndDate))
}

// LeaveFilter captures filtering options for listing leave requests.
type LeaveFilter struct {
	EmployeeID string
	Status     *LeaveStatus
	Page       int
	PageSize   int
	SortBy     string
	SortOrder  string
}

// DateLayout is the wire format for schedule dates.
const DateLayout = "2006-01-02"

// Midnight truncates a timestamp to its UTC calendar day.
func Midnight(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
