package scheduler

import (
	"time"

	"github.com/mfirdaus-dev/petrostaff-api/internal/models"
)

type leaveWindow struct {
	start time.Time
	end   time.Time
}

// LeaveLedger is an immutable snapshot of approved leave windows. Only
// approved requests make an employee unavailable; pending and rejected
// requests are ignored.
type LeaveLedger struct {
	byEmployee map[string][]leaveWindow
}

// NewLeaveLedger builds a ledger snapshot from leave requests.
func NewLeaveLedger(requests []models.LeaveRequest) *LeaveLedger {
	ledger := &LeaveLedger{byEmployee: make(map[string][]leaveWindow)}
	for _, req := range requests {
		if req.Status != models.LeaveApproved {
			continue
		}
		start := models.Midnight(req.StartDate)
		end := models.Midnight(req.EndDate)
		if end.Before(start) {
			continue
		}
		ledger.byEmployee[req.EmployeeID] = append(ledger.byEmployee[req.EmployeeID], leaveWindow{start: start, end: end})
	}
	return ledger
}

// OnLeave reports whether the employee is on approved leave for the
// given date. Both window boundaries are inclusive.
func (l *LeaveLedger) OnLeave(employeeID string, date time.Time) bool {
	day := models.Midnight(date)
	for _, window := range l.byEmployee[employeeID] {
		if !day.Before(window.start) && !day.After(window.end) {
			return true
		}
	}
	return false
}
