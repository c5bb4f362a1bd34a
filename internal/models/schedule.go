package models

import (
	"time"

	"github.com/lib/pq"
)

// ScheduleSlot is one (date, shift, position) unit of required staffing
// together with its current assignments. Shortage is true whenever the
// assigned headcount is below the requirement.
type ScheduleSlot struct {
	ID          string         `db:"id" json:"id,omitempty"`
	Date        time.Time      `db:"slot_date" json:"date"`
	Shift       ShiftType      `db:"shift" json:"shift"`
	Position    Position       `db:"position" json:"position"`
	Required    int            `db:"required" json:"required"`
	AssignedIDs pq.StringArray `db:"assigned_ids" json:"assigned_ids"`
	Shortage    bool           `db:"shortage" json:"shortage"`
}

// Contains reports whether the employee is assigned to this slot.
func (s *ScheduleSlot) Contains(employeeID string) bool {
	for _, id := range s.AssignedIDs {
		if id == employeeID {
			return true
		}
	}
	return false
}

// Remove drops the employee from the slot's assignment sequence and
// recomputes the shortage flag. It reports whether a removal happened.
func (s *ScheduleSlot) Remove(employeeID string) bool {
	for i, id := range s.AssignedIDs {
		if id == employeeID {
			s.AssignedIDs = append(s.AssignedIDs[:i], s.AssignedIDs[i+1:]...)
			s.Shortage = len(s.AssignedIDs) < s.Required
			return true
		}
	}
	return false
}

// ScheduleSummary mirrors the roll-up the roster board displays next to
// a generated schedule.
type ScheduleSummary struct {
	TotalDays         int            `json:"total_days"`
	StartDate         time.Time      `json:"start_date"`
	EndDate           time.Time      `json:"end_date"`
	TotalCashiers     int            `json:"total_cashiers"`
	TotalForecourt    int            `json:"total_forecourt"`
	ShiftDistribution map[string]int `json:"shift_distribution"`
}

// Schedule is the assignment table for a date range. Slots are ordered
// by (date, shift, position) and cover every combination with a
// non-zero requirement.
type Schedule struct {
	StartDate time.Time       `json:"start_date"`
	Days      int             `json:"days"`
	Slots     []ScheduleSlot  `json:"slots"`
	Summary   ScheduleSummary `json:"summary"`
}

// EndDate returns the last (inclusive) date covered by the schedule.
func (s *Schedule) EndDate() time.Time {
	if s.Days <= 0 {
		return Midnight(s.StartDate)
	}
	return Midnight(s.StartDate).AddDate(0, 0, s.Days-1)
}

// ShortageEntry is one row of the shortage report.
type ShortageEntry struct {
	Date     time.Time `json:"date"`
	Shift    ShiftType `json:"shift"`
	Position Position  `json:"position"`
	Required int       `json:"required"`
	Assigned int       `json:"assigned"`
}

// ShortageDelta records a slot whose shortage status changed during a
// reallocation pass.
type ShortageDelta struct {
	ShortageEntry
	WasShort bool `json:"was_short"`
	NowShort bool `json:"now_short"`
}
