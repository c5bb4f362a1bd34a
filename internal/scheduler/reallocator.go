package scheduler

import (
	"github.com/mfirdaus-dev/petrostaff-api/internal/models"
)

// Reallocator patches an existing schedule after a leave approval. Only
// slots inside the leave window that contain the newly unavailable
// employee are touched; every other assignment is preserved exactly.
type Reallocator struct {
	roster *Roster
}

// NewReallocator constructs a reallocator. The roster must be built
// against the post-approval ledger so the affected employee is already
// ineligible for the leave window.
func NewReallocator(roster *Roster) *Reallocator {
	return &Reallocator{roster: roster}
}

// OnLeaveApproved removes the employee from affected slots and attempts
// a refill using the allocator's fairness rule, restricted to employees
// not already assigned anywhere on the same date. The schedule is
// mutated in place; the returned delta lists slots whose shortage
// status changed.
func (r *Reallocator) OnLeaveApproved(leave models.LeaveRequest, schedule *models.Schedule) ([]models.ShortageDelta, error) {
	if leave.Status != models.LeaveApproved {
		return nil, ErrLeaveNotApproved
	}
	if models.Midnight(leave.EndDate).Before(models.Midnight(leave.StartDate)) {
		return nil, ErrInvalidRange
	}
	if !r.roster.Knows(leave.EmployeeID) {
		return nil, ErrEmployeeNotFound
	}

	assignedByDay, counts := indexAssignments(schedule)

	deltas := []models.ShortageDelta{}
	for i := range schedule.Slots {
		slot := &schedule.Slots[i]
		if !leave.Covers(slot.Date) || !slot.Contains(leave.EmployeeID) {
			continue
		}

		wasShort := slot.Shortage
		slot.Remove(leave.EmployeeID)
		counts[leave.EmployeeID]--

		dayKey := slot.Date.Format(models.DateLayout)
		delete(assignedByDay[dayKey], leave.EmployeeID)

		r.refill(slot, assignedByDay[dayKey], counts)

		if slot.Shortage != wasShort {
			deltas = append(deltas, models.ShortageDelta{
				ShortageEntry: models.ShortageEntry{
					Date:     slot.Date,
					Shift:    slot.Shift,
					Position: slot.Position,
					Required: slot.Required,
					Assigned: len(slot.AssignedIDs),
				},
				WasShort: wasShort,
				NowShort: slot.Shortage,
			})
		}
	}

	return deltas, nil
}

func (r *Reallocator) refill(slot *models.ScheduleSlot, assignedToday map[string]struct{}, counts map[string]int) {
	need := slot.Required - len(slot.AssignedIDs)
	if need <= 0 {
		slot.Shortage = false
		return
	}

	eligible, err := r.roster.ListEligible(slot.Position, slot.Date)
	if err != nil {
		// Position came from a previously built slot, so this cannot
		// happen; keep the slot short rather than fail the pass.
		slot.Shortage = true
		return
	}

	free := make([]string, 0, len(eligible))
	for _, id := range eligible {
		if _, busy := assignedToday[id]; busy {
			continue
		}
		free = append(free, id)
	}

	for _, id := range pickFair(free, need, counts) {
		slot.AssignedIDs = append(slot.AssignedIDs, id)
		assignedToday[id] = struct{}{}
		counts[id]++
	}

	slot.Shortage = len(slot.AssignedIDs) < slot.Required
}

// indexAssignments builds the per-day assignment sets and per-employee
// totals the refill fairness rule works against.
func indexAssignments(schedule *models.Schedule) (map[string]map[string]struct{}, map[string]int) {
	assignedByDay := make(map[string]map[string]struct{})
	counts := make(map[string]int)
	for _, slot := range schedule.Slots {
		dayKey := slot.Date.Format(models.DateLayout)
		if assignedByDay[dayKey] == nil {
			assignedByDay[dayKey] = make(map[string]struct{})
		}
		for _, id := range slot.AssignedIDs {
			assignedByDay[dayKey][id] = struct{}{}
			counts[id]++
		}
	}
	return assignedByDay, counts
}
