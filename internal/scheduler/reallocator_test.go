package scheduler

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mfirdaus-dev/petrostaff-api/internal/models"
)

func approvedLeave(employeeID, start, end string) models.LeaveRequest {
	return models.LeaveRequest{
		EmployeeID: employeeID,
		StartDate:  date(start),
		EndDate:    date(end),
		Status:     models.LeaveApproved,
	}
}

func TestOnLeaveApprovedDropsEmployeeAndFlagsShortage(t *testing.T) {
	// Build with everyone available, then approve leave for E1. With
	// only one other cashier the refill must fail and flag a shortage.
	buildRoster := NewRoster([]models.Employee{
		employee("E1", models.PositionCashier),
		employee("E2", models.PositionCashier),
		employee("E3", models.PositionForecourt),
	}, NewLeaveLedger(nil))
	schedule, err := NewAllocator(buildRoster, morningCashierCatalog()).BuildSchedule(date("2024-06-01"), 1)
	require.NoError(t, err)
	require.Equal(t, []string{"E1", "E2"}, []string(schedule.Slots[0].AssignedIDs))

	leave := approvedLeave("E1", "2024-06-01", "2024-06-01")
	patchRoster := NewRoster([]models.Employee{
		employee("E1", models.PositionCashier),
		employee("E2", models.PositionCashier),
		employee("E3", models.PositionForecourt),
	}, NewLeaveLedger([]models.LeaveRequest{leave}))

	deltas, err := NewReallocator(patchRoster).OnLeaveApproved(leave, schedule)
	require.NoError(t, err)

	slot := schedule.Slots[0]
	assert.Equal(t, []string{"E2"}, []string(slot.AssignedIDs))
	assert.True(t, slot.Shortage)

	require.Len(t, deltas, 1)
	assert.False(t, deltas[0].WasShort)
	assert.True(t, deltas[0].NowShort)
	assert.Equal(t, 2, deltas[0].Required)
	assert.Equal(t, 1, deltas[0].Assigned)
}

func TestOnLeaveApprovedRefillsFromBench(t *testing.T) {
	employees := []models.Employee{
		employee("E1", models.PositionCashier),
		employee("E2", models.PositionCashier),
		employee("E3", models.PositionCashier),
	}
	schedule, err := NewAllocator(NewRoster(employees, NewLeaveLedger(nil)), morningCashierCatalog()).
		BuildSchedule(date("2024-06-01"), 1)
	require.NoError(t, err)
	require.Equal(t, []string{"E1", "E2"}, []string(schedule.Slots[0].AssignedIDs))

	leave := approvedLeave("E1", "2024-06-01", "2024-06-01")
	patchRoster := NewRoster(employees, NewLeaveLedger([]models.LeaveRequest{leave}))

	deltas, err := NewReallocator(patchRoster).OnLeaveApproved(leave, schedule)
	require.NoError(t, err)

	slot := schedule.Slots[0]
	assert.Equal(t, []string{"E2", "E3"}, []string(slot.AssignedIDs))
	assert.False(t, slot.Shortage)
	assert.Empty(t, deltas, "shortage status did not change")
}

func TestOnLeaveApprovedLeavesOtherSlotsUntouched(t *testing.T) {
	roster := stationRoster()
	schedule, err := NewAllocator(roster, DefaultCatalog()).BuildSchedule(date("2024-06-01"), 7)
	require.NoError(t, err)

	before := make([]models.ScheduleSlot, len(schedule.Slots))
	for i, slot := range schedule.Slots {
		cp := slot
		cp.AssignedIDs = append([]string(nil), slot.AssignedIDs...)
		before[i] = cp
	}

	leave := approvedLeave("C001", "2024-06-03", "2024-06-04")
	patchRoster := stationRoster(leave)

	_, err = NewReallocator(patchRoster).OnLeaveApproved(leave, schedule)
	require.NoError(t, err)

	for i, slot := range schedule.Slots {
		inWindow := !slot.Date.Before(date("2024-06-03")) && !slot.Date.After(date("2024-06-04"))
		if inWindow {
			assert.NotContains(t, []string(slot.AssignedIDs), "C001")
			continue
		}
		assert.Equal(t, before[i], slot, "slot outside the leave window changed")
	}
}

func TestOnLeaveApprovedRefillSkipsSameDayAssignments(t *testing.T) {
	// Four cashiers, two shifts of two. C4 rests on day one; when C1
	// goes on leave only C4 is free to step into the morning slot.
	employees := []models.Employee{
		employee("C1", models.PositionCashier),
		employee("C2", models.PositionCashier),
		employee("C3", models.PositionCashier),
		employee("C4", models.PositionCashier),
	}
	catalog := NewCatalog(
		models.ShiftDefinition{
			Type:         models.ShiftMorning,
			StartTime:    "07:00",
			EndTime:      "15:00",
			Requirements: map[models.Position]int{models.PositionCashier: 2},
		},
		models.ShiftDefinition{
			Type:         models.ShiftEvening,
			StartTime:    "15:00",
			EndTime:      "23:00",
			Requirements: map[models.Position]int{models.PositionCashier: 1},
		},
	)
	schedule, err := NewAllocator(NewRoster(employees, NewLeaveLedger(nil)), catalog).
		BuildSchedule(date("2024-06-01"), 1)
	require.NoError(t, err)
	require.Equal(t, []string{"C1", "C2"}, []string(schedule.Slots[0].AssignedIDs))
	require.Equal(t, []string{"C3"}, []string(schedule.Slots[1].AssignedIDs))

	leave := approvedLeave("C1", "2024-06-01", "2024-06-01")
	patchRoster := NewRoster(employees, NewLeaveLedger([]models.LeaveRequest{leave}))

	_, err = NewReallocator(patchRoster).OnLeaveApproved(leave, schedule)
	require.NoError(t, err)

	assert.Equal(t, []string{"C2", "C4"}, []string(schedule.Slots[0].AssignedIDs))
	assert.Equal(t, []string{"C3"}, []string(schedule.Slots[1].AssignedIDs))
}

func TestOnLeaveApprovedValidation(t *testing.T) {
	roster := stationRoster()
	schedule, err := NewAllocator(roster, DefaultCatalog()).BuildSchedule(date("2024-06-01"), 1)
	require.NoError(t, err)

	pending := approvedLeave("C001", "2024-06-01", "2024-06-01")
	pending.Status = models.LeavePending
	_, err = NewReallocator(roster).OnLeaveApproved(pending, schedule)
	assert.ErrorIs(t, err, ErrLeaveNotApproved)

	inverted := approvedLeave("C001", "2024-06-05", "2024-06-01")
	_, err = NewReallocator(roster).OnLeaveApproved(inverted, schedule)
	assert.ErrorIs(t, err, ErrInvalidRange)

	unknown := approvedLeave("Z999", "2024-06-01", "2024-06-01")
	_, err = NewReallocator(roster).OnLeaveApproved(unknown, schedule)
	assert.ErrorIs(t, err, ErrEmployeeNotFound)
}

func TestOnLeaveApprovedWindowBeyondScheduleIsNoOp(t *testing.T) {
	roster := stationRoster()
	schedule, err := NewAllocator(roster, DefaultCatalog()).BuildSchedule(date("2024-06-01"), 3)
	require.NoError(t, err)

	leave := approvedLeave("C001", "2024-07-01", "2024-07-05")
	patchRoster := stationRoster(leave)

	deltas, err := NewReallocator(patchRoster).OnLeaveApproved(leave, schedule)
	require.NoError(t, err)
	assert.Empty(t, deltas)
}
