package scheduler

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mfirdaus-dev/petrostaff-api/internal/models"
)

func TestListEligibleOrdersByIdentifier(t *testing.T) {
	roster := NewRoster([]models.Employee{
		employee("C003", models.PositionCashier),
		employee("C001", models.PositionCashier),
		employee("C002", models.PositionCashier),
	}, NewLeaveLedger(nil))

	eligible, err := roster.ListEligible(models.PositionCashier, date("2024-06-01"))
	require.NoError(t, err)
	assert.Equal(t, []string{"C001", "C002", "C003"}, eligible)
}

func TestListEligibleExcludesApprovedLeaveOnly(t *testing.T) {
	leaves := []models.LeaveRequest{
		{EmployeeID: "C001", StartDate: date("2024-06-01"), EndDate: date("2024-06-02"), Status: models.LeaveApproved},
		{EmployeeID: "C002", StartDate: date("2024-06-01"), EndDate: date("2024-06-02"), Status: models.LeavePending},
		{EmployeeID: "C003", StartDate: date("2024-06-01"), EndDate: date("2024-06-02"), Status: models.LeaveRejected},
	}
	roster := NewRoster([]models.Employee{
		employee("C001", models.PositionCashier),
		employee("C002", models.PositionCashier),
		employee("C003", models.PositionCashier),
	}, NewLeaveLedger(leaves))

	eligible, err := roster.ListEligible(models.PositionCashier, date("2024-06-02"))
	require.NoError(t, err)
	assert.Equal(t, []string{"C002", "C003"}, eligible)

	// Outside the leave window everyone is back.
	eligible, err = roster.ListEligible(models.PositionCashier, date("2024-06-03"))
	require.NoError(t, err)
	assert.Equal(t, []string{"C001", "C002", "C003"}, eligible)
}

func TestListEligibleUnknownPosition(t *testing.T) {
	roster := NewRoster(nil, NewLeaveLedger(nil))

	_, err := roster.ListEligible(models.Position("MECHANIC"), date("2024-06-01"))
	assert.ErrorIs(t, err, ErrPositionNotFound)
}

func TestListEligibleSkipsInactiveEmployees(t *testing.T) {
	inactive := employee("C002", models.PositionCashier)
	inactive.Active = false
	roster := NewRoster([]models.Employee{
		employee("C001", models.PositionCashier),
		inactive,
	}, NewLeaveLedger(nil))

	eligible, err := roster.ListEligible(models.PositionCashier, date("2024-06-01"))
	require.NoError(t, err)
	assert.Equal(t, []string{"C001"}, eligible)
	assert.False(t, roster.Knows("C002"))
}

func TestLeaveLedgerBoundariesAreInclusive(t *testing.T) {
	ledger := NewLeaveLedger([]models.LeaveRequest{
		{EmployeeID: "F001", StartDate: date("2024-06-10"), EndDate: date("2024-06-12"), Status: models.LeaveApproved},
	})

	assert.False(t, ledger.OnLeave("F001", date("2024-06-09")))
	assert.True(t, ledger.OnLeave("F001", date("2024-06-10")))
	assert.True(t, ledger.OnLeave("F001", date("2024-06-11")))
	assert.True(t, ledger.OnLeave("F001", date("2024-06-12")))
	assert.False(t, ledger.OnLeave("F001", date("2024-06-13")))
	assert.False(t, ledger.OnLeave("F002", date("2024-06-11")))
}
