package service

import (
	"context"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/mfirdaus-dev/petrostaff-api/internal/models"
	"github.com/mfirdaus-dev/petrostaff-api/pkg/config"
	appErrors "github.com/mfirdaus-dev/petrostaff-api/pkg/errors"
)

type mockRosterSource struct {
	employees []models.Employee
}

func (m *mockRosterSource) ListActive(ctx context.Context) ([]models.Employee, error) {
	return m.employees, nil
}

type mockLeaveSource struct {
	approved []models.LeaveRequest
}

func (m *mockLeaveSource) ListApproved(ctx context.Context) ([]models.LeaveRequest, error) {
	return m.approved, nil
}

type mockScheduleStore struct {
	slots    []models.ScheduleSlot
	replaced []models.ScheduleSlot
	updated  []models.ScheduleSlot
}

func (m *mockScheduleStore) GetRange(ctx context.Context, start, end time.Time) ([]models.ScheduleSlot, error) {
	return append([]models.ScheduleSlot(nil), m.slots...), nil
}

func (m *mockScheduleStore) ReplaceRange(ctx context.Context, start, end time.Time, slots []models.ScheduleSlot) error {
	m.replaced = append([]models.ScheduleSlot(nil), slots...)
	m.slots = m.replaced
	return nil
}

func (m *mockScheduleStore) UpdateSlots(ctx context.Context, slots []models.ScheduleSlot) error {
	m.updated = append([]models.ScheduleSlot(nil), slots...)
	return nil
}

func (m *mockScheduleStore) Bounds(ctx context.Context) (time.Time, time.Time, bool, error) {
	if len(m.slots) == 0 {
		return time.Time{}, time.Time{}, false, nil
	}
	start, end := m.slots[0].Date, m.slots[0].Date
	for _, slot := range m.slots {
		if slot.Date.Before(start) {
			start = slot.Date
		}
		if slot.Date.After(end) {
			end = slot.Date
		}
	}
	return start, end, true, nil
}

func activeCashier(id string) models.Employee {
	return models.Employee{ID: id, FullName: "Employee " + id, Position: models.PositionCashier, Active: true}
}

func morningOnlyService(store *mockScheduleStore, employees []models.Employee, approved []models.LeaveRequest) *ScheduleService {
	catalog := CatalogFromConfig(config.ShiftConfig{MorningCashiers: 1})
	return NewScheduleService(
		&mockRosterSource{employees: employees},
		&mockLeaveSource{approved: approved},
		store, nil, nil, catalog, 31, validator.New(), zap.NewNop(),
	)
}

func TestScheduleServiceBuild(t *testing.T) {
	store := &mockScheduleStore{}
	svc := morningOnlyService(store, []models.Employee{activeCashier("C001"), activeCashier("C002")}, nil)

	schedule, err := svc.Build(context.Background(), BuildScheduleRequest{StartDate: "2026-03-02", Days: 4})
	require.NoError(t, err)
	assert.Equal(t, 4, schedule.Days)
	assert.Len(t, schedule.Slots, 4)
	assert.Len(t, store.replaced, 4)
	for _, slot := range schedule.Slots {
		assert.False(t, slot.Shortage)
		assert.Len(t, slot.AssignedIDs, 1)
	}
	// Round-robin rotation alternates the two cashiers.
	assert.NotEqual(t, schedule.Slots[0].AssignedIDs[0], schedule.Slots[1].AssignedIDs[0])
}

func TestScheduleServiceBuildInvalidDate(t *testing.T) {
	svc := morningOnlyService(&mockScheduleStore{}, []models.Employee{activeCashier("C001")}, nil)

	_, err := svc.Build(context.Background(), BuildScheduleRequest{StartDate: "02-03-2026", Days: 7})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrInvalidDate.Code, appErrors.FromError(err).Code)
}

func TestScheduleServiceBuildInvalidRange(t *testing.T) {
	svc := morningOnlyService(&mockScheduleStore{}, []models.Employee{activeCashier("C001")}, nil)

	for _, days := range []int{0, -3, 100} {
		_, err := svc.Build(context.Background(), BuildScheduleRequest{StartDate: "2026-03-02", Days: days})
		require.Error(t, err)
		assert.Equal(t, appErrors.ErrInvalidRange.Code, appErrors.FromError(err).Code)
	}
}

func TestScheduleServiceCurrentWithoutSchedule(t *testing.T) {
	svc := morningOnlyService(&mockScheduleStore{}, []models.Employee{activeCashier("C001")}, nil)

	_, err := svc.Current(context.Background())
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}

func TestScheduleServiceCurrentRebuildsSummary(t *testing.T) {
	store := &mockScheduleStore{}
	svc := morningOnlyService(store, []models.Employee{activeCashier("C001"), activeCashier("C002")}, nil)

	_, err := svc.Build(context.Background(), BuildScheduleRequest{StartDate: "2026-03-02", Days: 4})
	require.NoError(t, err)

	current, err := svc.Current(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 4, current.Summary.TotalDays)
	assert.Equal(t, 2, current.Summary.TotalCashiers)
	assert.Equal(t, 2, current.Summary.ShiftDistribution["C001"])
	assert.Equal(t, 2, current.Summary.ShiftDistribution["C002"])
}

func TestScheduleServiceApplyLeaveApproval(t *testing.T) {
	day := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)
	store := &mockScheduleStore{slots: []models.ScheduleSlot{
		{ID: "s1", Date: day, Shift: models.ShiftMorning, Position: models.PositionCashier, Required: 1, AssignedIDs: pq.StringArray{"C001"}},
	}}
	leave := models.LeaveRequest{
		ID:         "l1",
		EmployeeID: "C001",
		StartDate:  day,
		EndDate:    day,
		Status:     models.LeaveApproved,
	}
	svc := morningOnlyService(store, []models.Employee{activeCashier("C001"), activeCashier("C002")}, []models.LeaveRequest{leave})

	deltas, err := svc.ApplyLeaveApproval(context.Background(), leave)
	require.NoError(t, err)
	assert.Empty(t, deltas)

	require.Len(t, store.updated, 1)
	assert.Equal(t, "s1", store.updated[0].ID)
	assert.Equal(t, pq.StringArray{"C002"}, store.updated[0].AssignedIDs)
	assert.False(t, store.updated[0].Shortage)
}

func TestScheduleServiceApplyLeaveApprovalShortage(t *testing.T) {
	day := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)
	store := &mockScheduleStore{slots: []models.ScheduleSlot{
		{ID: "s1", Date: day, Shift: models.ShiftMorning, Position: models.PositionCashier, Required: 1, AssignedIDs: pq.StringArray{"C001"}},
	}}
	leave := models.LeaveRequest{
		ID:         "l1",
		EmployeeID: "C001",
		StartDate:  day,
		EndDate:    day,
		Status:     models.LeaveApproved,
	}
	svc := morningOnlyService(store, []models.Employee{activeCashier("C001")}, []models.LeaveRequest{leave})

	deltas, err := svc.ApplyLeaveApproval(context.Background(), leave)
	require.NoError(t, err)
	require.Len(t, deltas, 1)
	assert.False(t, deltas[0].WasShort)
	assert.True(t, deltas[0].NowShort)
	assert.Equal(t, 0, deltas[0].Assigned)

	require.Len(t, store.updated, 1)
	assert.True(t, store.updated[0].Shortage)
}

func TestScheduleServiceApplyLeaveApprovalNoSchedule(t *testing.T) {
	svc := morningOnlyService(&mockScheduleStore{}, []models.Employee{activeCashier("C001")}, nil)

	leave := models.LeaveRequest{
		ID:         "l1",
		EmployeeID: "C001",
		StartDate:  time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC),
		EndDate:    time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC),
		Status:     models.LeaveApproved,
	}
	deltas, err := svc.ApplyLeaveApproval(context.Background(), leave)
	require.NoError(t, err)
	assert.Nil(t, deltas)
}

func TestScheduleServiceShortageReport(t *testing.T) {
	day := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)
	store := &mockScheduleStore{slots: []models.ScheduleSlot{
		{ID: "s1", Date: day, Shift: models.ShiftMorning, Position: models.PositionCashier, Required: 2, AssignedIDs: pq.StringArray{"C001"}, Shortage: true},
		{ID: "s2", Date: day, Shift: models.ShiftEvening, Position: models.PositionCashier, Required: 1, AssignedIDs: pq.StringArray{"C002"}},
	}}
	svc := morningOnlyService(store, []models.Employee{activeCashier("C001")}, nil)

	report, err := svc.ShortageReport(context.Background())
	require.NoError(t, err)
	require.Len(t, report, 1)
	assert.Equal(t, models.ShiftMorning, report[0].Shift)
	assert.Equal(t, 2, report[0].Required)
	assert.Equal(t, 1, report[0].Assigned)
}

func TestScheduleServiceExportCSV(t *testing.T) {
	day := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)
	store := &mockScheduleStore{slots: []models.ScheduleSlot{
		{ID: "s1", Date: day, Shift: models.ShiftMorning, Position: models.PositionCashier, Required: 1, AssignedIDs: pq.StringArray{"C001"}},
	}}
	svc := morningOnlyService(store, []models.Employee{activeCashier("C001")}, nil)

	payload, filename, err := svc.ExportCSV(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "schedule_2026-03-02.csv", filename)
	assert.Contains(t, string(payload), "Date,Shift,Position,Required,Assigned,Shortage")
	assert.Contains(t, string(payload), "2026-03-02,MORNING,CASHIER,1,C001,false")
}
