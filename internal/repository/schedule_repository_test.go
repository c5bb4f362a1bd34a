package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mfirdaus-dev/petrostaff-api/internal/models"
)

func newScheduleRepoMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	return sqlx.NewDb(db, "sqlmock"), mock, func() { db.Close() }
}

func TestScheduleRepositoryGetRange(t *testing.T) {
	db, mock, cleanup := newScheduleRepoMock(t)
	defer cleanup()
	repo := NewScheduleRepository(db)

	start := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)
	end := time.Date(2026, 3, 8, 0, 0, 0, 0, time.UTC)

	rows := sqlmock.NewRows([]string{"id", "slot_date", "shift", "position", "required", "assigned_ids", "shortage"}).
		AddRow("s1", start, "MORNING", "CASHIER", 2, pq.StringArray{"C001", "C002"}, false)
	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, slot_date, shift, position, required, assigned_ids, shortage")).
		WithArgs(start, end).
		WillReturnRows(rows)

	slots, err := repo.GetRange(context.Background(), start, end)
	require.NoError(t, err)
	require.Len(t, slots, 1)
	assert.Equal(t, pq.StringArray{"C001", "C002"}, slots[0].AssignedIDs)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestScheduleRepositoryReplaceRange(t *testing.T) {
	db, mock, cleanup := newScheduleRepoMock(t)
	defer cleanup()
	repo := NewScheduleRepository(db)

	start := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)
	end := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)
	slots := []models.ScheduleSlot{
		{Date: start, Shift: models.ShiftMorning, Position: models.PositionCashier, Required: 2, AssignedIDs: pq.StringArray{"C001", "C002"}},
	}

	mock.ExpectBegin()
	mock.ExpectExec("DELETE FROM schedule_slots").
		WithArgs(start, end).
		WillReturnResult(sqlmock.NewResult(0, 5))
	mock.ExpectExec("INSERT INTO schedule_slots").
		WithArgs(sqlmock.AnyArg(), start, models.ShiftMorning, models.PositionCashier, 2, sqlmock.AnyArg(), false).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	require.NoError(t, repo.ReplaceRange(context.Background(), start, end, slots))
	assert.NotEmpty(t, slots[0].ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestScheduleRepositoryUpdateSlots(t *testing.T) {
	db, mock, cleanup := newScheduleRepoMock(t)
	defer cleanup()
	repo := NewScheduleRepository(db)

	slots := []models.ScheduleSlot{
		{ID: "s1", AssignedIDs: pq.StringArray{"C003"}, Shortage: true},
	}

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE schedule_slots SET assigned_ids").
		WithArgs(sqlmock.AnyArg(), true, "s1").
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	require.NoError(t, repo.UpdateSlots(context.Background(), slots))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestScheduleRepositoryUpdateSlotsEmpty(t *testing.T) {
	db, mock, cleanup := newScheduleRepoMock(t)
	defer cleanup()
	repo := NewScheduleRepository(db)

	require.NoError(t, repo.UpdateSlots(context.Background(), nil))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestScheduleRepositoryBounds(t *testing.T) {
	db, mock, cleanup := newScheduleRepoMock(t)
	defer cleanup()
	repo := NewScheduleRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT MIN(slot_date) AS min, MAX(slot_date) AS max FROM schedule_slots")).
		WillReturnRows(sqlmock.NewRows([]string{"min", "max"}).AddRow(nil, nil))

	_, _, ok, err := repo.Bounds(context.Background())
	require.NoError(t, err)
	assert.False(t, ok)

	start := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)
	end := time.Date(2026, 3, 8, 0, 0, 0, 0, time.UTC)
	mock.ExpectQuery(regexp.QuoteMeta("SELECT MIN(slot_date) AS min, MAX(slot_date) AS max FROM schedule_slots")).
		WillReturnRows(sqlmock.NewRows([]string{"min", "max"}).AddRow(start, end))

	gotStart, gotEnd, ok, err := repo.Bounds(context.Background())
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, start, gotStart)
	assert.Equal(t, end, gotEnd)
	assert.NoError(t, mock.ExpectationsWereMet())
}
