package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mfirdaus-dev/petrostaff-api/internal/models"
)

func newLeaveRepoMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	return sqlx.NewDb(db, "sqlmock"), mock, func() { db.Close() }
}

func TestLeaveRepositoryList(t *testing.T) {
	db, mock, cleanup := newLeaveRepoMock(t)
	defer cleanup()
	repo := NewLeaveRepository(db)

	rows := sqlmock.NewRows([]string{"id", "employee_id", "start_date", "end_date", "reason", "status", "decided_at", "created_at", "updated_at"}).
		AddRow("l1", "C001", time.Now(), time.Now(), "family", "PENDING", nil, time.Now(), time.Now())
	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, employee_id, start_date, end_date, reason, status, decided_at, created_at, updated_at FROM leave_requests WHERE 1=1 ORDER BY created_at DESC LIMIT 20 OFFSET 0")).
		WillReturnRows(rows)
	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM leave_requests WHERE 1=1")).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	list, total, err := repo.List(context.Background(), models.LeaveFilter{})
	require.NoError(t, err)
	assert.Len(t, list, 1)
	assert.Equal(t, 1, total)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLeaveRepositoryListByStatus(t *testing.T) {
	db, mock, cleanup := newLeaveRepoMock(t)
	defer cleanup()
	repo := NewLeaveRepository(db)

	status := models.LeavePending
	mock.ExpectQuery(regexp.QuoteMeta("status = $1")).
		WithArgs(models.LeavePending).
		WillReturnRows(sqlmock.NewRows([]string{"id", "employee_id", "start_date", "end_date", "reason", "status", "decided_at", "created_at", "updated_at"}))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*)")).
		WithArgs(models.LeavePending).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))

	_, total, err := repo.List(context.Background(), models.LeaveFilter{Status: &status})
	require.NoError(t, err)
	assert.Equal(t, 0, total)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLeaveRepositoryListApproved(t *testing.T) {
	db, mock, cleanup := newLeaveRepoMock(t)
	defer cleanup()
	repo := NewLeaveRepository(db)

	rows := sqlmock.NewRows([]string{"id", "employee_id", "start_date", "end_date", "reason", "status", "decided_at", "created_at", "updated_at"}).
		AddRow("l1", "C001", time.Now(), time.Now(), "family", "APPROVED", time.Now(), time.Now(), time.Now())
	mock.ExpectQuery(regexp.QuoteMeta("WHERE status = $1 ORDER BY created_at")).
		WithArgs(models.LeaveApproved).
		WillReturnRows(rows)

	list, err := repo.ListApproved(context.Background())
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, models.LeaveApproved, list[0].Status)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLeaveRepositoryCreateAndUpdateStatus(t *testing.T) {
	db, mock, cleanup := newLeaveRepoMock(t)
	defer cleanup()
	repo := NewLeaveRepository(db)

	mock.ExpectExec("INSERT INTO leave_requests").
		WithArgs(sqlmock.AnyArg(), "C001", sqlmock.AnyArg(), sqlmock.AnyArg(), "family", models.LeavePending, sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))

	req := &models.LeaveRequest{
		EmployeeID: "C001",
		StartDate:  time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC),
		EndDate:    time.Date(2026, 3, 4, 0, 0, 0, 0, time.UTC),
		Reason:     "family",
		Status:     models.LeavePending,
	}
	require.NoError(t, repo.Create(context.Background(), req))
	assert.NotEmpty(t, req.ID)

	decidedAt := time.Now().UTC()
	mock.ExpectExec("UPDATE leave_requests SET status").
		WithArgs(req.ID, models.LeaveApproved, decidedAt).
		WillReturnResult(sqlmock.NewResult(1, 1))

	require.NoError(t, repo.UpdateStatus(context.Background(), req.ID, models.LeaveApproved, decidedAt))
	assert.NoError(t, mock.ExpectationsWereMet())
}
