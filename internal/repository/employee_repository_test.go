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

func newEmployeeRepoMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	return sqlx.NewDb(db, "sqlmock"), mock, func() { db.Close() }
}

func TestEmployeeRepositoryList(t *testing.T) {
	db, mock, cleanup := newEmployeeRepoMock(t)
	defer cleanup()
	repo := NewEmployeeRepository(db)

	rows := sqlmock.NewRows([]string{"id", "full_name", "position", "phone", "email", "hire_date", "active", "created_at", "updated_at"}).
		AddRow("C001", "Employee A", "CASHIER", nil, nil, nil, true, time.Now(), time.Now())
	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, full_name, position, phone, email, hire_date, active, created_at, updated_at FROM employees WHERE 1=1 ORDER BY id ASC LIMIT 20 OFFSET 0")).
		WillReturnRows(rows)
	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM employees WHERE 1=1")).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	list, total, err := repo.List(context.Background(), models.EmployeeFilter{})
	require.NoError(t, err)
	assert.Len(t, list, 1)
	assert.Equal(t, 1, total)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestEmployeeRepositoryListWithFilters(t *testing.T) {
	db, mock, cleanup := newEmployeeRepoMock(t)
	defer cleanup()
	repo := NewEmployeeRepository(db)

	active := true
	position := models.PositionCashier

	mock.ExpectQuery(regexp.QuoteMeta("active = $1 AND position = $2")).
		WithArgs(true, models.PositionCashier).
		WillReturnRows(sqlmock.NewRows([]string{"id", "full_name", "position", "phone", "email", "hire_date", "active", "created_at", "updated_at"}))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*)")).
		WithArgs(true, models.PositionCashier).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))

	list, total, err := repo.List(context.Background(), models.EmployeeFilter{Active: &active, Position: &position})
	require.NoError(t, err)
	assert.Empty(t, list)
	assert.Equal(t, 0, total)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestEmployeeRepositoryListActive(t *testing.T) {
	db, mock, cleanup := newEmployeeRepoMock(t)
	defer cleanup()
	repo := NewEmployeeRepository(db)

	rows := sqlmock.NewRows([]string{"id", "full_name", "position", "phone", "email", "hire_date", "active", "created_at", "updated_at"}).
		AddRow("C001", "Employee A", "CASHIER", nil, nil, nil, true, time.Now(), time.Now()).
		AddRow("F001", "Employee B", "FORECOURT", nil, nil, nil, true, time.Now(), time.Now())
	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, full_name, position, phone, email, hire_date, active, created_at, updated_at FROM employees WHERE active = TRUE ORDER BY id")).
		WillReturnRows(rows)

	list, err := repo.ListActive(context.Background())
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "C001", list[0].ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestEmployeeRepositoryCreateAndDeactivate(t *testing.T) {
	db, mock, cleanup := newEmployeeRepoMock(t)
	defer cleanup()
	repo := NewEmployeeRepository(db)

	mock.ExpectExec("INSERT INTO employees").
		WithArgs("C010", "Employee A", models.PositionCashier, sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), true, sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))

	err := repo.Create(context.Background(), &models.Employee{ID: "C010", FullName: "Employee A", Position: models.PositionCashier, Active: true})
	require.NoError(t, err)

	mock.ExpectExec("UPDATE employees SET active = FALSE").
		WithArgs("C010", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))

	require.NoError(t, repo.Deactivate(context.Background(), "C010"))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestEmployeeRepositoryExistsByID(t *testing.T) {
	db, mock, cleanup := newEmployeeRepoMock(t)
	defer cleanup()
	repo := NewEmployeeRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT 1 FROM employees WHERE id = $1 LIMIT 1")).
		WithArgs("C001").
		WillReturnRows(sqlmock.NewRows([]string{"1"}).AddRow(1))

	exists, err := repo.ExistsByID(context.Background(), "C001")
	require.NoError(t, err)
	assert.True(t, exists)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT 1 FROM employees WHERE id = $1 LIMIT 1")).
		WithArgs("C999").
		WillReturnRows(sqlmock.NewRows([]string{"1"}))

	exists, err = repo.ExistsByID(context.Background(), "C999")
	require.NoError(t, err)
	assert.False(t, exists)
	assert.NoError(t, mock.ExpectationsWereMet())
}
