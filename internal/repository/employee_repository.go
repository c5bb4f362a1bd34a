package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/mfirdaus-dev/petrostaff-api/internal/models"
)

// EmployeeRepository manages persistence for station employees.
type EmployeeRepository struct {
	db *sqlx.DB
}

// NewEmployeeRepository constructs an EmployeeRepository.
func NewEmployeeRepository(db *sqlx.DB) *EmployeeRepository {
	return &EmployeeRepository{db: db}
}

// List returns employees matching filters along with total count.
func (r *EmployeeRepository) List(ctx context.Context, filter models.EmployeeFilter) ([]models.Employee, int, error) {
	base := "FROM employees WHERE 1=1"
	var conditions []string
	var args []interface{}

	if filter.Active != nil {
		conditions = append(conditions, fmt.Sprintf("active = $%d", len(args)+1))
		args = append(args, *filter.Active)
	}
	if filter.Position != nil {
		conditions = append(conditions, fmt.Sprintf("position = $%d", len(args)+1))
		args = append(args, *filter.Position)
	}
	if filter.Search != "" {
		search := "%" + strings.ToLower(filter.Search) + "%"
		conditions = append(conditions, fmt.Sprintf("(LOWER(full_name) LIKE $%d OR LOWER(id) LIKE $%d)", len(args)+1, len(args)+1))
		args = append(args, search)
	}

	if len(conditions) > 0 {
		base += " AND " + strings.Join(conditions, " AND ")
	}

	sortBy := filter.SortBy
	if sortBy == "" {
		sortBy = "id"
	}
	allowedSorts := map[string]string{
		"id":         "id",
		"full_name":  "full_name",
		"position":   "position",
		"hire_date":  "hire_date",
		"created_at": "created_at",
	}
	column, ok := allowedSorts[sortBy]
	if !ok {
		column = "id"
	}

	order := strings.ToUpper(filter.SortOrder)
	if order != "ASC" && order != "DESC" {
		order = "ASC"
	}

	page := filter.Page
	if page < 1 {
		page = 1
	}
	size := filter.PageSize
	if size <= 0 || size > 100 {
		size = 20
	}
	offset := (page - 1) * size

	query := fmt.Sprintf("SELECT id, full_name, position, phone, email, hire_date, active, created_at, updated_at %s ORDER BY %s %s LIMIT %d OFFSET %d", base, column, order, size, offset)
	var employees []models.Employee
	if err := r.db.SelectContext(ctx, &employees, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list employees: %w", err)
	}

	countQuery := fmt.Sprintf("SELECT COUNT(*) %s", base)
	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count employees: %w", err)
	}

	return employees, total, nil
}

// ListActive returns every active employee ordered by identifier. This
// is the roster snapshot the scheduling engine works from.
func (r *EmployeeRepository) ListActive(ctx context.Context) ([]models.Employee, error) {
	const query = `SELECT id, full_name, position, phone, email, hire_date, active, created_at, updated_at FROM employees WHERE active = TRUE ORDER BY id`
	var employees []models.Employee
	if err := r.db.SelectContext(ctx, &employees, query); err != nil {
		return nil, fmt.Errorf("list active employees: %w", err)
	}
	return employees, nil
}

// FindByID fetches an employee by ID.
func (r *EmployeeRepository) FindByID(ctx context.Context, id string) (*models.Employee, error) {
	const query = `SELECT id, full_name, position, phone, email, hire_date, active, created_at, updated_at FROM employees WHERE id = $1`
	var emp models.Employee
	if err := r.db.GetContext(ctx, &emp, query, id); err != nil {
		return nil, err
	}
	return &emp, nil
}

// ExistsByID checks whether an employee identifier is already taken.
func (r *EmployeeRepository) ExistsByID(ctx context.Context, id string) (bool, error) {
	var exists int
	if err := r.db.GetContext(ctx, &exists, "SELECT 1 FROM employees WHERE id = $1 LIMIT 1", id); err != nil {
		if err == sql.ErrNoRows {
			return false, nil
		}
		return false, fmt.Errorf("check employee id: %w", err)
	}
	return true, nil
}

// Create inserts a new employee record.
func (r *EmployeeRepository) Create(ctx context.Context, emp *models.Employee) error {
	if emp.ID == "" {
		emp.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if emp.CreatedAt.IsZero() {
		emp.CreatedAt = now
	}
	emp.UpdatedAt = now

	const query = `INSERT INTO employees (id, full_name, position, phone, email, hire_date, active, created_at, updated_at)
		VALUES (:id, :full_name, :position, :phone, :email, :hire_date, :active, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, emp); err != nil {
		return fmt.Errorf("create employee: %w", err)
	}
	return nil
}

// Update modifies an existing employee record.
func (r *EmployeeRepository) Update(ctx context.Context, emp *models.Employee) error {
	emp.UpdatedAt = time.Now().UTC()
	const query = `UPDATE employees SET full_name = :full_name, position = :position, phone = :phone, email = :email, hire_date = :hire_date, active = :active, updated_at = :updated_at WHERE id = :id`
	if _, err := r.db.NamedExecContext(ctx, query, emp); err != nil {
		return fmt.Errorf("update employee: %w", err)
	}
	return nil
}

// Deactivate sets an employee's active flag to false. Employees are
// never deleted mid-schedule-period.
func (r *EmployeeRepository) Deactivate(ctx context.Context, id string) error {
	const query = `UPDATE employees SET active = FALSE, updated_at = $2 WHERE id = $1`
	if _, err := r.db.ExecContext(ctx, query, id, time.Now().UTC()); err != nil {
		return fmt.Errorf("deactivate employee: %w", err)
	}
	return nil
}
