package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/mfirdaus-dev/petrostaff-api/internal/models"
)

// LeaveRepository manages persistence for leave requests.
type LeaveRepository struct {
	db *sqlx.DB
}

// NewLeaveRepository constructs a LeaveRepository.
func NewLeaveRepository(db *sqlx.DB) *LeaveRepository {
	return &LeaveRepository{db: db}
}

// List returns leave requests matching filters along with total count.
func (r *LeaveRepository) List(ctx context.Context, filter models.LeaveFilter) ([]models.LeaveRequest, int, error) {
	base := "FROM leave_requests WHERE 1=1"
	var conditions []string
	var args []interface{}

	if filter.EmployeeID != "" {
		conditions = append(conditions, fmt.Sprintf("employee_id = $%d", len(args)+1))
		args = append(args, filter.EmployeeID)
	}
	if filter.Status != nil {
		conditions = append(conditions, fmt.Sprintf("status = $%d", len(args)+1))
		args = append(args, *filter.Status)
	}

	if len(conditions) > 0 {
		base += " AND " + strings.Join(conditions, " AND ")
	}

	sortBy := filter.SortBy
	if sortBy == "" {
		sortBy = "created_at"
	}
	allowedSorts := map[string]string{
		"start_date": "start_date",
		"end_date":   "end_date",
		"status":     "status",
		"created_at": "created_at",
	}
	column, ok := allowedSorts[sortBy]
	if !ok {
		column = "created_at"
	}

	order := strings.ToUpper(filter.SortOrder)
	if order != "ASC" && order != "DESC" {
		order = "DESC"
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

	query := fmt.Sprintf("SELECT id, employee_id, start_date, end_date, reason, status, decided_at, created_at, updated_at %s ORDER BY %s %s LIMIT %d OFFSET %d", base, column, order, size, offset)
	var requests []models.LeaveRequest
	if err := r.db.SelectContext(ctx, &requests, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list leave requests: %w", err)
	}

	countQuery := fmt.Sprintf("SELECT COUNT(*) %s", base)
	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count leave requests: %w", err)
	}

	return requests, total, nil
}

// FindByID fetches a leave request by ID.
func (r *LeaveRepository) FindByID(ctx context.Context, id string) (*models.LeaveRequest, error) {
	const query = `SELECT id, employee_id, start_date, end_date, reason, status, decided_at, created_at, updated_at FROM leave_requests WHERE id = $1`
	var req models.LeaveRequest
	if err := r.db.GetContext(ctx, &req, query, id); err != nil {
		return nil, err
	}
	return &req, nil
}

// ListApproved returns every approved leave request. This is the leave
// ledger snapshot the scheduling engine works from.
func (r *LeaveRepository) ListApproved(ctx context.Context) ([]models.LeaveRequest, error) {
	const query = `SELECT id, employee_id, start_date, end_date, reason, status, decided_at, created_at, updated_at FROM leave_requests WHERE status = $1 ORDER BY created_at`
	var requests []models.LeaveRequest
	if err := r.db.SelectContext(ctx, &requests, query, models.LeaveApproved); err != nil {
		return nil, fmt.Errorf("list approved leave requests: %w", err)
	}
	return requests, nil
}

// Create inserts a new leave request in pending state.
func (r *LeaveRepository) Create(ctx context.Context, req *models.LeaveRequest) error {
	if req.ID == "" {
		req.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if req.CreatedAt.IsZero() {
		req.CreatedAt = now
	}
	req.UpdatedAt = now

	const query = `INSERT INTO leave_requests (id, employee_id, start_date, end_date, reason, status, decided_at, created_at, updated_at)
		VALUES (:id, :employee_id, :start_date, :end_date, :reason, :status, :decided_at, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, req); err != nil {
		return fmt.Errorf("create leave request: %w", err)
	}
	return nil
}

// UpdateStatus records the decision on a pending request. Decided
// requests are immutable, so only status and decision time change.
func (r *LeaveRepository) UpdateStatus(ctx context.Context, id string, status models.LeaveStatus, decidedAt time.Time) error {
	const query = `UPDATE leave_requests SET status = $2, decided_at = $3, updated_at = $3 WHERE id = $1`
	if _, err := r.db.ExecContext(ctx, query, id, status, decidedAt); err != nil {
		return fmt.Errorf("update leave status: %w", err)
	}
	return nil
}
