package service

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/mfirdaus-dev/petrostaff-api/internal/models"
	appErrors "github.com/mfirdaus-dev/petrostaff-api/pkg/errors"
)

type leaveRepository interface {
	List(ctx context.Context, filter models.LeaveFilter) ([]models.LeaveRequest, int, error)
	FindByID(ctx context.Context, id string) (*models.LeaveRequest, error)
	Create(ctx context.Context, req *models.LeaveRequest) error
	UpdateStatus(ctx context.Context, id string, status models.LeaveStatus, decidedAt time.Time) error
}

type leaveEmployeeSource interface {
	FindByID(ctx context.Context, id string) (*models.Employee, error)
}

type reallocationHandler interface {
	ApplyLeaveApproval(ctx context.Context, leave models.LeaveRequest) ([]models.ShortageDelta, error)
}

// SubmitLeaveRequest is the payload for filing a leave request.
type SubmitLeaveRequest struct {
	EmployeeID string `json:"employee_id" validate:"required"`
	StartDate  string `json:"start_date" validate:"required"`
	EndDate    string `json:"end_date" validate:"required"`
	Reason     string `json:"reason" validate:"required,max=500"`
}

// LeaveDecision is the outcome of an approval, including any schedule
// shortage changes the reallocation produced.
type LeaveDecision struct {
	Request        *models.LeaveRequest   `json:"request"`
	ShortageDeltas []models.ShortageDelta `json:"shortage_deltas,omitempty"`
}

// LeaveService orchestrates the leave request lifecycle. Approval feeds
// straight into schedule reallocation.
type LeaveService struct {
	repo      leaveRepository
	employees leaveEmployeeSource
	schedule  reallocationHandler
	validator *validator.Validate
	logger    *zap.Logger
}

// NewLeaveService constructs a LeaveService.
func NewLeaveService(repo leaveRepository, employees leaveEmployeeSource, schedule reallocationHandler, validate *validator.Validate, logger *zap.Logger) *LeaveService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LeaveService{repo: repo, employees: employees, schedule: schedule, validator: validate, logger: logger}
}

// List returns leave requests plus pagination data.
func (s *LeaveService) List(ctx context.Context, filter models.LeaveFilter) ([]models.LeaveRequest, *models.Pagination, error) {
	requests, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list leave requests")
	}
	page := filter.Page
	if page < 1 {
		page = 1
	}
	size := filter.PageSize
	if size <= 0 {
		size = 20
	}
	pagination := &models.Pagination{Page: page, PageSize: size, TotalCount: total}
	return requests, pagination, nil
}

// Get returns a leave request by id.
func (s *LeaveService) Get(ctx context.Context, id string) (*models.LeaveRequest, error) {
	req, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "leave request not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load leave request")
	}
	return req, nil
}

// Submit files a new leave request in pending state.
func (s *LeaveService) Submit(ctx context.Context, req SubmitLeaveRequest) (*models.LeaveRequest, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid leave payload")
	}

	start, err := time.Parse(models.DateLayout, strings.TrimSpace(req.StartDate))
	if err != nil {
		return nil, appErrors.Clone(appErrors.ErrInvalidDate, "start_date must be formatted as YYYY-MM-DD")
	}
	end, err := time.Parse(models.DateLayout, strings.TrimSpace(req.EndDate))
	if err != nil {
		return nil, appErrors.Clone(appErrors.ErrInvalidDate, "end_date must be formatted as YYYY-MM-DD")
	}
	if models.Midnight(end).Before(models.Midnight(start)) {
		return nil, appErrors.Clone(appErrors.ErrInvalidRange, "end_date must not precede start_date")
	}

	emp, err := s.employees.FindByID(ctx, req.EmployeeID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "employee not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load employee")
	}
	if !emp.Active {
		return nil, appErrors.Clone(appErrors.ErrConflict, "inactive employees cannot request leave")
	}

	leave := &models.LeaveRequest{
		EmployeeID: emp.ID,
		StartDate:  models.Midnight(start),
		EndDate:    models.Midnight(end),
		Reason:     strings.TrimSpace(req.Reason),
		Status:     models.LeavePending,
	}
	if err := s.repo.Create(ctx, leave); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create leave request")
	}
	return leave, nil
}

// Approve decides a pending request and triggers schedule reallocation
// for the leave window.
func (s *LeaveService) Approve(ctx context.Context, id string) (*LeaveDecision, error) {
	leave, err := s.decide(ctx, id, models.LeaveApproved)
	if err != nil {
		return nil, err
	}

	deltas, err := s.schedule.ApplyLeaveApproval(ctx, *leave)
	if err != nil {
		// The approval stands; the schedule just could not be patched.
		s.logger.Error("reallocation after leave approval failed",
			zap.String("leave_id", leave.ID),
			zap.Error(err))
		return nil, err
	}

	return &LeaveDecision{Request: leave, ShortageDeltas: deltas}, nil
}

// Reject decides a pending request without touching the schedule.
func (s *LeaveService) Reject(ctx context.Context, id string) (*LeaveDecision, error) {
	leave, err := s.decide(ctx, id, models.LeaveRejected)
	if err != nil {
		return nil, err
	}
	return &LeaveDecision{Request: leave}, nil
}

func (s *LeaveService) decide(ctx context.Context, id string, status models.LeaveStatus) (*models.LeaveRequest, error) {
	leave, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if leave.Status != models.LeavePending {
		return nil, appErrors.Clone(appErrors.ErrLeaveDecided, "leave request already decided")
	}

	decidedAt := time.Now().UTC()
	if err := s.repo.UpdateStatus(ctx, leave.ID, status, decidedAt); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to record leave decision")
	}

	leave.Status = status
	leave.DecidedAt = &decidedAt
	leave.UpdatedAt = decidedAt
	return leave, nil
}
