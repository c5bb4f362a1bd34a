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

type employeeRepository interface {
	List(ctx context.Context, filter models.EmployeeFilter) ([]models.Employee, int, error)
	FindByID(ctx context.Context, id string) (*models.Employee, error)
	ExistsByID(ctx context.Context, id string) (bool, error)
	Create(ctx context.Context, emp *models.Employee) error
	Update(ctx context.Context, emp *models.Employee) error
	Deactivate(ctx context.Context, id string) error
}

// CreateEmployeeRequest represents payload for registering employees.
type CreateEmployeeRequest struct {
	ID       string  `json:"id" validate:"omitempty,max=20"`
	FullName string  `json:"full_name" validate:"required,max=200"`
	Position string  `json:"position" validate:"required,oneof=CASHIER FORECOURT"`
	Phone    *string `json:"phone" validate:"omitempty,max=50"`
	Email    *string `json:"email" validate:"omitempty,email"`
	HireDate *string `json:"hire_date" validate:"omitempty"`
}

// UpdateEmployeeRequest represents payload for updating employees.
type UpdateEmployeeRequest struct {
	FullName string  `json:"full_name" validate:"required,max=200"`
	Position string  `json:"position" validate:"required,oneof=CASHIER FORECOURT"`
	Phone    *string `json:"phone" validate:"omitempty,max=50"`
	Email    *string `json:"email" validate:"omitempty,email"`
	HireDate *string `json:"hire_date" validate:"omitempty"`
	Active   *bool   `json:"active"`
}

// EmployeeService orchestrates employee roster operations.
type EmployeeService struct {
	repo      employeeRepository
	validator *validator.Validate
	logger    *zap.Logger
}

// NewEmployeeService constructs an EmployeeService.
func NewEmployeeService(repo employeeRepository, validate *validator.Validate, logger *zap.Logger) *EmployeeService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &EmployeeService{repo: repo, validator: validate, logger: logger}
}

// List returns employees plus pagination data.
func (s *EmployeeService) List(ctx context.Context, filter models.EmployeeFilter) ([]models.Employee, *models.Pagination, error) {
	employees, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list employees")
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
	return employees, pagination, nil
}

// Get returns an employee by id.
func (s *EmployeeService) Get(ctx context.Context, id string) (*models.Employee, error) {
	emp, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "employee not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load employee")
	}
	return emp, nil
}

// Create registers a new employee record.
func (s *EmployeeService) Create(ctx context.Context, req CreateEmployeeRequest) (*models.Employee, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid employee payload")
	}

	id := strings.TrimSpace(req.ID)
	if id != "" {
		exists, err := s.repo.ExistsByID(ctx, id)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check employee id")
		}
		if exists {
			return nil, appErrors.Clone(appErrors.ErrConflict, "employee id already in use")
		}
	}

	hireDate, err := parseOptionalDate(req.HireDate)
	if err != nil {
		return nil, err
	}

	emp := &models.Employee{
		ID:       id,
		FullName: strings.TrimSpace(req.FullName),
		Position: models.Position(req.Position),
		Active:   true,
		HireDate: hireDate,
	}
	emp.Phone = normalizeOptional(req.Phone)
	emp.Email = normalizeOptional(req.Email)

	if err := s.repo.Create(ctx, emp); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create employee")
	}
	return emp, nil
}

// Update modifies an existing employee.
func (s *EmployeeService) Update(ctx context.Context, id string, req UpdateEmployeeRequest) (*models.Employee, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid employee payload")
	}

	emp, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	hireDate, err := parseOptionalDate(req.HireDate)
	if err != nil {
		return nil, err
	}

	emp.FullName = strings.TrimSpace(req.FullName)
	emp.Position = models.Position(req.Position)
	emp.Phone = normalizeOptional(req.Phone)
	emp.Email = normalizeOptional(req.Email)
	if hireDate != nil {
		emp.HireDate = hireDate
	}
	if req.Active != nil {
		emp.Active = *req.Active
	}

	if err := s.repo.Update(ctx, emp); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update employee")
	}
	return emp, nil
}

// Deactivate marks an employee inactive. The record is kept so past
// schedules remain explainable.
func (s *EmployeeService) Deactivate(ctx context.Context, id string) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}
	if err := s.repo.Deactivate(ctx, id); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to deactivate employee")
	}
	return nil
}

func normalizeOptional(value *string) *string {
	if value == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*value)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}

func parseOptionalDate(value *string) (*time.Time, error) {
	if value == nil || strings.TrimSpace(*value) == "" {
		return nil, nil
	}
	parsed, err := time.Parse(models.DateLayout, strings.TrimSpace(*value))
	if err != nil {
		return nil, appErrors.Clone(appErrors.ErrInvalidDate, "date must be formatted as YYYY-MM-DD")
	}
	day := models.Midnight(parsed)
	return &day, nil
}
