package service

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/jmlhub/jml-api/internal/models"
	appErrors "github.com/jmlhub/jml-api/pkg/errors"
)

type employeeRepository interface {
	List(ctx context.Context, filter models.EmployeeFilter) ([]models.Employee, error)
	Search(ctx context.Context, term string) ([]models.Employee, error)
	FindByID(ctx context.Context, id string) (*models.Employee, error)
	Create(ctx context.Context, employee *models.Employee) error
	Update(ctx context.Context, employee *models.Employee) error
	Delete(ctx context.Context, id string) error
}

// CreateEmployeeRequest captures the employee creation payload.
type CreateEmployeeRequest struct {
	FullName     string     `json:"full_name" validate:"required"`
	Email        string     `json:"email" validate:"required,email"`
	Phone        string     `json:"phone"`
	JobTitle     string     `json:"job_title"`
	DepartmentID *string    `json:"department_id"`
	ManagerID    *string    `json:"manager_id"`
	Status       string     `json:"status" validate:"omitempty,oneof=joining active moving leaving departed"`
	StartDate    *time.Time `json:"start_date"`
	EndDate      *time.Time `json:"end_date"`
}

// UpdateEmployeeRequest modifies employee fields. Only supplied fields change.
type UpdateEmployeeRequest struct {
	FullName     *string    `json:"full_name"`
	Email        *string    `json:"email" validate:"omitempty,email"`
	Phone        *string    `json:"phone"`
	JobTitle     *string    `json:"job_title"`
	DepartmentID *string    `json:"department_id"`
	ManagerID    *string    `json:"manager_id"`
	Status       *string    `json:"status" validate:"omitempty,oneof=joining active moving leaving departed"`
	StartDate    *time.Time `json:"start_date"`
	EndDate      *time.Time `json:"end_date"`
}

// EmployeeService coordinates employee lifecycle records.
type EmployeeService struct {
	repo      employeeRepository
	audit     auditRecorder
	stats     statsInvalidator
	validator *validator.Validate
	logger    *zap.Logger
}

// NewEmployeeService constructs EmployeeService. Employee mutations feed the
// dashboard headcounts, so stats caches are invalidated after each write.
func NewEmployeeService(repo employeeRepository, audit auditRecorder, stats statsInvalidator, validate *validator.Validate, logger *zap.Logger) *EmployeeService {
	if validate == nil {
		validate = NewValidator()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &EmployeeService{repo: repo, audit: audit, stats: stats, validator: validate, logger: logger}
}

// List returns employees matching the filter.
func (s *EmployeeService) List(ctx context.Context, filter models.EmployeeFilter) ([]models.Employee, error) {
	employees, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list employees")
	}
	return employees, nil
}

// Search runs a case-insensitive substring match across name, email and job title.
func (s *EmployeeService) Search(ctx context.Context, term string) ([]models.Employee, error) {
	if term == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "search term is required")
	}
	employees, err := s.repo.Search(ctx, term)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to search employees")
	}
	return employees, nil
}

// Get returns one employee.
func (s *EmployeeService) Get(ctx context.Context, id string) (*models.Employee, error) {
	employee, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "employee not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load employee")
	}
	return employee, nil
}

// Create adds a new employee. Status defaults to "joining".
func (s *EmployeeService) Create(ctx context.Context, meta models.RequestMeta, req CreateEmployeeRequest) (*models.Employee, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.FromValidation(err, "invalid employee payload")
	}

	status := models.EmployeeStatusJoining
	if req.Status != "" {
		status = models.EmployeeStatus(req.Status)
	}

	employee := &models.Employee{
		FullName:     req.FullName,
		Email:        req.Email,
		Phone:        req.Phone,
		JobTitle:     req.JobTitle,
		DepartmentID: req.DepartmentID,
		ManagerID:    req.ManagerID,
		Status:       status,
		StartDate:    req.StartDate,
		EndDate:      req.EndDate,
	}
	if err := s.repo.Create(ctx, employee); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create employee")
	}

	if err := s.audit.Record(ctx, meta, models.AuditActionCreate, "employee", employee.ID, fmt.Sprintf("created employee %s", employee.FullName)); err != nil {
		return nil, err
	}
	if s.stats != nil {
		s.stats.InvalidateCaches(ctx)
	}
	return employee, nil
}

// Update merges supplied fields onto an employee.
func (s *EmployeeService) Update(ctx context.Context, meta models.RequestMeta, id string, req UpdateEmployeeRequest) (*models.Employee, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.FromValidation(err, "invalid employee payload")
	}

	employee, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "employee not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load employee")
	}

	if req.FullName != nil {
		employee.FullName = *req.FullName
	}
	if req.Email != nil {
		employee.Email = *req.Email
	}
	if req.Phone != nil {
		employee.Phone = *req.Phone
	}
	if req.JobTitle != nil {
		employee.JobTitle = *req.JobTitle
	}
	if req.DepartmentID != nil {
		employee.DepartmentID = req.DepartmentID
	}
	if req.ManagerID != nil {
		employee.ManagerID = req.ManagerID
	}
	if req.Status != nil {
		employee.Status = models.EmployeeStatus(*req.Status)
	}
	if req.StartDate != nil {
		employee.StartDate = req.StartDate
	}
	if req.EndDate != nil {
		employee.EndDate = req.EndDate
	}

	if err := s.repo.Update(ctx, employee); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update employee")
	}

	if err := s.audit.Record(ctx, meta, models.AuditActionUpdate, "employee", employee.ID, fmt.Sprintf("updated employee %s", employee.FullName)); err != nil {
		return nil, err
	}
	if s.stats != nil {
		s.stats.InvalidateCaches(ctx)
	}
	return employee, nil
}

// Delete removes the employee row. Deleting an absent employee still succeeds.
func (s *EmployeeService) Delete(ctx context.Context, meta models.RequestMeta, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete employee")
	}
	if err := s.audit.Record(ctx, meta, models.AuditActionDelete, "employee", id, "deleted employee"); err != nil {
		return err
	}
	if s.stats != nil {
		s.stats.InvalidateCaches(ctx)
	}
	return nil
}
