package service

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/jmlhub/jml-api/internal/models"
	appErrors "github.com/jmlhub/jml-api/pkg/errors"
)

type departmentRepository interface {
	List(ctx context.Context) ([]models.Department, error)
	FindByID(ctx context.Context, id string) (*models.Department, error)
	Create(ctx context.Context, department *models.Department) error
	Update(ctx context.Context, department *models.Department) error
	Delete(ctx context.Context, id string) error
}

// CreateDepartmentRequest captures the department creation payload.
type CreateDepartmentRequest struct {
	Name        string  `json:"name" validate:"required"`
	Description string  `json:"description"`
	ManagerID   *string `json:"manager_id"`
}

// UpdateDepartmentRequest modifies department fields. Only supplied fields change.
type UpdateDepartmentRequest struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	ManagerID   *string `json:"manager_id"`
}

// DepartmentService coordinates department operations.
type DepartmentService struct {
	repo      departmentRepository
	audit     auditRecorder
	validator *validator.Validate
	logger    *zap.Logger
}

// NewDepartmentService constructs DepartmentService.
func NewDepartmentService(repo departmentRepository, audit auditRecorder, validate *validator.Validate, logger *zap.Logger) *DepartmentService {
	if validate == nil {
		validate = NewValidator()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DepartmentService{repo: repo, audit: audit, validator: validate, logger: logger}
}

// List returns every department.
func (s *DepartmentService) List(ctx context.Context) ([]models.Department, error) {
	departments, err := s.repo.List(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list departments")
	}
	return departments, nil
}

// Get returns one department.
func (s *DepartmentService) Get(ctx context.Context, id string) (*models.Department, error) {
	department, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "department not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load department")
	}
	return department, nil
}

// Create adds a new department.
func (s *DepartmentService) Create(ctx context.Context, meta models.RequestMeta, req CreateDepartmentRequest) (*models.Department, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.FromValidation(err, "invalid department payload")
	}

	department := &models.Department{
		Name:        req.Name,
		Description: req.Description,
		ManagerID:   req.ManagerID,
	}
	if err := s.repo.Create(ctx, department); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create department")
	}

	if err := s.audit.Record(ctx, meta, models.AuditActionCreate, "department", department.ID, fmt.Sprintf("created department %s", department.Name)); err != nil {
		return nil, err
	}
	return department, nil
}

// Update merges supplied fields onto a department.
func (s *DepartmentService) Update(ctx context.Context, meta models.RequestMeta, id string, req UpdateDepartmentRequest) (*models.Department, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.FromValidation(err, "invalid department payload")
	}

	department, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "department not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load department")
	}

	if req.Name != nil {
		department.Name = *req.Name
	}
	if req.Description != nil {
		department.Description = *req.Description
	}
	if req.ManagerID != nil {
		department.ManagerID = req.ManagerID
	}

	if err := s.repo.Update(ctx, department); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update department")
	}

	if err := s.audit.Record(ctx, meta, models.AuditActionUpdate, "department", department.ID, fmt.Sprintf("updated department %s", department.Name)); err != nil {
		return nil, err
	}
	return department, nil
}

// Delete removes the department row. Deleting an absent department still succeeds.
func (s *DepartmentService) Delete(ctx context.Context, meta models.RequestMeta, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete department")
	}
	return s.audit.Record(ctx, meta, models.AuditActionDelete, "department", id, "deleted department")
}
