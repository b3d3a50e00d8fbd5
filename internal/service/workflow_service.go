package service

import (
	"context"
	"database/sql"
	"fmt"
	"math"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/jmlhub/jml-api/internal/models"
	appErrors "github.com/jmlhub/jml-api/pkg/errors"
)

type workflowRepository interface {
	List(ctx context.Context, filter models.WorkflowFilter) ([]models.Workflow, error)
	FindByID(ctx context.Context, id string) (*models.Workflow, error)
	Create(ctx context.Context, workflow *models.Workflow) error
	Update(ctx context.Context, workflow *models.Workflow) error
	Delete(ctx context.Context, id string) error
	ListSteps(ctx context.Context, workflowID string) ([]models.WorkflowStep, error)
	FindStepByID(ctx context.Context, id string) (*models.WorkflowStep, error)
	CreateStep(ctx context.Context, step *models.WorkflowStep) error
	UpdateStep(ctx context.Context, step *models.WorkflowStep) error
}

type workflowTemplateReader interface {
	FindByID(ctx context.Context, id string) (*models.WorkflowTemplate, error)
	ListSteps(ctx context.Context, templateID string) ([]models.TemplateStep, error)
}

type workflowEmployeeReader interface {
	FindByID(ctx context.Context, id string) (*models.Employee, error)
}

// CreateWorkflowRequest captures the workflow creation payload. When a
// template is referenced its steps are cloned into the new workflow.
type CreateWorkflowRequest struct {
	TemplateID *string    `json:"template_id"`
	EmployeeID string     `json:"employee_id" validate:"required"`
	Name       string     `json:"name"`
	Type       string     `json:"type" validate:"omitempty,oneof=joiner mover leaver"`
	DueDate    *time.Time `json:"due_date"`
}

// UpdateWorkflowRequest modifies workflow fields. Only supplied fields change.
type UpdateWorkflowRequest struct {
	Name    *string    `json:"name"`
	Status  *string    `json:"status" validate:"omitempty,oneof=pending in_progress completed blocked cancelled"`
	DueDate *time.Time `json:"due_date"`
}

// UpdateWorkflowStepRequest modifies one workflow step. Completing a step
// triggers the workflow progress recalculation.
type UpdateWorkflowStepRequest struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	AssigneeID  *string `json:"assignee_id"`
	Status      *string `json:"status" validate:"omitempty,oneof=pending in_progress completed blocked skipped"`
}

// WorkflowService coordinates workflow instantiation and step progress.
type WorkflowService struct {
	repo         workflowRepository
	templateRepo workflowTemplateReader
	employeeRepo workflowEmployeeReader
	audit        auditRecorder
	stats        statsInvalidator
	validator    *validator.Validate
	logger       *zap.Logger
}

// NewWorkflowService constructs WorkflowService. Workflow mutations feed the
// dashboard workflow counters, so stats caches are invalidated after each
// write.
func NewWorkflowService(repo workflowRepository, templateRepo workflowTemplateReader, employeeRepo workflowEmployeeReader, audit auditRecorder, stats statsInvalidator, validate *validator.Validate, logger *zap.Logger) *WorkflowService {
	if validate == nil {
		validate = NewValidator()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &WorkflowService{repo: repo, templateRepo: templateRepo, employeeRepo: employeeRepo, audit: audit, stats: stats, validator: validate, logger: logger}
}

// List returns workflows matching the filter.
func (s *WorkflowService) List(ctx context.Context, filter models.WorkflowFilter) ([]models.Workflow, error) {
	workflows, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list workflows")
	}
	return workflows, nil
}

// Get returns one workflow with its ordered steps and employee.
func (s *WorkflowService) Get(ctx context.Context, id string) (*models.WorkflowDetail, error) {
	workflow, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "workflow not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load workflow")
	}

	steps, err := s.repo.ListSteps(ctx, id)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load workflow steps")
	}

	detail := &models.WorkflowDetail{Workflow: *workflow, Steps: steps}

	employee, err := s.employeeRepo.FindByID(ctx, workflow.EmployeeID)
	if err != nil && err != sql.ErrNoRows {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load workflow employee")
	}
	detail.Employee = employee

	return detail, nil
}

// ListSteps returns the ordered steps of one workflow.
func (s *WorkflowService) ListSteps(ctx context.Context, workflowID string) ([]models.WorkflowStep, error) {
	if _, err := s.repo.FindByID(ctx, workflowID); err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "workflow not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load workflow")
	}
	steps, err := s.repo.ListSteps(ctx, workflowID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load workflow steps")
	}
	return steps, nil
}

// Create instantiates a workflow for an employee. When a template is given
// its steps are cloned one by one with status "pending"; the clone loop is
// not atomic, so a mid-loop failure leaves a workflow with fewer steps.
func (s *WorkflowService) Create(ctx context.Context, meta models.RequestMeta, req CreateWorkflowRequest) (*models.WorkflowDetail, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.FromValidation(err, "invalid workflow payload")
	}

	if _, err := s.employeeRepo.FindByID(ctx, req.EmployeeID); err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "employee not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load employee")
	}

	var templateSteps []models.TemplateStep
	name := req.Name
	workflowType := models.WorkflowType(req.Type)

	if req.TemplateID != nil {
		template, err := s.templateRepo.FindByID(ctx, *req.TemplateID)
		if err != nil {
			if err == sql.ErrNoRows {
				return nil, appErrors.Clone(appErrors.ErrNotFound, "template not found")
			}
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load template")
		}
		if name == "" {
			name = template.Name
		}
		if workflowType == "" {
			workflowType = template.Type
		}
		templateSteps, err = s.templateRepo.ListSteps(ctx, template.ID)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load template steps")
		}
	}

	if name == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "workflow name is required without a template")
	}
	if workflowType == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "workflow type is required without a template")
	}

	workflow := &models.Workflow{
		TemplateID: req.TemplateID,
		EmployeeID: req.EmployeeID,
		Name:       name,
		Type:       workflowType,
		Status:     models.WorkflowStatusPending,
		Progress:   0,
		DueDate:    req.DueDate,
	}
	if err := s.repo.Create(ctx, workflow); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create workflow")
	}

	steps := make([]models.WorkflowStep, 0, len(templateSteps))
	for _, templateStep := range templateSteps {
		step := models.WorkflowStep{
			WorkflowID:  workflow.ID,
			Name:        templateStep.Name,
			Description: templateStep.Description,
			OrderIndex:  templateStep.OrderIndex,
			Status:      models.StepStatusPending,
		}
		if err := s.repo.CreateStep(ctx, &step); err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to clone template step")
		}
		steps = append(steps, step)
	}

	if err := s.audit.Record(ctx, meta, models.AuditActionCreate, "workflow", workflow.ID, fmt.Sprintf("created workflow %s", workflow.Name)); err != nil {
		return nil, err
	}
	if s.stats != nil {
		s.stats.InvalidateCaches(ctx)
	}
	return &models.WorkflowDetail{Workflow: *workflow, Steps: steps}, nil
}

// Update merges supplied fields onto a workflow.
func (s *WorkflowService) Update(ctx context.Context, meta models.RequestMeta, id string, req UpdateWorkflowRequest) (*models.Workflow, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.FromValidation(err, "invalid workflow payload")
	}

	workflow, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "workflow not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load workflow")
	}

	if req.Name != nil {
		workflow.Name = *req.Name
	}
	if req.Status != nil {
		workflow.Status = models.WorkflowStatus(*req.Status)
	}
	if req.DueDate != nil {
		workflow.DueDate = req.DueDate
	}

	if err := s.repo.Update(ctx, workflow); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update workflow")
	}

	if err := s.audit.Record(ctx, meta, models.AuditActionUpdate, "workflow", workflow.ID, fmt.Sprintf("updated workflow %s", workflow.Name)); err != nil {
		return nil, err
	}
	if s.stats != nil {
		s.stats.InvalidateCaches(ctx)
	}
	return workflow, nil
}

// Delete removes the workflow row. Its steps and tasks are left in place.
func (s *WorkflowService) Delete(ctx context.Context, meta models.RequestMeta, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete workflow")
	}
	if err := s.audit.Record(ctx, meta, models.AuditActionDelete, "workflow", id, "deleted workflow"); err != nil {
		return err
	}
	if s.stats != nil {
		s.stats.InvalidateCaches(ctx)
	}
	return nil
}

// UpdateStep merges supplied fields onto a workflow step. A transition to
// "completed" stamps the completion time and recalculates the parent
// workflow's progress; transitions to "blocked" or "skipped" leave the
// workflow untouched.
func (s *WorkflowService) UpdateStep(ctx context.Context, meta models.RequestMeta, stepID string, req UpdateWorkflowStepRequest) (*models.WorkflowStep, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.FromValidation(err, "invalid workflow step payload")
	}

	step, err := s.repo.FindStepByID(ctx, stepID)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "workflow step not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load workflow step")
	}

	if req.Name != nil {
		step.Name = *req.Name
	}
	if req.Description != nil {
		step.Description = *req.Description
	}
	if req.AssigneeID != nil {
		step.AssigneeID = req.AssigneeID
	}

	completedNow := false
	if req.Status != nil {
		newStatus := models.StepStatus(*req.Status)
		completedNow = newStatus == models.StepStatusCompleted && step.Status != models.StepStatusCompleted
		now := time.Now().UTC()
		if (newStatus == models.StepStatusInProgress || newStatus == models.StepStatusCompleted) && step.StartedAt == nil {
			step.StartedAt = &now
		}
		if completedNow {
			step.CompletedAt = &now
		}
		step.Status = newStatus
	}

	if err := s.repo.UpdateStep(ctx, step); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update workflow step")
	}

	if completedNow {
		if err := s.recalculateProgress(ctx, step.WorkflowID); err != nil {
			return nil, err
		}
	}

	if err := s.audit.Record(ctx, meta, models.AuditActionUpdate, "workflow_step", step.ID, fmt.Sprintf("updated workflow step %s", step.Name)); err != nil {
		return nil, err
	}
	if s.stats != nil {
		s.stats.InvalidateCaches(ctx)
	}
	return step, nil
}

// recalculateProgress recomputes the rounded completion percentage over all
// steps of a workflow. At 100 the workflow becomes "completed" with a
// completion timestamp; anything above zero makes it "in_progress". The
// aggregator never moves a workflow back to "pending", and a workflow with
// no steps is skipped entirely.
func (s *WorkflowService) recalculateProgress(ctx context.Context, workflowID string) error {
	steps, err := s.repo.ListSteps(ctx, workflowID)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load workflow steps")
	}
	total := len(steps)
	if total == 0 {
		return nil
	}

	completed := 0
	for _, step := range steps {
		if step.Status == models.StepStatusCompleted {
			completed++
		}
	}
	progress := int(math.Round(float64(completed) / float64(total) * 100))

	workflow, err := s.repo.FindByID(ctx, workflowID)
	if err != nil {
		if err == sql.ErrNoRows {
			return appErrors.Clone(appErrors.ErrNotFound, "workflow not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load workflow")
	}

	workflow.Progress = progress
	if progress >= 100 {
		workflow.Status = models.WorkflowStatusCompleted
		if workflow.CompletedAt == nil {
			now := time.Now().UTC()
			workflow.CompletedAt = &now
		}
	} else if progress > 0 {
		workflow.Status = models.WorkflowStatusInProgress
	}

	if err := s.repo.Update(ctx, workflow); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update workflow progress")
	}
	return nil
}
