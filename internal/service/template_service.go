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

type templateRepository interface {
	List(ctx context.Context, filter models.TemplateFilter) ([]models.WorkflowTemplate, error)
	FindByID(ctx context.Context, id string) (*models.WorkflowTemplate, error)
	Create(ctx context.Context, template *models.WorkflowTemplate) error
	Update(ctx context.Context, template *models.WorkflowTemplate) error
	Delete(ctx context.Context, id string) error
	ListSteps(ctx context.Context, templateID string) ([]models.TemplateStep, error)
	CreateStep(ctx context.Context, step *models.TemplateStep) error
	DeleteSteps(ctx context.Context, templateID string) error
}

// TemplateStepPayload is one embedded step in a template create or update.
type TemplateStepPayload struct {
	Name            string `json:"name" validate:"required"`
	Description     string `json:"description"`
	ResponsibleRole string `json:"responsible_role"`
	SLAHours        int    `json:"sla_hours" validate:"gte=0"`
	Required        *bool  `json:"required"`
	OrderIndex      int    `json:"order_index" validate:"gte=0"`
}

// CreateTemplateRequest captures the template creation payload, optionally
// with embedded steps.
type CreateTemplateRequest struct {
	Name        string                `json:"name" validate:"required"`
	Description string                `json:"description"`
	Type        string                `json:"type" validate:"required,oneof=joiner mover leaver"`
	Status      string                `json:"status" validate:"omitempty,oneof=draft active archived"`
	Steps       []TemplateStepPayload `json:"steps" validate:"dive"`
}

// UpdateTemplateRequest modifies template fields. A non-nil Steps slice
// replaces every existing step; nil leaves steps untouched.
type UpdateTemplateRequest struct {
	Name        *string                `json:"name"`
	Description *string                `json:"description"`
	Type        *string                `json:"type" validate:"omitempty,oneof=joiner mover leaver"`
	Status      *string                `json:"status" validate:"omitempty,oneof=draft active archived"`
	Steps       *[]TemplateStepPayload `json:"steps" validate:"omitempty,dive"`
}

// TemplateService coordinates workflow template operations.
type TemplateService struct {
	repo      templateRepository
	audit     auditRecorder
	validator *validator.Validate
	logger    *zap.Logger
}

// NewTemplateService constructs TemplateService.
func NewTemplateService(repo templateRepository, audit auditRecorder, validate *validator.Validate, logger *zap.Logger) *TemplateService {
	if validate == nil {
		validate = NewValidator()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TemplateService{repo: repo, audit: audit, validator: validate, logger: logger}
}

// List returns templates matching the filter.
func (s *TemplateService) List(ctx context.Context, filter models.TemplateFilter) ([]models.WorkflowTemplate, error) {
	templates, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list templates")
	}
	return templates, nil
}

// Get returns one template with its ordered steps.
func (s *TemplateService) Get(ctx context.Context, id string) (*models.TemplateDetail, error) {
	template, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "template not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load template")
	}

	steps, err := s.repo.ListSteps(ctx, id)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load template steps")
	}

	return &models.TemplateDetail{WorkflowTemplate: *template, Steps: steps}, nil
}

// Create adds a template and inserts each embedded step after the template
// row exists. The step inserts are sequential and not atomic.
func (s *TemplateService) Create(ctx context.Context, meta models.RequestMeta, req CreateTemplateRequest) (*models.TemplateDetail, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.FromValidation(err, "invalid template payload")
	}

	status := models.TemplateStatusDraft
	if req.Status != "" {
		status = models.TemplateStatus(req.Status)
	}

	template := &models.WorkflowTemplate{
		Name:        req.Name,
		Description: req.Description,
		Type:        models.WorkflowType(req.Type),
		Status:      status,
	}
	if err := s.repo.Create(ctx, template); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create template")
	}

	steps, err := s.insertSteps(ctx, template.ID, req.Steps)
	if err != nil {
		return nil, err
	}

	if err := s.audit.Record(ctx, meta, models.AuditActionCreate, "template", template.ID, fmt.Sprintf("created template %s", template.Name)); err != nil {
		return nil, err
	}
	return &models.TemplateDetail{WorkflowTemplate: *template, Steps: steps}, nil
}

// Update merges supplied fields onto a template. When steps are supplied they
// replace the entire existing set: all prior steps are deleted and the new
// ones inserted, no diffing.
func (s *TemplateService) Update(ctx context.Context, meta models.RequestMeta, id string, req UpdateTemplateRequest) (*models.TemplateDetail, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.FromValidation(err, "invalid template payload")
	}

	template, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "template not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load template")
	}

	if req.Name != nil {
		template.Name = *req.Name
	}
	if req.Description != nil {
		template.Description = *req.Description
	}
	if req.Type != nil {
		template.Type = models.WorkflowType(*req.Type)
	}
	if req.Status != nil {
		template.Status = models.TemplateStatus(*req.Status)
	}

	if err := s.repo.Update(ctx, template); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update template")
	}

	var steps []models.TemplateStep
	if req.Steps != nil {
		if err := s.repo.DeleteSteps(ctx, id); err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to replace template steps")
		}
		steps, err = s.insertSteps(ctx, id, *req.Steps)
		if err != nil {
			return nil, err
		}
	} else {
		steps, err = s.repo.ListSteps(ctx, id)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load template steps")
		}
	}

	if err := s.audit.Record(ctx, meta, models.AuditActionUpdate, "template", template.ID, fmt.Sprintf("updated template %s", template.Name)); err != nil {
		return nil, err
	}
	return &models.TemplateDetail{WorkflowTemplate: *template, Steps: steps}, nil
}

// ListSteps returns the ordered steps of one template.
func (s *TemplateService) ListSteps(ctx context.Context, templateID string) ([]models.TemplateStep, error) {
	if _, err := s.repo.FindByID(ctx, templateID); err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "template not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load template")
	}
	steps, err := s.repo.ListSteps(ctx, templateID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load template steps")
	}
	return steps, nil
}

// AddStep appends one step to an existing template.
func (s *TemplateService) AddStep(ctx context.Context, meta models.RequestMeta, templateID string, req TemplateStepPayload) (*models.TemplateStep, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.FromValidation(err, "invalid step payload")
	}

	template, err := s.repo.FindByID(ctx, templateID)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "template not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load template")
	}

	steps, err := s.insertSteps(ctx, templateID, []TemplateStepPayload{req})
	if err != nil {
		return nil, err
	}

	if err := s.audit.Record(ctx, meta, models.AuditActionUpdate, "template", templateID, fmt.Sprintf("added step %s to template %s", req.Name, template.Name)); err != nil {
		return nil, err
	}
	return &steps[0], nil
}

// Delete removes the template row only. Its steps are not cascaded and must
// be deleted separately by the caller.
func (s *TemplateService) Delete(ctx context.Context, meta models.RequestMeta, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete template")
	}
	return s.audit.Record(ctx, meta, models.AuditActionDelete, "template", id, "deleted template")
}

func (s *TemplateService) insertSteps(ctx context.Context, templateID string, payloads []TemplateStepPayload) ([]models.TemplateStep, error) {
	steps := make([]models.TemplateStep, 0, len(payloads))
	for _, payload := range payloads {
		required := true
		if payload.Required != nil {
			required = *payload.Required
		}
		step := models.TemplateStep{
			TemplateID:      templateID,
			Name:            payload.Name,
			Description:     payload.Description,
			ResponsibleRole: payload.ResponsibleRole,
			SLAHours:        payload.SLAHours,
			Required:        required,
			OrderIndex:      payload.OrderIndex,
		}
		if err := s.repo.CreateStep(ctx, &step); err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create template step")
		}
		steps = append(steps, step)
	}
	return steps, nil
}
