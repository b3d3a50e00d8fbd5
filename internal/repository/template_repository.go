package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/jmlhub/jml-api/internal/models"
)

// TemplateRepository manages workflow templates and their steps.
type TemplateRepository struct {
	db *sqlx.DB
}

// NewTemplateRepository constructs a TemplateRepository.
func NewTemplateRepository(db *sqlx.DB) *TemplateRepository {
	return &TemplateRepository{db: db}
}

// List returns templates matching the filter, newest first.
func (r *TemplateRepository) List(ctx context.Context, filter models.TemplateFilter) ([]models.WorkflowTemplate, error) {
	baseQuery := `FROM workflow_templates WHERE 1=1`
	var conditions []string
	var args []interface{}

	if filter.Type != nil {
		conditions = append(conditions, fmt.Sprintf("type = $%d", len(args)+1))
		args = append(args, *filter.Type)
	}
	if filter.Status != nil {
		conditions = append(conditions, fmt.Sprintf("status = $%d", len(args)+1))
		args = append(args, *filter.Status)
	}

	if len(conditions) > 0 {
		baseQuery += " AND " + strings.Join(conditions, " AND ")
	}

	query := fmt.Sprintf("SELECT id, name, description, type, status, created_at, updated_at %s ORDER BY created_at DESC", baseQuery)

	var templates []models.WorkflowTemplate
	if err := r.db.SelectContext(ctx, &templates, query, args...); err != nil {
		return nil, fmt.Errorf("list templates: %w", err)
	}
	return templates, nil
}

// FindByID fetches a template by ID.
func (r *TemplateRepository) FindByID(ctx context.Context, id string) (*models.WorkflowTemplate, error) {
	const query = `SELECT id, name, description, type, status, created_at, updated_at FROM workflow_templates WHERE id = $1 LIMIT 1`
	var template models.WorkflowTemplate
	if err := r.db.GetContext(ctx, &template, query, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find template by id: %w", err)
	}
	return &template, nil
}

// Create inserts a new template row. Steps are inserted separately.
func (r *TemplateRepository) Create(ctx context.Context, template *models.WorkflowTemplate) error {
	if template.ID == "" {
		template.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if template.CreatedAt.IsZero() {
		template.CreatedAt = now
	}
	template.UpdatedAt = now
	const query = `INSERT INTO workflow_templates (id, name, description, type, status, created_at, updated_at) VALUES (:id, :name, :description, :type, :status, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, template); err != nil {
		return fmt.Errorf("create template: %w", err)
	}
	return nil
}

// Update writes mutable fields of a template.
func (r *TemplateRepository) Update(ctx context.Context, template *models.WorkflowTemplate) error {
	template.UpdatedAt = time.Now().UTC()
	const query = `UPDATE workflow_templates SET name = :name, description = :description, type = :type, status = :status, updated_at = :updated_at WHERE id = :id`
	if _, err := r.db.NamedExecContext(ctx, query, template); err != nil {
		return fmt.Errorf("update template: %w", err)
	}
	return nil
}

// Delete removes the template row only; steps are the caller's problem.
func (r *TemplateRepository) Delete(ctx context.Context, id string) error {
	const query = `DELETE FROM workflow_templates WHERE id = $1`
	if _, err := r.db.ExecContext(ctx, query, id); err != nil {
		return fmt.Errorf("delete template: %w", err)
	}
	return nil
}

// ListSteps returns a template's steps in order.
func (r *TemplateRepository) ListSteps(ctx context.Context, templateID string) ([]models.TemplateStep, error) {
	const query = `SELECT id, template_id, name, description, responsible_role, sla_hours, required, order_index, created_at, updated_at FROM template_steps WHERE template_id = $1 ORDER BY order_index ASC`
	var steps []models.TemplateStep
	if err := r.db.SelectContext(ctx, &steps, query, templateID); err != nil {
		return nil, fmt.Errorf("list template steps: %w", err)
	}
	return steps, nil
}

// CreateStep inserts one template step.
func (r *TemplateRepository) CreateStep(ctx context.Context, step *models.TemplateStep) error {
	if step.ID == "" {
		step.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if step.CreatedAt.IsZero() {
		step.CreatedAt = now
	}
	step.UpdatedAt = now
	const query = `INSERT INTO template_steps (id, template_id, name, description, responsible_role, sla_hours, required, order_index, created_at, updated_at)
        VALUES (:id, :template_id, :name, :description, :responsible_role, :sla_hours, :required, :order_index, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, step); err != nil {
		return fmt.Errorf("create template step: %w", err)
	}
	return nil
}

// DeleteSteps removes all steps of a template. Used by the replace-on-update path.
func (r *TemplateRepository) DeleteSteps(ctx context.Context, templateID string) error {
	const query = `DELETE FROM template_steps WHERE template_id = $1`
	if _, err := r.db.ExecContext(ctx, query, templateID); err != nil {
		return fmt.Errorf("delete template steps: %w", err)
	}
	return nil
}
