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

const workflowColumns = "id, template_id, employee_id, name, type, status, progress, due_date, completed_at, created_at, updated_at"
const workflowStepColumns = "id, workflow_id, name, description, order_index, assignee_id, status, started_at, completed_at, created_at, updated_at"

// WorkflowRepository manages workflows and their steps.
type WorkflowRepository struct {
	db *sqlx.DB
}

// NewWorkflowRepository constructs a WorkflowRepository.
func NewWorkflowRepository(db *sqlx.DB) *WorkflowRepository {
	return &WorkflowRepository{db: db}
}

// List returns workflows matching the filter, newest first.
func (r *WorkflowRepository) List(ctx context.Context, filter models.WorkflowFilter) ([]models.Workflow, error) {
	baseQuery := `FROM workflows WHERE 1=1`
	var conditions []string
	var args []interface{}

	if filter.Status != nil {
		conditions = append(conditions, fmt.Sprintf("status = $%d", len(args)+1))
		args = append(args, *filter.Status)
	}
	if filter.Type != nil {
		conditions = append(conditions, fmt.Sprintf("type = $%d", len(args)+1))
		args = append(args, *filter.Type)
	}
	if filter.EmployeeID != "" {
		conditions = append(conditions, fmt.Sprintf("employee_id = $%d", len(args)+1))
		args = append(args, filter.EmployeeID)
	}

	if len(conditions) > 0 {
		baseQuery += " AND " + strings.Join(conditions, " AND ")
	}

	query := fmt.Sprintf("SELECT %s %s ORDER BY created_at DESC", workflowColumns, baseQuery)

	var workflows []models.Workflow
	if err := r.db.SelectContext(ctx, &workflows, query, args...); err != nil {
		return nil, fmt.Errorf("list workflows: %w", err)
	}
	return workflows, nil
}

// FindByID fetches a workflow by ID.
func (r *WorkflowRepository) FindByID(ctx context.Context, id string) (*models.Workflow, error) {
	query := fmt.Sprintf(`SELECT %s FROM workflows WHERE id = $1 LIMIT 1`, workflowColumns)
	var workflow models.Workflow
	if err := r.db.GetContext(ctx, &workflow, query, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find workflow by id: %w", err)
	}
	return &workflow, nil
}

// Create inserts a new workflow row. Steps are cloned separately.
func (r *WorkflowRepository) Create(ctx context.Context, workflow *models.Workflow) error {
	if workflow.ID == "" {
		workflow.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if workflow.CreatedAt.IsZero() {
		workflow.CreatedAt = now
	}
	workflow.UpdatedAt = now
	const query = `INSERT INTO workflows (id, template_id, employee_id, name, type, status, progress, due_date, completed_at, created_at, updated_at)
        VALUES (:id, :template_id, :employee_id, :name, :type, :status, :progress, :due_date, :completed_at, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, workflow); err != nil {
		return fmt.Errorf("create workflow: %w", err)
	}
	return nil
}

// Update writes mutable fields of a workflow.
func (r *WorkflowRepository) Update(ctx context.Context, workflow *models.Workflow) error {
	workflow.UpdatedAt = time.Now().UTC()
	const query = `UPDATE workflows SET name = :name, type = :type, status = :status, progress = :progress, due_date = :due_date, completed_at = :completed_at, updated_at = :updated_at WHERE id = :id`
	if _, err := r.db.NamedExecContext(ctx, query, workflow); err != nil {
		return fmt.Errorf("update workflow: %w", err)
	}
	return nil
}

// Delete removes the workflow row only. Steps and tasks are left behind on
// purpose; orphaned rows are accepted behavior.
func (r *WorkflowRepository) Delete(ctx context.Context, id string) error {
	const query = `DELETE FROM workflows WHERE id = $1`
	if _, err := r.db.ExecContext(ctx, query, id); err != nil {
		return fmt.Errorf("delete workflow: %w", err)
	}
	return nil
}

// ListSteps returns a workflow's steps in order.
func (r *WorkflowRepository) ListSteps(ctx context.Context, workflowID string) ([]models.WorkflowStep, error) {
	query := fmt.Sprintf(`SELECT %s FROM workflow_steps WHERE workflow_id = $1 ORDER BY order_index ASC`, workflowStepColumns)
	var steps []models.WorkflowStep
	if err := r.db.SelectContext(ctx, &steps, query, workflowID); err != nil {
		return nil, fmt.Errorf("list workflow steps: %w", err)
	}
	return steps, nil
}

// FindStepByID fetches a single workflow step.
func (r *WorkflowRepository) FindStepByID(ctx context.Context, id string) (*models.WorkflowStep, error) {
	query := fmt.Sprintf(`SELECT %s FROM workflow_steps WHERE id = $1 LIMIT 1`, workflowStepColumns)
	var step models.WorkflowStep
	if err := r.db.GetContext(ctx, &step, query, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find workflow step by id: %w", err)
	}
	return &step, nil
}

// CreateStep inserts one workflow step.
func (r *WorkflowRepository) CreateStep(ctx context.Context, step *models.WorkflowStep) error {
	if step.ID == "" {
		step.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if step.CreatedAt.IsZero() {
		step.CreatedAt = now
	}
	step.UpdatedAt = now
	const query = `INSERT INTO workflow_steps (id, workflow_id, name, description, order_index, assignee_id, status, started_at, completed_at, created_at, updated_at)
        VALUES (:id, :workflow_id, :name, :description, :order_index, :assignee_id, :status, :started_at, :completed_at, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, step); err != nil {
		return fmt.Errorf("create workflow step: %w", err)
	}
	return nil
}

// UpdateStep writes mutable fields of a workflow step.
func (r *WorkflowRepository) UpdateStep(ctx context.Context, step *models.WorkflowStep) error {
	step.UpdatedAt = time.Now().UTC()
	const query = `UPDATE workflow_steps SET name = :name, description = :description, order_index = :order_index, assignee_id = :assignee_id, status = :status, started_at = :started_at, completed_at = :completed_at, updated_at = :updated_at WHERE id = :id`
	if _, err := r.db.NamedExecContext(ctx, query, step); err != nil {
		return fmt.Errorf("update workflow step: %w", err)
	}
	return nil
}
