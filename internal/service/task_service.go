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

type taskRepository interface {
	List(ctx context.Context, filter models.TaskFilter) ([]models.Task, error)
	ListPending(ctx context.Context, assigneeID string) ([]models.Task, error)
	FindByID(ctx context.Context, id string) (*models.Task, error)
	Create(ctx context.Context, task *models.Task) error
	Update(ctx context.Context, task *models.Task) error
	Delete(ctx context.Context, id string) error
}

// CreateTaskRequest captures the task creation payload.
type CreateTaskRequest struct {
	WorkflowStepID *string    `json:"workflow_step_id"`
	Title          string     `json:"title" validate:"required"`
	Description    string     `json:"description"`
	Status         string     `json:"status" validate:"omitempty,oneof=pending in_progress completed blocked"`
	Priority       string     `json:"priority" validate:"omitempty,oneof=low medium high urgent"`
	AssigneeID     *string    `json:"assignee_id"`
	DueDate        *time.Time `json:"due_date"`
}

// UpdateTaskRequest modifies task fields. Only supplied fields change.
type UpdateTaskRequest struct {
	WorkflowStepID *string    `json:"workflow_step_id"`
	Title          *string    `json:"title"`
	Description    *string    `json:"description"`
	Status         *string    `json:"status" validate:"omitempty,oneof=pending in_progress completed blocked"`
	Priority       *string    `json:"priority" validate:"omitempty,oneof=low medium high urgent"`
	AssigneeID     *string    `json:"assignee_id"`
	DueDate        *time.Time `json:"due_date"`
}

// TaskService coordinates task operations.
type TaskService struct {
	repo      taskRepository
	audit     auditRecorder
	stats     statsInvalidator
	validator *validator.Validate
	logger    *zap.Logger
}

// NewTaskService constructs TaskService. Task mutations change the pending
// counter on the dashboard, so stats caches are invalidated after each write.
func NewTaskService(repo taskRepository, audit auditRecorder, stats statsInvalidator, validate *validator.Validate, logger *zap.Logger) *TaskService {
	if validate == nil {
		validate = NewValidator()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TaskService{repo: repo, audit: audit, stats: stats, validator: validate, logger: logger}
}

// List returns tasks matching the filter.
func (s *TaskService) List(ctx context.Context, filter models.TaskFilter) ([]models.Task, error) {
	tasks, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list tasks")
	}
	return tasks, nil
}

// ListPending returns pending and in-progress tasks, optionally scoped to one
// assignee, most urgent first.
func (s *TaskService) ListPending(ctx context.Context, assigneeID string) ([]models.Task, error) {
	tasks, err := s.repo.ListPending(ctx, assigneeID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list pending tasks")
	}
	return tasks, nil
}

// Get returns one task.
func (s *TaskService) Get(ctx context.Context, id string) (*models.Task, error) {
	task, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "task not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load task")
	}
	return task, nil
}

// Create adds a new task. Status defaults to "pending", priority to "medium".
func (s *TaskService) Create(ctx context.Context, meta models.RequestMeta, req CreateTaskRequest) (*models.Task, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.FromValidation(err, "invalid task payload")
	}

	status := models.TaskStatusPending
	if req.Status != "" {
		status = models.TaskStatus(req.Status)
	}
	priority := models.TaskPriorityMedium
	if req.Priority != "" {
		priority = models.TaskPriority(req.Priority)
	}

	task := &models.Task{
		WorkflowStepID: req.WorkflowStepID,
		Title:          req.Title,
		Description:    req.Description,
		Status:         status,
		Priority:       priority,
		AssigneeID:     req.AssigneeID,
		DueDate:        req.DueDate,
	}
	if err := s.repo.Create(ctx, task); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create task")
	}

	if err := s.audit.Record(ctx, meta, models.AuditActionCreate, "task", task.ID, fmt.Sprintf("created task %s", task.Title)); err != nil {
		return nil, err
	}
	if s.stats != nil {
		s.stats.InvalidateCaches(ctx)
	}
	return task, nil
}

// Update merges supplied fields onto a task.
func (s *TaskService) Update(ctx context.Context, meta models.RequestMeta, id string, req UpdateTaskRequest) (*models.Task, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.FromValidation(err, "invalid task payload")
	}

	task, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "task not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load task")
	}

	if req.WorkflowStepID != nil {
		task.WorkflowStepID = req.WorkflowStepID
	}
	if req.Title != nil {
		task.Title = *req.Title
	}
	if req.Description != nil {
		task.Description = *req.Description
	}
	if req.Status != nil {
		task.Status = models.TaskStatus(*req.Status)
	}
	if req.Priority != nil {
		task.Priority = models.TaskPriority(*req.Priority)
	}
	if req.AssigneeID != nil {
		task.AssigneeID = req.AssigneeID
	}
	if req.DueDate != nil {
		task.DueDate = req.DueDate
	}

	if err := s.repo.Update(ctx, task); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update task")
	}

	if err := s.audit.Record(ctx, meta, models.AuditActionUpdate, "task", task.ID, fmt.Sprintf("updated task %s", task.Title)); err != nil {
		return nil, err
	}
	if s.stats != nil {
		s.stats.InvalidateCaches(ctx)
	}
	return task, nil
}

// Delete removes the task row. Deleting an absent task still succeeds.
func (s *TaskService) Delete(ctx context.Context, meta models.RequestMeta, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete task")
	}
	if err := s.audit.Record(ctx, meta, models.AuditActionDelete, "task", id, "deleted task"); err != nil {
		return err
	}
	if s.stats != nil {
		s.stats.InvalidateCaches(ctx)
	}
	return nil
}
